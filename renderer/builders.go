// renderer/builders.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"sync"

	"github.com/mmp/geodraw/math"

	"github.com/mmp/earcut-go"
)

///////////////////////////////////////////////////////////////////////////
// DrawBuilders

// The various *DrawBuilder classes provide capabilities for specifying a
// number of independent things of the same type to draw and then
// generating corresponding buffer storage and draw commands in a
// CommandBuffer. This allows batching up many things to be drawn all in a
// single draw command.

// LinesDrawBuilder accumulates lines to be drawn together. Whatever the
// current color is (as set via the CommandBuffer SetRGBA method) is used
// when drawing them.
type LinesDrawBuilder struct {
	p       [][2]float32
	indices []int32
}

// Reset resets the internal arrays used for accumulating lines,
// maintaining the initial allocations.
func (l *LinesDrawBuilder) Reset() {
	l.p = l.p[:0]
	l.indices = l.indices[:0]
}

// AddLine adds a lines with the specified vertex positions to the set of
// lines to be drawn.
func (l *LinesDrawBuilder) AddLine(p0, p1 [2]float32) {
	idx := int32(len(l.p))
	l.p = append(l.p, p0, p1)
	l.indices = append(l.indices, idx, idx+1)
}

// AddLineStrip adds multiple lines to the lines draw builder where each
// line is given by a successive pair of points, a la GL_LINE_STRIP.
func (l *LinesDrawBuilder) AddLineStrip(p [][2]float32) {
	idx := int32(len(l.p))
	l.p = append(l.p, p...)
	for i := 0; i < len(p)-1; i++ {
		l.indices = append(l.indices, idx+int32(i), idx+int32((i+1)))
	}
}

// Adds a line loop, like a line strip but where the last vertex connects
// to the first, a la GL_LINE_LOOP.
func (l *LinesDrawBuilder) AddLineLoop(p [][2]float32) {
	if len(p) < 2 {
		return
	}
	idx := int32(len(l.p))
	l.p = append(l.p, p...)
	for i := range p {
		l.indices = append(l.indices, idx+int32(i), idx+int32((i+1)%len(p)))
	}
}

// Bounds returns the 2D bounding box of the specified lines.
func (l *LinesDrawBuilder) Bounds() math.Extent2D {
	return extentOf(l.p)
}

// GenerateCommands adds commands to the specified command buffer to draw
// the lines stored in the LinesDrawBuilder.
func (l *LinesDrawBuilder) GenerateCommands(cb *CommandBuffer) {
	if len(l.indices) == 0 {
		return
	}

	// Add the vertex positions to the command buffer.
	p := cb.Float2Buffer(l.p)
	cb.VertexArray(p, 2, 2*4)

	// Add the vertex indices and issue the draw command.
	ind := cb.IntBuffer(l.indices)
	cb.DrawLines(ind, len(l.indices))

	// Clean up
	cb.DisableVertexArray()
}

// LinesDrawBuilders are managed using a sync.Pool so that their buf slice
// allocations persist across multiple uses.
var linesDrawBuilderPool = sync.Pool{New: func() any { return &LinesDrawBuilder{} }}

func GetLinesDrawBuilder() *LinesDrawBuilder {
	return linesDrawBuilderPool.Get().(*LinesDrawBuilder)
}

func ReturnLinesDrawBuilder(ld *LinesDrawBuilder) {
	ld.Reset()
	linesDrawBuilderPool.Put(ld)
}

// TrianglesDrawBuilder collects triangles to be batched up in a single
// draw call. The current color as specified by a call to the
// CommandBuffer SetRGBA method is used for all triangles.
type TrianglesDrawBuilder struct {
	p       [][2]float32
	indices []int32
}

func (t *TrianglesDrawBuilder) Reset() {
	t.p = t.p[:0]
	t.indices = t.indices[:0]
}

// AddTriangle adds a triangle with the specified three vertices to be
// drawn.
func (t *TrianglesDrawBuilder) AddTriangle(p0, p1, p2 [2]float32) {
	idx := int32(len(t.p))
	t.p = append(t.p, p0, p1, p2)
	t.indices = append(t.indices, idx, idx+1, idx+2)
}

// AddPolygon triangulates the simple polygon given by the ring p and adds
// the triangles. A closing vertex equal to the first is ignored.
func (t *TrianglesDrawBuilder) AddPolygon(p [][2]float32) {
	if len(p) > 1 && p[0] == p[len(p)-1] {
		p = p[:len(p)-1]
	}
	if len(p) < 3 {
		return
	}

	ring := make([]earcut.Vertex, len(p))
	for i, v := range p {
		ring[i].P = [2]float64{float64(v[0]), float64(v[1])}
	}

	for _, tri := range earcut.Triangulate(earcut.Polygon{Rings: [][]earcut.Vertex{ring}}) {
		var v32 [3][2]float32
		for i, v64 := range tri.Vertices {
			v32[i] = [2]float32{float32(v64.P[0]), float32(v64.P[1])}
		}
		t.AddTriangle(v32[0], v32[1], v32[2])
	}
}

func (t *TrianglesDrawBuilder) Bounds() math.Extent2D {
	return extentOf(t.p)
}

func (t *TrianglesDrawBuilder) GenerateCommands(cb *CommandBuffer) {
	if len(t.indices) == 0 {
		return
	}

	p := cb.Float2Buffer(t.p)
	cb.VertexArray(p, 2, 2*4)

	ind := cb.IntBuffer(t.indices)
	cb.DrawTriangles(ind, len(t.indices))

	cb.DisableVertexArray()
}

// TrianglesDrawBuilders are managed using a sync.Pool so that their buf
// slice allocations persist across multiple uses.
var trianglesDrawBuilderPool = sync.Pool{New: func() any { return &TrianglesDrawBuilder{} }}

func GetTrianglesDrawBuilder() *TrianglesDrawBuilder {
	return trianglesDrawBuilderPool.Get().(*TrianglesDrawBuilder)
}

func ReturnTrianglesDrawBuilder(td *TrianglesDrawBuilder) {
	td.Reset()
	trianglesDrawBuilderPool.Put(td)
}

// PointsDrawBuilder accumulates points; their size is given by the
// CommandBuffer PointSize command.
type PointsDrawBuilder struct {
	p       [][2]float32
	indices []int32
}

func (pb *PointsDrawBuilder) Reset() {
	pb.p = pb.p[:0]
	pb.indices = pb.indices[:0]
}

func (pb *PointsDrawBuilder) AddPoint(p [2]float32) {
	pb.indices = append(pb.indices, int32(len(pb.p)))
	pb.p = append(pb.p, p)
}

func (pb *PointsDrawBuilder) Bounds() math.Extent2D {
	return extentOf(pb.p)
}

func (pb *PointsDrawBuilder) GenerateCommands(cb *CommandBuffer) {
	if len(pb.indices) == 0 {
		return
	}

	p := cb.Float2Buffer(pb.p)
	cb.VertexArray(p, 2, 2*4)

	ind := cb.IntBuffer(pb.indices)
	cb.DrawPoints(ind, len(pb.indices))

	cb.DisableVertexArray()
}

var pointsDrawBuilderPool = sync.Pool{New: func() any { return &PointsDrawBuilder{} }}

func GetPointsDrawBuilder() *PointsDrawBuilder {
	return pointsDrawBuilderPool.Get().(*PointsDrawBuilder)
}

func ReturnPointsDrawBuilder(pb *PointsDrawBuilder) {
	pb.Reset()
	pointsDrawBuilderPool.Put(pb)
}

func extentOf(p [][2]float32) math.Extent2D {
	e := math.EmptyExtent2D()
	for _, v := range p {
		e = math.Union(e, [2]float64{float64(v[0]), float64(v[1])})
	}
	return e
}
