// draw/controller_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package draw

import (
	gomath "math"
	"slices"
	"strings"
	"testing"

	"github.com/mmp/geodraw/math"
	"github.com/mmp/geodraw/renderer"
	"github.com/mmp/geodraw/scene"
)

// Degrees of latitude per meter on the sphere DistanceMeters uses.
const degreesPerMeter = 180 / (gomath.Pi * math.EarthRadiusMeters)

func ll(lon, lat, alt float64) math.GeoPoint {
	return math.GeoPoint{LongitudeDeg: lon, LatitudeDeg: lat, AltitudeMeters: alt}
}

// north returns the point the given number of meters north of p.
func north(p math.GeoPoint, meters float64) math.GeoPoint {
	p.LatitudeDeg += meters * degreesPerMeter
	return p
}

func newTestController(t *testing.T, tool DrawingTool) (*Controller, *scene.Map) {
	t.Helper()
	m := scene.NewMap(scene.Geographic{Ellipsoid: math.WGS84}, nil)
	c := NewController(DefaultConfig(), nil)
	c.SetMapNode(m)
	c.SetTool(tool)
	return c, m
}

func TestPolylineScenario(t *testing.T) {
	c, m := newTestController(t, ToolPolyline)

	c.PointerPress(ll(0, 0, 0))
	c.PointerDrag(ll(0, 0.0005, 0))
	c.PointerPress(ll(0, 0.001, 0))
	// Less than a meter from the last vertex
	c.PointerPress(ll(0, 0.0010001, 0))
	if d, ok := c.Draft(); !ok || len(d.Vertices) != 2 {
		t.Fatalf("got draft %+v, expected 2 vertices", d)
	}

	c.PointerDoubleClick(ll(0, 0.002, 0))

	committed := c.Committed()
	if len(committed) != 1 {
		t.Fatalf("got %d committed primitives, expected 1", len(committed))
	}
	def := committed[0]
	expected := []math.GeoPoint{ll(0, 0, 0), ll(0, 0.001, 0), ll(0, 0.002, 0)}
	if def.Kind != PrimitivePolyline || !slices.Equal(def.Vertices, expected) {
		t.Errorf("got %s, expected polyline through %v", def, expected)
	}
	if def.Stroke != c.cfg.DefaultStroke() {
		t.Errorf("got stroke %+v, expected %+v", def.Stroke, c.cfg.DefaultStroke())
	}
	if _, ok := c.Draft(); ok {
		t.Errorf("draft remains after commit")
	}
	if _, ok := c.PreviewNode(); ok {
		t.Errorf("preview remains after commit")
	}
	if n := m.MemoryLayer(LayerName).Len(); n != 1 {
		t.Errorf("got %d nodes in layer, expected 1", n)
	}
}

// Drags only move the preview point of a polyline; vertices come from
// presses and the final double-click.
func TestPolylineDragDoesNotAppend(t *testing.T) {
	c, _ := newTestController(t, ToolPolyline)

	c.PointerPress(ll(0, 0, 0))
	c.PointerDrag(ll(0, 0.001, 0))
	c.PointerDrag(ll(0, 0.0000001, 0))
	if d, ok := c.Draft(); !ok || len(d.Vertices) != 1 {
		t.Fatalf("got draft %+v, expected 1 vertex", d)
	} else if d.Preview == nil || *d.Preview != ll(0, 0.0000001, 0) {
		t.Errorf("got preview point %v, expected the last drag position", d.Preview)
	}

	c.PointerDoubleClick(ll(0, 0.002, 0))

	committed := c.Committed()
	if len(committed) != 1 {
		t.Fatalf("got %d committed primitives, expected 1", len(committed))
	}
	expected := []math.GeoPoint{ll(0, 0, 0), ll(0, 0.002, 0)}
	if !slices.Equal(committed[0].Vertices, expected) {
		t.Errorf("got vertices %v, expected %v", committed[0].Vertices, expected)
	}
}

func TestRectangleScenario(t *testing.T) {
	c, _ := newTestController(t, ToolRectangle)

	c.PointerPress(ll(10, 20, 5))
	c.PointerRelease(ll(10.01, 20.01, 15))

	committed := c.Committed()
	if len(committed) != 1 {
		t.Fatalf("got %d committed primitives, expected 1", len(committed))
	}
	def := committed[0]
	if def.Kind != PrimitivePolygon || !def.Filled || def.FillOpacity != 0.35 {
		t.Errorf("got %s, expected filled polygon with opacity 0.35", def)
	}
	if len(def.Vertices) != 4 {
		t.Fatalf("got %d vertices, expected 4", len(def.Vertices))
	}
	for _, v := range def.Vertices {
		if v.AltitudeMeters != 10 {
			t.Errorf("%s: expected altitude 10", v)
		}
		if v.LongitudeDeg != 10 && v.LongitudeDeg != 10.01 {
			t.Errorf("%s: unexpected longitude", v)
		}
		if v.LatitudeDeg != 20 && v.LatitudeDeg != 20.01 {
			t.Errorf("%s: unexpected latitude", v)
		}
	}
}

func TestPointScenario(t *testing.T) {
	c, _ := newTestController(t, ToolPoint)

	c.PointerPress(ll(5, 5, 100))

	committed := c.Committed()
	if len(committed) != 1 {
		t.Fatalf("got %d committed primitives, expected 1", len(committed))
	}
	if def := committed[0]; def.Kind != PrimitivePoint || !slices.Equal(def.Vertices, []math.GeoPoint{ll(5, 5, 100)}) {
		t.Errorf("got %s, expected a point at 5,5,100", def)
	}
	if th := committed[0].Stroke.ThicknessPixels; gomath.Abs(float64(th)-4*1.6) > 1e-5 {
		t.Errorf("got point thickness %f, expected %f", th, 4*1.6)
	}
	if _, ok := c.Draft(); ok {
		t.Errorf("point tool left a draft")
	}
	if _, ok := c.PreviewNode(); ok {
		t.Errorf("point tool left a preview")
	}
}

func TestPolylineVertexCount(t *testing.T) {
	start := ll(-122.4, 37.8, 0)

	for _, tc := range []struct {
		name  string
		steps []float64 // meters north of the previous press
		count int
	}{
		{name: "all far", steps: []float64{10, 10, 10}, count: 4},
		{name: "all near", steps: []float64{0.5, 0.2, 0}, count: 1},
		{name: "mixed", steps: []float64{5, 0.9, 2, 0.1, 1.5}, count: 4},
		{name: "near accumulates", steps: []float64{0.6, 0.6, 0.6}, count: 2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestController(t, ToolPolyline)

			c.PointerPress(start)
			p := start
			for _, s := range tc.steps {
				p = north(p, s)
				c.PointerDrag(p)
				c.PointerPress(p)
			}
			// Final vertex, 100m beyond the last press.
			c.PointerDoubleClick(north(p, 100))

			committed := c.Committed()
			if len(committed) != 1 {
				t.Fatalf("got %d committed primitives, expected 1", len(committed))
			}
			if n := len(committed[0].Vertices); n != tc.count+1 {
				t.Errorf("got %d vertices, expected %d", n, tc.count+1)
			}
		})
	}
}

func TestPolylineDiscard(t *testing.T) {
	c, _ := newTestController(t, ToolPolyline)

	// A double-click at the only vertex leaves just one vertex.
	c.PointerPress(ll(1, 1, 0))
	c.PointerDoubleClick(ll(1, 1, 0))

	if n := len(c.Committed()); n != 0 {
		t.Errorf("got %d committed primitives, expected 0", n)
	}
	if _, ok := c.Draft(); ok {
		t.Errorf("draft remains after discard")
	}
}

func TestPolylinePreview(t *testing.T) {
	c, m := newTestController(t, ToolPolyline)

	c.PointerMove(ll(0, 0, 0))
	if _, ok := c.PreviewNode(); ok {
		t.Fatalf("preview before first vertex")
	}

	c.PointerPress(ll(0, 0, 0))
	c.PointerMove(ll(0.001, 0, 0))
	id0, ok := c.PreviewNode()
	if !ok {
		t.Fatalf("no preview after move")
	}
	c.PointerDrag(ll(0.002, 0, 0))
	id1, _ := c.PreviewNode()
	if id0 == id1 {
		t.Errorf("preview node was not replaced")
	}

	n, ok := c.Node(id1)
	if !ok {
		t.Fatalf("preview node %s not found", id1)
	}
	expected := []math.GeoPoint{ll(0, 0, 0), ll(0.002, 0, 0)}
	if !slices.Equal(n.Vertices, expected) {
		t.Errorf("got preview vertices %v, expected %v", n.Vertices, expected)
	}
	if d, _ := c.Draft(); len(d.Vertices) != 1 {
		t.Errorf("preview changed the draft: %v", d.Vertices)
	}
	if l := m.MemoryLayer(LayerName).Len(); l != 1 {
		t.Errorf("got %d nodes in layer, expected only the preview", l)
	}
}

func TestFreehand(t *testing.T) {
	c, _ := newTestController(t, ToolFreehand)

	p := ll(2, 48, 0)
	c.PointerPress(p)
	if d, ok := c.Draft(); !ok || !d.FreehandDrawing || d.Preview != nil {
		t.Fatalf("got draft %+v after press", d)
	}

	c.PointerDrag(north(p, 0.2)) // under a quarter meter
	c.PointerDrag(north(p, 0.5))
	c.PointerMove(north(p, 50))
	c.PointerDrag(north(p, 0.6))
	c.PointerDrag(north(p, 0.9))

	d, _ := c.Draft()
	if len(d.Vertices) != 3 {
		t.Errorf("got %d freehand vertices, expected 3", len(d.Vertices))
	}

	c.PointerRelease(north(p, 0.9))
	committed := c.Committed()
	if len(committed) != 1 || committed[0].Kind != PrimitivePolyline || len(committed[0].Vertices) != 3 {
		t.Fatalf("got %v, expected one 3-vertex polyline", committed)
	}
	if _, ok := c.Draft(); ok {
		t.Errorf("draft remains after release")
	}

	// A press and release with no movement draws nothing.
	c.PointerPress(p)
	c.PointerRelease(p)
	if n := len(c.Committed()); n != 1 {
		t.Errorf("got %d committed primitives, expected 1", n)
	}

	// Double-click also finishes the stroke.
	c.PointerPress(p)
	c.PointerDrag(north(p, 5))
	c.PointerDoubleClick(north(p, 5))
	if n := len(c.Committed()); n != 2 {
		t.Errorf("got %d committed primitives, expected 2", n)
	}
}

func TestRectangle(t *testing.T) {
	a := ll(-70, 42, 0)

	t.Run("click discards", func(t *testing.T) {
		c, _ := newTestController(t, ToolRectangle)
		c.PointerPress(a)
		c.PointerRelease(north(a, 0.5))
		if n := len(c.Committed()); n != 0 {
			t.Errorf("got %d committed primitives, expected 0", n)
		}
		if _, ok := c.Draft(); ok {
			t.Errorf("draft remains after release")
		}
	})

	t.Run("double-click forces", func(t *testing.T) {
		c, _ := newTestController(t, ToolRectangle)
		c.PointerPress(a)
		c.PointerDoubleClick(north(a, 0.5))
		if n := len(c.Committed()); n != 1 {
			t.Errorf("got %d committed primitives, expected 1", n)
		}
	})

	t.Run("press while dragging", func(t *testing.T) {
		c, _ := newTestController(t, ToolRectangle)
		c.PointerPress(a)
		c.PointerPress(north(a, 30))
		d, _ := c.Draft()
		if len(d.Vertices) != 1 || d.Vertices[0] != a {
			t.Errorf("got anchor %v, expected %s", d.Vertices, a)
		}
	})

	t.Run("preview", func(t *testing.T) {
		c, _ := newTestController(t, ToolRectangle)
		c.PointerPress(a)
		c.PointerMove(ll(-69.99, 42.01, 10))

		id, ok := c.PreviewNode()
		if !ok {
			t.Fatalf("no preview")
		}
		n, _ := c.Node(id)
		if n.Geometry != renderer.GeometryPolygon || len(n.Vertices) != 5 || n.Vertices[0] != n.Vertices[4] {
			t.Errorf("got preview %s %v, expected closed 4-corner polygon", n, n.Vertices)
		}
		if n.Style.Fill == nil {
			t.Fatalf("preview has no fill")
		}
		if alpha := n.Style.Fill.Color.A; gomath.Abs(float64(alpha)-0.65*0.28) > 1e-5 {
			t.Errorf("got preview fill alpha %f, expected %f", alpha, 0.65*0.28)
		}
	})

	t.Run("corner swap", func(t *testing.T) {
		p, q := ll(3, 4, 10), ll(3.5, 4.5, 30)
		r0, r1 := math.RectangleVertices(p, q), math.RectangleVertices(q, p)
		for _, v := range r0 {
			if !slices.Contains(r1[:], v) {
				t.Errorf("%s missing from swapped rectangle %v", v, r1)
			}
			if v.AltitudeMeters != 20 {
				t.Errorf("%s: expected mean altitude 20", v)
			}
		}
	})
}

func TestToolSwitchDiscards(t *testing.T) {
	a := ll(8, 47, 0)

	for _, tool := range []DrawingTool{ToolPolyline, ToolRectangle, ToolFreehand} {
		for _, next := range []DrawingTool{ToolNone, ToolPoint, ToolPolyline, ToolRectangle, ToolFreehand} {
			if next == tool {
				continue
			}
			t.Run(tool.String()+"->"+next.String(), func(t *testing.T) {
				c, m := newTestController(t, ToolPoint)
				c.PointerPress(ll(0, 0, 0))

				c.SetTool(tool)
				c.PointerPress(a)
				c.PointerDrag(north(a, 100))
				c.PointerPress(north(a, 200))
				if _, ok := c.Draft(); !ok {
					t.Fatalf("no draft with %s", tool)
				}

				c.SetTool(next)
				if n := len(c.Committed()); n != 1 {
					t.Errorf("got %d committed primitives, expected 1", n)
				}
				if _, ok := c.Draft(); ok {
					t.Errorf("draft survived tool switch")
				}
				if _, ok := c.PreviewNode(); ok {
					t.Errorf("preview survived tool switch")
				}
				if n := m.MemoryLayer(LayerName).Len(); n != 1 {
					t.Errorf("got %d nodes in layer, expected 1", n)
				}
				if c.InteractionEnabled() != (next != ToolNone) {
					t.Errorf("interaction enabled = %v with %s", c.InteractionEnabled(), next)
				}
			})
		}
	}
}

func TestSetToolUnchanged(t *testing.T) {
	c, _ := newTestController(t, ToolPolyline)
	c.PointerPress(ll(0, 0, 0))
	c.SetTool(ToolPolyline)
	if _, ok := c.Draft(); !ok {
		t.Errorf("selecting the active tool discarded the draft")
	}
}

func TestClearDrawings(t *testing.T) {
	c, m := newTestController(t, ToolPoint)
	c.PointerPress(ll(0, 0, 0))
	c.PointerPress(ll(1, 1, 0))
	c.SetTool(ToolPolyline)
	c.PointerPress(ll(2, 2, 0))

	ids := c.CommittedNodes()
	if len(ids) != 2 {
		t.Fatalf("got %d committed nodes, expected 2", len(ids))
	}
	for _, id := range ids {
		if _, ok := c.Node(id); !ok {
			t.Errorf("%s: committed node not live", id)
		}
	}

	c.ClearDrawings()

	if n := len(c.Committed()); n != 0 {
		t.Errorf("got %d committed primitives after clear", n)
	}
	for _, id := range ids {
		if _, ok := c.Node(id); ok {
			t.Errorf("%s: node still live after clear", id)
		}
		if _, ok := m.MemoryLayer(LayerName).Get(id); ok {
			t.Errorf("%s: node still in layer after clear", id)
		}
	}
	if _, ok := c.Draft(); ok {
		t.Errorf("draft survived clear")
	}
	if n := m.MemoryLayer(LayerName).Len(); n != 0 {
		t.Errorf("got %d nodes in layer after clear", n)
	}
	if n := c.binding.NumNodes(); n != 0 {
		t.Errorf("got %d live nodes after clear", n)
	}
}

func TestStrokeChanges(t *testing.T) {
	c, _ := newTestController(t, ToolPolyline)

	for _, tc := range []struct {
		set, expected float32
	}{
		{set: 6, expected: 6},
		{set: 6.005, expected: 6},
		{set: 100, expected: 20},
		{set: 0, expected: 1},
		{set: -3, expected: 1},
	} {
		c.SetStrokeThickness(tc.set)
		if th := c.StrokeThickness(); th != tc.expected {
			t.Errorf("SetStrokeThickness(%f): got %f, expected %f", tc.set, th, tc.expected)
		}
	}

	c.PointerPress(ll(0, 0, 0))
	c.PointerMove(ll(0.01, 0, 0))
	id0, _ := c.PreviewNode()

	blue := renderer.RGBA{R: 0, G: 0, B: 1, A: 1}
	c.SetStrokeColor(blue)
	id1, ok := c.PreviewNode()
	if !ok || id1 == id0 {
		t.Fatalf("preview not rebuilt after color change")
	}
	n, _ := c.Node(id1)
	if n.Style.Line == nil || n.Style.Line.Color != blue.ScaleAlpha(0.65) {
		t.Errorf("got preview line style %+v, expected color %s", n.Style.Line, blue.ScaleAlpha(0.65))
	}

	c.SetStrokeThickness(12)
	id2, _ := c.PreviewNode()
	n, _ = c.Node(id2)
	if id2 == id1 || n.Style.Line.WidthPixels != 12 {
		t.Errorf("preview not rebuilt with new thickness")
	}

	c.PointerDoubleClick(ll(0.02, 0, 0))
	if def := c.Committed()[0]; def.Stroke != (StrokeStyle{Color: blue, ThicknessPixels: 12}) {
		t.Errorf("got committed stroke %+v", def.Stroke)
	}
}

func TestStrokeColorClamped(t *testing.T) {
	c, _ := newTestController(t, ToolPolyline)

	c.SetStrokeColor(renderer.RGBA{R: 1.5, G: -0.2, B: 0.5, A: 2})
	expected := renderer.RGBA{R: 1, G: 0, B: 0.5, A: 1}
	if sc := c.StrokeColor(); sc != expected {
		t.Errorf("got stroke color %s, expected %s", sc, expected)
	}

	inRange := func(c renderer.RGBA) bool {
		for _, v := range []float32{c.R, c.G, c.B, c.A} {
			if v < 0 || v > 1 {
				return false
			}
		}
		return true
	}

	c.PointerPress(ll(0, 0, 0))
	c.PointerMove(ll(0.01, 0, 0))
	id, ok := c.PreviewNode()
	if !ok {
		t.Fatalf("no preview node")
	}
	if n, _ := c.Node(id); !inRange(n.Style.Line.Color) {
		t.Errorf("got preview line color %s, expected channels in [0,1]", n.Style.Line.Color)
	}

	c.PointerDoubleClick(ll(0.02, 0, 0))
	ids := c.CommittedNodes()
	if len(ids) != 1 {
		t.Fatalf("got %d committed nodes, expected 1", len(ids))
	}
	n, _ := c.Node(ids[0])
	if n.Style.Line.Color != expected {
		t.Errorf("got committed line color %s, expected %s", n.Style.Line.Color, expected)
	}
	if def := c.Committed()[0]; def.Stroke.Color != expected {
		t.Errorf("got committed stroke color %s, expected %s", def.Stroke.Color, expected)
	}
}

func TestNoMapIgnoresPointer(t *testing.T) {
	c := NewController(DefaultConfig(), nil)
	c.SetTool(ToolPoint)
	c.PointerPress(ll(0, 0, 0))
	if n := len(c.Committed()); n != 0 {
		t.Errorf("got %d committed primitives with no map", n)
	}

	c.SetTool(ToolNone)
	c.SetMapNode(scene.NewMap(scene.Geographic{Ellipsoid: math.WGS84}, nil))
	c.PointerPress(ll(0, 0, 0))
	if n := len(c.Committed()); n != 0 {
		t.Errorf("got %d committed primitives with no tool", n)
	}
}

func TestCommittedIsCopy(t *testing.T) {
	c, _ := newTestController(t, ToolPoint)
	c.PointerPress(ll(1, 2, 3))

	defs := c.Committed()
	defs[0].Vertices[0].LatitudeDeg = 50

	if lat := c.Committed()[0].Vertices[0].LatitudeDeg; lat != 2 {
		t.Errorf("committed primitive was modified through Committed: latitude %f", lat)
	}
}

func TestSetMapNodeMovesLayer(t *testing.T) {
	c, m0 := newTestController(t, ToolPoint)
	c.PointerPress(ll(0, 0, 0))
	c.SetTool(ToolPolyline)
	c.PointerPress(ll(1, 0, 0))
	c.PointerMove(ll(2, 0, 0))

	m1 := scene.NewMap(scene.Geographic{Ellipsoid: math.WGS84}, nil)
	c.SetMapNode(m1)

	if m0.HasLayer(LayerName) {
		t.Errorf("drawing layer still attached to the old map")
	}
	nodes := m1.MemoryLayer(LayerName).Nodes()
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes in new layer, expected 2", len(nodes))
	}
	if nodes[1].Name != PreviewNodeName {
		t.Errorf("got %q last, expected the preview", nodes[1].Name)
	}
}

func TestDumpState(t *testing.T) {
	c, _ := newTestController(t, ToolRectangle)
	c.PointerPress(ll(1, 1, 0))

	s := c.DumpState()
	for _, expected := range []string{"rectangle", "RectangleDragging"} {
		if !strings.Contains(s, expected) {
			t.Errorf("dump is missing %q:\n%s", expected, s)
		}
	}
}
