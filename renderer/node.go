// renderer/node.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"

	"github.com/mmp/geodraw/math"

	"github.com/google/uuid"
)

// NodeID is an opaque handle for a node that has been handed to a layer.
// The zero NodeID never refers to a node.
type NodeID uuid.UUID

func NewNodeID() NodeID {
	return NodeID(uuid.New())
}

func (id NodeID) IsValid() bool {
	return id != NodeID(uuid.Nil)
}

func (id NodeID) String() string {
	return uuid.UUID(id).String()
}

type GeometryKind int

const (
	GeometryPoints GeometryKind = iota
	GeometryLineString
	// GeometryPolygon is a single ring; its vertex list repeats the first
	// vertex at the end.
	GeometryPolygon
)

func (g GeometryKind) String() string {
	switch g {
	case GeometryPoints:
		return "points"
	case GeometryLineString:
		return "linestring"
	case GeometryPolygon:
		return "polygon"
	default:
		return fmt.Sprintf("GeometryKind(%d)", int(g))
	}
}

type AltitudeClamping int

const (
	ClampNone AltitudeClamping = iota
	ClampToTerrain
)

type AltitudeTechnique int

const (
	TechniqueGPU AltitudeTechnique = iota
	TechniqueDrape
)

type AltitudeBinding int

const (
	BindingVertex AltitudeBinding = iota
	BindingCentroid
)

// AltitudeStyle says how a node's vertex altitudes relate to the terrain.
type AltitudeStyle struct {
	Clamping  AltitudeClamping
	Technique AltitudeTechnique
	Binding   AltitudeBinding
}

type RenderStyle struct {
	Lighting    bool
	DepthTest   bool
	DepthOffset bool // automatic depth offset
	Transparent bool
}

type PointStyle struct {
	Color  RGBA
	Size   float32 // pixels
	Smooth bool
}

type LineStyle struct {
	Color       RGBA
	WidthPixels float32
	Smooth      bool
}

type FillStyle struct {
	Color   RGBA
	Outline bool
}

// Style holds the symbology for a Node; nil symbols are not drawn.
type Style struct {
	Altitude AltitudeStyle
	Render   RenderStyle
	Point    *PointStyle
	Line     *LineStyle
	Fill     *FillStyle
}

// DrapedStyle returns a Style with altitudes clamped and draped onto the
// terrain per vertex, lighting off, depth test and automatic depth offset
// on, and transparency enabled.
func DrapedStyle() Style {
	return Style{
		Altitude: AltitudeStyle{Clamping: ClampToTerrain, Technique: TechniqueDrape, Binding: BindingVertex},
		Render:   RenderStyle{Lighting: false, DepthTest: true, DepthOffset: true, Transparent: true},
	}
}

// Node is a renderable, geo-referenced feature.
type Node struct {
	ID       NodeID
	Name     string
	Geometry GeometryKind
	Vertices []math.GeoPoint
	Style    Style
}

func (n *Node) String() string {
	return fmt.Sprintf("%s %s %s: %d vertices", n.Name, n.ID, n.Geometry, len(n.Vertices))
}

// Bounds returns the lon/lat extent of the node's vertices.
func (n *Node) Bounds() math.Extent2D {
	return math.ExtentOfGeoPoints(n.Vertices)
}

// GenerateCommands encodes the node in cb with vertices in lon/lat
// coordinates. scale is the ratio of framebuffer to window pixels.
func (n *Node) GenerateCommands(cb *CommandBuffer, scale float32) {
	if len(n.Vertices) == 0 {
		return
	}

	p := make([][2]float32, len(n.Vertices))
	for i, v := range n.Vertices {
		p[i] = [2]float32{float32(v.LongitudeDeg), float32(v.LatitudeDeg)}
	}

	r := n.Style.Render
	cb.DepthTest(r.DepthTest)
	cb.DepthOffset(r.DepthOffset)
	if r.Transparent {
		cb.Blend()
	}

	if f := n.Style.Fill; f != nil && n.Geometry == GeometryPolygon {
		td := GetTrianglesDrawBuilder()
		defer ReturnTrianglesDrawBuilder(td)

		td.AddPolygon(p)
		cb.SetRGBA(f.Color)
		td.GenerateCommands(cb)
	}

	if l := n.Style.Line; l != nil && n.Geometry != GeometryPoints {
		ld := GetLinesDrawBuilder()
		defer ReturnLinesDrawBuilder(ld)

		ld.AddLineStrip(p)
		cb.Smooth(l.Smooth)
		cb.SetRGBA(l.Color)
		cb.LineWidth(l.WidthPixels, scale)
		ld.GenerateCommands(cb)
	}

	if ps := n.Style.Point; ps != nil {
		pd := GetPointsDrawBuilder()
		defer ReturnPointsDrawBuilder(pd)

		for _, v := range p {
			pd.AddPoint(v)
		}
		cb.Smooth(ps.Smooth)
		cb.SetRGBA(ps.Color)
		cb.PointSize(ps.Size, scale)
		pd.GenerateCommands(cb)
	}

	if r.Transparent {
		cb.DisableBlend()
	}
}
