// draw/types.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package draw implements interactive drawing of terrain-draped
// annotations: picking geodetic positions under the pointer, the
// per-tool drawing state machine, routing pointer events to it, and
// turning shapes into renderable nodes.
package draw

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mmp/geodraw/math"
	"github.com/mmp/geodraw/renderer"
)

type DrawingTool int

const (
	ToolNone DrawingTool = iota
	ToolPoint
	ToolPolyline
	ToolRectangle
	ToolFreehand
)

func (t DrawingTool) String() string {
	switch t {
	case ToolNone:
		return "none"
	case ToolPoint:
		return "point"
	case ToolPolyline:
		return "polyline"
	case ToolRectangle:
		return "rectangle"
	case ToolFreehand:
		return "freehand"
	default:
		return fmt.Sprintf("DrawingTool(%d)", int(t))
	}
}

func ParseDrawingTool(s string) (DrawingTool, error) {
	for t := ToolNone; t <= ToolFreehand; t++ {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return ToolNone, fmt.Errorf("%q: unknown drawing tool", s)
}

type PrimitiveKind int

const (
	PrimitivePoint PrimitiveKind = iota
	PrimitivePolyline
	PrimitivePolygon
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimitivePoint:
		return "point"
	case PrimitivePolyline:
		return "polyline"
	case PrimitivePolygon:
		return "polygon"
	default:
		return fmt.Sprintf("PrimitiveKind(%d)", int(k))
	}
}

// StrokeStyle is the outline appearance of a primitive.
type StrokeStyle struct {
	Color           renderer.RGBA
	ThicknessPixels float32
}

// PrimitiveDefinition is a complete description of a shape to render.
// Committed definitions are never modified.
type PrimitiveDefinition struct {
	Kind        PrimitiveKind
	Vertices    []math.GeoPoint
	Stroke      StrokeStyle
	Filled      bool
	FillOpacity float64
}

func (d PrimitiveDefinition) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s stroke=%s width=%.1f", d.Kind, d.Stroke.Color, d.Stroke.ThicknessPixels)
	if d.Filled {
		fmt.Fprintf(&sb, " fill=%.2f", d.FillOpacity)
	}
	for _, v := range d.Vertices {
		sb.WriteString(" ")
		sb.WriteString(v.String())
	}
	return sb.String()
}

// Draft is the shape currently being drawn.
type Draft struct {
	Vertices          []math.GeoPoint
	Preview           *math.GeoPoint
	RectangleDragging bool
	FreehandDrawing   bool
}

func (d Draft) clone() Draft {
	c := d
	c.Vertices = slices.Clone(d.Vertices)
	if d.Preview != nil {
		p := *d.Preview
		c.Preview = &p
	}
	return c
}
