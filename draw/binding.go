// draw/binding.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package draw

import (
	"maps"
	"slices"

	"github.com/mmp/geodraw/log"
	"github.com/mmp/geodraw/math"
	"github.com/mmp/geodraw/renderer"
	"github.com/mmp/geodraw/scene"
)

const (
	LayerName         = "MapDrawingRoot"
	PreviewNodeName   = "MapDrawingPreview"
	PrimitiveNodeName = "MapDrawingPrimitive"
)

// Binding turns PrimitiveDefinitions into renderer nodes in the map's
// drawing layer. It owns every node it creates, keyed by NodeID; at most
// one of them is the preview.
type Binding struct {
	cfg   Config
	m     scene.MapNode
	layer scene.Layer

	nodes   map[renderer.NodeID]*renderer.Node
	preview renderer.NodeID

	lg *log.Logger
}

func NewBinding(cfg Config, lg *log.Logger) *Binding {
	return &Binding{
		cfg:   cfg,
		nodes: make(map[renderer.NodeID]*renderer.Node),
		lg:    lg,
	}
}

// SetMap moves all live nodes from the previous map's drawing layer to
// m's. m may be nil, in which case the nodes are kept but not attached to
// anything and Render fails until a map is set again. m must be nil or
// a valid MapNode; a typed nil pointer is not detected.
func (b *Binding) SetMap(m scene.MapNode) {
	if b.m == m {
		return
	}

	if b.layer != nil {
		for id := range b.nodes {
			b.layer.RemoveChild(id)
		}
		b.m.DetachLayer(LayerName)
		b.layer = nil
	}

	b.m = m
	if m == nil {
		return
	}

	b.layer = m.AttachLayer(LayerName)
	for _, id := range b.sortedIDs() {
		b.layer.AddChild(b.nodes[id])
	}
}

// sortedIDs returns the IDs of the live nodes in a stable order with the
// preview last.
func (b *Binding) sortedIDs() []renderer.NodeID {
	ids := slices.Collect(maps.Keys(b.nodes))
	slices.SortFunc(ids, func(a, c renderer.NodeID) int {
		if a == b.preview {
			return 1
		} else if c == b.preview {
			return -1
		}
		return slices.Compare(a[:], c[:])
	})
	return ids
}

// BuildNode returns the node for def. preview, if non-nil, is appended
// to the vertices of line and polygon shapes. It returns false if there
// is nothing to draw.
func (b *Binding) BuildNode(def PrimitiveDefinition, preview *math.GeoPoint, isPreview bool) (*renderer.Node, bool) {
	verts := slices.Clone(def.Vertices)
	if preview != nil && def.Kind != PrimitivePoint {
		verts = append(verts, *preview)
	}
	if len(verts) == 0 {
		return nil, false
	}
	if def.Kind == PrimitivePolygon && len(verts) > 1 && verts[0] != verts[len(verts)-1] {
		verts = append(verts, verts[0])
	}

	color := def.Stroke.Color.Clamp()
	name := PrimitiveNodeName
	if isPreview {
		color = color.ScaleAlpha(b.cfg.PreviewAlphaScale)
		name = PreviewNodeName
	}

	n := &renderer.Node{
		ID:       renderer.NewNodeID(),
		Name:     name,
		Vertices: verts,
		Style:    renderer.DrapedStyle(),
	}

	switch def.Kind {
	case PrimitivePoint:
		n.Geometry = renderer.GeometryPoints
		n.Style.Point = &renderer.PointStyle{
			Color:  color,
			Size:   math.Max(def.Stroke.ThicknessPixels*b.cfg.PointSizeFactor, b.cfg.MinPointSize),
			Smooth: true,
		}

	case PrimitivePolyline, PrimitivePolygon:
		n.Geometry = renderer.GeometryLineString
		if def.Kind == PrimitivePolygon {
			n.Geometry = renderer.GeometryPolygon
		}
		n.Style.Line = &renderer.LineStyle{
			Color:       color,
			WidthPixels: def.Stroke.ThicknessPixels,
			Smooth:      true,
		}
		if def.Kind == PrimitivePolygon && def.Filled {
			n.Style.Fill = &renderer.FillStyle{
				Color:   color.ScaleAlpha(float32(def.FillOpacity)),
				Outline: true,
			}
		}

	default:
		b.lg.Warnf("%s: unexpected primitive kind", def.Kind)
		return nil, false
	}

	return n, true
}

// Render creates a node for def and adds it to the drawing layer.
func (b *Binding) Render(def PrimitiveDefinition, preview *math.GeoPoint, isPreview bool) (renderer.NodeID, bool) {
	if b.m == nil || b.layer == nil || b.m.SpatialReference() == nil {
		b.lg.Debug("render: no spatial reference")
		return renderer.NodeID{}, false
	}

	n, ok := b.BuildNode(def, preview, isPreview)
	if !ok {
		return renderer.NodeID{}, false
	}
	b.nodes[n.ID] = n
	b.layer.AddChild(n)
	return n.ID, true
}

// ReplacePreview removes the current preview node, if any, and then
// renders def as the new preview.
func (b *Binding) ReplacePreview(def PrimitiveDefinition, preview *math.GeoPoint) (renderer.NodeID, bool) {
	b.ClearPreview()

	id, ok := b.Render(def, preview, true)
	if ok {
		b.preview = id
	}
	return id, ok
}

func (b *Binding) ClearPreview() {
	if b.preview.IsValid() {
		b.Release(b.preview)
	}
}

// Release removes the node from the layer and forgets it. Unknown IDs
// are ignored.
func (b *Binding) Release(id renderer.NodeID) {
	if _, ok := b.nodes[id]; !ok {
		return
	}
	if b.layer != nil {
		b.layer.RemoveChild(id)
	}
	delete(b.nodes, id)
	if id == b.preview {
		b.preview = renderer.NodeID{}
	}
}

func (b *Binding) ReleaseAll() {
	for id := range b.nodes {
		b.Release(id)
	}
}

// Node returns the live node with the given ID.
func (b *Binding) Node(id renderer.NodeID) (*renderer.Node, bool) {
	n, ok := b.nodes[id]
	return n, ok
}

func (b *Binding) PreviewNode() (renderer.NodeID, bool) {
	return b.preview, b.preview.IsValid()
}

func (b *Binding) NumNodes() int {
	return len(b.nodes)
}
