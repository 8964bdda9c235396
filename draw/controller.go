// draw/controller.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package draw

import (
	"github.com/mmp/geodraw/log"
	"github.com/mmp/geodraw/math"
	"github.com/mmp/geodraw/renderer"
	"github.com/mmp/geodraw/scene"

	"github.com/brunoga/deep"
	"github.com/goforj/godump"
)

type committedPrimitive struct {
	def  PrimitiveDefinition
	node renderer.NodeID
}

// Controller is the drawing state machine. It holds the active tool and
// stroke, the shape being drawn, and the shapes that have been
// committed. Pointer positions arrive already picked, usually from the
// Controller's Router.
//
// Controller is not safe for concurrent use; the host must deliver all
// calls from a single goroutine.
type Controller struct {
	cfg Config

	tool        DrawingTool
	interaction bool
	stroke      StrokeStyle

	draft     Draft
	committed []committedPrimitive

	m       scene.MapNode
	binding *Binding
	router  *Router

	lg *log.Logger
}

func NewController(cfg Config, lg *log.Logger) *Controller {
	c := &Controller{
		cfg:     cfg,
		stroke:  cfg.DefaultStroke(),
		binding: NewBinding(cfg, lg),
		lg:      lg,
	}
	c.router = NewRouter(c, lg)
	return c
}

func (c *Controller) Router() *Router { return c.router }

// AttachView routes the view's pointer events to the Controller.
func (c *Controller) AttachView(view scene.View) {
	c.router.Attach(view)
}

// SetMapNode moves the drawing layer and all of its nodes to m. With a
// nil map, pointer input is ignored. m must be nil or a valid MapNode.
func (c *Controller) SetMapNode(m scene.MapNode) {
	if c.m == m {
		return
	}
	c.m = m
	c.binding.SetMap(m)
	c.router.SetMapNode(m)
}

func (c *Controller) MapNode() scene.MapNode { return c.m }

// Detach stops routing events and removes the drawing layer from the
// map.
func (c *Controller) Detach() {
	c.router.Detach()
	c.SetMapNode(nil)
}

func (c *Controller) Tool() DrawingTool { return c.tool }

// InteractionEnabled reports whether a drawing tool is active and so
// whether pointer events should go to the Controller.
func (c *Controller) InteractionEnabled() bool { return c.interaction }

// SetTool activates a tool. Any shape in progress is discarded.
func (c *Controller) SetTool(t DrawingTool) {
	if t == c.tool {
		return
	}
	c.lg.Debug("set tool", "from", c.tool, "to", t)
	c.tool = t
	c.interaction = t != ToolNone
	c.resetDraft()
}

func (c *Controller) StrokeColor() renderer.RGBA { return c.stroke.Color }

// SetStrokeColor sets the color for the draft and subsequent shapes;
// channels are clamped to [0,1].
func (c *Controller) SetStrokeColor(color renderer.RGBA) {
	c.stroke.Color = color.Clamp()
	c.rebuildPreview()
}

func (c *Controller) StrokeThickness() float32 { return c.stroke.ThicknessPixels }

func (c *Controller) SetStrokeThickness(t float32) {
	t = c.cfg.ClampThickness(t)
	if math.Abs(t-c.stroke.ThicknessPixels) < c.cfg.ThicknessEpsilon {
		return
	}
	c.stroke.ThicknessPixels = t
	c.rebuildPreview()
}

// ClearDrawings removes every committed shape and the shape in progress.
func (c *Controller) ClearDrawings() {
	c.resetDraft()
	c.binding.ReleaseAll()
	c.committed = nil
}

// Committed returns copies of the committed shapes in the order they
// were drawn.
func (c *Controller) Committed() []PrimitiveDefinition {
	defs := make([]PrimitiveDefinition, len(c.committed))
	for i, cp := range c.committed {
		defs[i] = deep.MustCopy(cp.def)
	}
	return defs
}

// CommittedNodes returns the IDs of the committed shapes' render nodes,
// parallel to Committed.
func (c *Controller) CommittedNodes() []renderer.NodeID {
	ids := make([]renderer.NodeID, len(c.committed))
	for i, cp := range c.committed {
		ids[i] = cp.node
	}
	return ids
}

// Node returns a live render node created by the Controller.
func (c *Controller) Node(id renderer.NodeID) (*renderer.Node, bool) {
	return c.binding.Node(id)
}

// Draft returns a copy of the shape in progress, if there is one.
func (c *Controller) Draft() (Draft, bool) {
	if len(c.draft.Vertices) == 0 {
		return Draft{}, false
	}
	return c.draft.clone(), true
}

func (c *Controller) PreviewNode() (renderer.NodeID, bool) {
	return c.binding.PreviewNode()
}

// DumpState returns a human-readable dump of the Controller's state for
// debugging.
func (c *Controller) DumpState() string {
	type state struct {
		Tool      string
		Stroke    StrokeStyle
		Draft     Draft
		Committed []PrimitiveDefinition
	}
	return godump.DumpStr(state{
		Tool:      c.tool.String(),
		Stroke:    c.stroke,
		Draft:     c.draft.clone(),
		Committed: c.Committed(),
	})
}

///////////////////////////////////////////////////////////////////////////
// Pointer input

func (c *Controller) acceptsPointer() bool {
	return c.interaction && c.m != nil
}

func (c *Controller) PointerPress(p math.GeoPoint) {
	if !c.acceptsPointer() {
		return
	}

	switch c.tool {
	case ToolPoint:
		c.commit(PrimitiveDefinition{
			Kind:     PrimitivePoint,
			Vertices: []math.GeoPoint{p},
			Stroke: StrokeStyle{
				Color:           c.stroke.Color,
				ThicknessPixels: math.Max(c.stroke.ThicknessPixels, 1) * c.cfg.PointThicknessFactor,
			},
		})

	case ToolPolyline:
		c.appendVertex(p, c.cfg.MinSampleDistanceMeters)

	case ToolRectangle:
		if c.draft.RectangleDragging {
			return
		}
		c.draft.Vertices = []math.GeoPoint{p}
		c.draft.Preview = &p
		c.draft.RectangleDragging = true
		c.rebuildPreview()

	case ToolFreehand:
		c.draft.Vertices = []math.GeoPoint{p}
		c.draft.Preview = nil
		c.draft.FreehandDrawing = true
		c.rebuildPreview()
	}
}

func (c *Controller) PointerDrag(p math.GeoPoint) {
	if !c.acceptsPointer() {
		return
	}

	switch {
	case c.draft.FreehandDrawing:
		c.appendVertex(p, c.cfg.FreehandSampleDistance())
	case c.tool == ToolRectangle && c.draft.RectangleDragging:
		c.setPreview(p)
	case c.tool == ToolPolyline && len(c.draft.Vertices) > 0:
		c.setPreview(p)
	}
}

func (c *Controller) PointerRelease(p math.GeoPoint) {
	if !c.acceptsPointer() {
		return
	}

	switch {
	case c.draft.FreehandDrawing:
		c.finalizePolyline()
	case c.tool == ToolRectangle && c.draft.RectangleDragging:
		c.finalizeRectangle(p, false)
	}
}

func (c *Controller) PointerDoubleClick(p math.GeoPoint) {
	if !c.acceptsPointer() {
		return
	}

	switch {
	case c.draft.FreehandDrawing:
		c.finalizePolyline()
	case c.tool == ToolPolyline:
		c.appendVertex(p, c.cfg.MinSampleDistanceMeters)
		c.finalizePolyline()
	case c.tool == ToolRectangle && c.draft.RectangleDragging:
		c.finalizeRectangle(p, true)
	}
}

// PointerMove handles motion with no buttons down, which only updates
// previews.
func (c *Controller) PointerMove(p math.GeoPoint) {
	if !c.acceptsPointer() || c.draft.FreehandDrawing {
		return
	}

	switch {
	case c.tool == ToolPolyline && len(c.draft.Vertices) > 0:
		c.setPreview(p)
	case c.tool == ToolRectangle && c.draft.RectangleDragging:
		c.setPreview(p)
	}
}

///////////////////////////////////////////////////////////////////////////
// Drafts

func (c *Controller) setPreview(p math.GeoPoint) {
	c.draft.Preview = &p
	c.rebuildPreview()
}

// appendVertex adds p to the draft unless it is within minDist meters
// of the last vertex.
func (c *Controller) appendVertex(p math.GeoPoint, minDist float64) {
	if n := len(c.draft.Vertices); n > 0 {
		if d := math.DistanceMeters(c.draft.Vertices[n-1], p); d < minDist {
			c.lg.Debugf("%s: %.3fm from last vertex, dropped", p, d)
			return
		}
	}
	c.draft.Vertices = append(c.draft.Vertices, p)
	c.rebuildPreview()
}

func (c *Controller) finalizePolyline() {
	if len(c.draft.Vertices) >= 2 {
		c.commit(PrimitiveDefinition{
			Kind:     PrimitivePolyline,
			Vertices: c.draft.Vertices,
			Stroke:   c.stroke,
		})
	}
	c.resetDraft()
}

func (c *Controller) finalizeRectangle(p math.GeoPoint, force bool) {
	if !c.draft.RectangleDragging || len(c.draft.Vertices) == 0 {
		c.resetDraft()
		return
	}

	anchor := c.draft.Vertices[0]
	if !force && math.DistanceMeters(anchor, p) < c.cfg.RectangleMinDistanceMeters {
		c.lg.Debugf("rectangle %s-%s too small, discarded", anchor, p)
		c.resetDraft()
		return
	}

	rect := math.RectangleVertices(anchor, p)
	c.commit(PrimitiveDefinition{
		Kind:        PrimitivePolygon,
		Vertices:    rect[:],
		Stroke:      c.stroke,
		Filled:      true,
		FillOpacity: c.cfg.CommitFillOpacity,
	})
	c.resetDraft()
}

func (c *Controller) resetDraft() {
	c.draft = Draft{}
	c.binding.ClearPreview()
}

// previewDefinition returns the shape that represents the draft along
// with the trailing vertex to append to it when rendering.
func (c *Controller) previewDefinition() (PrimitiveDefinition, *math.GeoPoint, bool) {
	if len(c.draft.Vertices) == 0 {
		return PrimitiveDefinition{}, nil, false
	}

	switch c.tool {
	case ToolPolyline:
		return PrimitiveDefinition{
			Kind:     PrimitivePolyline,
			Vertices: c.draft.Vertices,
			Stroke:   c.stroke,
		}, c.draft.Preview, true

	case ToolFreehand:
		return PrimitiveDefinition{
			Kind:     PrimitivePolyline,
			Vertices: c.draft.Vertices,
			Stroke:   c.stroke,
		}, nil, true

	case ToolRectangle:
		if c.draft.Preview == nil {
			return PrimitiveDefinition{}, nil, false
		}
		rect := math.RectangleVertices(c.draft.Vertices[0], *c.draft.Preview)
		return PrimitiveDefinition{
			Kind:        PrimitivePolygon,
			Vertices:    rect[:],
			Stroke:      c.stroke,
			Filled:      true,
			FillOpacity: c.cfg.PreviewFillOpacity,
		}, nil, true

	default:
		return PrimitiveDefinition{}, nil, false
	}
}

func (c *Controller) rebuildPreview() {
	if def, pt, ok := c.previewDefinition(); ok {
		c.binding.ReplacePreview(def, pt)
	} else {
		c.binding.ClearPreview()
	}
}

func (c *Controller) commit(def PrimitiveDefinition) {
	def = deep.MustCopy(def)
	id, ok := c.binding.Render(def, nil, false)
	if !ok {
		c.lg.Warnf("%s: unable to render primitive, not committed", def.Kind)
		return
	}
	c.committed = append(c.committed, committedPrimitive{def: def, node: id})
	c.lg.Debug("committed", "kind", def.Kind, "vertices", len(def.Vertices), "node", id)
}
