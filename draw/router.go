// draw/router.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package draw

import (
	"sync"

	"github.com/mmp/geodraw/log"
	"github.com/mmp/geodraw/math"
	"github.com/mmp/geodraw/platform"
	"github.com/mmp/geodraw/scene"
)

// PointerTarget receives picked pointer positions. *Controller
// implements it.
type PointerTarget interface {
	InteractionEnabled() bool
	PointerPress(p math.GeoPoint)
	PointerDrag(p math.GeoPoint)
	PointerRelease(p math.GeoPoint)
	PointerDoubleClick(p math.GeoPoint)
	PointerMove(p math.GeoPoint)
}

// Router is the platform.EventHandler that a view's pointer events
// arrive at. While its target has a tool active, it picks the geodetic
// position of each primary-button event and forwards it; all other
// events are left for the view's other handlers.
type Router struct {
	mu     sync.Mutex
	target PointerTarget
	view   scene.View
	m      scene.MapNode
	lg     *log.Logger
}

func NewRouter(target PointerTarget, lg *log.Logger) *Router {
	return &Router{target: target, lg: lg}
}

// Attach registers the Router with view, first unregistering it from
// the previously attached view. view may be nil.
func (r *Router) Attach(view scene.View) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.view == view {
		return
	}
	if r.view != nil {
		r.view.RemoveEventHandler(r)
	}
	r.view = view
	if view != nil {
		view.AddEventHandler(r)
	}
}

// Detach unregisters the Router from its view.
func (r *Router) Detach() {
	r.Attach(nil)
}

func (r *Router) SetMapNode(m scene.MapNode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m = m
}

// HandlePointer implements platform.EventHandler.
func (r *Router) HandlePointer(ev platform.PointerEvent) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.target == nil || !r.target.InteractionEnabled() || r.view == nil || r.m == nil {
		return false
	}

	switch ev.Kind {
	case platform.EventPress, platform.EventRelease, platform.EventDoubleClick:
		if ev.Button != platform.MouseButtonPrimary {
			return false
		}
	case platform.EventDrag:
		if !ev.Mask.Has(platform.MouseButtonPrimary) {
			return false
		}
	case platform.EventMove:
	default:
		return false
	}

	p, ok := pick(r.view, r.m, ev.Pos, r.lg)
	if !ok {
		return false
	}

	switch ev.Kind {
	case platform.EventPress:
		r.target.PointerPress(p)
	case platform.EventDrag:
		r.target.PointerDrag(p)
	case platform.EventRelease:
		r.target.PointerRelease(p)
	case platform.EventDoubleClick:
		r.target.PointerDoubleClick(p)
	case platform.EventMove:
		// Hover updates the preview but leaves the event for the
		// camera.
		r.target.PointerMove(p)
		return false
	}
	return true
}
