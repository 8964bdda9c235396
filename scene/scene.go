// scene/scene.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package scene defines what the drawing engine needs from the host's 3D
// view and map, along with small reference implementations of each.
package scene

import (
	"github.com/mmp/geodraw/math"
	"github.com/mmp/geodraw/platform"
	"github.com/mmp/geodraw/renderer"
)

// View is the interactive 3D view that pointer input arrives from.
type View interface {
	platform.EventSource

	// Intersect casts a ray through the given device pixel and returns
	// the first point it hits in world coordinates.
	Intersect(x, y float32) (math.Vec3, bool)

	// DPIScale is the ratio of device pixels to logical window pixels.
	DPIScale() float32
}

type SpatialReference interface {
	WorldToGeographic(p math.Vec3) (math.GeoPoint, bool)
}

type Terrain interface {
	HeightAt(lon, lat float64) (float64, bool)
}

// Layer is a group node in the scene that drawing nodes are attached to.
type Layer interface {
	AddChild(n *renderer.Node)
	RemoveChild(id renderer.NodeID)
}

// MapNode is the root of the geo-referenced scene.
type MapNode interface {
	SpatialReference() SpatialReference
	Terrain() Terrain
	// AttachLayer returns the named layer, creating it if needed.
	AttachLayer(name string) Layer
	DetachLayer(name string)
}
