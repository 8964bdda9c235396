// draw/picker.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package draw

import (
	"github.com/mmp/geodraw/log"
	"github.com/mmp/geodraw/math"
	"github.com/mmp/geodraw/scene"
)

// Picker converts window positions to geodetic positions on the terrain.
// It holds no state beyond its collaborators.
type Picker struct {
	View scene.View
	Map  scene.MapNode
	lg   *log.Logger
}

func NewPicker(view scene.View, m scene.MapNode, lg *log.Logger) *Picker {
	return &Picker{View: view, Map: m, lg: lg}
}

// Pick returns the position under the logical window pixel pos. It fails
// if the view or map is missing, the ray hits nothing, or the map cannot
// convert the hit. When the map has terrain that covers the hit, the
// terrain height replaces the hit altitude.
func (p *Picker) Pick(pos [2]float32) (math.GeoPoint, bool) {
	return pick(p.View, p.Map, pos, p.lg)
}

func pick(view scene.View, m scene.MapNode, pos [2]float32, lg *log.Logger) (math.GeoPoint, bool) {
	if view == nil || m == nil {
		return math.GeoPoint{}, false
	}
	srs := m.SpatialReference()
	if srs == nil {
		return math.GeoPoint{}, false
	}

	s := view.DPIScale()
	world, ok := view.Intersect(pos[0]*s, pos[1]*s)
	if !ok {
		lg.Debugf("pick %v: no intersection", pos)
		return math.GeoPoint{}, false
	}

	gp, ok := srs.WorldToGeographic(world)
	if !ok {
		lg.Debugf("pick %v: unable to convert %s", pos, world)
		return math.GeoPoint{}, false
	}

	if t := m.Terrain(); t != nil {
		if h, ok := t.HeightAt(gp.LongitudeDeg, gp.LatitudeDeg); ok {
			gp.AltitudeMeters = h
		}
	}
	return gp, true
}
