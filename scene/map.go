// scene/map.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package scene

import (
	gomath "math"
	"sync"

	"github.com/mmp/geodraw/math"
)

// Geographic is the spatial reference for Earth-centered, Earth-fixed
// world coordinates on an ellipsoid.
type Geographic struct {
	Ellipsoid math.Ellipsoid
}

func (g Geographic) WorldToGeographic(p math.Vec3) (math.GeoPoint, bool) {
	for _, v := range p {
		if gomath.IsNaN(v) || gomath.IsInf(v, 0) {
			return math.GeoPoint{}, false
		}
	}
	return g.Ellipsoid.FromECEF(p), true
}

// Map is a MapNode holding MemoryLayers.
type Map struct {
	srs     SpatialReference
	terrain Terrain

	mu     sync.Mutex
	layers map[string]*MemoryLayer
}

// NewMap returns a Map; srs and terrain may be nil.
func NewMap(srs SpatialReference, terrain Terrain) *Map {
	return &Map{srs: srs, terrain: terrain, layers: make(map[string]*MemoryLayer)}
}

func (m *Map) SpatialReference() SpatialReference { return m.srs }

func (m *Map) Terrain() Terrain { return m.terrain }

func (m *Map) AttachLayer(name string) Layer {
	return m.MemoryLayer(name)
}

func (m *Map) DetachLayer(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.layers, name)
}

// MemoryLayer returns the named layer, creating it if needed.
func (m *Map) MemoryLayer(name string) *MemoryLayer {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.layers[name]
	if !ok {
		l = &MemoryLayer{Name: name}
		m.layers[name] = l
	}
	return l
}

func (m *Map) HasLayer(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.layers[name]
	return ok
}
