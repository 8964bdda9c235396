// terrain/synth.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package terrain

import (
	gomath "math"
	"math/rand/v2"

	"github.com/mmp/geodraw/math"
)

// HillsSpec parameterizes a synthetic terrain made of Gaussian hills on
// top of a base elevation.
type HillsSpec struct {
	Extent    math.Extent2D
	Width     int
	Height    int
	Base      float64 // meters
	NumHills  int
	MaxHeight float64 // meters
	MaxRadius float64 // fraction of the extent's width
	Seed      uint64
}

// SyntheticHills generates a Grid with Gaussian hills over a base
// elevation. Equal HillsSpecs always produce the same grid.
func SyntheticHills(spec HillsSpec) *Grid {
	r := rand.New(rand.NewPCG(spec.Seed, spec.Seed^0x9e3779b97f4a7c15))

	type hill struct {
		center [2]float64
		height float64
		radius float64
	}
	hills := make([]hill, spec.NumHills)
	for i := range hills {
		hills[i] = hill{
			center: spec.Extent.Lerp([2]float64{r.Float64(), r.Float64()}),
			height: spec.MaxHeight * (0.25 + 0.75*r.Float64()),
			radius: spec.Extent.Width() * spec.MaxRadius * (0.2 + 0.8*r.Float64()),
		}
	}

	g := NewGrid(spec.Extent, spec.Width, spec.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			lon, lat := g.LonLat(x, y)
			h := spec.Base
			for _, hl := range hills {
				d2 := math.Sqr(lon-hl.center[0]) + math.Sqr(lat-hl.center[1])
				h += hl.height * gomath.Exp(-d2/(2*math.Sqr(hl.radius)))
			}
			g.Set(x, y, float32(h))
		}
	}
	return g
}

// Flat returns a Grid with every sample at h meters.
func Flat(extent math.Extent2D, h float32) *Grid {
	g := NewGrid(extent, 2, 2)
	for i := range g.Heights {
		g.Heights[i] = h
	}
	return g
}
