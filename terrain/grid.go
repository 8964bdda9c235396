// terrain/grid.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package terrain provides terrain elevation lookups from gridded digital
// elevation models.
package terrain

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/mmp/geodraw/math"
)

var (
	ErrEmptyGrid = errors.New("elevation grid has no samples")
	ErrBadTile   = errors.New("malformed elevation tile")
)

// Provider is implemented by anything that can report the terrain height
// at a position. ok is false where the provider has no data.
type Provider interface {
	HeightAt(lon, lat float64) (h float64, ok bool)
}

// Grid is a regularly sampled elevation model covering Extent (x is
// longitude, y is latitude). Heights are stored row-major starting at the
// south-west corner; the samples on the outer rows and columns lie
// exactly on the extent's edges.
type Grid struct {
	Extent  math.Extent2D
	Width   int       // samples per row
	Height  int       // rows
	Heights []float32 // meters
}

func NewGrid(extent math.Extent2D, width, height int) *Grid {
	return &Grid{
		Extent:  extent,
		Width:   width,
		Height:  height,
		Heights: make([]float32, width*height),
	}
}

func (g *Grid) Validate() error {
	if g.Width < 2 || g.Height < 2 {
		return fmt.Errorf("%dx%d: %w", g.Width, g.Height, ErrEmptyGrid)
	}
	if len(g.Heights) != g.Width*g.Height {
		return fmt.Errorf("%d heights for %dx%d grid: %w", len(g.Heights), g.Width, g.Height, ErrBadTile)
	}
	if g.Extent.IsEmpty() || g.Extent.Width() == 0 || g.Extent.Height() == 0 {
		return fmt.Errorf("degenerate extent %v: %w", g.Extent, ErrBadTile)
	}
	return nil
}

func (g *Grid) At(x, y int) float32 {
	return g.Heights[y*g.Width+x]
}

func (g *Grid) Set(x, y int, h float32) {
	g.Heights[y*g.Width+x] = h
}

// LonLat returns the position of sample (x, y).
func (g *Grid) LonLat(x, y int) (float64, float64) {
	p := g.Extent.Lerp([2]float64{float64(x) / float64(g.Width-1), float64(y) / float64(g.Height-1)})
	return p[0], p[1]
}

// HeightAt bilinearly interpolates the four samples around (lon, lat).
func (g *Grid) HeightAt(lon, lat float64) (float64, bool) {
	if g == nil || len(g.Heights) == 0 || !g.Extent.Inside([2]float64{lon, lat}) {
		return 0, false
	}

	fx := (lon - g.Extent.P0[0]) / g.Extent.Width() * float64(g.Width-1)
	fy := (lat - g.Extent.P0[1]) / g.Extent.Height() * float64(g.Height-1)
	x0 := math.Clamp(int(gomath.Floor(fx)), 0, g.Width-2)
	y0 := math.Clamp(int(gomath.Floor(fy)), 0, g.Height-2)
	dx, dy := fx-float64(x0), fy-float64(y0)

	h0 := math.Lerp(dx, float64(g.At(x0, y0)), float64(g.At(x0+1, y0)))
	h1 := math.Lerp(dx, float64(g.At(x0, y0+1)), float64(g.At(x0+1, y0+1)))
	return math.Lerp(dy, h0, h1), true
}

// MinMax returns the lowest and highest samples.
func (g *Grid) MinMax() (float32, float32) {
	lo, hi := float32(gomath.MaxFloat32), float32(-gomath.MaxFloat32)
	for _, h := range g.Heights {
		lo, hi = math.Min(lo, h), math.Max(hi, h)
	}
	return lo, hi
}

// Mosaic answers queries from the first of its tiles that covers the
// requested position.
type Mosaic []*Grid

func (m Mosaic) HeightAt(lon, lat float64) (float64, bool) {
	for _, g := range m {
		if h, ok := g.HeightAt(lon, lat); ok {
			return h, true
		}
	}
	return 0, false
}

func (m Mosaic) Extent() math.Extent2D {
	e := math.EmptyExtent2D()
	for _, g := range m {
		e = math.Union(e, g.Extent.P0)
		e = math.Union(e, g.Extent.P1)
	}
	return e
}
