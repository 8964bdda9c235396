// math/extent.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import gomath "math"

// Extent2D represents a 2D bounding box with the two vertices at its
// opposite minimum and maximum corners. In this package x is longitude
// and y is latitude.
type Extent2D struct {
	P0, P1 [2]float64
}

// EmptyExtent2D returns an Extent2D that represents an empty bounding box.
func EmptyExtent2D() Extent2D {
	e := Extent2D{}
	for i := 0; i < 2; i++ {
		e.P0[i] = gomath.MaxFloat64
		e.P1[i] = -gomath.MaxFloat64
	}
	return e
}

// ExtentOfGeoPoints returns the lon/lat bounds of pts.
func ExtentOfGeoPoints(pts []GeoPoint) Extent2D {
	e := EmptyExtent2D()
	for _, p := range pts {
		e = Union(e, p.LL())
	}
	return e
}

func (e Extent2D) IsEmpty() bool {
	return e.P0[0] > e.P1[0] || e.P0[1] > e.P1[1]
}

func (e Extent2D) Width() float64 {
	return e.P1[0] - e.P0[0]
}

func (e Extent2D) Height() float64 {
	return e.P1[1] - e.P0[1]
}

func (e Extent2D) Center() [2]float64 {
	return [2]float64{(e.P0[0] + e.P1[0]) / 2, (e.P0[1] + e.P1[1]) / 2}
}

func (e Extent2D) Inside(p [2]float64) bool {
	return p[0] >= e.P0[0] && p[0] <= e.P1[0] && p[1] >= e.P0[1] && p[1] <= e.P1[1]
}

// Union returns an Extent2D that bounds both the provided Extent2D and
// the given point.
func Union(e Extent2D, p [2]float64) Extent2D {
	e.P0[0] = Min(e.P0[0], p[0])
	e.P0[1] = Min(e.P0[1], p[1])
	e.P1[0] = Max(e.P1[0], p[0])
	e.P1[1] = Max(e.P1[1], p[1])
	return e
}

// Lerp performs bilinear interpolation between the extent's corners; it
// maps [0,1]^2 to the extent.
func (e Extent2D) Lerp(p [2]float64) [2]float64 {
	return [2]float64{Lerp(p[0], e.P0[0], e.P1[0]), Lerp(p[1], e.P0[1], e.P1[1])}
}
