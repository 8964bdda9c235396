// math/vec.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"fmt"
	gomath "math"
)

// Vec3 is a point or direction in a 3D world frame; the scene package
// uses Earth-centered, Earth-fixed coordinates in meters.
type Vec3 [3]float64

// a+b
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// a-b
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// a*s
func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{s * a[0], s * a[1], s * a[2]}
}

func (a Vec3) Dot(b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func (a Vec3) Length() float64 {
	return gomath.Sqrt(a.Dot(a))
}

// Normalize returns a unit vector in the direction of a, or the zero
// vector if a has zero length.
func (a Vec3) Normalize() Vec3 {
	l := a.Length()
	if l == 0 {
		return Vec3{}
	}
	return a.Scale(1 / l)
}

func (a Vec3) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", a[0], a[1], a[2])
}
