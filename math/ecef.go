// math/ecef.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import gomath "math"

// Ellipsoid describes a reference ellipsoid of revolution.
type Ellipsoid struct {
	SemiMajor  float64 // meters
	Flattening float64
}

var WGS84 = Ellipsoid{SemiMajor: 6378137, Flattening: 1 / 298.257223563}

func (e Ellipsoid) SemiMinor() float64 {
	return e.SemiMajor * (1 - e.Flattening)
}

// eccentricity squared
func (e Ellipsoid) e2() float64 {
	return e.Flattening * (2 - e.Flattening)
}

// ToECEF converts a geodetic position to Earth-centered, Earth-fixed
// coordinates.
func (e Ellipsoid) ToECEF(p GeoPoint) Vec3 {
	lat, lon := Radians(p.LatitudeDeg), Radians(p.LongitudeDeg)
	slat, clat := gomath.Sincos(lat)
	slon, clon := gomath.Sincos(lon)
	n := e.SemiMajor / gomath.Sqrt(1-e.e2()*slat*slat)
	h := p.AltitudeMeters
	return Vec3{
		(n + h) * clat * clon,
		(n + h) * clat * slon,
		(n*(1-e.e2()) + h) * slat,
	}
}

// FromECEF converts Earth-centered, Earth-fixed coordinates to a geodetic
// position. Latitude is found by fixed-point iteration, which converges
// to well under a millimeter in a handful of steps for points near the
// surface.
func (e Ellipsoid) FromECEF(v Vec3) GeoPoint {
	x, y, z := v[0], v[1], v[2]
	lon := gomath.Atan2(y, x)
	p := gomath.Hypot(x, y)
	e2 := e.e2()

	if p < 1e-9 {
		// On the polar axis.
		lat := gomath.Copysign(gomath.Pi/2, z)
		return GeoPoint{
			LongitudeDeg:   0,
			LatitudeDeg:    Degrees(lat),
			AltitudeMeters: gomath.Abs(z) - e.SemiMinor(),
		}
	}

	lat := gomath.Atan2(z, p*(1-e2))
	var h float64
	for i := 0; i < 8; i++ {
		slat, clat := gomath.Sincos(lat)
		n := e.SemiMajor / gomath.Sqrt(1-e2*slat*slat)
		h = p/clat - n
		next := gomath.Atan2(z, p*(1-e2*n/(n+h)))
		if gomath.Abs(next-lat) < 1e-14 {
			lat = next
			break
		}
		lat = next
	}

	return GeoPoint{LongitudeDeg: Degrees(lon), LatitudeDeg: Degrees(lat), AltitudeMeters: h}
}

// IntersectRay returns the smallest non-negative t such that org+t*dir
// lies on the ellipsoid surface raised by height meters, if there is one.
func (e Ellipsoid) IntersectRay(org, dir Vec3, height float64) (float64, bool) {
	a := e.SemiMajor + height
	b := e.SemiMinor() + height
	// Scale so the ellipsoid becomes the unit sphere.
	o := Vec3{org[0] / a, org[1] / a, org[2] / b}
	d := Vec3{dir[0] / a, dir[1] / a, dir[2] / b}

	qa := d.Dot(d)
	qb := 2 * o.Dot(d)
	qc := o.Dot(o) - 1
	disc := qb*qb - 4*qa*qc
	if qa == 0 || disc < 0 {
		return 0, false
	}
	sq := gomath.Sqrt(disc)
	t0 := (-qb - sq) / (2 * qa)
	t1 := (-qb + sq) / (2 * qa)
	if t0 >= 0 {
		return t0, true
	} else if t1 >= 0 {
		return t1, true
	}
	return 0, false
}
