// scene/globe.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package scene

import (
	gomath "math"

	"github.com/mmp/geodraw/math"
	"github.com/mmp/geodraw/platform"
)

// Globe is a View looking straight down at Center from
// Center.AltitudeMeters above the WGS84 ellipsoid. World coordinates are
// ECEF meters. Rays are marched through Terrain, if set; otherwise they
// hit the ellipsoid.
type Globe struct {
	platform.EventDispatcher

	Center     math.GeoPoint
	FOVDegrees float64 // vertical field of view
	Width      int     // logical pixels
	Height     int
	Scale      float32 // device pixels per logical pixel
	Terrain    Terrain

	// MinElevation and MaxElevation bound Terrain's heights; the ray
	// march is limited to the shell between them.
	MinElevation, MaxElevation float64
}

// NewGlobe returns a Globe looking down at center from altitude meters
// with a 60 degree field of view and no terrain.
func NewGlobe(center math.GeoPoint, altitude float64, width, height int) *Globe {
	center.AltitudeMeters = altitude
	return &Globe{
		Center:     center,
		FOVDegrees: 60,
		Width:      width,
		Height:     height,
		Scale:      1,
	}
}

func (g *Globe) DPIScale() float32 {
	if g.Scale <= 0 {
		return 1
	}
	return g.Scale
}

// frame returns the camera position and the local east, north, and up
// unit vectors at the nadir point.
func (g *Globe) frame() (pos, east, north, up math.Vec3) {
	pos = math.WGS84.ToECEF(g.Center)

	lat, lon := math.Radians(g.Center.LatitudeDeg), math.Radians(g.Center.LongitudeDeg)
	slat, clat := gomath.Sincos(lat)
	slon, clon := gomath.Sincos(lon)
	east = math.Vec3{-slon, clon, 0}
	north = math.Vec3{-slat * clon, -slat * slon, clat}
	up = math.Vec3{clat * clon, clat * slon, slat}
	return
}

// pixelsPerUnit gives the device-pixel distance from the image center
// for a direction whose tangent from the view axis is 1.
func (g *Globe) pixelsPerUnit() float64 {
	h := float64(g.Height) * float64(g.DPIScale())
	return h / 2 / gomath.Tan(math.Radians(g.FOVDegrees)/2)
}

// Ray returns the origin and unit direction of the ray through the given
// device pixel. y increases downward, which is south.
func (g *Globe) Ray(x, y float32) (math.Vec3, math.Vec3) {
	pos, east, north, up := g.frame()
	s := float64(g.DPIScale())
	cx, cy := float64(g.Width)*s/2, float64(g.Height)*s/2
	k := g.pixelsPerUnit()

	u := (float64(x) - cx) / k
	v := (cy - float64(y)) / k
	dir := up.Scale(-1).Add(east.Scale(u)).Add(north.Scale(v)).Normalize()
	return pos, dir
}

// Project returns the logical pixel at which p appears, if it is in
// front of the camera.
func (g *Globe) Project(p math.GeoPoint) ([2]float32, bool) {
	pos, east, north, up := g.frame()
	d := math.WGS84.ToECEF(p).Sub(pos)
	depth := -d.Dot(up)
	if depth <= 0 {
		return [2]float32{}, false
	}

	s := float64(g.DPIScale())
	k := g.pixelsPerUnit()
	x := float64(g.Width)*s/2 + d.Dot(east)/depth*k
	y := float64(g.Height)*s/2 - d.Dot(north)/depth*k
	return [2]float32{float32(x / s), float32(y / s)}, true
}

func (g *Globe) groundHeight(p math.GeoPoint) float64 {
	if g.Terrain == nil {
		return 0
	}
	if h, ok := g.Terrain.HeightAt(p.LongitudeDeg, p.LatitudeDeg); ok {
		return h
	}
	return 0
}

// Intersect implements View.
func (g *Globe) Intersect(x, y float32) (math.Vec3, bool) {
	org, dir := g.Ray(x, y)

	lo, hi := math.Min(g.MinElevation, 0), math.Max(g.MaxElevation, 0)
	if g.Terrain == nil {
		lo, hi = 0, 0
	}

	tEnter, ok := math.WGS84.IntersectRay(org, dir, hi)
	if !ok {
		return math.Vec3{}, false
	}
	if g.Center.AltitudeMeters <= hi {
		// The camera is already inside the shell.
		tEnter = 0
	}
	tExit, ok := math.WGS84.IntersectRay(org, dir, lo)
	if !ok {
		return math.Vec3{}, false
	}
	if tExit <= tEnter {
		return org.Add(dir.Scale(tEnter)), true
	}

	// Height of the point at t above the ground below it.
	above := func(t float64) float64 {
		p := math.WGS84.FromECEF(org.Add(dir.Scale(t)))
		return p.AltitudeMeters - g.groundHeight(p)
	}

	const maxSteps = 512
	step := math.Max((tExit-tEnter)/maxSteps, 1)
	prev := tEnter
	if above(prev) <= 0 {
		return org.Add(dir.Scale(prev)), true
	}
	for t := tEnter + step; ; t += step {
		t = math.Min(t, tExit)
		if above(t) <= 0 {
			// Bisect between the last point above the ground and this
			// one.
			a, b := prev, t
			for range 40 {
				mid := (a + b) / 2
				if above(mid) > 0 {
					a = mid
				} else {
					b = mid
				}
			}
			return org.Add(dir.Scale(b)), true
		}
		if t == tExit {
			// The lowest shell is at or below every ground height, so
			// this only happens if the terrain reports heights below
			// MinElevation.
			return org.Add(dir.Scale(tExit)), true
		}
		prev = t
	}
}
