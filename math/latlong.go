// math/latlong.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"fmt"
	gomath "math"
	"regexp"
	"strconv"
)

// EarthRadiusMeters is the sphere radius used for geodesic distances. It
// is the WGS84 equatorial radius.
const EarthRadiusMeters = 6378137

///////////////////////////////////////////////////////////////////////////
// GeoPoint

// GeoPoint is a geodetic position: degrees of longitude and latitude and
// meters of altitude.
type GeoPoint struct {
	LongitudeDeg   float64
	LatitudeDeg    float64
	AltitudeMeters float64
}

// LL returns the longitude-latitude pair, x first.
func (p GeoPoint) LL() [2]float64 {
	return [2]float64{p.LongitudeDeg, p.LatitudeDeg}
}

func (p GeoPoint) IsZero() bool {
	return p.LongitudeDeg == 0 && p.LatitudeDeg == 0 && p.AltitudeMeters == 0
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("(%.6f, %.6f, %.2fm)", p.LatitudeDeg, p.LongitudeDeg, p.AltitudeMeters)
}

// DDString returns the position in decimal degrees, e.g.:
// (39.860901, -75.274864)
func (p GeoPoint) DDString() string {
	return fmt.Sprintf("(%f, %f)", p.LatitudeDeg, p.LongitudeDeg) // latitude, longitude
}

// DMSString returns the position in degrees minutes, seconds, e.g.
// N039.51.39.243,W075.16.29.511
func (p GeoPoint) DMSString() string {
	format := func(v float64) string {
		// Work in integer milliseconds of arc to avoid 59.999 artifacts.
		ms := int64(gomath.Round(v * 3600000))
		d := ms / 3600000
		ms -= d * 3600000
		m := ms / 60000
		ms -= m * 60000
		s := ms / 1000
		ms -= s * 1000
		return fmt.Sprintf("%03d.%02d.%02d.%03d", d, m, s, ms)
	}

	var s string
	if p.LatitudeDeg >= 0 {
		s = "N"
	} else {
		s = "S"
	}
	s += format(Abs(p.LatitudeDeg))

	if p.LongitudeDeg >= 0 {
		s += ",E"
	} else {
		s += ",W"
	}
	s += format(Abs(p.LongitudeDeg))

	return s
}

// DistanceMeters returns the great-circle distance between a and b,
// ignoring altitude. The haversine term is clamped to [0,1] so that
// rounding can never push asin out of its domain.
func DistanceMeters(a, b GeoPoint) float64 {
	lat1, lon1 := Radians(a.LatitudeDeg), Radians(a.LongitudeDeg)
	lat2, lon2 := Radians(b.LatitudeDeg), Radians(b.LongitudeDeg)
	dlat, dlon := lat2-lat1, lon2-lon1

	h := Sqr(gomath.Sin(dlat/2)) + gomath.Cos(lat1)*gomath.Cos(lat2)*Sqr(gomath.Sin(dlon/2))
	h = Clamp(h, 0, 1)
	return 2 * EarthRadiusMeters * gomath.Asin(gomath.Sqrt(h))
}

// RectangleVertices returns the corners of the lon/lat-aligned rectangle
// spanned by first and second, in the order top-left, top-right,
// bottom-right, bottom-left, where "top" is first's latitude. All four
// corners take the mean of the two altitudes.
func RectangleVertices(first, second GeoPoint) [4]GeoPoint {
	alt := (first.AltitudeMeters + second.AltitudeMeters) / 2
	return [4]GeoPoint{
		{LongitudeDeg: first.LongitudeDeg, LatitudeDeg: first.LatitudeDeg, AltitudeMeters: alt},
		{LongitudeDeg: second.LongitudeDeg, LatitudeDeg: first.LatitudeDeg, AltitudeMeters: alt},
		{LongitudeDeg: second.LongitudeDeg, LatitudeDeg: second.LatitudeDeg, AltitudeMeters: alt},
		{LongitudeDeg: first.LongitudeDeg, LatitudeDeg: second.LatitudeDeg, AltitudeMeters: alt},
	}
}

var (
	// pair of floats (no exponents)
	reLatLongFloat = regexp.MustCompile(`^(\-?[0-9]+(?:\.[0-9]+)?), *(\-?[0-9]+(?:\.[0-9]+)?)$`)
	// https://en.wikipedia.org/wiki/ISO_6709#String_expression_(Annex_H)
	// e.g. +403527.580-0734452.955
	reISO6709H = regexp.MustCompile(`^([-+][0-9][0-9])([0-9][0-9])([0-9][0-9])\.([0-9][0-9][0-9])([-+][0-9][0-9][0-9])([0-9][0-9])([0-9][0-9])\.([0-9][0-9][0-9])`)
)

// Parse positions of the form "N40.37.58.400, W073.46.17.000".
func tryParseDotted(b []byte) (GeoPoint, bool) {
	if len(b) == 0 || (b[0] != 'N' && b[0] != 'S') {
		return GeoPoint{}, false
	}
	negateLatitude := b[0] == 'S'

	b = b[1:]
	latitude, n, ok := tryParseDottedNumbers(b)
	if !ok {
		return GeoPoint{}, false
	}
	if negateLatitude {
		latitude = -latitude
	}
	b = b[n:]

	if len(b) == 0 || b[0] != ',' {
		return GeoPoint{}, false
	}
	b = b[1:]

	if len(b) > 0 && b[0] == ' ' {
		b = b[1:]
	}

	if len(b) == 0 || (b[0] != 'E' && b[0] != 'W') {
		return GeoPoint{}, false
	}
	negateLongitude := b[0] == 'W'

	b = b[1:]
	longitude, n, ok := tryParseDottedNumbers(b)
	if !ok || n != len(b) {
		return GeoPoint{}, false
	}
	if negateLongitude {
		longitude = -longitude
	}

	return GeoPoint{LongitudeDeg: longitude, LatitudeDeg: latitude}, true
}

// tryParseDottedNumbers parses a coordinate of the form aaa.bbb.ccc.ddd.
// It returns the value in degrees, the number of bytes of b consumed, and
// a bool indicating success or failure.
func tryParseDottedNumbers(b []byte) (float64, int, bool) {
	n := 0
	var ll float64

	scan := func(b []byte) int {
		for i, v := range b {
			if v == '.' || v == ',' {
				return i
			}
		}
		return len(b)
	}

	for i := 0; i < 4; i++ {
		end := scan(b)
		if end == 0 {
			return 0, 0, false
		}

		value := 0
		for _, ch := range b[:end] {
			if ch < '0' || ch > '9' {
				return 0, 0, false
			}
			value *= 10
			value += int(ch - '0')
		}
		if i == 3 {
			// Treat the last set of digits as a decimal, so that
			// Nxx.yy.zz.1 is handled like Nxx.yy.zz.100.
			for j := end; j < 3; j++ {
				value *= 10
			}
		}

		scales := [4]float64{1, 60, 3600, 3600000}
		ll += float64(value) / scales[i]
		n += end
		b = b[end:]

		if i < 3 {
			if len(b) == 0 {
				return 0, 0, false
			}
			b = b[1:]
			n++
		}
	}

	return ll, n, true
}

// ParseLatLong parses a latitude-longitude pair given either as decimal
// degrees ("39.86, -75.27"), dotted DMS ("N039.51.39.243,W075.16.29.511")
// or ISO 6709 Annex H ("+403527.580-0734452.955"). Altitude is zero.
func ParseLatLong(llstr []byte) (GeoPoint, error) {
	if p, ok := tryParseDotted(llstr); ok {
		return p, nil
	} else if strs := reLatLongFloat.FindStringSubmatch(string(llstr)); len(strs) == 3 {
		var p GeoPoint
		var err error
		if p.LatitudeDeg, err = strconv.ParseFloat(strs[1], 64); err != nil {
			return GeoPoint{}, err
		}
		if p.LongitudeDeg, err = strconv.ParseFloat(strs[2], 64); err != nil {
			return GeoPoint{}, err
		}
		if Abs(p.LatitudeDeg) > 90 || Abs(p.LongitudeDeg) > 180 {
			return GeoPoint{}, fmt.Errorf("%s: latitude or longitude out of range", llstr)
		}
		return p, nil
	} else if strs := reISO6709H.FindStringSubmatch(string(llstr)); len(strs) == 9 {
		parse := func(deg, min, sec, frac string) (float64, error) {
			d, err := strconv.Atoi(deg)
			if err != nil {
				return 0, err
			}
			m, err := strconv.Atoi(min)
			if err != nil {
				return 0, err
			}
			s, err := strconv.Atoi(sec)
			if err != nil {
				return 0, err
			}
			f, err := strconv.Atoi(frac)
			if err != nil {
				return 0, err
			}
			sgn := 1.0
			if deg[0] == '-' {
				sgn = -1
			}
			d = Abs(d)
			return sgn * (float64(d) + float64(m)/60 + float64(s)/3600 + float64(f)/3600000), nil
		}

		var p GeoPoint
		var err error
		if p.LatitudeDeg, err = parse(strs[1], strs[2], strs[3], strs[4]); err != nil {
			return GeoPoint{}, err
		}
		if p.LongitudeDeg, err = parse(strs[5], strs[6], strs[7], strs[8]); err != nil {
			return GeoPoint{}, err
		}
		return p, nil
	} else {
		return GeoPoint{}, fmt.Errorf("%s: invalid latlong string", llstr)
	}
}
