// renderer/rgb.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mmp/geodraw/math"
)

///////////////////////////////////////////////////////////////////////////
// RGBA

// RGBA is a color with straight (non-premultiplied) alpha; all channels
// are nominally in [0,1].
type RGBA struct {
	R, G, B, A float32
}

// Clamp returns the color with every channel clamped to [0,1].
func (c RGBA) Clamp() RGBA {
	return RGBA{R: math.Clamp(c.R, 0, 1), G: math.Clamp(c.G, 0, 1), B: math.Clamp(c.B, 0, 1), A: math.Clamp(c.A, 0, 1)}
}

// ScaleAlpha returns the clamped color with its alpha multiplied by s.
func (c RGBA) ScaleAlpha(s float32) RGBA {
	c = c.Clamp()
	c.A = math.Clamp(c.A*s, 0, 1)
	return c
}

func (c RGBA) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f, %.3f)", c.R, c.G, c.B, c.A)
}

// RGBAFromHex converts a packed integer color value to an opaque RGBA
// where the low 8 bits give blue, the next 8 give green, and then the
// next 8 give red.
func RGBAFromHex(c int) RGBA {
	r, g, b := (c>>16)&255, (c>>8)&255, c&255
	return RGBA{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255, A: 1}
}

// ParseRGBA accepts either "#rrggbb" or three or four comma-separated
// channel values in [0,1], e.g. "0.97,0.58,0.2" or "1,0,0,0.5".
func ParseRGBA(s string) (RGBA, error) {
	s = strings.TrimSpace(s)
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		if len(hex) != 6 {
			return RGBA{}, fmt.Errorf("%q: expected 6 hex digits", s)
		}
		v, err := strconv.ParseInt(hex, 16, 32)
		if err != nil {
			return RGBA{}, fmt.Errorf("%q: %w", s, err)
		}
		return RGBAFromHex(int(v)), nil
	}

	f := strings.Split(s, ",")
	if len(f) != 3 && len(f) != 4 {
		return RGBA{}, fmt.Errorf("%q: expected 3 or 4 channels", s)
	}
	var ch [4]float32
	ch[3] = 1
	for i, v := range f {
		x, err := strconv.ParseFloat(strings.TrimSpace(v), 32)
		if err != nil {
			return RGBA{}, fmt.Errorf("%q: %w", s, err)
		}
		if x < 0 || x > 1 {
			return RGBA{}, fmt.Errorf("%q: channel %d out of range [0,1]", s, i)
		}
		ch[i] = float32(x)
	}
	return RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}
