// draw/config.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package draw

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmp/geodraw/renderer"
	"github.com/mmp/geodraw/util"

	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid drawing configuration")

// Config holds the tunable thresholds and styling constants of the
// drawing engine.
type Config struct {
	// Successive polyline vertices closer than this are dropped.
	MinSampleDistanceMeters float64 `mapstructure:"min_sample_distance_m" json:"min_sample_distance_m"`
	// Freehand samples use MinSampleDistanceMeters scaled by this.
	FreehandSampleFactor float64 `mapstructure:"freehand_sample_factor" json:"freehand_sample_factor"`
	// Rectangles whose corners are closer than this are discarded on
	// release.
	RectangleMinDistanceMeters float64 `mapstructure:"rectangle_min_distance_m" json:"rectangle_min_distance_m"`

	PreviewAlphaScale  float32 `mapstructure:"preview_alpha_scale" json:"preview_alpha_scale"`
	PreviewFillOpacity float64 `mapstructure:"preview_fill_opacity" json:"preview_fill_opacity"`
	CommitFillOpacity  float64 `mapstructure:"commit_fill_opacity" json:"commit_fill_opacity"`

	// Rendered point diameter is max(thickness*PointSizeFactor, MinPointSize).
	PointSizeFactor float32 `mapstructure:"point_size_factor" json:"point_size_factor"`
	MinPointSize    float32 `mapstructure:"min_point_size" json:"min_point_size"`
	// Point primitives are committed with their thickness scaled by this.
	PointThicknessFactor float32 `mapstructure:"point_thickness_factor" json:"point_thickness_factor"`

	MinThickness     float32 `mapstructure:"min_thickness" json:"min_thickness"`
	MaxThickness     float32 `mapstructure:"max_thickness" json:"max_thickness"`
	ThicknessEpsilon float32 `mapstructure:"thickness_epsilon" json:"thickness_epsilon"`

	DefaultColor     renderer.RGBA `mapstructure:"default_color" json:"default_color"`
	DefaultThickness float32       `mapstructure:"default_thickness" json:"default_thickness"`
}

func DefaultConfig() Config {
	return Config{
		MinSampleDistanceMeters:    1,
		FreehandSampleFactor:       0.25,
		RectangleMinDistanceMeters: 1,
		PreviewAlphaScale:          0.65,
		PreviewFillOpacity:         0.28,
		CommitFillOpacity:          0.35,
		PointSizeFactor:            2.4,
		MinPointSize:               8,
		PointThicknessFactor:       1.6,
		MinThickness:               1,
		MaxThickness:               20,
		ThicknessEpsilon:           0.01,
		DefaultColor:               renderer.RGBA{R: 0.97, G: 0.58, B: 0.20, A: 1},
		DefaultThickness:           4,
	}
}

// DefaultStroke returns the stroke a Controller starts with.
func (c Config) DefaultStroke() StrokeStyle {
	return StrokeStyle{Color: c.DefaultColor, ThicknessPixels: c.ClampThickness(c.DefaultThickness)}
}

func (c Config) ClampThickness(t float32) float32 {
	if t < c.MinThickness {
		return c.MinThickness
	} else if t > c.MaxThickness {
		return c.MaxThickness
	}
	return t
}

// FreehandSampleDistance is the minimum spacing of freehand samples.
func (c Config) FreehandSampleDistance() float64 {
	return c.MinSampleDistanceMeters * c.FreehandSampleFactor
}

// Validate reports every out-of-range setting.
func (c Config) Validate() error {
	var e util.ErrorLogger
	e.Push("drawing config")
	defer e.Pop()

	nonNegative := func(name string, v float64) {
		if v < 0 {
			e.ErrorString("%s must be non-negative, got %g", name, v)
		}
	}
	unit := func(name string, v float64) {
		if v < 0 || v > 1 {
			e.ErrorString("%s must be in [0,1], got %g", name, v)
		}
	}

	nonNegative("min_sample_distance_m", c.MinSampleDistanceMeters)
	nonNegative("freehand_sample_factor", c.FreehandSampleFactor)
	nonNegative("rectangle_min_distance_m", c.RectangleMinDistanceMeters)
	nonNegative("point_size_factor", float64(c.PointSizeFactor))
	nonNegative("min_point_size", float64(c.MinPointSize))
	nonNegative("point_thickness_factor", float64(c.PointThicknessFactor))
	nonNegative("thickness_epsilon", float64(c.ThicknessEpsilon))
	unit("preview_alpha_scale", float64(c.PreviewAlphaScale))
	unit("preview_fill_opacity", c.PreviewFillOpacity)
	unit("commit_fill_opacity", c.CommitFillOpacity)

	if c.MinThickness <= 0 || c.MaxThickness < c.MinThickness {
		e.ErrorString("thickness range [%g, %g] is invalid", c.MinThickness, c.MaxThickness)
	}

	e.Push("default_color")
	for i, ch := range []float32{c.DefaultColor.R, c.DefaultColor.G, c.DefaultColor.B, c.DefaultColor.A} {
		if ch < 0 || ch > 1 {
			e.ErrorString("channel %d must be in [0,1], got %g", i, ch)
		}
	}
	e.Pop()

	if err := e.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfig returns DefaultConfig overridden by the optional file at
// path (JSON, YAML, or TOML) and then by GEODRAW_* environment
// variables, e.g. GEODRAW_MIN_SAMPLE_DISTANCE_M or
// GEODRAW_DEFAULT_COLOR_R.
func LoadConfig(path string) (Config, error) {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("min_sample_distance_m", def.MinSampleDistanceMeters)
	v.SetDefault("freehand_sample_factor", def.FreehandSampleFactor)
	v.SetDefault("rectangle_min_distance_m", def.RectangleMinDistanceMeters)
	v.SetDefault("preview_alpha_scale", def.PreviewAlphaScale)
	v.SetDefault("preview_fill_opacity", def.PreviewFillOpacity)
	v.SetDefault("commit_fill_opacity", def.CommitFillOpacity)
	v.SetDefault("point_size_factor", def.PointSizeFactor)
	v.SetDefault("min_point_size", def.MinPointSize)
	v.SetDefault("point_thickness_factor", def.PointThicknessFactor)
	v.SetDefault("min_thickness", def.MinThickness)
	v.SetDefault("max_thickness", def.MaxThickness)
	v.SetDefault("thickness_epsilon", def.ThicknessEpsilon)
	v.SetDefault("default_color.r", def.DefaultColor.R)
	v.SetDefault("default_color.g", def.DefaultColor.G)
	v.SetDefault("default_color.b", def.DefaultColor.B)
	v.SetDefault("default_color.a", def.DefaultColor.A)
	v.SetDefault("default_thickness", def.DefaultThickness)

	if path != "" {
		if strings.EqualFold(filepath.Ext(path), ".json") {
			b, err := os.ReadFile(path)
			if err != nil {
				return Config{}, err
			}
			if err := util.CheckJSON(b); err != nil {
				return Config{}, fmt.Errorf("%s: %w", path, err)
			}
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}

	// Environment variables: GEODRAW_DEFAULT_COLOR_R -> default_color.r
	v.SetEnvPrefix("GEODRAW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
