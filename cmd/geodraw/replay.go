// cmd/geodraw/replay.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"context"
	"fmt"
	"io"
	gomath "math"
	"os"
	"runtime"
	"time"

	"github.com/mmp/geodraw/draw"
	"github.com/mmp/geodraw/math"
	"github.com/mmp/geodraw/renderer"
	"github.com/mmp/geodraw/scene"
	"github.com/mmp/geodraw/terrain"
	"github.com/mmp/geodraw/util"

	"github.com/goforj/godump"
	"github.com/spf13/cobra"
)

type replayOptions struct {
	center    string
	altitude  float64
	width     int
	height    int
	scale     float32
	demFiles  []string
	hills     int
	seed      uint64
	cacheSize int
	dump      bool
	commands  bool
}

var replayOpts replayOptions

var replayCmd = &cobra.Command{
	Use:   "replay <script>",
	Short: "Replay a script of pointer events and print the committed primitives",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		defer lg.CatchAndReportCrash()

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		steps, err := parseScript(f)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		return replay(cmd.Context(), steps, replayOpts, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)

	f := replayCmd.Flags()
	f.StringVar(&replayOpts.center, "center", "46.5, 8.0", "latitude, longitude below the camera")
	f.Float64Var(&replayOpts.altitude, "altitude", 5000, "camera altitude in meters")
	f.IntVar(&replayOpts.width, "width", 800, "view width in logical pixels")
	f.IntVar(&replayOpts.height, "height", 600, "view height in logical pixels")
	f.Float32Var(&replayOpts.scale, "scale", 1, "device pixels per logical pixel")
	f.StringSliceVar(&replayOpts.demFiles, "dem", nil, "terrain tiles ("+terrain.TileFileSuffix+"); earlier tiles take precedence")
	f.IntVar(&replayOpts.hills, "hills", 0, "if no tiles are given, generate this many synthetic hills around the center")
	f.Uint64Var(&replayOpts.seed, "seed", 1, "random seed for synthetic hills")
	f.IntVar(&replayOpts.cacheSize, "cache", 1<<16, "number of terrain heights to cache")
	f.BoolVar(&replayOpts.dump, "dump", false, "dump the committed primitives in full")
	f.BoolVar(&replayOpts.commands, "commands", false, "report draw command statistics for the drawing layer")
}

// replayTerrain returns the terrain for the replay along with bounds on
// its heights; the terrain is nil if neither tiles nor hills were
// requested.
func replayTerrain(ctx context.Context, opts replayOptions, center math.GeoPoint) (terrain.Provider, float64, float64, error) {
	var grids []*terrain.Grid
	if len(opts.demFiles) > 0 {
		m, err := terrain.LoadMosaic(ctx, opts.demFiles, runtime.NumCPU(), lg)
		if err != nil {
			return nil, 0, 0, err
		}
		grids = m
	} else if opts.hills > 0 {
		const halfSize = 0.1 // degrees
		g := terrain.SyntheticHills(terrain.HillsSpec{
			Extent: math.Extent2D{
				P0: [2]float64{center.LongitudeDeg - halfSize, center.LatitudeDeg - halfSize},
				P1: [2]float64{center.LongitudeDeg + halfSize, center.LatitudeDeg + halfSize},
			},
			Width:     256,
			Height:    256,
			Base:      400,
			NumHills:  opts.hills,
			MaxHeight: 1500,
			MaxRadius: 0.2,
			Seed:      opts.seed,
		})
		grids = []*terrain.Grid{g}
	} else {
		return nil, 0, 0, nil
	}

	lo, hi := float32(gomath.Inf(1)), float32(gomath.Inf(-1))
	for _, g := range grids {
		glo, ghi := g.MinMax()
		lo, hi = math.Min(lo, glo), math.Max(hi, ghi)
	}
	return terrain.Mosaic(grids), float64(lo), float64(hi), nil
}

func replay(ctx context.Context, steps []scriptStep, opts replayOptions, w io.Writer) error {
	center, err := math.ParseLatLong([]byte(opts.center))
	if err != nil {
		return err
	}

	globe := scene.NewGlobe(center, opts.altitude, opts.width, opts.height)
	globe.Scale = opts.scale

	var tr scene.Terrain
	var cache *terrain.Cached
	p, lo, hi, err := replayTerrain(ctx, opts, center)
	if err != nil {
		return err
	}
	if p != nil {
		cache = terrain.NewCached(p, opts.cacheSize, 10*time.Minute)
		tr = cache
		globe.Terrain = cache
		globe.MinElevation, globe.MaxElevation = lo, hi
		if globe.Center.AltitudeMeters <= hi {
			return fmt.Errorf("camera altitude %.0fm is below the highest terrain, %.0fm", opts.altitude, hi)
		}
	}

	m := scene.NewMap(scene.Geographic{Ellipsoid: math.WGS84}, tr)

	c := draw.NewController(cfg, lg)
	c.AttachView(globe)
	c.SetMapNode(m)
	defer c.Detach()

	for _, s := range steps {
		switch s.Kind {
		case stepTool:
			c.SetTool(s.Tool)
		case stepColor:
			c.SetStrokeColor(s.Color)
		case stepThickness:
			c.SetStrokeThickness(s.Thickness)
		case stepClear:
			c.ClearDrawings()
		case stepPointer:
			consumed := globe.Dispatch(s.Event)
			lg.Debugf("line %d: %s %s", s.Line, s.Event, util.Select(consumed, "consumed", "not consumed"))
		}
	}

	committed := c.Committed()
	fmt.Fprintf(w, "%d primitives\n", len(committed))
	for i, def := range committed {
		fmt.Fprintf(w, "%3d: %s\n", i, def)
	}
	if d, ok := c.Draft(); ok {
		fmt.Fprintf(w, "unfinished draft with %d vertices\n", len(d.Vertices))
	}

	if opts.dump {
		godump.Fdump(w, committed)
	}

	if opts.commands {
		cb := renderer.GetCommandBuffer()
		defer renderer.ReturnCommandBuffer(cb)
		m.MemoryLayer(draw.LayerName).GenerateCommands(cb, globe.DPIScale())

		stats, err := cb.Stats()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "draw commands: %s\n", stats)
	}

	if cache != nil {
		hits, misses := cache.Stats()
		lg.Info("terrain cache", "hits", hits, "misses", misses, "entries", cache.Len())
	}

	return nil
}
