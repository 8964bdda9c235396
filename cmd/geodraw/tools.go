// cmd/geodraw/tools.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"fmt"
	"strings"

	"github.com/mmp/geodraw/math"
	"github.com/mmp/geodraw/terrain"

	"github.com/spf13/cobra"
)

var mkdemOpts struct {
	center   string
	size     float64
	width    int
	height   int
	base     float64
	hills    int
	maxHill  float64
	seed     uint64
	flatOnly bool
}

var mkdemCmd = &cobra.Command{
	Use:   "mkdem <out" + terrain.TileFileSuffix + ">",
	Short: "Write a synthetic terrain tile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !strings.HasSuffix(args[0], terrain.TileFileSuffix) {
			return fmt.Errorf("%s: tile filename must end in %s", args[0], terrain.TileFileSuffix)
		}

		center, err := math.ParseLatLong([]byte(mkdemOpts.center))
		if err != nil {
			return err
		}
		half := mkdemOpts.size / 2
		extent := math.Extent2D{
			P0: [2]float64{center.LongitudeDeg - half, center.LatitudeDeg - half},
			P1: [2]float64{center.LongitudeDeg + half, center.LatitudeDeg + half},
		}

		var g *terrain.Grid
		if mkdemOpts.flatOnly {
			g = terrain.Flat(extent, float32(mkdemOpts.base))
		} else {
			g = terrain.SyntheticHills(terrain.HillsSpec{
				Extent:    extent,
				Width:     mkdemOpts.width,
				Height:    mkdemOpts.height,
				Base:      mkdemOpts.base,
				NumHills:  mkdemOpts.hills,
				MaxHeight: mkdemOpts.maxHill,
				MaxRadius: 0.2,
				Seed:      mkdemOpts.seed,
			})
		}
		if err := g.Validate(); err != nil {
			return err
		}

		if err := terrain.SaveGrid(args[0], g); err != nil {
			lg.Errorf("%s: %v", args[0], err)
			return err
		}

		lo, hi := g.MinMax()
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d samples, heights %.1f to %.1f m\n", args[0], g.Width, g.Height, lo, hi)
		return nil
	},
}

var distanceCmd = &cobra.Command{
	Use:   "distance <lat,long> <lat,long>",
	Short: "Print the great-circle distance between two positions",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := parsePositions(args)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%.3f m\n", math.DistanceMeters(p[0], p[1]))
		return nil
	},
}

var rectCmd = &cobra.Command{
	Use:   "rect <lat,long> <lat,long>",
	Short: "Print the corners of the rectangle two opposite corners define",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := parsePositions(args)
		if err != nil {
			return err
		}
		for _, v := range math.RectangleVertices(p[0], p[1]) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", v.DDString(), v.DMSString())
		}
		return nil
	},
}

func parsePositions(args []string) ([]math.GeoPoint, error) {
	var p []math.GeoPoint
	for _, a := range args {
		ll, err := math.ParseLatLong([]byte(a))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", a, err)
		}
		p = append(p, ll)
	}
	return p, nil
}

func init() {
	rootCmd.AddCommand(mkdemCmd, distanceCmd, rectCmd)

	f := mkdemCmd.Flags()
	f.StringVar(&mkdemOpts.center, "center", "46.5, 8.0", "latitude, longitude of the tile center")
	f.Float64Var(&mkdemOpts.size, "size", 0.25, "tile width and height in degrees")
	f.IntVar(&mkdemOpts.width, "width", 512, "samples per row")
	f.IntVar(&mkdemOpts.height, "height", 512, "number of rows")
	f.Float64Var(&mkdemOpts.base, "base", 400, "base elevation in meters")
	f.IntVar(&mkdemOpts.hills, "hills", 12, "number of hills")
	f.Float64Var(&mkdemOpts.maxHill, "max-hill", 1500, "maximum hill height in meters")
	f.Uint64Var(&mkdemOpts.seed, "seed", 1, "random seed")
	f.BoolVar(&mkdemOpts.flatOnly, "flat", false, "write a flat tile at the base elevation")
}
