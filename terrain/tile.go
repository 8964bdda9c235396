// terrain/tile.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package terrain

import (
	"context"
	"fmt"
	"io"
	gomath "math"
	"os"

	"github.com/mmp/geodraw/log"
	"github.com/mmp/geodraw/math"
	"github.com/mmp/geodraw/util"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"
)

// TileFileSuffix is the conventional suffix for elevation tiles.
const TileFileSuffix = ".dem.msgpack.zst"

// tileVersion is bumped whenever the on-disk layout changes.
const tileVersion = 1

// tileSOA is the serialized form of a Grid: heights are quantized to
// centimeters and delta encoded along rows, which makes smooth terrain
// compress well.
type tileSOA struct {
	Version int
	Extent  [4]float64 // lon0, lat0, lon1, lat1
	Width   int
	Height  int
	Deltas  []int32
}

func WriteGrid(w io.Writer, g *Grid) error {
	if err := g.Validate(); err != nil {
		return err
	}

	cm := make([]int32, len(g.Heights))
	for i, h := range g.Heights {
		cm[i] = int32(gomath.Round(float64(h) * 100))
	}
	soa := tileSOA{
		Version: tileVersion,
		Extent:  [4]float64{g.Extent.P0[0], g.Extent.P0[1], g.Extent.P1[0], g.Extent.P1[1]},
		Width:   g.Width,
		Height:  g.Height,
		Deltas:  util.DeltaEncode(cm),
	}

	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	defer zw.Close()

	if err := msgpack.NewEncoder(zw).Encode(soa); err != nil {
		return fmt.Errorf("failed to encode tile: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %w", err)
	}
	return nil
}

func ReadGrid(r io.Reader) (*Grid, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	var soa tileSOA
	if err := msgpack.NewDecoder(zr).Decode(&soa); err != nil {
		return nil, fmt.Errorf("failed to decode tile: %w", err)
	}
	if soa.Version != tileVersion {
		return nil, fmt.Errorf("tile version %d, expected %d: %w", soa.Version, tileVersion, ErrBadTile)
	}
	if soa.Width < 0 || soa.Height < 0 || len(soa.Deltas) != soa.Width*soa.Height {
		return nil, fmt.Errorf("%d samples for %dx%d tile: %w", len(soa.Deltas), soa.Width, soa.Height, ErrBadTile)
	}

	g := &Grid{
		Extent: math.Extent2D{
			P0: [2]float64{soa.Extent[0], soa.Extent[1]},
			P1: [2]float64{soa.Extent[2], soa.Extent[3]},
		},
		Width:   soa.Width,
		Height:  soa.Height,
		Heights: make([]float32, len(soa.Deltas)),
	}
	for i, cm := range util.DeltaDecode(soa.Deltas) {
		g.Heights[i] = float32(cm) / 100
	}
	return g, g.Validate()
}

func SaveGrid(path string, g *Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteGrid(f, g); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

func LoadGrid(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := ReadGrid(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// LoadMosaic loads the given tiles concurrently. The resulting Mosaic
// keeps the order of paths so that earlier tiles take precedence where
// they overlap.
func LoadMosaic(ctx context.Context, paths []string, nWorkers int, lg *log.Logger) (Mosaic, error) {
	m := make(Mosaic, len(paths))

	eg, ctx := errgroup.WithContext(ctx)
	if nWorkers > 0 {
		eg.SetLimit(nWorkers)
	}
	for i, path := range paths {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			g, err := LoadGrid(path)
			if err != nil {
				return err
			}
			lo, hi := g.MinMax()
			lg.Debugf("%s: loaded %dx%d tile, heights [%.1f, %.1f]", path, g.Width, g.Height, lo, hi)
			m[i] = g
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}
