// renderer/renderer.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package renderer describes terrain-draped drawing primitives in a form
// that is independent of any particular scene graph or graphics API.
package renderer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmp/geodraw/log"
)

var (
	ErrTruncatedCommandBuffer = errors.New("command buffer ends in the middle of a command")
	ErrUnknownCommand         = errors.New("unknown command in command buffer")
)

var lg *log.Logger

// SetLogger sets the logger used for reporting malformed commands.
func SetLogger(l *log.Logger) {
	lg = l
}

// RendererStats encapsulates assorted statistics from rendering.
type RendererStats struct {
	nBuffers, bufferBytes       int
	nDrawCalls                  int
	nPoints, nLines, nTriangles int
}

func (rs RendererStats) DrawCalls() int { return rs.nDrawCalls }
func (rs RendererStats) Points() int { return rs.nPoints }
func (rs RendererStats) Lines() int { return rs.nLines }
func (rs RendererStats) Triangles() int { return rs.nTriangles }

func (rs RendererStats) String() string {
	return fmt.Sprintf("%d buffers (%.2f KB), %d draw calls: %d points, %d lines, %d tris",
		rs.nBuffers, float32(rs.bufferBytes)/1024, rs.nDrawCalls, rs.nPoints, rs.nLines, rs.nTriangles)
}

func (rs *RendererStats) Merge(s RendererStats) {
	rs.nBuffers += s.nBuffers
	rs.bufferBytes += s.bufferBytes
	rs.nDrawCalls += s.nDrawCalls
	rs.nPoints += s.nPoints
	rs.nLines += s.nLines
	rs.nTriangles += s.nTriangles
}

func (rs RendererStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("buffers", rs.nBuffers),
		slog.Int("buffer_memory", rs.bufferBytes),
		slog.Int("draw_calls", rs.nDrawCalls),
		slog.Int("points_drawn", rs.nPoints),
		slog.Int("lines", rs.nLines),
		slog.Int("tris", rs.nTriangles),
	)
}
