// renderer/commandbuffer.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	gomath "math"
	"sync"
	"unsafe"
)

// The command buffer stores a series of rendering commands, represented by
// the following values. Each one is followed in the buffer by a number of
// command arguments, after which the next command follows.  Comments
// after each command briefly describe its arguments.
//
// Buffers (vertex, index) are stored directly in the CommandBuffer,
// following RendererFloatBuffer and RendererIntBuffer commands; the first
// argument after those commands is the length of the buffer and then its
// values follow directly. Commands that use buffers are directed to them
// via the byte offset from the start of the command buffer where the
// buffer begins.
const (
	RendererBlend              = iota // no args: always src alpha, 1-src alpha
	RendererDisableBlend              // no args
	RendererSetRGBA                   // 4 float32: RGBA
	RendererFloatBuffer               // int32 size, then size*float32 values
	RendererIntBuffer                 // int32: size, then size*int32 values
	RendererVertexArray               // byte offset to array values, n components, stride (bytes)
	RendererDisableVertexArray        // no args
	RendererLineWidth                 // float32
	RendererPointSize                 // float32
	RendererSmooth                    // int32: 0 or 1
	RendererDepthTest                 // int32: 0 or 1
	RendererDepthOffset               // int32: 0 or 1
	RendererDrawLines                 // 2 int32: offset to the index buffer, count
	RendererDrawTriangles             // 2 int32: offset to the index buffer, count
	RendererDrawPoints                // 2 int32: offset to the index buffer, count
	RendererResetState                // no args
)

// CommandBuffer encodes a sequence of rendering commands in an
// API-agnostic manner. Nodes "pre-bake" their geometry into a
// CommandBuffer that a renderer can then consume, possibly over multiple
// frames.
type CommandBuffer struct {
	Buf []uint32
}

// CommandBuffers are managed using a sync.Pool so that their buf slice
// allocations persist across multiple uses.
var commandBufferPool = sync.Pool{New: func() any { return &CommandBuffer{} }}

func GetCommandBuffer() *CommandBuffer {
	return commandBufferPool.Get().(*CommandBuffer)
}

func ReturnCommandBuffer(cb *CommandBuffer) {
	cb.Reset()
	commandBufferPool.Put(cb)
}

// Reset resets the command buffer's length to zero so that it can be
// reused.
func (cb *CommandBuffer) Reset() {
	cb.Buf = cb.Buf[:0]
}

// growFor ensures that at least n more values can be added to the end of
// the buffer without going past its capacity.
func (cb *CommandBuffer) growFor(n int) {
	if len(cb.Buf)+n > cap(cb.Buf) {
		sz := 2 * cap(cb.Buf)
		if sz < 1024 {
			sz = 1024
		}
		if sz < len(cb.Buf)+n {
			sz = 2 * (len(cb.Buf) + n)
		}
		b := make([]uint32, len(cb.Buf), sz)
		copy(b, cb.Buf)
		cb.Buf = b
	}
}

func (cb *CommandBuffer) appendFloats(floats ...float32) {
	for _, f := range floats {
		// Convert each one to a uint32 since that's the type that is
		// actually stored...
		cb.Buf = append(cb.Buf, gomath.Float32bits(f))
	}
}

func (cb *CommandBuffer) appendInts(ints ...int) {
	for _, i := range ints {
		if i != int(uint32(i)) {
			lg.Errorf("%d: attempting to add non-32-bit value to CommandBuffer", i)
		}
		cb.Buf = append(cb.Buf, uint32(i))
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// SetRGBA adds a command to the command buffer to set the current RGBA
// color. Subsequent draw commands will inherit this color.
func (cb *CommandBuffer) SetRGBA(rgba RGBA) {
	cb.appendInts(RendererSetRGBA)
	cb.appendFloats(rgba.R, rgba.G, rgba.B, rgba.A)
}

// Blend adds a command to the command buffer enable blending.  The blend
// mode cannot be specified currently, since only one mode (alpha over
// blending) is used.
func (cb *CommandBuffer) Blend() {
	cb.appendInts(RendererBlend)
}

func (cb *CommandBuffer) DisableBlend() {
	cb.appendInts(RendererDisableBlend)
}

func (cb *CommandBuffer) DepthTest(enable bool) {
	cb.appendInts(RendererDepthTest, boolInt(enable))
}

// DepthOffset toggles automatic depth offsetting, which pushes draped
// geometry toward the viewer so it does not z-fight with the terrain.
func (cb *CommandBuffer) DepthOffset(enable bool) {
	cb.appendInts(RendererDepthOffset, boolInt(enable))
}

// Smooth toggles line and point antialiasing.
func (cb *CommandBuffer) Smooth(enable bool) {
	cb.appendInts(RendererSmooth, boolInt(enable))
}

// Float2Buffer stores the provided slice of [2]float32 values in the
// CommandBuffer and returns the byte offset where the first value of the
// slice is stored; this offset can then be passed to commands like
// VertexArray to specify this array.
func (cb *CommandBuffer) Float2Buffer(buf [][2]float32) int {
	cb.appendInts(RendererFloatBuffer, 2*len(buf))
	offset := 4 * len(cb.Buf)
	if len(buf) == 0 {
		return offset
	}

	n := 2 * len(buf)
	cb.growFor(n)
	start := len(cb.Buf)
	cb.Buf = cb.Buf[:start+n]
	copy(cb.Buf[start:start+n], unsafe.Slice((*uint32)(unsafe.Pointer(&buf[0])), n))

	return offset
}

// IntBuffer stores the provided slice of int32 values in the command buffer
// and returns the byte offset where the first value of the slice is stored.
func (cb *CommandBuffer) IntBuffer(buf []int32) int {
	cb.appendInts(RendererIntBuffer, len(buf))
	offset := 4 * len(cb.Buf)
	if len(buf) == 0 {
		return offset
	}

	n := len(buf)
	cb.growFor(n)
	start := len(cb.Buf)
	cb.Buf = cb.Buf[:start+n]
	copy(cb.Buf[start:start+n], unsafe.Slice((*uint32)(unsafe.Pointer(&buf[0])), n))

	return offset
}

// VertexArray adds a command to the command buffer that specifies an array
// of vertex coordinates to use for a subsequent draw command. offset gives
// the offset into the current command buffer where the vertices begin
// (e.g., as returned by Float2Buffer), nComps is the number of components
// per vertex, and stride gives the stride in bytes between vertices.
func (cb *CommandBuffer) VertexArray(offset, nComps, stride int) {
	cb.appendInts(RendererVertexArray, offset, nComps, stride)
}

func (cb *CommandBuffer) DisableVertexArray() {
	cb.appendInts(RendererDisableVertexArray)
}

// LineWidth adds a command to the command buffer that sets the width in
// pixels of subsequent lines that are drawn.
func (cb *CommandBuffer) LineWidth(w float32, scale float32) {
	cb.appendInts(RendererLineWidth)
	// Scale so that lines are the same width on retina-style displays.
	cb.appendFloats(w * scale)
}

// PointSize sets the diameter in pixels of subsequent points.
func (cb *CommandBuffer) PointSize(sz float32, scale float32) {
	cb.appendInts(RendererPointSize)
	cb.appendFloats(sz * scale)
}

// DrawLines adds a command to the command buffer to draw a number of
// lines; each line is specified by two indices in the index buffer.
// offset gives the offset in the current command buffer where the index
// buffer is (e.g., as returned by IntBuffer), and count gives the total
// number of indices.
func (cb *CommandBuffer) DrawLines(offset, count int) {
	cb.appendInts(RendererDrawLines, offset, count)
}

// DrawTriangles adds a command to the command buffer to draw a number of
// triangles; each is specified by three vertices in the index
// buffer.
func (cb *CommandBuffer) DrawTriangles(offset, count int) {
	cb.appendInts(RendererDrawTriangles, offset, count)
}

func (cb *CommandBuffer) DrawPoints(offset, count int) {
	cb.appendInts(RendererDrawPoints, offset, count)
}

// ResetState adds a command to the comment buffer that resets all of the
// assorted graphics state (blending, depth, vertex arrays, etc.) to
// default values.
func (cb *CommandBuffer) ResetState() {
	cb.appendInts(RendererResetState)
}

// Stats walks the command buffer and tallies what a renderer executing it
// would draw.
func (cb *CommandBuffer) Stats() (RendererStats, error) {
	var stats RendererStats
	i := 0
	need := func(n int) error {
		if i+n > len(cb.Buf) {
			return ErrTruncatedCommandBuffer
		}
		return nil
	}

	for i < len(cb.Buf) {
		cmd := cb.Buf[i]
		i++
		switch cmd {
		case RendererBlend, RendererDisableBlend, RendererDisableVertexArray, RendererResetState:
		case RendererSetRGBA:
			if err := need(4); err != nil {
				return stats, err
			}
			i += 4
		case RendererFloatBuffer, RendererIntBuffer:
			if err := need(1); err != nil {
				return stats, err
			}
			n := int(cb.Buf[i])
			i++
			if err := need(n); err != nil {
				return stats, err
			}
			i += n
			stats.nBuffers++
			stats.bufferBytes += 4 * n
		case RendererVertexArray:
			if err := need(3); err != nil {
				return stats, err
			}
			i += 3
		case RendererLineWidth, RendererPointSize, RendererSmooth, RendererDepthTest, RendererDepthOffset:
			if err := need(1); err != nil {
				return stats, err
			}
			i++
		case RendererDrawLines, RendererDrawTriangles, RendererDrawPoints:
			if err := need(2); err != nil {
				return stats, err
			}
			count := int(cb.Buf[i+1])
			i += 2
			stats.nDrawCalls++
			switch cmd {
			case RendererDrawLines:
				stats.nLines += count / 2
			case RendererDrawTriangles:
				stats.nTriangles += count / 3
			case RendererDrawPoints:
				stats.nPoints += count
			}
		default:
			return stats, ErrUnknownCommand
		}
	}
	return stats, nil
}
