// platform/keymouse.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package platform

type MouseButton int

const (
	MouseButtonPrimary MouseButton = iota
	MouseButtonSecondary
	MouseButtonTertiary
	MouseButtonCount
)

func (b MouseButton) String() string {
	switch b {
	case MouseButtonPrimary:
		return "primary"
	case MouseButtonSecondary:
		return "secondary"
	case MouseButtonTertiary:
		return "tertiary"
	default:
		return "unknown"
	}
}

// Mask returns the ButtonMask bit for b.
func (b MouseButton) Mask() ButtonMask {
	if b < 0 || b >= MouseButtonCount {
		return 0
	}
	return ButtonMask(1) << b
}

// ButtonMask records which buttons are held down.
type ButtonMask uint8

func (m ButtonMask) Has(b MouseButton) bool {
	return b.Mask() != 0 && m&b.Mask() != 0
}

// MouseState is the per-frame snapshot of the mouse that immediate-mode
// hosts poll. Events converts it to the discrete PointerEvents that
// EventHandlers consume.
type MouseState struct {
	Pos           [2]float32
	DeltaPos      [2]float32
	Down          [MouseButtonCount]bool
	Clicked       [MouseButtonCount]bool
	Released      [MouseButtonCount]bool
	DoubleClicked [MouseButtonCount]bool
	Dragging      [MouseButtonCount]bool
	DragDelta     [2]float32
	Wheel         [2]float32
}

// Mask returns the buttons currently held.
func (ms *MouseState) Mask() ButtonMask {
	var m ButtonMask
	for b := MouseButtonPrimary; b < MouseButtonCount; b++ {
		if ms.Down[b] {
			m |= b.Mask()
		}
	}
	return m
}

// Events returns the discrete pointer events the frame's state implies,
// in the order press, double-click, drag or move, release.
func (ms *MouseState) Events() []PointerEvent {
	if ms == nil {
		return nil
	}

	var events []PointerEvent
	mask := ms.Mask()
	add := func(kind EventKind, b MouseButton, m ButtonMask) {
		events = append(events, PointerEvent{Kind: kind, Button: b, Mask: m, Pos: ms.Pos})
	}

	for b := MouseButtonPrimary; b < MouseButtonCount; b++ {
		if ms.Clicked[b] {
			add(EventPress, b, mask|b.Mask())
		}
	}
	for b := MouseButtonPrimary; b < MouseButtonCount; b++ {
		if ms.DoubleClicked[b] {
			add(EventDoubleClick, b, mask|b.Mask())
		}
	}

	dragging := false
	for b := MouseButtonPrimary; b < MouseButtonCount; b++ {
		if ms.Dragging[b] {
			dragging = true
			add(EventDrag, b, mask|b.Mask())
			break
		}
	}
	if !dragging && mask == 0 && (ms.DeltaPos[0] != 0 || ms.DeltaPos[1] != 0) {
		add(EventMove, MouseButtonCount, 0)
	}

	for b := MouseButtonPrimary; b < MouseButtonCount; b++ {
		if ms.Released[b] {
			add(EventRelease, b, mask&^b.Mask())
		}
	}

	return events
}
