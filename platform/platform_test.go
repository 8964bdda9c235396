// platform/platform_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package platform

import (
	"errors"
	"slices"
	"testing"
)

func TestButtonMask(t *testing.T) {
	m := MouseButtonPrimary.Mask() | MouseButtonTertiary.Mask()
	if !m.Has(MouseButtonPrimary) || m.Has(MouseButtonSecondary) || !m.Has(MouseButtonTertiary) {
		t.Errorf("mask %03b has wrong bits", m)
	}
	if MouseButtonCount.Mask() != 0 || m.Has(MouseButtonCount) {
		t.Errorf("out of range button should have no mask bit")
	}
}

func TestParseEventKind(t *testing.T) {
	for _, k := range []EventKind{EventPress, EventDrag, EventRelease, EventDoubleClick, EventMove} {
		if got, err := ParseEventKind(k.String()); err != nil || got != k {
			t.Errorf("%s: got %v, %v", k, got, err)
		}
	}
	if _, err := ParseEventKind("scroll"); !errors.Is(err, ErrUnknownEventKind) {
		t.Errorf("expected ErrUnknownEventKind, got %v", err)
	}
}

func TestMouseStateEvents(t *testing.T) {
	kinds := func(evs []PointerEvent) []EventKind {
		var k []EventKind
		for _, e := range evs {
			k = append(k, e.Kind)
		}
		return k
	}

	for _, tc := range []struct {
		name   string
		ms     MouseState
		expect []EventKind
	}{
		{name: "idle", ms: MouseState{}, expect: nil},
		{name: "hover", ms: MouseState{DeltaPos: [2]float32{1, 0}}, expect: []EventKind{EventMove}},
		{
			name:   "click",
			ms:     MouseState{Clicked: [MouseButtonCount]bool{true}, Down: [MouseButtonCount]bool{true}},
			expect: []EventKind{EventPress},
		},
		{
			name: "drag while held",
			ms: MouseState{Down: [MouseButtonCount]bool{true}, Dragging: [MouseButtonCount]bool{true},
				DeltaPos: [2]float32{3, 4}},
			expect: []EventKind{EventDrag},
		},
		{
			name:   "release",
			ms:     MouseState{Released: [MouseButtonCount]bool{true}},
			expect: []EventKind{EventRelease},
		},
		{
			name: "double click",
			ms: MouseState{Clicked: [MouseButtonCount]bool{true}, DoubleClicked: [MouseButtonCount]bool{true},
				Down: [MouseButtonCount]bool{true}},
			expect: []EventKind{EventPress, EventDoubleClick},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := kinds(tc.ms.Events())
			if !slices.Equal(got, tc.expect) {
				t.Errorf("got %v, expected %v", got, tc.expect)
			}
		})
	}

	ms := MouseState{Pos: [2]float32{10, 20}, Down: [MouseButtonCount]bool{true, false, true},
		Dragging: [MouseButtonCount]bool{true}}
	evs := ms.Events()
	if len(evs) != 1 || evs[0].Pos != ms.Pos || !evs[0].Mask.Has(MouseButtonPrimary) ||
		!evs[0].Mask.Has(MouseButtonTertiary) {
		t.Errorf("unexpected drag event %v", evs)
	}
	if ev := (&MouseState{Released: [MouseButtonCount]bool{true}}).Events()[0]; ev.Mask.Has(MouseButtonPrimary) {
		t.Errorf("release mask should not include the released button")
	}
}

type recordingHandler struct {
	consume bool
	got     []PointerEvent
}

func (r *recordingHandler) HandlePointer(ev PointerEvent) bool {
	r.got = append(r.got, ev)
	return r.consume
}

func TestEventDispatcher(t *testing.T) {
	var d EventDispatcher
	a, b := &recordingHandler{}, &recordingHandler{consume: true}
	d.AddEventHandler(a)
	d.AddEventHandler(b)
	d.AddEventHandler(a) // duplicate registration is ignored

	if n := d.NumHandlers(); n != 2 {
		t.Errorf("expected 2 handlers, got %d", n)
	}
	if !d.Dispatch(PointerEvent{Kind: EventPress}) {
		t.Errorf("event should have been consumed")
	}
	if len(a.got) != 1 || len(b.got) != 1 {
		t.Errorf("handlers saw %d and %d events", len(a.got), len(b.got))
	}

	d.RemoveEventHandler(b)
	if d.Dispatch(PointerEvent{Kind: EventMove}) {
		t.Errorf("no remaining handler consumes")
	}
	if len(b.got) != 1 {
		t.Errorf("removed handler still receives events")
	}
}
