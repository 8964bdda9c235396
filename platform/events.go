// platform/events.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package platform

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

var ErrUnknownEventKind = errors.New("unknown pointer event kind")

type EventKind int

const (
	EventPress EventKind = iota
	EventDrag
	EventRelease
	EventDoubleClick
	EventMove
)

func (k EventKind) String() string {
	switch k {
	case EventPress:
		return "press"
	case EventDrag:
		return "drag"
	case EventRelease:
		return "release"
	case EventDoubleClick:
		return "dblclick"
	case EventMove:
		return "move"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

func ParseEventKind(s string) (EventKind, error) {
	switch strings.ToLower(s) {
	case "press", "push":
		return EventPress, nil
	case "drag":
		return EventDrag, nil
	case "release":
		return EventRelease, nil
	case "dblclick", "doubleclick":
		return EventDoubleClick, nil
	case "move":
		return EventMove, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrUnknownEventKind)
	}
}

// PointerEvent is a single mouse event in logical window pixels. Button
// is the button that changed state for press, release, and double-click
// events; Mask holds the buttons down when the event was generated.
type PointerEvent struct {
	Kind   EventKind
	Button MouseButton
	Mask   ButtonMask
	Pos    [2]float32
}

func (e PointerEvent) String() string {
	return fmt.Sprintf("%s %s mask=%03b (%.1f, %.1f)", e.Kind, e.Button, e.Mask, e.Pos[0], e.Pos[1])
}

// EventHandler is implemented by things that want pointer input. A true
// return value indicates that the event was consumed and should not be
// used for anything else (e.g., camera manipulation).
type EventHandler interface {
	HandlePointer(ev PointerEvent) bool
}

type EventSource interface {
	AddEventHandler(h EventHandler)
	RemoveEventHandler(h EventHandler)
}

// EventDispatcher is an EventSource that delivers events to its handlers
// in registration order until one consumes the event.
type EventDispatcher struct {
	mu       sync.Mutex
	handlers []EventHandler
}

func (d *EventDispatcher) AddEventHandler(h EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !slices.Contains(d.handlers, h) {
		d.handlers = append(d.handlers, h)
	}
}

func (d *EventDispatcher) RemoveEventHandler(h EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = slices.DeleteFunc(d.handlers, func(e EventHandler) bool { return e == h })
}

func (d *EventDispatcher) NumHandlers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.handlers)
}

// Dispatch delivers ev and reports whether a handler consumed it.
func (d *EventDispatcher) Dispatch(ev PointerEvent) bool {
	d.mu.Lock()
	handlers := slices.Clone(d.handlers)
	d.mu.Unlock()

	for _, h := range handlers {
		if h.HandlePointer(ev) {
			return true
		}
	}
	return false
}
