// cmd/geodraw/script.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mmp/geodraw/draw"
	"github.com/mmp/geodraw/platform"
	"github.com/mmp/geodraw/renderer"
	"github.com/mmp/geodraw/util"
)

// A replay script has one command per line; blank lines and lines
// starting with '#' are ignored:
//
//	tool polyline
//	color #ff8000
//	thickness 6
//	press 400 300
//	drag 410 305
//	release 410 305 [button]
//	dblclick 420 310
//	move 430 300
//	clear
//
// Pointer positions are logical window pixels. The optional button is
// primary (the default), secondary, or tertiary.

type stepKind int

const (
	stepTool stepKind = iota
	stepColor
	stepThickness
	stepClear
	stepPointer
)

type scriptStep struct {
	Line      int
	Kind      stepKind
	Tool      draw.DrawingTool
	Color     renderer.RGBA
	Thickness float32
	Event     platform.PointerEvent
}

func parseButton(s string) (platform.MouseButton, error) {
	for b := platform.MouseButtonPrimary; b < platform.MouseButtonCount; b++ {
		if strings.EqualFold(s, b.String()) {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%q: unknown mouse button", s)
}

// pointerEvent returns the event for the given kind at the given
// position. The button mask reflects the state after the event: held
// for presses and drags, released otherwise.
func pointerEvent(kind platform.EventKind, args []string) (platform.PointerEvent, error) {
	if len(args) != 2 && len(args) != 3 {
		return platform.PointerEvent{}, fmt.Errorf("%s: expected x y [button]", kind)
	}

	ev := platform.PointerEvent{Kind: kind, Button: platform.MouseButtonPrimary}
	for i := range 2 {
		v, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return platform.PointerEvent{}, fmt.Errorf("%s: %w", args[i], err)
		}
		ev.Pos[i] = float32(v)
	}
	if len(args) == 3 {
		b, err := parseButton(args[2])
		if err != nil {
			return platform.PointerEvent{}, err
		}
		ev.Button = b
	}

	if kind == platform.EventPress || kind == platform.EventDrag {
		ev.Mask = ev.Button.Mask()
	}
	return ev, nil
}

func parseStep(fields []string) (scriptStep, error) {
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "tool":
		if len(args) != 1 {
			return scriptStep{}, fmt.Errorf("tool: expected a single tool name")
		}
		t, err := draw.ParseDrawingTool(args[0])
		if err != nil {
			return scriptStep{}, err
		}
		return scriptStep{Kind: stepTool, Tool: t}, nil

	case "color":
		if len(args) == 0 {
			return scriptStep{}, fmt.Errorf("color: expected a color")
		}
		c, err := renderer.ParseRGBA(strings.Join(args, ""))
		if err != nil {
			return scriptStep{}, err
		}
		return scriptStep{Kind: stepColor, Color: c}, nil

	case "thickness":
		if len(args) != 1 {
			return scriptStep{}, fmt.Errorf("thickness: expected a single value")
		}
		v, err := strconv.ParseFloat(args[0], 32)
		if err != nil {
			return scriptStep{}, fmt.Errorf("thickness: %w", err)
		}
		return scriptStep{Kind: stepThickness, Thickness: float32(v)}, nil

	case "clear":
		if len(args) != 0 {
			return scriptStep{}, fmt.Errorf("clear: unexpected arguments")
		}
		return scriptStep{Kind: stepClear}, nil

	default:
		kind, err := platform.ParseEventKind(cmd)
		if err != nil {
			return scriptStep{}, err
		}
		ev, err := pointerEvent(kind, args)
		if err != nil {
			return scriptStep{}, err
		}
		return scriptStep{Kind: stepPointer, Event: ev}, nil
	}
}

// parseScript parses the entire script, reporting all of the lines with
// errors.
func parseScript(r io.Reader) ([]scriptStep, error) {
	var steps []scriptStep
	var e util.ErrorLogger

	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		e.Push("line " + strconv.Itoa(line))
		if s, err := parseStep(fields); err != nil {
			e.Error(err)
		} else {
			s.Line = line
			steps = append(steps, s)
		}
		e.Pop()
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if err := e.Err(); err != nil {
		return nil, err
	}
	return steps, nil
}
