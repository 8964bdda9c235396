// scene/layer.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package scene

import (
	"slices"
	"sync"

	"github.com/mmp/geodraw/renderer"
)

// MemoryLayer is a Layer that just keeps its nodes, in the order they
// were added.
type MemoryLayer struct {
	Name string

	mu    sync.Mutex
	nodes []*renderer.Node
}

func (l *MemoryLayer) AddChild(n *renderer.Node) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nodes = slices.DeleteFunc(l.nodes, func(e *renderer.Node) bool { return e.ID == n.ID })
	l.nodes = append(l.nodes, n)
}

func (l *MemoryLayer) RemoveChild(id renderer.NodeID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nodes = slices.DeleteFunc(l.nodes, func(e *renderer.Node) bool { return e.ID == id })
}

func (l *MemoryLayer) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.nodes)
}

func (l *MemoryLayer) Get(id renderer.NodeID) (*renderer.Node, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := slices.IndexFunc(l.nodes, func(e *renderer.Node) bool { return e.ID == id }); i != -1 {
		return l.nodes[i], true
	}
	return nil, false
}

// Nodes returns a snapshot of the layer's nodes.
func (l *MemoryLayer) Nodes() []*renderer.Node {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.nodes)
}

// GenerateCommands encodes all of the layer's nodes in cb.
func (l *MemoryLayer) GenerateCommands(cb *renderer.CommandBuffer, scale float32) {
	for _, n := range l.Nodes() {
		n.GenerateCommands(cb, scale)
	}
	cb.ResetState()
}
