/*
 * Copyright (C) 2022 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package plt

import (
	"fmt"
	"math/bits"
)

const DefaultKary = 2

// Tree is the node arena of a probabilistic label tree.
// Nodes are addressed by their slot id; order keeps attached nodes in attachment order, root first.
type Tree struct {
	kary      int
	maxLabels int
	capacity  int

	nodes  []*Node
	order  []NodeID
	leaves map[uint32]NodeID
	root   NodeID
}

// maxSlots bounds the slot ids a loaded tree may use.
const maxSlots = 1 << 28

// Capacity is the node budget of a tree over k labels with the given branching factor.
// It covers the at most 2k-1 nodes that placing k labels attaches, whatever the expansion policy.
func Capacity(kary, k int) int {
	if kary <= 2 {
		return 3*k - 1
	}
	// a: largest power of kary not above k
	a := 1
	for a*kary <= k {
		a *= kary
	}
	b := k - a
	c := (b + kary - 2) / (kary - 1)
	d := (kary*a - 1) / (kary - 1)
	e := k - (a - c)
	return 3*d + 2*e
}

// PredictorBits is the number of bits needed to address slots ids below slots.
func PredictorBits(slots int) uint {
	return uint(bits.Len(uint(slots)))
}

// slotCapacity bounds the slot ids of a tree. While the tree grows, every unattached slot is the
// pending slot of one attached node, so capacity nodes use at most twice as many slots.
// Imported trees may use sparse ids above that.
func slotCapacity(capacity, slots int) int {
	if s := 2 * capacity; s > slots {
		return s
	}
	return slots
}

// NewTree creates a tree holding only the root and its pending slot.
func NewTree(kary, maxLabels int, initialT float64) (*Tree, error) {
	if kary < 2 {
		return nil, fmt.Errorf("branching factor must be at least 2, got %d", kary)
	}
	if maxLabels < 1 {
		return nil, fmt.Errorf("maximum label count must be positive, got %d", maxLabels)
	}
	t := newEmptyTree(kary, maxLabels, Capacity(kary, maxLabels))
	root := t.alloc(initialT)
	t.root = root.ID
	t.order = append(t.order, root.ID)
	root.Pending = t.alloc(initialT).ID
	return t, nil
}

func newEmptyTree(kary, maxLabels, capacity int) *Tree {
	return &Tree{
		kary:      kary,
		maxLabels: maxLabels,
		capacity:  capacity,
		leaves:    map[uint32]NodeID{},
		root:      NoNode,
	}
}

func (t *Tree) alloc(initialT float64) *Node {
	n := &Node{
		ID:       NodeID(len(t.nodes)),
		Internal: true,
		T:        initialT,
		Parent:   NoNode,
		Pending:  NoNode,
	}
	t.nodes = append(t.nodes, n)
	return n
}

func (t *Tree) attach(child, parent NodeID) {
	c, p := t.nodes[child], t.nodes[parent]
	c.Parent = parent
	t.order = append(t.order, child)
	p.Children = append(p.Children, child)
	p.Internal = true
}

func (t *Tree) setLabel(id NodeID, label uint32) {
	n := t.nodes[id]
	n.Internal = false
	n.Label = label
	t.leaves[label] = id
}

func (t *Tree) clearPending() {
	for _, n := range t.nodes {
		if n != nil {
			n.Pending = NoNode
		}
	}
}

func (t *Tree) Root() NodeID   { return t.root }
func (t *Tree) Kary() int      { return t.kary }
func (t *Tree) MaxLabels() int { return t.maxLabels }
func (t *Tree) Capacity() int  { return t.capacity }

// SlotCapacity is the number of classifier slots the parameter table must address.
func (t *Tree) SlotCapacity() int { return slotCapacity(t.capacity, len(t.nodes)) }

// Size is the number of nodes attached to the tree.
func (t *Tree) Size() int { return len(t.order) }

// Slots is the number of classifier slots addressed so far, pending slots included.
func (t *Tree) Slots() int { return len(t.nodes) }

func (t *Tree) LeafCount() int { return len(t.leaves) }

// Node returns the node with the given id or nil.
func (t *Tree) Node(id NodeID) *Node {
	if int(id) >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

// Leaf returns the leaf holding label.
func (t *Tree) Leaf(label uint32) (NodeID, bool) {
	id, ok := t.leaves[label]
	return id, ok
}

// Order returns the attached nodes in attachment order.
func (t *Tree) Order() []NodeID {
	return append([]NodeID(nil), t.order...)
}

// SetCapacity changes the node budget; it cannot go below the nodes already in the tree.
func (t *Tree) SetCapacity(capacity int) error {
	if capacity < len(t.order) {
		return fmt.Errorf("%w: capacity %d below the %d nodes in the tree", ErrCapacityExceeded, capacity, len(t.order))
	}
	t.capacity = capacity
	return nil
}

// Edge is a parent to child link; Label is set when the child is a leaf.
type Edge struct {
	Parent NodeID
	Child  NodeID
	Label  *uint32
}

// Edges lists every parent to child link, parents in attachment order.
func (t *Tree) Edges() []Edge {
	var edges []Edge
	for _, id := range t.order {
		for _, c := range t.nodes[id].Children {
			e := Edge{Parent: id, Child: c}
			if child := t.nodes[c]; child.IsLeaf() {
				label := child.Label
				e.Label = &label
			}
			edges = append(edges, e)
		}
	}
	return edges
}

// Depth returns the number of edges between the root and id.
func (t *Tree) Depth(id NodeID) int {
	d := 0
	for n := t.nodes[id]; n.Parent != NoNode; n = t.nodes[n.Parent] {
		d++
	}
	return d
}

// Validate checks the structural invariants of the tree.
func (t *Tree) Validate() error {
	if t.root == NoNode || t.Node(t.root) == nil {
		return fmt.Errorf("tree has no root")
	}
	if t.nodes[t.root].Parent != NoNode {
		return fmt.Errorf("root %d has a parent", t.root)
	}
	if len(t.order) > t.capacity {
		return fmt.Errorf("%d nodes exceed capacity %d", len(t.order), t.capacity)
	}
	seen := map[NodeID]bool{}
	queue := []NodeID{t.root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			return fmt.Errorf("node %d reached twice", id)
		}
		seen[id] = true
		n := t.nodes[id]
		if len(n.Children) > t.kary {
			return fmt.Errorf("node %d has %d children, branching factor is %d", id, len(n.Children), t.kary)
		}
		for _, c := range n.Children {
			if t.Node(c) == nil || t.nodes[c].Parent != id {
				return fmt.Errorf("child %d of node %d does not point back to it", c, id)
			}
			if c == n.Pending {
				return fmt.Errorf("pending slot %d of node %d is attached", c, id)
			}
			queue = append(queue, c)
		}
	}
	if len(seen) != len(t.order) {
		return fmt.Errorf("%d nodes reachable from the root, %d attached", len(seen), len(t.order))
	}
	for label, id := range t.leaves {
		n := t.Node(id)
		if n == nil || !seen[id] || !n.IsLeaf() || n.Label != label {
			return fmt.Errorf("leaf index entry %d -> %d is stale", label, id)
		}
	}
	for _, n := range t.nodes {
		if n != nil && n.HasPending() && seen[n.Pending] {
			return fmt.Errorf("pending slot %d of node %d is attached", n.Pending, n.ID)
		}
	}
	return nil
}

// Stats summarizes the shape of the tree.
type Stats struct {
	Nodes     int `yaml:"nodes" json:"nodes"`
	Slots     int `yaml:"slots" json:"slots"`
	Leaves    int `yaml:"leaves" json:"leaves"`
	Internal  int `yaml:"internal" json:"internal"`
	Pending   int `yaml:"pending" json:"pending"`
	MaxDepth  int `yaml:"maxDepth" json:"maxDepth"`
	Capacity  int `yaml:"capacity" json:"capacity"`
	Kary      int `yaml:"kary" json:"kary"`
	MaxLabels int `yaml:"maxLabels" json:"maxLabels"`
}

func (t *Tree) Stats() Stats {
	s := Stats{
		Nodes:     len(t.order),
		Slots:     len(t.nodes),
		Leaves:    len(t.leaves),
		Capacity:  t.capacity,
		Kary:      t.kary,
		MaxLabels: t.maxLabels,
	}
	for _, id := range t.order {
		n := t.nodes[id]
		if len(n.Children) > 0 {
			s.Internal++
		}
		if n.HasPending() {
			s.Pending++
		}
		if n.IsLeaf() {
			if d := t.Depth(id); d > s.MaxDepth {
				s.MaxDepth = d
			}
		}
	}
	return s
}
