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
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

const checkpointMagic = "PLT1"

// pool lists the nodes in checkpoint order: attached nodes in attachment order, then unattached slots by id.
func (t *Tree) pool() []*Node {
	attached := make(map[NodeID]bool, len(t.order))
	nodes := make([]*Node, 0, len(t.nodes))
	for _, id := range t.order {
		attached[id] = true
		nodes = append(nodes, t.nodes[id])
	}
	for _, n := range t.nodes {
		if n != nil && !attached[n.ID] {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// WriteCheckpoint stores the tree topology. Node timestamps are appended when resume is set,
// so that training can continue with the same per-node learning rates.
func WriteCheckpoint(w io.Writer, t *Tree, resume bool) error {
	bw := bufio.NewWriter(w)
	enc := &binWriter{w: bw}
	pool := t.pool()

	enc.write([]byte(checkpointMagic))
	enc.write(uint32(t.kary))
	enc.write(uint64(t.maxLabels))
	enc.write(uint64(t.capacity))
	enc.write(resume)
	enc.write(uint64(PredictorBits(t.SlotCapacity())))
	enc.write(uint64(len(t.nodes)))
	enc.write(uint64(len(pool)))
	enc.write(uint32(t.root))
	for _, n := range pool {
		enc.write(uint32(n.ID))
		enc.write(n.Label)
		enc.write(n.Inverted)
		enc.write(n.Internal)
	}
	for _, n := range pool {
		enc.write(uint32(n.Parent))
		enc.write(uint32(n.Pending))
	}
	if resume {
		for _, n := range pool {
			enc.write(n.T)
		}
	}
	if enc.err != nil {
		return errors.Wrap(enc.err, "writing tree checkpoint")
	}
	return errors.Wrap(bw.Flush(), "writing tree checkpoint")
}

// ReadCheckpoint rebuilds a tree written by WriteCheckpoint. It reports whether timestamps were stored.
func ReadCheckpoint(r io.Reader) (*Tree, bool, error) {
	dec := &binReader{r: bufio.NewReader(r)}

	magic := make([]byte, len(checkpointMagic))
	dec.read(magic)
	if dec.err == nil && string(magic) != checkpointMagic {
		return nil, false, fmt.Errorf("%w: unexpected header %q", ErrBadCheckpoint, magic)
	}
	var (
		kary                uint32
		maxLabels, capacity uint64
		resume              bool
		bits, slots, count  uint64
		root                uint32
	)
	dec.read(&kary)
	dec.read(&maxLabels)
	dec.read(&capacity)
	dec.read(&resume)
	dec.read(&bits)
	dec.read(&slots)
	dec.read(&count)
	dec.read(&root)
	if dec.err != nil {
		return nil, false, errors.Wrap(dec.err, "reading tree checkpoint header")
	}
	if count == 0 || count > slots || slots > maxSlots || capacity > maxSlots ||
		bits != uint64(PredictorBits(slotCapacity(int(capacity), int(slots)))) {
		return nil, false, fmt.Errorf("%w: %d nodes, %d slots, capacity %d, %d predictor bits", ErrBadCheckpoint, count, slots, capacity, bits)
	}

	t := newEmptyTree(int(kary), int(maxLabels), int(capacity))
	// nodes are read before the slot table is sized, so a short file fails before a large allocation
	pool := make([]*Node, 0, min(count, 1024))
	ids := make(map[uint32]bool, min(count, 1024))
	for i := uint64(0); i < count; i++ {
		var id, label uint32
		var inverted, internal bool
		dec.read(&id)
		dec.read(&label)
		dec.read(&inverted)
		dec.read(&internal)
		if dec.err != nil {
			return nil, false, errors.Wrapf(dec.err, "reading node %d", i)
		}
		if uint64(id) >= slots || ids[id] {
			return nil, false, fmt.Errorf("%w: bad or duplicate slot id %d", ErrBadCheckpoint, id)
		}
		ids[id] = true
		pool = append(pool, &Node{ID: NodeID(id), Label: label, Inverted: inverted, Internal: internal, Parent: NoNode, Pending: NoNode})
	}
	t.nodes = make([]*Node, slots)
	for _, n := range pool {
		t.nodes[n.ID] = n
	}
	for _, n := range pool {
		var parent, pending uint32
		dec.read(&parent)
		dec.read(&pending)
		if dec.err != nil {
			return nil, false, errors.Wrapf(dec.err, "reading links of node %d", n.ID)
		}
		if !t.known(NodeID(parent)) || !t.known(NodeID(pending)) {
			return nil, false, fmt.Errorf("%w: node %d links to unknown slot", ErrBadCheckpoint, n.ID)
		}
		n.Parent = NodeID(parent)
		n.Pending = NodeID(pending)
		if n.Parent != NoNode {
			p := t.nodes[n.Parent]
			p.Children = append(p.Children, n.ID)
		}
	}
	if !t.known(NodeID(root)) || root == uint32(NoNode) {
		return nil, false, fmt.Errorf("%w: unknown root %d", ErrBadCheckpoint, root)
	}
	t.root = NodeID(root)
	for _, n := range pool {
		if n.ID == t.root || n.Parent != NoNode {
			t.order = append(t.order, n.ID)
			if n.IsLeaf() {
				t.leaves[n.Label] = n.ID
			}
		}
	}
	if resume {
		for _, n := range pool {
			dec.read(&n.T)
		}
		if dec.err != nil {
			return nil, false, errors.Wrap(dec.err, "reading node timestamps")
		}
	}
	if err := t.Validate(); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrBadCheckpoint, err)
	}
	return t, resume, nil
}

// known accepts NoNode and the ids of allocated nodes.
func (t *Tree) known(id NodeID) bool {
	return id == NoNode || (int(id) < len(t.nodes) && t.nodes[id] != nil)
}

type binWriter struct {
	w   io.Writer
	err error
}

func (b *binWriter) write(v any) {
	if b.err == nil {
		b.err = binary.Write(b.w, binary.LittleEndian, v)
	}
}

type binReader struct {
	r   io.Reader
	err error
}

func (b *binReader) read(v any) {
	if b.err == nil {
		b.err = binary.Read(b.r, binary.LittleEndian, v)
	}
}
