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

	log "github.com/sirupsen/logrus"
)

// builder grows the tree. New nodes start from a copy of the classifier they are split from.
type builder struct {
	tree     *Tree
	copier   RowCopier
	initialT float64
}

func (b *builder) newNode() *Node {
	return b.tree.alloc(b.initialT)
}

func (b *builder) copyNode(src NodeID) *Node {
	c := b.newNode()
	s := b.tree.nodes[src]
	b.copier.CopyRow(uint32(src), uint32(c.ID))
	c.T = s.T
	c.Inverted = s.Inverted
	return c
}

// nodesForSplit counts the nodes expandNode attaches under n.
func nodesForSplit(n *Node) int {
	if len(n.Children) == 0 {
		return 2
	}
	return 1
}

// expandNode attaches a new leaf holding label under id.
// A node without children is a leaf: its label first moves down to an inverted child.
func (b *builder) expandNode(id NodeID, label uint32) (NodeID, error) {
	t := b.tree
	n := t.nodes[id]
	if !n.HasPending() {
		return NoNode, fmt.Errorf("%w: node %d has no pending slot", ErrInvalidSplitTarget, id)
	}
	if need := nodesForSplit(n); len(t.order)+need > t.capacity {
		return NoNode, fmt.Errorf("%w: %d nodes in the tree, %d needed, capacity is %d", ErrCapacityExceeded, len(t.order), need, t.capacity)
	}
	log.Debugf("expanding node %d with label %d", id, label)

	if len(n.Children) == 0 {
		moved := b.copyNode(n.Pending)
		moved.Inverted = true
		t.attach(moved.ID, id)
		t.setLabel(moved.ID, n.Label)
		moved.Pending = b.copyNode(n.Pending).ID
		n.Label = 0
	}

	var leaf *Node
	if len(n.Children) == t.kary-1 {
		leaf = t.nodes[n.Pending]
		n.Pending = NoNode
	} else {
		leaf = b.copyNode(n.Pending)
	}
	t.attach(leaf.ID, id)
	t.setLabel(leaf.ID, label)
	leaf.Pending = b.newNode().ID
	return leaf.ID, nil
}
