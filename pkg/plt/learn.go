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
	"github.com/netobserv/labeltree/pkg/example"
)

// Learn trains the tree on one example. During the first pass unseen labels grow the tree;
// afterwards they are ignored. When the tree cannot grow, the example is still learned with the
// labels the tree holds and the growth error is returned.
func (m *Model) Learn(ex *example.Example) error {
	var growErr error
	if m.pass == 0 {
		for _, label := range ex.Labels {
			if _, ok := m.tree.leaves[label]; ok {
				continue
			}
			if _, growErr = m.addNewLabel(ex, label); growErr != nil {
				break
			}
		}
	}

	positive, negative := m.tree.trainingSets(ex.Labels)
	for _, id := range positive {
		m.learnNode(ex, id, 1)
	}
	for _, id := range negative {
		m.learnNode(ex, id, -1)
	}
	m.examples++
	return growErr
}

func (m *Model) learnNode(ex *example.Example, id NodeID, target float32) {
	n := m.tree.nodes[id]
	t := n.T
	n.T += float64(ex.Weight)
	if n.Inverted {
		target = -target
	}
	m.base.Learn(ex, uint32(id), target, t)
	m.visited++
}

// trainingSets computes the nodes an example updates. Positive nodes lie on the paths from the root
// to the leaves of known labels. Negative nodes are the other children of visited positive nodes
// plus their pending slots. Nothing outside the positive paths is visited.
func (t *Tree) trainingSets(labels []uint32) (positive, negative []NodeID) {
	isPositive := map[NodeID]bool{}
	isNegative := map[NodeID]bool{}
	addNegative := func(id NodeID) {
		if id != NoNode && !isNegative[id] {
			isNegative[id] = true
			negative = append(negative, id)
		}
	}

	for _, label := range labels {
		id, ok := t.leaves[label]
		if !ok || isPositive[id] {
			continue
		}
		addNegative(t.nodes[id].Pending)
		for ; id != NoNode && !isPositive[id]; id = t.nodes[id].Parent {
			isPositive[id] = true
			positive = append(positive, id)
		}
	}
	if len(positive) == 0 {
		return nil, []NodeID{t.root}
	}

	queue := []NodeID{t.root}
	for len(queue) > 0 {
		n := t.nodes[queue[0]]
		queue = queue[1:]
		if !n.Internal {
			continue
		}
		for _, c := range n.Children {
			if isPositive[c] {
				queue = append(queue, c)
			} else {
				addNegative(c)
			}
		}
		addNegative(n.Pending)
	}
	return positive, negative
}
