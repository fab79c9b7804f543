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
	"container/heap"
	"math"
	"sort"

	"github.com/netobserv/labeltree/pkg/example"
)

// ScoredLabel is a predicted label with its path probability.
type ScoredLabel struct {
	Label uint32  `json:"label" yaml:"label"`
	Prob  float64 `json:"prob" yaml:"prob"`
}

type Prediction struct {
	Labels []ScoredLabel `json:"labels" yaml:"labels"`
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Predict runs the configured traversal. Examples carrying labels feed the precision accumulators.
func (m *Model) Predict(ex *example.Example) Prediction {
	var labels []ScoredLabel
	switch m.mode {
	case ModeThreshold:
		labels = m.predictThreshold(ex)
	case ModeGreedy:
		labels = m.predictGreedy(ex)
	default:
		labels = m.predictTopK(ex)
	}
	m.predictions++
	if len(ex.Labels) > 0 {
		m.eval.observe(labels, ex)
	}
	return Prediction{Labels: labels}
}

// predictThreshold expands every node whose path probability is above the inner threshold.
func (m *Model) predictThreshold(ex *example.Example) []ScoredLabel {
	t := m.tree
	var found []ScoredLabel
	queue := []scored{{id: t.root, p: 1}}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		cp := s.p * m.predictNode(ex, s.id)
		if cp <= m.opts.InnerThreshold {
			continue
		}
		n := t.nodes[s.id]
		if n.Internal {
			for _, c := range n.Children {
				queue = append(queue, scored{id: c, p: cp})
			}
		} else {
			found = append(found, ScoredLabel{Label: n.Label, Prob: cp})
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].Prob > found[j].Prob })
	return found
}

// predictGreedy follows the most probable child down to a single leaf.
func (m *Model) predictGreedy(ex *example.Example) []ScoredLabel {
	t := m.tree
	current := scored{id: t.root, p: m.predictNode(ex, t.root)}
	for n := t.nodes[current.id]; n.Internal; n = t.nodes[current.id] {
		if len(n.Children) == 0 {
			return nil
		}
		var best scored
		for i, c := range n.Children {
			child := scored{id: c, p: current.p * m.predictNode(ex, c)}
			if i == 0 || best.p < child.p {
				best = child
			}
		}
		current = best
	}
	return []ScoredLabel{{Label: t.nodes[current.id].Label, Prob: current.p}}
}

// predictTopK is a best-first search. A leaf is accepted only when it is popped a second time,
// once its own probability is known to beat every bound still in the queue.
func (m *Model) predictTopK(ex *example.Example) []ScoredLabel {
	t := m.tree
	var (
		best  []ScoredLabel
		seq   uint64
		queue nodeQueue
	)
	scoredLeaves := map[NodeID]bool{}
	push := func(id NodeID, p float64) {
		heap.Push(&queue, scored{id: id, p: p, seq: seq})
		seq++
	}

	push(t.root, 1)
	for queue.Len() > 0 && len(best) < m.opts.TopK {
		s := heap.Pop(&queue).(scored)
		n := t.nodes[s.id]
		if scoredLeaves[s.id] {
			best = append(best, ScoredLabel{Label: n.Label, Prob: s.p})
			continue
		}
		cp := s.p * m.predictNode(ex, s.id)
		if n.Internal {
			for _, c := range n.Children {
				push(c, cp)
			}
		} else {
			scoredLeaves[s.id] = true
			push(s.id, cp)
		}
	}
	return best
}
