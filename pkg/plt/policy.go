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
	"math/rand"
	"strings"
)

// ExpandPolicy selects where a newly seen label is attached.
type ExpandPolicy int

const (
	PolicyRandom ExpandPolicy = iota
	PolicyBestPrediction
	PolicyBalanced
	PolicyComplete
)

var policyNames = map[ExpandPolicy]string{
	PolicyRandom:         "random",
	PolicyBestPrediction: "best_prediction",
	PolicyBalanced:       "balanced",
	PolicyComplete:       "complete",
}

func (p ExpandPolicy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("ExpandPolicy(%d)", int(p))
}

// ParseExpandPolicy maps a policy name to its value; an empty name is the random policy.
func ParseExpandPolicy(name string) (ExpandPolicy, error) {
	if name == "" {
		return PolicyRandom, nil
	}
	for p, n := range policyNames {
		if strings.EqualFold(n, name) {
			return p, nil
		}
	}
	return PolicyRandom, fmt.Errorf("unknown expand policy %q", name)
}

// chooser picks the node to expand. score gives the probability of a node for the current example.
type chooser interface {
	choose(t *Tree, score func(NodeID) float64) (NodeID, error)
}

func newChooser(p ExpandPolicy, seed int64) chooser {
	switch p {
	case PolicyBestPrediction:
		return bestPredictionChooser{}
	case PolicyBalanced:
		return balancedChooser{}
	case PolicyComplete:
		return &completeChooser{}
	default:
		return &randomChooser{rng: rand.New(rand.NewSource(seed))}
	}
}

func full(t *Tree, n *Node) bool {
	return len(n.Children) >= t.kary
}

type bestPredictionChooser struct{}

func (bestPredictionChooser) choose(t *Tree, score func(NodeID) float64) (NodeID, error) {
	id := t.root
	for n := t.nodes[id]; full(t, n); n = t.nodes[id] {
		best, bestP := n.Children[0], 0.0
		for _, c := range n.Children {
			if p := score(c); p > bestP {
				best, bestP = c, p
			}
		}
		id = best
	}
	return id, nil
}

type balancedChooser struct{}

func (balancedChooser) choose(t *Tree, _ func(NodeID) float64) (NodeID, error) {
	id := t.root
	for n := t.nodes[id]; full(t, n); n = t.nodes[id] {
		id = n.Children[n.nextToExpand%uint32(len(n.Children))]
		n.nextToExpand++
	}
	return id, nil
}

// completeChooser walks the attached nodes in order, filling each one before moving to the next.
// The cursor moves at most one node per call.
type completeChooser struct {
	cursor int
}

func (c *completeChooser) choose(t *Tree, _ func(NodeID) float64) (NodeID, error) {
	if c.cursor < len(t.order) && full(t, t.nodes[t.order[c.cursor]]) {
		c.cursor++
	}
	if c.cursor >= len(t.order) {
		return NoNode, fmt.Errorf("%w: complete policy cursor %d is past the %d attached nodes", ErrInvalidSplitTarget, c.cursor, len(t.order))
	}
	return t.order[c.cursor], nil
}

type randomChooser struct {
	rng *rand.Rand
}

func (c *randomChooser) choose(t *Tree, _ func(NodeID) float64) (NodeID, error) {
	id := t.root
	for n := t.nodes[id]; full(t, n); n = t.nodes[id] {
		id = n.Children[c.rng.Intn(len(n.Children))]
	}
	return id, nil
}
