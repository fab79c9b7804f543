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
	"fmt"
	"io"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

type topologyEdge struct {
	parent, child NodeID
	label         *uint32
	line          int
}

// ExportTopology writes one "<parent> <child> [label]" line per edge.
func ExportTopology(w io.Writer, t *Tree) error {
	bw := bufio.NewWriter(w)
	for _, e := range t.Edges() {
		var err error
		if e.Label != nil {
			_, err = fmt.Fprintf(bw, "%d %d %d\n", e.Parent, e.Child, *e.Label)
		} else {
			_, err = fmt.Fprintf(bw, "%d %d\n", e.Parent, e.Child)
		}
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ImportTopology builds a tree from "<parent> <child> [label]" lines. Blank lines and lines
// starting with '#' are ignored; malformed lines are skipped with a warning. The root is the
// parent of the first edge. Imported trees have no pending slots, so they never grow.
func ImportTopology(r io.Reader, kary int, initialT float64) (*Tree, error) {
	edges, err := readTopologyEdges(r)
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return nil, fmt.Errorf("topology has no edges")
	}

	maxID := edges[0].parent
	byParent := map[NodeID][]topologyEdge{}
	for _, e := range edges {
		byParent[e.parent] = append(byParent[e.parent], e)
		if e.child > maxID {
			maxID = e.child
		}
		if e.parent > maxID {
			maxID = e.parent
		}
	}

	t := newEmptyTree(kary, 0, 0)
	t.nodes = make([]*Node, maxID+1)
	get := func(id NodeID) *Node {
		if t.nodes[id] == nil {
			t.nodes[id] = &Node{ID: id, Internal: true, T: initialT, Parent: NoNode, Pending: NoNode}
		}
		return t.nodes[id]
	}

	t.root = get(edges[0].parent).ID
	t.order = append(t.order, t.root)
	attached := map[NodeID]bool{t.root: true}
	used := 0
	queue := []NodeID{t.root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, e := range byParent[id] {
			if attached[e.child] {
				log.Warnf("topology line %d: node %d is already in the tree, skipping", e.line, e.child)
				continue
			}
			get(e.child)
			t.attach(e.child, id)
			attached[e.child] = true
			used++
			queue = append(queue, e.child)
			if e.label == nil {
				continue
			}
			if len(byParent[e.child]) > 0 {
				log.Warnf("topology line %d: node %d has children, ignoring label %d", e.line, e.child, *e.label)
			} else if prev, dup := t.leaves[*e.label]; dup {
				log.Warnf("topology line %d: label %d already held by node %d, skipping label", e.line, *e.label, prev)
			} else {
				t.setLabel(e.child, *e.label)
			}
		}
	}
	if skipped := len(edges) - used; skipped > 0 {
		log.Warnf("topology: %d edges are not reachable from root %d and were skipped", skipped, t.root)
	}

	for _, id := range t.order {
		if c := len(t.nodes[id].Children); c > t.kary {
			log.Warnf("topology: node %d has %d children, raising branching factor from %d", id, c, t.kary)
			t.kary = c
		}
	}
	t.maxLabels = len(t.leaves)
	t.capacity = len(t.order)
	log.Infof("tree structure loaded: %d nodes, %d leaves", len(t.order), len(t.leaves))
	return t, nil
}

func readTopologyEdges(r io.Reader) ([]topologyEdge, error) {
	var edges []topologyEdge
	hasParent := map[NodeID]bool{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		e, err := parseTopologyLine(line)
		if err != nil {
			log.Warnf("something is wrong with topology line %d (%q): %v", lineNo, line, err)
			continue
		}
		if hasParent[e.child] {
			log.Warnf("topology line %d: node %d already has a parent, skipping", lineNo, e.child)
			continue
		}
		if len(edges) > 0 && e.child == edges[0].parent {
			log.Warnf("topology line %d: root %d cannot be a child, skipping", lineNo, e.child)
			continue
		}
		e.line = lineNo
		hasParent[e.child] = true
		edges = append(edges, e)
	}
	return edges, scanner.Err()
}

func parseTopologyLine(line string) (topologyEdge, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 || len(fields) > 3 {
		return topologyEdge{}, fmt.Errorf("expected 2 or 3 fields, got %d", len(fields))
	}
	var ids [2]NodeID
	for i := range ids {
		v, err := strconv.ParseUint(fields[i], 10, 32)
		if err != nil {
			return topologyEdge{}, err
		}
		if v >= maxSlots {
			return topologyEdge{}, fmt.Errorf("node id %d too large", v)
		}
		ids[i] = NodeID(v)
	}
	if ids[0] == ids[1] {
		return topologyEdge{}, fmt.Errorf("node %d cannot be its own child", ids[0])
	}
	e := topologyEdge{parent: ids[0], child: ids[1]}
	if len(fields) == 3 {
		v, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			return topologyEdge{}, err
		}
		label := uint32(v)
		e.label = &label
	}
	return e, nil
}
