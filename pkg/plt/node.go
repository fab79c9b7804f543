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

import "math"

// NodeID identifies a node in the tree arena. It is also the slot id of the node classifier
// in the shared parameter table, so it stays stable across save and load.
type NodeID uint32

// NoNode marks an absent parent or pending slot.
const NoNode NodeID = math.MaxUint32

// Node is a tree vertex. Every node owns one classifier slot; leaves also own a label.
type Node struct {
	ID       NodeID
	Label    uint32
	Internal bool
	// Inverted nodes flip the sign of their classifier output, both for training and prediction.
	Inverted bool
	// T is the node example counter driving its own learning rate schedule.
	T        float64
	Parent   NodeID
	Children []NodeID
	// Pending is the unattached node reserved as the next child of this one.
	Pending NodeID

	nextToExpand uint32
}

func (n *Node) IsLeaf() bool {
	return !n.Internal
}

func (n *Node) HasPending() bool {
	return n.Pending != NoNode
}
