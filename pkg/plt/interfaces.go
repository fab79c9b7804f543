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
	"errors"

	"github.com/netobserv/labeltree/pkg/example"
)

var (
	// ErrCapacityExceeded is returned when growing the tree would allocate more classifier slots than the capacity allows.
	ErrCapacityExceeded = errors.New("tree capacity exceeded")
	// ErrInvalidSplitTarget is returned when a split is requested on a node that cannot grow.
	ErrInvalidSplitTarget = errors.New("node cannot be expanded")
	// ErrBadCheckpoint is returned when a checkpoint stream is not a valid tree.
	ErrBadCheckpoint = errors.New("invalid tree checkpoint")
)

// BasePredictor is the per-node binary classifier, addressed by slot id.
// Learn receives the example counter the learning rate schedule must use for that slot.
type BasePredictor interface {
	Learn(ex *example.Example, slot uint32, target float32, t float64)
	Predict(ex *example.Example, slot uint32) float32
}

// RowCopier duplicates the learned parameters of one slot into another.
type RowCopier interface {
	CopyRow(src, dst uint32)
}
