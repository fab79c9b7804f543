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

	"github.com/netobserv/labeltree/pkg/example"
	log "github.com/sirupsen/logrus"
)

// PredictMode selects the inference traversal.
type PredictMode int

const (
	ModeTopK PredictMode = iota
	ModeThreshold
	ModeGreedy
)

func (m PredictMode) String() string {
	switch m {
	case ModeThreshold:
		return "threshold"
	case ModeGreedy:
		return "greedy"
	default:
		return "top_k"
	}
}

const DefaultTopK = 1

type Options struct {
	MaxLabels int
	Kary      int
	Policy    ExpandPolicy
	// InnerThreshold enables threshold prediction when not negative.
	InnerThreshold float64
	Greedy         bool
	// TopK is both the number of labels returned in top-k mode and the k of precision at k.
	TopK     int
	Seed     int64
	InitialT float64
}

// Mode derives the inference traversal: threshold wins over greedy, top-k is the default.
func (o *Options) Mode() PredictMode {
	if o.InnerThreshold >= 0 {
		return ModeThreshold
	}
	if o.Greedy {
		return ModeGreedy
	}
	return ModeTopK
}

// Model ties a tree to the base predictor training its nodes.
type Model struct {
	tree    *Tree
	base    BasePredictor
	builder builder
	chooser chooser
	mode    PredictMode
	opts    Options

	pass        int
	examples    int
	visited     int64
	predictions int
	eval        *Evaluation
}

// NewModel creates a model over a fresh tree.
func NewModel(opts Options, base BasePredictor, copier RowCopier) (*Model, error) {
	kary := opts.Kary
	if kary == 0 {
		kary = DefaultKary
	}
	tree, err := NewTree(kary, opts.MaxLabels, opts.InitialT)
	if err != nil {
		return nil, err
	}
	return NewModelFromTree(tree, opts, base, copier)
}

// NewModelFromTree creates a model over an existing tree, loaded from a checkpoint or a topology file.
func NewModelFromTree(tree *Tree, opts Options, base BasePredictor, copier RowCopier) (*Model, error) {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	mode := opts.Mode()
	if mode == ModeGreedy {
		opts.TopK = 1
	}
	if err := tree.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tree: %w", err)
	}
	log.WithFields(log.Fields{
		"maxLabels": tree.maxLabels,
		"kary":      tree.kary,
		"capacity":  tree.capacity,
		"policy":    opts.Policy,
		"mode":      mode,
	}).Info("creating label tree model")
	return &Model{
		tree:    tree,
		base:    base,
		builder: builder{tree: tree, copier: copier, initialT: opts.InitialT},
		chooser: newChooser(opts.Policy, opts.Seed),
		mode:    mode,
		opts:    opts,
		eval:    newEvaluation(mode, opts.TopK),
	}, nil
}

func (m *Model) Tree() *Tree             { return m.tree }
func (m *Model) Mode() PredictMode       { return m.mode }
func (m *Model) Pass() int               { return m.pass }
func (m *Model) Examples() int           { return m.examples }
func (m *Model) Predictions() int        { return m.predictions }
func (m *Model) Visited() int64          { return m.visited }
func (m *Model) Evaluation() *Evaluation { return m.eval }
func (m *Model) Options() Options        { return m.opts }

// EndPass closes a pass over the data. Growth stops after the first pass: pending slots are released.
func (m *Model) EndPass() {
	if m.pass == 0 {
		m.tree.clearPending()
	}
	m.pass++
	log.Infof("end of pass %d", m.pass)
}

// addNewLabel attaches label where the expand policy says. The first label ever goes to the root.
func (m *Model) addNewLabel(ex *example.Example, label uint32) (NodeID, error) {
	t := m.tree
	root := t.nodes[t.root]
	if len(t.leaves) == 0 && len(root.Children) == 0 {
		t.setLabel(t.root, label)
		return t.root, nil
	}
	id, err := m.chooser.choose(t, func(id NodeID) float64 { return m.predictNode(ex, id) })
	if err != nil {
		return NoNode, err
	}
	return m.builder.expandNode(id, label)
}

func (m *Model) predictNode(ex *example.Example, id NodeID) float64 {
	n := m.tree.nodes[id]
	score := m.base.Predict(ex, uint32(id))
	if n.Inverted {
		score = -score
	}
	m.visited++
	return sigmoid(float64(score))
}
