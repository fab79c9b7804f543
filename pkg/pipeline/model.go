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

package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/netobserv/labeltree/pkg/api"
	"github.com/netobserv/labeltree/pkg/config"
	"github.com/netobserv/labeltree/pkg/pipeline/modelstore"
	"github.com/netobserv/labeltree/pkg/plt"
	"github.com/netobserv/labeltree/pkg/weights"
	log "github.com/sirupsen/logrus"
)

// treeOptions maps the tree parameters onto the model options.
func treeOptions(params *config.Parameters, maxLabels int) (plt.Options, error) {
	policy, err := plt.ParseExpandPolicy(params.Tree.Policy)
	if err != nil {
		return plt.Options{}, err
	}
	return plt.Options{
		MaxLabels:      maxLabels,
		Kary:           params.Tree.Kary,
		Policy:         policy,
		InnerThreshold: params.Tree.Threshold(),
		Greedy:         params.Tree.Greedy,
		TopK:           params.Tree.PAt,
		Seed:           params.Tree.Seed,
		InitialT:       params.Learner.InitialT,
	}, nil
}

// newTable sizes the parameter table: the tree takes the predictor bits its slots need,
// the stride takes its shift and the features get the rest of the configured bits.
func newTable(learner *api.LearnerParams, slots int) (*weights.Table, error) {
	predictorBits := plt.PredictorBits(slots)
	strideShift := weights.StrideShift(learner.IsAdaptive())
	featureBits := learner.Bits - int(predictorBits) - int(strideShift)
	if featureBits < 1 {
		return nil, fmt.Errorf("%d bits leave no room for features: the tree needs %d predictor bits and %d stride bits",
			learner.Bits, predictorBits, strideShift)
	}
	return weights.NewTable(uint(featureBits), predictorBits, strideShift)
}

func loadTopology(tree *api.TreeParams, initialT float64) (*plt.Tree, error) {
	f, err := os.Open(tree.LoadTreeStructure)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := plt.ImportTopology(f, tree.Kary, initialT)
	if err != nil {
		return nil, fmt.Errorf("loading tree structure %s: %w", tree.LoadTreeStructure, err)
	}
	if !tree.KFromStructure {
		maxLabels := tree.MaxLabels
		if t.LeafCount() > maxLabels {
			maxLabels = t.LeafCount()
		}
		if capacity := plt.Capacity(t.Kary(), maxLabels); capacity > t.Capacity() {
			if err := t.SetCapacity(capacity); err != nil {
				return nil, err
			}
		}
	}
	log.WithFields(log.Fields{"file": tree.LoadTreeStructure, "nodes": t.Size(), "labels": t.LeafCount(), "capacity": t.Capacity()}).
		Info("tree structure loaded")
	return t, nil
}

// buildModel starts from a stored model, an imported topology or an empty tree, in that order of preference.
func buildModel(ctx context.Context, params *config.Parameters, store *modelstore.Store) (*plt.Model, *weights.Table, error) {
	var (
		tree  *plt.Tree
		table *weights.Table
		err   error
	)
	switch {
	case store != nil && params.Model.InitialModel != "":
		m, err := store.Load(ctx, params.Model.InitialModel)
		if err != nil {
			return nil, nil, err
		}
		if !m.Resume {
			log.Info("stored model has no node timestamps, node learning rates restart")
		}
		tree, table = m.Tree, m.Table
	case params.Tree.LoadTreeStructure != "":
		tree, err = loadTopology(&params.Tree, params.Learner.InitialT)
	default:
		tree, err = plt.NewTree(params.Tree.Kary, params.Tree.MaxLabels, params.Learner.InitialT)
	}
	if err != nil {
		return nil, nil, err
	}
	if table == nil {
		if table, err = newTable(&params.Learner, tree.SlotCapacity()); err != nil {
			return nil, nil, err
		}
	}
	sgd, err := weights.NewSGD(table, weights.SGDConfig{
		LearningRate: params.Learner.LearningRate,
		PowerT:       params.Learner.GetPowerT(),
		InitialT:     params.Learner.InitialT,
		Adaptive:     params.Learner.IsAdaptive(),
	})
	if err != nil {
		return nil, nil, err
	}
	opts, err := treeOptions(params, tree.MaxLabels())
	if err != nil {
		return nil, nil, err
	}
	model, err := plt.NewModelFromTree(tree, opts, sgd, table)
	if err != nil {
		return nil, nil, err
	}
	return model, table, nil
}
