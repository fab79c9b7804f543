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
	"github.com/netobserv/labeltree/pkg/operational"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	modeLearn   = "learn"
	modePredict = "predict"
)

var (
	examplesProcessed = operational.NewCounterVec(prometheus.CounterOpts{
		Name: "examples_processed",
		Help: "Number of examples learned or predicted",
	}, []string{"mode"})
	nodesVisited = operational.NewCounter(prometheus.CounterOpts{
		Name: "nodes_visited",
		Help: "Number of node classifiers evaluated or updated",
	})
	growthErrors = operational.NewCounter(prometheus.CounterOpts{
		Name: "growth_errors",
		Help: "Number of examples whose new labels could not be added to the tree",
	})
	parseErrors = operational.NewCounter(prometheus.CounterOpts{
		Name: "parse_errors",
		Help: "Number of malformed example lines skipped",
	})
	treeNodes = operational.NewGauge(prometheus.GaugeOpts{
		Name: "tree_nodes",
		Help: "Number of nodes attached to the tree",
	})
	treeLeaves = operational.NewGauge(prometheus.GaugeOpts{
		Name: "tree_leaves",
		Help: "Number of labels in the tree",
	})
	treeSlots = operational.NewGauge(prometheus.GaugeOpts{
		Name: "tree_slots",
		Help: "Number of classifier slots allocated, pending slots included",
	})
	passDuration = operational.NewHistogram(prometheus.HistogramOpts{
		Name:    "pass_duration_seconds",
		Help:    "Duration of a pass over the examples",
		Buckets: []float64{.01, .1, 1, 10, 60, 600, 3600},
	})
)
