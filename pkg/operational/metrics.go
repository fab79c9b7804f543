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

package operational

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metricType string

const TypeCounter metricType = "counter"
const TypeGauge metricType = "gauge"
const TypeHistogram metricType = "histogram"

type metricDefinition struct {
	Name   string
	Help   string
	Type   metricType
	Labels []string
}

var allMetrics []metricDefinition

func register(name, help string, t metricType, labels ...string) {
	allMetrics = append(allMetrics, metricDefinition{Name: name, Help: help, Type: t, Labels: labels})
}

func NewCounter(opts prometheus.CounterOpts) prometheus.Counter {
	register(opts.Name, opts.Help, TypeCounter)
	return promauto.NewCounter(opts)
}

func NewCounterVec(opts prometheus.CounterOpts, labelNames []string) *prometheus.CounterVec {
	register(opts.Name, opts.Help, TypeCounter, labelNames...)
	return promauto.NewCounterVec(opts, labelNames)
}

func NewGauge(opts prometheus.GaugeOpts) prometheus.Gauge {
	register(opts.Name, opts.Help, TypeGauge)
	return promauto.NewGauge(opts)
}

func NewHistogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	register(opts.Name, opts.Help, TypeHistogram)
	return promauto.NewHistogram(opts)
}

func GetDocumentation() string {
	defs := append([]metricDefinition(nil), allMetrics...)
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	doc := ""
	for _, opts := range defs {
		labels := strings.Join(opts.Labels, ", ")
		if labels == "" {
			labels = "none"
		}
		doc += fmt.Sprintf(
			`
### %s
| **Name** | %s | 
|:---|:---|
| **Description** | %s | 
| **Type** | %s | 
| **Labels** | %s | 

`,
			opts.Name,
			opts.Name,
			opts.Help,
			opts.Type,
			labels,
		)
	}

	return doc
}
