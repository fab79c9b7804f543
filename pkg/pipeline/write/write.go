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

package write

import (
	"fmt"

	ms "github.com/mitchellh/mapstructure"
	"github.com/netobserv/labeltree/pkg/api"
	"github.com/netobserv/labeltree/pkg/config"
	"github.com/netobserv/labeltree/pkg/operational"
	"github.com/netobserv/labeltree/pkg/plt"
	"github.com/prometheus/client_golang/prometheus"
)

// Record is one prediction leaving the pipeline.
type Record struct {
	// Example is the position of the example in its pass, starting at 1.
	Example    int               `mapstructure:"example"`
	Labels     []plt.ScoredLabel `mapstructure:"labels"`
	TrueLabels []uint32          `mapstructure:"trueLabels,omitempty"`
}

// Render flattens the record into a generic map keyed by the mapstructure tags.
func (r *Record) Render() (config.GenericMap, error) {
	out := config.GenericMap{}
	if err := ms.Decode(r, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type Writer interface {
	Write(rec Record) error
}

type None struct{}

func (w *None) Write(_ Record) error {
	return nil
}

func NewWriteNone() (Writer, error) {
	return &None{}, nil
}

var predictionsWritten = operational.NewCounterVec(prometheus.CounterOpts{
	Name: "predictions_written",
	Help: "Number of predictions written",
}, []string{"type"})

// NewWriter builds the writer selected by the write parameters.
func NewWriter(params *config.Write) (Writer, error) {
	if params == nil {
		return NewWriteNone()
	}
	switch params.Type {
	case api.WriteTypeName("Stdout"):
		return NewWriteStdout(params.Stdout)
	case api.WriteTypeName("Kafka"):
		if params.Kafka == nil {
			return nil, fmt.Errorf("missing kafka write parameters")
		}
		return NewWriteKafka(params.Kafka)
	case api.WriteTypeName("None"), "":
		return NewWriteNone()
	default:
		return nil, fmt.Errorf("`write` type %q not defined", params.Type)
	}
}
