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
)

// Evaluation accumulates precision over the predictions of examples with known labels.
type Evaluation struct {
	mode PredictMode
	k    int

	// Evaluated is the number of labeled examples predicted so far.
	Evaluated int
	// correctAt[i] counts the examples whose (i+1)-th prediction is a true label.
	correctAt []float64
	// threshold mode: true labels and predictions among the first k positives.
	correct   float64
	predicted float64
}

func newEvaluation(mode PredictMode, k int) *Evaluation {
	return &Evaluation{mode: mode, k: k, correctAt: make([]float64, k)}
}

func (e *Evaluation) observe(labels []ScoredLabel, ex *example.Example) {
	e.Evaluated++
	for i := 0; i < e.k && i < len(labels); i++ {
		hit := ex.HasLabel(labels[i].Label)
		if e.mode == ModeThreshold {
			e.predicted++
			if hit {
				e.correct++
			}
		} else if hit {
			e.correctAt[i]++
		}
	}
}

// PrecisionAt returns P@k for k in [1, K]: true labels among the first k predictions, averaged over examples.
func (e *Evaluation) PrecisionAt(k int) float64 {
	if k < 1 || k > e.k || e.Evaluated == 0 {
		return 0
	}
	var correct float64
	for i := 0; i < k; i++ {
		correct += e.correctAt[i]
	}
	return correct / float64(e.Evaluated*k)
}

// Precision is the threshold mode precision; ok is false when nothing was predicted.
func (e *Evaluation) Precision() (precision float64, ok bool) {
	if e.predicted == 0 {
		return 0, false
	}
	return e.correct / e.predicted, true
}

// Report renders the accumulated metrics one line each.
func (e *Evaluation) Report() []string {
	if e.mode == ModeThreshold {
		if p, ok := e.Precision(); ok {
			return []string{fmt.Sprintf("Precision = %g", p)}
		}
		return []string{"Precision unknown - nothing predicted"}
	}
	lines := make([]string, 0, e.k)
	for i := 1; i <= e.k; i++ {
		lines = append(lines, fmt.Sprintf("P@%d = %g", i, e.PrecisionAt(i)))
	}
	return lines
}
