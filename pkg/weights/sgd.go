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

package weights

import (
	"fmt"
	"math"

	"github.com/netobserv/labeltree/pkg/example"
)

const (
	DefaultLearningRate = 0.5
	DefaultPowerT       = 0.5
)

type SGDConfig struct {
	LearningRate float64
	PowerT       float64
	InitialT     float64
	Adaptive     bool
}

// SGD is an online logistic regression whose weights for every classifier slot live in a shared Table.
// The learning rate decays with the example counter passed by the caller, so each slot can age on its own.
type SGD struct {
	table *Table
	cfg   SGDConfig
}

func NewSGD(table *Table, cfg SGDConfig) (*SGD, error) {
	if cfg.Adaptive && table.Stride() < 2 {
		return nil, fmt.Errorf("adaptive updates need a table stride of at least 2, got %d", table.Stride())
	}
	if cfg.LearningRate <= 0 {
		return nil, fmt.Errorf("learning rate must be positive, got %v", cfg.LearningRate)
	}
	return &SGD{table: table, cfg: cfg}, nil
}

// StrideShift gives the table stride shift needed by the configuration.
func StrideShift(adaptive bool) uint {
	if adaptive {
		return 1
	}
	return 0
}

func (s *SGD) Table() *Table { return s.table }

// Predict returns the raw margin of the classifier at slot.
func (s *SGD) Predict(ex *example.Example, slot uint32) float32 {
	var sum float64
	for _, f := range ex.Features {
		sum += float64(s.table.Cell(f.Index, slot)[0]) * float64(f.Value)
	}
	return float32(sum)
}

// Learn applies one logistic loss step towards target (+1 or -1) using t as the example counter.
func (s *SGD) Learn(ex *example.Example, slot uint32, target float32, t float64) {
	margin := float64(s.Predict(ex, slot))
	y := float64(target)
	grad := -y / (1 + math.Exp(y*margin))
	if grad == 0 {
		return
	}
	eta := s.rate(t) * float64(ex.Weight)
	for _, f := range ex.Features {
		cell := s.table.Cell(f.Index, slot)
		g := grad * float64(f.Value)
		step := eta
		if s.cfg.Adaptive {
			cell[1] += float32(g * g)
			if cell[1] > 0 {
				step /= math.Sqrt(float64(cell[1]))
			}
		}
		cell[0] -= float32(step * g)
	}
}

func (s *SGD) rate(t float64) float64 {
	base := s.cfg.InitialT + 1
	return s.cfg.LearningRate * math.Pow(base/(base+t), s.cfg.PowerT)
}
