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

package api

import "fmt"

const (
	DefaultBits         = 24
	DefaultLearningRate = 0.5
	DefaultPowerT       = 0.5
)

type LearnerParams struct {
	Bits         int      `yaml:"bits,omitempty" json:"bits,omitempty" doc:"total bits of the parameter table; features get what the tree slots and the stride leave (default: 24)"`
	LearningRate float64  `yaml:"learningRate,omitempty" json:"learningRate,omitempty" doc:"base learning rate (default: 0.5)"`
	PowerT       *float64 `yaml:"powerT,omitempty" json:"powerT,omitempty" doc:"learning rate decay exponent over the node example counter (default: 0.5)"`
	InitialT     float64  `yaml:"initialT,omitempty" json:"initialT,omitempty" doc:"initial value of every node example counter"`
	Adaptive     *bool    `yaml:"adaptive,omitempty" json:"adaptive,omitempty" doc:"use per-feature adaptive learning rates (default: true)"`
}

func (l *LearnerParams) SetDefaults() {
	if l.Bits == 0 {
		l.Bits = DefaultBits
	}
	if l.LearningRate == 0 {
		l.LearningRate = DefaultLearningRate
	}
	if l.PowerT == nil {
		powerT := DefaultPowerT
		l.PowerT = &powerT
	}
	if l.Adaptive == nil {
		adaptive := true
		l.Adaptive = &adaptive
	}
}

func (l *LearnerParams) Validate() error {
	if l.Bits < 0 || l.Bits > 34 {
		return fmt.Errorf("bits must be between 1 and 34, got %d", l.Bits)
	}
	if l.LearningRate < 0 {
		return fmt.Errorf("learningRate can't be negative, got %g", l.LearningRate)
	}
	if l.InitialT < 0 {
		return fmt.Errorf("initialT can't be negative, got %g", l.InitialT)
	}
	return nil
}

func (l *LearnerParams) IsAdaptive() bool {
	return l.Adaptive == nil || *l.Adaptive
}

func (l *LearnerParams) GetPowerT() float64 {
	if l.PowerT == nil {
		return DefaultPowerT
	}
	return *l.PowerT
}

type RunParams struct {
	Passes   int  `yaml:"passes,omitempty" json:"passes,omitempty" doc:"number of passes over the training data (default: 1)"`
	TestOnly bool `yaml:"testOnly,omitempty" json:"testOnly,omitempty" doc:"predict every example without training"`
}

func (r *RunParams) SetDefaults() {
	if r.Passes == 0 {
		r.Passes = 1
	}
}
