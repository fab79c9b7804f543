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

import (
	"errors"
	"fmt"
)

const (
	DefaultKary           = 2
	DefaultPAt            = 1
	DefaultInnerThreshold = -1.0
)

type TreeParams struct {
	MaxLabels         int      `yaml:"maxLabels,omitempty" json:"maxLabels,omitempty" doc:"maximum number of distinct labels, sizes the tree capacity"`
	Kary              int      `yaml:"kary,omitempty" json:"kary,omitempty" doc:"maximum number of children of a node (default: 2)"`
	Policy            string   `yaml:"policy,omitempty" json:"policy,omitempty" enum:"ExpandPolicyEnum" doc:"where a newly seen label is attached:"`
	InnerThreshold    *float64 `yaml:"innerThreshold,omitempty" json:"innerThreshold,omitempty" doc:"when not negative, predict every label whose path probability exceeds this value (default: -1)"`
	PAt               int      `yaml:"pAt,omitempty" json:"pAt,omitempty" doc:"k of the precision at k report, also the number of labels returned by top-k prediction (default: 1)"`
	Greedy            bool     `yaml:"greedy,omitempty" json:"greedy,omitempty" doc:"predict a single label by following the most probable child from the root"`
	PositiveLabels    bool     `yaml:"positiveLabels,omitempty" json:"positiveLabels,omitempty" doc:"write the labels found by threshold prediction"`
	TopKLabels        bool     `yaml:"topKLabels,omitempty" json:"topKLabels,omitempty" doc:"write the labels found by top-k or greedy prediction"`
	SaveTreeStructure string   `yaml:"saveTreeStructure,omitempty" json:"saveTreeStructure,omitempty" doc:"path of the text topology written at the end of the run"`
	LoadTreeStructure string   `yaml:"loadTreeStructure,omitempty" json:"loadTreeStructure,omitempty" doc:"path of a text topology to start from instead of an empty tree"`
	KFromStructure    bool     `yaml:"kFromStructure,omitempty" json:"kFromStructure,omitempty" doc:"take the tree capacity from the loaded topology instead of maxLabels"`
	Seed              int64    `yaml:"seed,omitempty" json:"seed,omitempty" doc:"seed of the random expand policy"`
	Resume            bool     `yaml:"resume,omitempty" json:"resume,omitempty" doc:"save node timestamps with the model so that training resumes with the same learning rates"`
	SkipOnGrowthError bool     `yaml:"skipOnGrowthError,omitempty" json:"skipOnGrowthError,omitempty" doc:"keep going when labels do not fit in the tree; the example is learned with the labels the tree holds"`
}

type ExpandPolicyEnum struct {
	Random         string `yaml:"random" json:"random" doc:"descend through full nodes choosing children at random"`
	BestPrediction string `yaml:"best_prediction" json:"best_prediction" doc:"descend through full nodes following the most probable child for the example"`
	Balanced       string `yaml:"balanced" json:"balanced" doc:"descend through full nodes choosing children in turn"`
	Complete       string `yaml:"complete" json:"complete" doc:"fill nodes in creation order, building a complete tree"`
}

func ExpandPolicyName(operation string) string {
	return GetEnumName(ExpandPolicyEnum{}, operation)
}

func (t *TreeParams) SetDefaults() {
	if t.Kary == 0 {
		t.Kary = DefaultKary
	}
	if t.Policy == "" {
		t.Policy = ExpandPolicyName("Random")
	}
	if t.PAt == 0 {
		t.PAt = DefaultPAt
	}
	if t.InnerThreshold == nil {
		threshold := DefaultInnerThreshold
		t.InnerThreshold = &threshold
	}
}

func (t *TreeParams) Validate() error {
	if t == nil {
		return errors.New("you must provide a tree configuration")
	}
	if t.MaxLabels < 1 && t.LoadTreeStructure == "" {
		return errors.New("maxLabels must be positive unless a tree structure is loaded")
	}
	if t.Kary != 0 && t.Kary < 2 {
		return fmt.Errorf("kary must be at least 2, got %d", t.Kary)
	}
	if t.PAt < 0 {
		return fmt.Errorf("pAt can't be negative, got %d", t.PAt)
	}
	if t.Policy != "" && !isEnumValue(ExpandPolicyEnum{}, t.Policy) {
		return fmt.Errorf("unknown expand policy %q", t.Policy)
	}
	if t.KFromStructure && t.LoadTreeStructure == "" {
		return errors.New("kFromStructure requires loadTreeStructure")
	}
	return nil
}

// Threshold is the inner threshold, negative when threshold prediction is disabled.
func (t *TreeParams) Threshold() float64 {
	if t.InnerThreshold == nil {
		return DefaultInnerThreshold
	}
	return *t.InnerThreshold
}

func isEnumValue(enum interface{}, value string) bool {
	for _, name := range GetEnumNames(enum) {
		if name == value {
			return true
		}
	}
	return false
}
