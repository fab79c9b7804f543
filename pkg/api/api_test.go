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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumNames(t *testing.T) {
	assert.Equal(t, "best_prediction", ExpandPolicyName("BestPrediction"))
	assert.Equal(t, []string{"random", "best_prediction", "balanced", "complete"}, GetEnumNames(ExpandPolicyEnum{}))
	assert.Equal(t, "snappy", ModelCompressionName("Snappy"))
	assert.Panics(t, func() { GetEnumName(WriteTypeEnum{}, "Loki") })
	assert.Equal(t, "KafkaBalancerEnum", GetEnumReflectionTypeByFieldName("KafkaBalancerEnum").Name())
}

func TestTreeParamsDefaults(t *testing.T) {
	tree := TreeParams{MaxLabels: 10}
	tree.SetDefaults()
	require.NoError(t, tree.Validate())
	assert.Equal(t, 2, tree.Kary)
	assert.Equal(t, "random", tree.Policy)
	assert.Equal(t, 1, tree.PAt)
	assert.Equal(t, -1.0, tree.Threshold())

	threshold := 0.25
	tree = TreeParams{MaxLabels: 10, InnerThreshold: &threshold}
	tree.SetDefaults()
	assert.Equal(t, 0.25, tree.Threshold())
}

func TestTreeParamsValidate(t *testing.T) {
	for name, tree := range map[string]TreeParams{
		"no labels":          {},
		"kary 1":             {MaxLabels: 3, Kary: 1},
		"negative pAt":       {MaxLabels: 3, PAt: -1},
		"unknown policy":     {MaxLabels: 3, Policy: "shortest"},
		"k without topology": {MaxLabels: 3, KFromStructure: true},
	} {
		assert.Error(t, tree.Validate(), name)
	}
	tree := TreeParams{LoadTreeStructure: "tree.txt", KFromStructure: true}
	assert.NoError(t, tree.Validate())
}

func TestLearnerParams(t *testing.T) {
	var l LearnerParams
	l.SetDefaults()
	require.NoError(t, l.Validate())
	assert.Equal(t, 24, l.Bits)
	assert.Equal(t, 0.5, l.LearningRate)
	assert.Equal(t, 0.5, l.GetPowerT())
	assert.True(t, l.IsAdaptive())

	off, zero := false, 0.0
	l = LearnerParams{Adaptive: &off, PowerT: &zero}
	l.SetDefaults()
	assert.False(t, l.IsAdaptive())
	assert.Equal(t, 0.0, l.GetPowerT())

	assert.Error(t, (&LearnerParams{Bits: 40}).Validate())
	assert.Error(t, (&LearnerParams{LearningRate: -1}).Validate())
}

func TestModelStore(t *testing.T) {
	m := ModelStore{}
	m.SetDefaults()
	require.NoError(t, m.Validate())
	assert.Equal(t, "file", m.Type)
	assert.Equal(t, "none", m.Compression)

	assert.Error(t, (&ModelStore{Type: "s3", Compression: "none"}).Validate())
	assert.Error(t, (&ModelStore{Type: "s3", Compression: "none", S3: &ModelStoreS3{Endpoint: "minio:9000"}}).Validate())
	assert.NoError(t, (&ModelStore{Type: "s3", Compression: "snappy", S3: &ModelStoreS3{Endpoint: "minio:9000", Bucket: "models"}}).Validate())
	assert.Error(t, (&ModelStore{Type: "file", Compression: "gzip"}).Validate())
}
