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
	"math"
	"testing"

	"github.com/netobserv/labeltree/pkg/example"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sigmoid(x float32) float64 { return 1 / (1 + math.Exp(-float64(x))) }

func TestSGDLearnsSeparableSlots(t *testing.T) {
	for _, adaptive := range []bool{false, true} {
		table, err := NewTable(4, 2, StrideShift(adaptive))
		require.NoError(t, err)
		sgd, err := NewSGD(table, SGDConfig{LearningRate: 1, PowerT: DefaultPowerT, Adaptive: adaptive})
		require.NoError(t, err)

		a := &example.Example{Weight: 1, Features: []example.Feature{{Index: 1, Value: 1}, {Index: 15, Value: 1}}}
		b := &example.Example{Weight: 1, Features: []example.Feature{{Index: 2, Value: 1}, {Index: 15, Value: 1}}}
		for i := 0; i < 200; i++ {
			sgd.Learn(a, 0, 1, float64(i))
			sgd.Learn(b, 0, -1, float64(i))
			sgd.Learn(a, 1, -1, float64(i))
			sgd.Learn(b, 1, 1, float64(i))
		}

		assert.Greater(t, sigmoid(sgd.Predict(a, 0)), 0.75, "adaptive=%v", adaptive)
		assert.Less(t, sigmoid(sgd.Predict(b, 0)), 0.25, "adaptive=%v", adaptive)
		assert.Less(t, sigmoid(sgd.Predict(a, 1)), 0.25, "adaptive=%v", adaptive)
		assert.Greater(t, sigmoid(sgd.Predict(b, 1)), 0.75, "adaptive=%v", adaptive)
		// slots never trained stay at zero
		assert.Equal(t, float32(0), sgd.Predict(a, 3))
	}
}

func TestSGDRateDecaysWithCounter(t *testing.T) {
	table, err := NewTable(2, 1, 0)
	require.NoError(t, err)
	sgd, err := NewSGD(table, SGDConfig{LearningRate: 1, PowerT: 0.5})
	require.NoError(t, err)
	require.InDelta(t, 1, sgd.rate(0), 1e-9)
	require.InDelta(t, 0.5, sgd.rate(3), 1e-9)
	require.Greater(t, sgd.rate(10), sgd.rate(100))
}

func TestSGDConfigErrors(t *testing.T) {
	table, err := NewTable(2, 1, 0)
	require.NoError(t, err)
	_, err = NewSGD(table, SGDConfig{LearningRate: 1, Adaptive: true})
	require.Error(t, err)
	_, err = NewSGD(table, SGDConfig{})
	require.Error(t, err)
}
