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

package example

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	p, err := NewParser(DefaultBits)
	require.NoError(t, err)

	ex, err := p.Parse("1,5,7 | a b:0.5 c")
	require.NoError(t, err)
	require.Equal(t, []uint32{1, 5, 7}, ex.Labels)
	require.Equal(t, float32(1), ex.Weight)
	// three features plus the constant
	require.Len(t, ex.Features, 4)
	assert.Equal(t, float32(0.5), ex.Features[1].Value)
	for _, f := range ex.Features {
		assert.Less(t, f.Index, uint64(1)<<DefaultBits)
	}
	assert.True(t, ex.HasLabel(5))
	assert.False(t, ex.HasLabel(2))
}

func TestParseWeightAndNamespaces(t *testing.T) {
	p, err := NewParser(10)
	require.NoError(t, err)

	ex, err := p.Parse("3 2.5 |user a:2 |item a:2")
	require.NoError(t, err)
	require.Equal(t, []uint32{3}, ex.Labels)
	require.Equal(t, float32(2.5), ex.Weight)
	require.Len(t, ex.Features, 3)
	// same name in different namespaces hashes differently
	assert.NotEqual(t, ex.Features[0].Index, ex.Features[1].Index)
}

func TestParseUnlabeled(t *testing.T) {
	p, err := NewParser(DefaultBits)
	require.NoError(t, err)

	ex, err := p.Parse(" | a b")
	require.NoError(t, err)
	require.Empty(t, ex.Labels)
	require.Len(t, ex.Features, 3)
}

func TestParseErrors(t *testing.T) {
	p, err := NewParser(DefaultBits)
	require.NoError(t, err)

	for _, line := range []string{
		"1,2 a b",
		"x | a",
		"1 -2 | a",
		"1 2 3 | a",
		"1 | a:zz",
		"0 NaN | a",
		"0 Inf | a",
		"1 | a:Inf",
		"1 | a:-inf",
		"1 | a:NaN b",
	} {
		_, err := p.Parse(line)
		assert.Error(t, err, line)
	}

	_, err = NewParser(0)
	require.Error(t, err)
	_, err = NewParser(40)
	require.Error(t, err)
}
