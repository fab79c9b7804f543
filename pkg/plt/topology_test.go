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
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportTopology(t *testing.T) {
	m, _ := newTestModel(t, Options{MaxLabels: 4, InnerThreshold: -1, Policy: PolicyComplete})
	trainLabels(t, m, 0, 1, 2, 3)
	var buf bytes.Buffer
	require.NoError(t, ExportTopology(&buf, m.Tree()))
	assert.Equal(t, "0 2\n0 1\n2 5 0\n2 3 2\n1 8 1\n1 4 3\n", buf.String())
}

func TestTopologyRoundTrip(t *testing.T) {
	m, _ := newTestModel(t, Options{MaxLabels: 12, Kary: 3, InnerThreshold: -1, Policy: PolicyComplete})
	for l := uint32(0); l < 12; l++ {
		trainLabels(t, m, l*10)
	}
	var buf bytes.Buffer
	require.NoError(t, ExportTopology(&buf, m.Tree()))

	loaded, err := ImportTopology(&buf, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, m.Tree().Root(), loaded.Root())
	assert.Equal(t, m.Tree().Edges(), loaded.Edges())
	assert.Equal(t, 12, loaded.LeafCount())
	assert.Equal(t, 12, loaded.MaxLabels())
	assert.Zero(t, loaded.Stats().Pending)
	require.NoError(t, loaded.Validate())
}

func TestImportTopologySkipsBadLines(t *testing.T) {
	input := strings.Join([]string{
		"# parent child label",
		"",
		"0 1",
		"0 2 7",
		"x y",
		"1 3 4",
		"1 4 5 6",
		"3 3",
		"5 3",
		"1 5 4",
		"6 7",
		"9 0",
		"0 300000000",
	}, "\n")
	tree, err := ImportTopology(strings.NewReader(input), 2, 1)
	require.NoError(t, err)
	require.NoError(t, tree.Validate())

	assert.Equal(t, NodeID(0), tree.Root())
	assert.Equal(t, []NodeID{0, 1, 2, 3, 5}, tree.Order())
	leaf, ok := tree.Leaf(7)
	require.True(t, ok)
	assert.Equal(t, NodeID(2), leaf)
	leaf, ok = tree.Leaf(4)
	require.True(t, ok)
	assert.Equal(t, NodeID(3), leaf)
	assert.Equal(t, 2, tree.LeafCount())
	assert.Nil(t, tree.Node(6))
	assert.Equal(t, 1.0, tree.Node(3).T)
}

func TestImportTopologyRaisesKary(t *testing.T) {
	tree, err := ImportTopology(strings.NewReader("0 1 10\n0 2 20\n0 3 30\n"), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, tree.Kary())
	assert.Equal(t, 3, tree.LeafCount())
}

func TestImportTopologyLabelOnInnerNode(t *testing.T) {
	tree, err := ImportTopology(strings.NewReader("0 1 5\n1 2 6\n1 3 7\n"), 2, 0)
	require.NoError(t, err)
	_, ok := tree.Leaf(5)
	assert.False(t, ok)
	assert.Equal(t, 2, tree.LeafCount())
}

func TestImportTopologyEmpty(t *testing.T) {
	_, err := ImportTopology(strings.NewReader("# nothing here\n\n"), 2, 0)
	require.Error(t, err)
	_, err = ImportTopology(strings.NewReader("1 2 3 4\n"), 2, 0)
	require.Error(t, err)
}
