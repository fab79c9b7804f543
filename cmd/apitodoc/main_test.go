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
package main

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/netobserv/labeltree/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sectionDoc struct {
	Section  storeDoc  `yaml:"store" doc:"## Store API"`
	Internal string    `yaml:"internal"`
	Labels   []uint32  `yaml:"labels" doc:"known labels"`
	Extra    *storeDoc `yaml:"extra,omitempty" doc:"optional store"`
}

type storeDoc struct {
	Path    string            `yaml:"path" doc:"model path"`
	Headers map[string]string `yaml:"headers,omitempty" doc:"request headers"`
}

func TestRenderSections(t *testing.T) {
	out := new(bytes.Buffer)
	(&apiDoc{out: out}).render(reflect.TypeOf(sectionDoc{}), 0)
	expected := "\n## Store API\n<pre>\n store:\n" +
		"     path: model path\n" +
		"     headers: request headers\n" +
		"</pre>" +
		"     labels: known labels\n" +
		"     extra: optional store\n" +
		"         path: model path\n" +
		"         headers: request headers\n"
	require.Equal(t, expected, out.String())
}

func TestRenderLabelTreeAPI(t *testing.T) {
	out := new(bytes.Buffer)
	(&apiDoc{out: out}).render(reflect.TypeOf(api.API{}), 0)
	doc := out.String()

	assert.Contains(t, doc, "## Label tree API")
	assert.Contains(t, doc, " tree:\n")
	assert.Contains(t, doc, "     maxLabels: maximum number of distinct labels")
	assert.Contains(t, doc, "     policy: (enum) where a newly seen label is attached:\n")
	assert.Contains(t, doc, "         best_prediction: descend through full nodes following the most probable child")
	assert.Contains(t, doc, "## Learner API")
	assert.Contains(t, doc, "## Model store API")
	assert.Contains(t, doc, "## Write Kafka API")
	assert.Contains(t, doc, "         snappy:")
}
