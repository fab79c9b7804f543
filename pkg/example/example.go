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

// Feature is a hashed feature index with its value.
type Feature struct {
	Index uint64
	Value float32
}

// Example is a single multi-label training or test instance.
type Example struct {
	Labels   []uint32
	Weight   float32
	Features []Feature
}

// HasLabel reports whether label is one of the ground truth labels of the example.
func (e *Example) HasLabel(label uint32) bool {
	for _, l := range e.Labels {
		if l == label {
			return true
		}
	}
	return false
}
