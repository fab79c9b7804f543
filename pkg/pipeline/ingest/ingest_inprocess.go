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

package ingest

import (
	"context"
)

// InProcess serves a fixed set of example lines, the same on every pass.
type InProcess struct {
	lines []string
}

func NewInProcess(lines []string) *InProcess {
	return &InProcess{lines: lines}
}

func (d *InProcess) Ingest(ctx context.Context, out chan<- string) error {
	for _, line := range d.lines {
		if !send(ctx, out, line) {
			return nil
		}
		linesIngested.WithLabelValues("inprocess").Inc()
	}
	return nil
}

func (d *InProcess) Replayable() bool {
	return true
}
