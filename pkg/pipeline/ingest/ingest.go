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

	"github.com/netobserv/labeltree/pkg/operational"
	"github.com/prometheus/client_golang/prometheus"
)

// Ingester feeds example lines to the pipeline, one pass per call.
// Ingest returns when the source is exhausted or ctx is done; it does not close out.
type Ingester interface {
	Ingest(ctx context.Context, out chan<- string) error
	// Replayable reports whether a second call to Ingest reads the same examples again.
	Replayable() bool
}

var linesIngested = operational.NewCounterVec(prometheus.CounterOpts{
	Name: "ingest_lines",
	Help: "Number of example lines ingested",
}, []string{"type"})

var ingestErrors = operational.NewCounterVec(prometheus.CounterOpts{
	Name: "ingest_errors",
	Help: "Counter of errors during ingestion",
}, []string{"type"})

// send forwards a line unless ctx is done first.
func send(ctx context.Context, out chan<- string, line string) bool {
	select {
	case out <- line:
		return true
	case <-ctx.Done():
		return false
	}
}
