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

package pipeline

import (
	"context"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/netobserv/labeltree/pkg/config"
	"github.com/netobserv/labeltree/pkg/pipeline/ingest"
	"github.com/netobserv/labeltree/pkg/pipeline/write"
)

// RunInProcess runs the configured passes over examples held in memory, sending predictions to writer.
// The ingest section of the configuration is ignored.
func RunInProcess(ctx context.Context, cfg *config.ConfigFileStruct, lines []string, writer write.Writer) (*Pipeline, error) {
	p, err := newPipeline(ctx, cfg, ingest.NewInProcess(lines), writer, clock.New())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pipeline %w", err)
	}
	return p, p.Run(ctx)
}
