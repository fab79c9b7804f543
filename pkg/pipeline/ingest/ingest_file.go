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
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/netobserv/labeltree/pkg/api"
	log "github.com/sirupsen/logrus"
)

const maxLineSize = 16 * 1024 * 1024

type ingestFile struct {
	fileName string
	metric   string
}

// Ingest reads the file from the start, so that every pass sees the same examples.
func (r *ingestFile) Ingest(ctx context.Context, out chan<- string) error {
	file, err := os.Open(r.fileName)
	if err != nil {
		ingestErrors.WithLabelValues(r.metric).Inc()
		return err
	}
	defer func() {
		_ = file.Close()
	}()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	count := 0
	for scanner.Scan() {
		if !send(ctx, out, scanner.Text()) {
			log.Debugf("ingestFile: stopped after %d lines", count)
			return nil
		}
		count++
		linesIngested.WithLabelValues(r.metric).Inc()
	}
	if err := scanner.Err(); err != nil {
		ingestErrors.WithLabelValues(r.metric).Inc()
		return fmt.Errorf("reading %s: %w", r.fileName, err)
	}
	log.Debugf("ingestFile: ingested %d lines from %s", count, r.fileName)
	return nil
}

func (r *ingestFile) Replayable() bool {
	return true
}

// NewIngestFile create a new ingester
func NewIngestFile(params *api.IngestFile) (Ingester, error) {
	log.Debugf("entering NewIngestFile")
	if params == nil || params.Filename == "" {
		return nil, fmt.Errorf("ingest filename not specified")
	}
	log.Infof("input file name = %s", params.Filename)
	return &ingestFile{
		fileName: params.Filename,
		metric:   api.IngestTypeName("File"),
	}, nil
}
