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

package write

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/netobserv/labeltree/pkg/api"
	log "github.com/sirupsen/logrus"
)

type writeStdout struct {
	format string
}

// Write prints one line per prediction.
func (t *writeStdout) Write(rec Record) error {
	if t.format == api.StdoutFormatName("JSON") {
		entry, err := rec.Render()
		if err != nil {
			return err
		}
		var json = jsoniter.ConfigCompatibleWithStandardLibrary
		txt, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(txt))
	} else {
		fmt.Fprintln(os.Stdout, formatText(rec))
	}
	predictionsWritten.WithLabelValues(api.WriteTypeName("Stdout")).Inc()
	return nil
}

// formatText renders the labels as space separated label:probability pairs.
func formatText(rec Record) string {
	pairs := make([]string, 0, len(rec.Labels))
	for _, l := range rec.Labels {
		pairs = append(pairs, strconv.FormatUint(uint64(l.Label), 10)+":"+strconv.FormatFloat(l.Prob, 'f', 6, 64))
	}
	return strings.Join(pairs, " ")
}

// NewWriteStdout create a new write
func NewWriteStdout(params *api.WriteStdout) (Writer, error) {
	log.Debugf("entering NewWriteStdout")
	format := api.StdoutFormatName("Text")
	if params != nil && params.Format != "" {
		format = params.Format
	}
	if format != api.StdoutFormatName("Text") && format != api.StdoutFormatName("JSON") {
		return nil, fmt.Errorf("unknown stdout format %q", format)
	}
	return &writeStdout{format: format}, nil
}
