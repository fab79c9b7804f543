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
	"sync"

	"github.com/netobserv/labeltree/pkg/config"
	log "github.com/sirupsen/logrus"
)

type WriteFake struct {
	mutex      sync.Mutex
	AllRecords []config.GenericMap
}

// Write stores in memory all records.
func (w *WriteFake) Write(rec Record) error {
	entry, err := rec.Render()
	if err != nil {
		return err
	}
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.AllRecords = append(w.AllRecords, entry)
	return nil
}

// Records returns a copy of what was written so far.
func (w *WriteFake) Records() []config.GenericMap {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	out := make([]config.GenericMap, 0, len(w.AllRecords))
	for _, r := range w.AllRecords {
		out = append(out, r.Copy())
	}
	return out
}

// NewWriteFake creates a new write.
func NewWriteFake() *WriteFake {
	log.Debugf("entering NewWriteFake")
	return &WriteFake{}
}
