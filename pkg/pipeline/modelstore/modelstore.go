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

package modelstore

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/golang/snappy"
	"github.com/netobserv/labeltree/pkg/api"
	"github.com/netobserv/labeltree/pkg/plt"
	"github.com/netobserv/labeltree/pkg/weights"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	modelMagic     = "LTM1"
	defaultTimeout = 60 * time.Second
)

const (
	encodingRaw byte = iota
	encodingSnappy
)

// Model is what a saved model holds: the tree and the parameter table of its node predictors.
type Model struct {
	Tree *plt.Tree
	// Resume is true when node timestamps were saved with the tree.
	Resume bool
	Table  *weights.Table
}

type backend interface {
	put(ctx context.Context, name string, data *bytes.Buffer) error
	get(ctx context.Context, name string) (io.ReadCloser, error)
}

// Store saves and loads models in a file system or an s3 bucket.
type Store struct {
	backend  backend
	snappy   bool
	timeout  time.Duration
	kindName string
}

func NewStore(params *api.ModelStore) (*Store, error) {
	s := &Store{
		snappy:   params.Compression == api.ModelCompressionName("Snappy"),
		timeout:  defaultTimeout,
		kindName: params.Type,
	}
	switch params.Type {
	case api.ModelStoreTypeName("File"), "":
		s.backend = &fileBackend{}
	case api.ModelStoreTypeName("S3"):
		if params.S3 == nil {
			return nil, errors.New("missing s3 model store parameters")
		}
		if params.S3.Timeout.Duration != 0 {
			s.timeout = params.S3.Timeout.Duration
		}
		b, err := newS3Backend(params.S3)
		if err != nil {
			return nil, err
		}
		s.backend = b
	default:
		return nil, fmt.Errorf("model store type %q not defined", params.Type)
	}
	return s, nil
}

// Save encodes the model and stores it under name.
func (s *Store) Save(ctx context.Context, name string, tree *plt.Tree, table *weights.Table, resume bool) error {
	var buf bytes.Buffer
	if err := Encode(&buf, tree, table, resume, s.snappy); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.backend.put(ctx, name, &buf); err != nil {
		return errors.Wrapf(err, "saving model %s", name)
	}
	log.WithFields(log.Fields{"model": name, "store": s.kindName, "snappy": s.snappy}).Info("model saved")
	return nil
}

// Load reads the model stored under name.
func (s *Store) Load(ctx context.Context, name string) (*Model, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	rc, err := s.backend.get(ctx, name)
	if err != nil {
		return nil, errors.Wrapf(err, "loading model %s", name)
	}
	defer rc.Close()
	m, err := Decode(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding model %s", name)
	}
	log.WithFields(log.Fields{"model": name, "store": s.kindName, "nodes": m.Tree.Size()}).Info("model loaded")
	return m, nil
}

// Encode writes the model header, then the tree checkpoint followed by the parameter table,
// through a snappy framed stream when compress is set.
func Encode(w io.Writer, tree *plt.Tree, table *weights.Table, resume, compress bool) error {
	header := append([]byte(modelMagic), encodingRaw)
	if compress {
		header[len(modelMagic)] = encodingSnappy
	}
	if _, err := w.Write(header); err != nil {
		return errors.Wrap(err, "writing model header")
	}
	body := w
	var sw *snappy.Writer
	if compress {
		sw = snappy.NewBufferedWriter(w)
		body = sw
	}
	if err := plt.WriteCheckpoint(body, tree, resume); err != nil {
		return err
	}
	if _, err := table.WriteTo(body); err != nil {
		return errors.Wrap(err, "writing parameter table")
	}
	if sw != nil {
		return errors.Wrap(sw.Close(), "closing snappy stream")
	}
	return nil
}

// Decode reads a model written by Encode.
func Decode(r io.Reader) (*Model, error) {
	header := make([]byte, len(modelMagic)+1)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, errors.Wrap(err, "reading model header")
	}
	if string(header[:len(modelMagic)]) != modelMagic {
		return nil, fmt.Errorf("not a label tree model: header %q", header[:len(modelMagic)])
	}
	var body io.Reader
	switch header[len(modelMagic)] {
	case encodingRaw:
		body = r
	case encodingSnappy:
		body = snappy.NewReader(r)
	default:
		return nil, fmt.Errorf("unknown model encoding %d", header[len(modelMagic)])
	}
	// checkpoint and table readers reuse this buffer instead of stacking their own
	br := bufio.NewReader(body)
	tree, resume, err := plt.ReadCheckpoint(br)
	if err != nil {
		return nil, err
	}
	table, err := weights.ReadTable(br)
	if err != nil {
		return nil, err
	}
	if need := plt.PredictorBits(tree.SlotCapacity()); table.PredictorBits() != need {
		return nil, fmt.Errorf("parameter table has %d predictor bits, tree uses %d", table.PredictorBits(), need)
	}
	return &Model{Tree: tree, Resume: resume, Table: table}, nil
}
