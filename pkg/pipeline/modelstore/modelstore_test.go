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
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	minio "github.com/minio/minio-go/v7"
	"github.com/netobserv/labeltree/pkg/api"
	"github.com/netobserv/labeltree/pkg/example"
	"github.com/netobserv/labeltree/pkg/plt"
	"github.com/netobserv/labeltree/pkg/weights"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func trainedModel(t *testing.T) (*plt.Tree, *weights.Table) {
	tree, err := plt.NewTree(2, 4, 0)
	require.NoError(t, err)
	table, err := weights.NewTable(10, plt.PredictorBits(tree.SlotCapacity()), weights.StrideShift(true))
	require.NoError(t, err)
	sgd, err := weights.NewSGD(table, weights.SGDConfig{LearningRate: 0.5, PowerT: 0.5, Adaptive: true})
	require.NoError(t, err)
	m, err := plt.NewModelFromTree(tree, plt.Options{MaxLabels: 4, Kary: 2, Policy: plt.PolicyComplete, InnerThreshold: -1}, sgd, table)
	require.NoError(t, err)
	parser, err := example.NewParser(10)
	require.NoError(t, err)
	for _, line := range []string{"1 | a b", "2,3 | c", "4 | d a", "1,4 | b d"} {
		ex, err := parser.Parse(line)
		require.NoError(t, err)
		require.NoError(t, m.Learn(ex))
	}
	return tree, table
}

func requireSameModel(t *testing.T, tree *plt.Tree, table *weights.Table, got *Model) {
	require.Equal(t, tree.Edges(), got.Tree.Edges())
	require.Equal(t, tree.Stats(), got.Tree.Stats())
	var want, have bytes.Buffer
	_, err := table.WriteTo(&want)
	require.NoError(t, err)
	_, err = got.Table.WriteTo(&have)
	require.NoError(t, err)
	require.Equal(t, want.Bytes(), have.Bytes())
}

func TestEncodeDecode(t *testing.T) {
	tree, table := trainedModel(t)
	for _, compress := range []bool{false, true} {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, tree, table, true, compress))
		m, err := Decode(&buf)
		require.NoError(t, err)
		require.True(t, m.Resume)
		requireSameModel(t, tree, table, m)
	}
}

func TestDecodeRejectsTableOfOtherTree(t *testing.T) {
	tree, _ := trainedModel(t)
	bits := plt.PredictorBits(tree.SlotCapacity())
	for _, other := range []uint{bits - 1, bits + 1} {
		table, err := weights.NewTable(10, other, weights.StrideShift(true))
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, tree, table, false, false))
		_, err = Decode(&buf)
		require.ErrorContains(t, err, "predictor bits")
	}
}

func TestEncodingFlag(t *testing.T) {
	tree, table := trainedModel(t)
	var raw, compressed bytes.Buffer
	require.NoError(t, Encode(&raw, tree, table, false, false))
	require.NoError(t, Encode(&compressed, tree, table, false, true))
	require.Equal(t, "LTM1", raw.String()[:4])
	require.Equal(t, encodingRaw, raw.Bytes()[len(modelMagic)])
	require.Equal(t, encodingSnappy, compressed.Bytes()[len(modelMagic)])
}

func TestDecodeBadHeader(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("PLT1\x00")))
	require.Error(t, err)
	_, err = Decode(bytes.NewReader([]byte("LTM1\x07")))
	require.EqualError(t, err, "unknown model encoding 7")
	_, err = Decode(bytes.NewReader([]byte("LT")))
	require.Error(t, err)
}

func TestFileStore(t *testing.T) {
	tree, table := trainedModel(t)
	store, err := NewStore(&api.ModelStore{Type: "file", Compression: "snappy"})
	require.NoError(t, err)
	name := filepath.Join(t.TempDir(), "model.bin")

	require.NoError(t, store.Save(context.Background(), name, tree, table, false))
	m, err := store.Load(context.Background(), name)
	require.NoError(t, err)
	require.False(t, m.Resume)
	requireSameModel(t, tree, table, m)

	_, err = store.Load(context.Background(), filepath.Join(t.TempDir(), "missing.bin"))
	require.Error(t, err)
}

func TestNewStoreErrors(t *testing.T) {
	_, err := NewStore(&api.ModelStore{Type: "s3"})
	require.Error(t, err)
	_, err = NewStore(&api.ModelStore{Type: "ftp"})
	require.Error(t, err)
}

type fakeS3 struct {
	mock.Mock
	objects map[string][]byte
}

func (f *fakeS3) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := f.Called(bucketName)
	return args.Bool(0), args.Error(1)
}

func (f *fakeS3) PutObject(_ context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, _ minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[objectName] = data
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: objectSize}, nil
}

func (f *fakeS3) GetObject(_ context.Context, _, _ string, _ minio.GetObjectOptions) (*minio.Object, error) {
	return nil, errors.New("not supported by the fake")
}

func TestS3Save(t *testing.T) {
	tree, table := trainedModel(t)
	fake := &fakeS3{objects: map[string][]byte{}}
	fake.On("BucketExists", "models").Return(true, nil)
	store := &Store{backend: &s3Backend{bucket: "models", client: fake}, timeout: defaultTimeout, kindName: "s3"}

	require.NoError(t, store.Save(context.Background(), "runs/model.bin", tree, table, true))
	m, err := Decode(bytes.NewReader(fake.objects["runs/model.bin"]))
	require.NoError(t, err)
	requireSameModel(t, tree, table, m)
}

func TestS3MissingBucket(t *testing.T) {
	tree, table := trainedModel(t)
	fake := &fakeS3{objects: map[string][]byte{}}
	fake.On("BucketExists", "models").Return(false, nil)
	store := &Store{backend: &s3Backend{bucket: "models", client: fake}, timeout: defaultTimeout, kindName: "s3"}

	require.Error(t, store.Save(context.Background(), "model.bin", tree, table, true))
	_, err := store.Load(context.Background(), "model.bin")
	require.Error(t, err)
	require.Empty(t, fake.objects)
}

func TestNewS3Store(t *testing.T) {
	store, err := NewStore(&api.ModelStore{Type: "s3", S3: &api.ModelStoreS3{
		Endpoint: "localhost:9000", Bucket: "models", Timeout: api.Duration{Duration: 5 * time.Second},
	}})
	require.NoError(t, err)
	require.IsType(t, &s3Backend{}, store.backend)
	require.Equal(t, "models", store.backend.(*s3Backend).bucket)
	require.Equal(t, 5*time.Second, store.timeout)
}
