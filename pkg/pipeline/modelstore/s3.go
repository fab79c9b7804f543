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
	"fmt"
	"io"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/netobserv/labeltree/pkg/api"
	log "github.com/sirupsen/logrus"
)

type s3API interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
}

type s3Backend struct {
	bucket string
	client s3API
}

func newS3Backend(params *api.ModelStoreS3) (*s3Backend, error) {
	client, err := minio.New(params.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(params.AccessKeyId, params.SecretAccessKey, ""),
		Secure: params.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("creating s3 client: %w", err)
	}
	log.Infof("s3 model store at %s, bucket %s", params.Endpoint, params.Bucket)
	return &s3Backend{bucket: params.Bucket, client: client}, nil
}

func (s *s3Backend) checkBucket(ctx context.Context) error {
	found, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("accessing s3 bucket %s: %w", s.bucket, err)
	}
	if !found {
		return fmt.Errorf("s3 bucket %s not found", s.bucket)
	}
	return nil
}

func (s *s3Backend) put(ctx context.Context, name string, data *bytes.Buffer) error {
	if err := s.checkBucket(ctx); err != nil {
		return err
	}
	uploadInfo, err := s.client.PutObject(ctx, s.bucket, name, data, int64(data.Len()), minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return err
	}
	log.Debugf("uploadInfo = %v", uploadInfo)
	return nil
}

func (s *s3Backend) get(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := s.checkBucket(ctx); err != nil {
		return nil, err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	return obj, nil
}
