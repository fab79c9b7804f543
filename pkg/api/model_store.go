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

package api

import "errors"

type ModelStoreTypeEnum struct {
	File string `yaml:"file" json:"file" doc:"local file"`
	S3   string `yaml:"s3" json:"s3" doc:"object in an s3 bucket"`
}

func ModelStoreTypeName(operation string) string {
	return GetEnumName(ModelStoreTypeEnum{}, operation)
}

type ModelCompressionEnum struct {
	None   string `yaml:"none" json:"none" doc:"raw model"`
	Snappy string `yaml:"snappy" json:"snappy" doc:"snappy framed model"`
}

func ModelCompressionName(operation string) string {
	return GetEnumName(ModelCompressionEnum{}, operation)
}

type ModelStore struct {
	Type         string        `yaml:"type,omitempty" json:"type,omitempty" enum:"ModelStoreTypeEnum" doc:"where models are stored:"`
	InitialModel string        `yaml:"initialModel,omitempty" json:"initialModel,omitempty" doc:"model to load before the first pass (file path or object name)"`
	FinalModel   string        `yaml:"finalModel,omitempty" json:"finalModel,omitempty" doc:"model to save after the last pass (file path or object name)"`
	Compression  string        `yaml:"compression,omitempty" json:"compression,omitempty" enum:"ModelCompressionEnum" doc:"model encoding:"`
	S3           *ModelStoreS3 `yaml:"s3,omitempty" json:"s3,omitempty" doc:"s3 connection, for the s3 type"`
}

type ModelStoreS3 struct {
	Endpoint        string   `yaml:"endpoint" json:"endpoint" doc:"address of s3 server"`
	AccessKeyId     string   `yaml:"accessKeyId" json:"accessKeyId" doc:"username to connect to server"`
	SecretAccessKey string   `yaml:"secretAccessKey" json:"secretAccessKey" doc:"password to connect to server"`
	Bucket          string   `yaml:"bucket" json:"bucket" doc:"bucket holding the models"`
	Secure          bool     `yaml:"secure,omitempty" json:"secure,omitempty" doc:"connect with TLS"`
	Timeout         Duration `yaml:"timeout,omitempty" json:"timeout,omitempty" doc:"timeout of each load or save (default: 60s)"`
}

func (m *ModelStore) SetDefaults() {
	if m.Type == "" {
		m.Type = ModelStoreTypeName("File")
	}
	if m.Compression == "" {
		m.Compression = ModelCompressionName("None")
	}
}

func (m *ModelStore) Validate() error {
	if m.Type == ModelStoreTypeName("S3") {
		if m.S3 == nil {
			return errors.New("s3 model store requires the s3 section")
		}
		if m.S3.Endpoint == "" || m.S3.Bucket == "" {
			return errors.New("s3 model store requires endpoint and bucket")
		}
	}
	if !isEnumValue(ModelStoreTypeEnum{}, m.Type) {
		return errors.New("unknown model store type " + m.Type)
	}
	if !isEnumValue(ModelCompressionEnum{}, m.Compression) {
		return errors.New("unknown model compression " + m.Compression)
	}
	return nil
}
