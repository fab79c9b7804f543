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

const TagYaml = "yaml"
const TagDoc = "doc"
const TagEnum = "enum"

// Note: items beginning with doc: "## title" are top level items that get divided into sections inside api.md.

type API struct {
	TreeParams    TreeParams    `yaml:"tree" doc:"## Label tree API\nFollowing is the supported API format for the probabilistic label tree:\n"`
	LearnerParams LearnerParams `yaml:"learner" doc:"## Learner API\nFollowing is the supported API format for the node classifiers:\n"`
	RunParams     RunParams     `yaml:"run" doc:"## Run API\nFollowing is the supported API format for the training and test passes:\n"`
	IngestFile    IngestFile    `yaml:"file" doc:"## Ingest file API\nFollowing is the supported API format for the file ingest:\n"`
	IngestKafka   IngestKafka   `yaml:"kafka" doc:"## Ingest Kafka API\nFollowing is the supported API format for the kafka ingest:\n"`
	ModelStore    ModelStore    `yaml:"model" doc:"## Model store API\nFollowing is the supported API format for saving and loading models:\n"`
	WriteStdout   WriteStdout   `yaml:"stdout" doc:"## Write Standard Output API\nFollowing is the supported API format for writing predictions to standard output:\n"`
	WriteKafka    WriteKafka    `yaml:"kafka" doc:"## Write Kafka API\nFollowing is the supported API format for writing predictions to kafka:\n"`
}
