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

type IngestTypeEnum struct {
	File  string `yaml:"file" json:"file" doc:"read examples from a file, once per pass"`
	Kafka string `yaml:"kafka" json:"kafka" doc:"read examples from a kafka topic, one example per message"`
}

func IngestTypeName(operation string) string {
	return GetEnumName(IngestTypeEnum{}, operation)
}

type IngestFile struct {
	Filename string `yaml:"filename" json:"filename" doc:"path of the example file, one example per line"`
}

type IngestKafka struct {
	Brokers        []string `yaml:"brokers,omitempty" json:"brokers,omitempty" doc:"list of kafka broker addresses"`
	Topic          string   `yaml:"topic,omitempty" json:"topic,omitempty" doc:"kafka topic to listen on"`
	GroupId        string   `yaml:"groupid,omitempty" json:"groupid,omitempty" doc:"separate groupid for each consumer on specified topic"`
	StartOffset    string   `yaml:"startOffset,omitempty" json:"startOffset,omitempty" doc:"FirstOffset (least recent - default) or LastOffset (most recent) offset available for a partition"`
	CommitInterval Duration `yaml:"commitInterval,omitempty" json:"commitInterval,omitempty" doc:"interval between offset commits (default: synchronous commits)"`
	MaxMessages    int      `yaml:"maxMessages,omitempty" json:"maxMessages,omitempty" doc:"stop after this many messages (default: run until interrupted)"`
}
