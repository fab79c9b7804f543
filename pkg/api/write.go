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

type WriteTypeEnum struct {
	Stdout string `yaml:"stdout" json:"stdout" doc:"write predictions to standard output"`
	Kafka  string `yaml:"kafka" json:"kafka" doc:"write predictions to a kafka topic"`
	None   string `yaml:"none" json:"none" doc:"discard predictions"`
}

func WriteTypeName(operation string) string {
	return GetEnumName(WriteTypeEnum{}, operation)
}

type StdoutFormatEnum struct {
	Text string `yaml:"text" json:"text" doc:"space separated label:probability pairs"`
	JSON string `yaml:"json" json:"json" doc:"one json object per prediction"`
}

func StdoutFormatName(operation string) string {
	return GetEnumName(StdoutFormatEnum{}, operation)
}

type WriteStdout struct {
	Format string `yaml:"format,omitempty" json:"format,omitempty" enum:"StdoutFormatEnum" doc:"the format of each line:"`
}

type KafkaBalancerEnum struct {
	RoundRobin string `yaml:"roundRobin" json:"roundRobin" doc:"RoundRobin balancer"`
	LeastBytes string `yaml:"leastBytes" json:"leastBytes" doc:"LeastBytes balancer"`
	Hash       string `yaml:"hash" json:"hash" doc:"Hash balancer"`
	Crc32      string `yaml:"crc32" json:"crc32" doc:"Crc32 balancer"`
	Murmur2    string `yaml:"murmur2" json:"murmur2" doc:"Murmur2 balancer"`
}

func KafkaBalancerName(operation string) string {
	return GetEnumName(KafkaBalancerEnum{}, operation)
}

type WriteKafka struct {
	Address      string   `yaml:"address" json:"address" doc:"address of kafka server"`
	Topic        string   `yaml:"topic" json:"topic" doc:"kafka topic to write to"`
	Balancer     string   `yaml:"balancer,omitempty" json:"balancer,omitempty" enum:"KafkaBalancerEnum" doc:"one of the following:"`
	WriteTimeout Duration `yaml:"writeTimeout,omitempty" json:"writeTimeout,omitempty" doc:"timeout for write operation (default: 10s)"`
	ReadTimeout  Duration `yaml:"readTimeout,omitempty" json:"readTimeout,omitempty" doc:"timeout for read operation (default: 10s)"`
	BatchBytes   int64    `yaml:"batchBytes,omitempty" json:"batchBytes,omitempty" doc:"limit (in bytes) of the maximum size of a request before being sent to a partition"`
	BatchSize    int      `yaml:"batchSize,omitempty" json:"batchSize,omitempty" doc:"limit on how many messages will be buffered before being sent to a partition"`
}
