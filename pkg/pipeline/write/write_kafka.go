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
	"context"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/netobserv/labeltree/pkg/api"
	kafkago "github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 10 * time.Second
)

type kafkaWriteMessage interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type Kafka struct {
	kafkaParams api.WriteKafka
	kafkaWriter kafkaWriteMessage
}

// Write sends the json rendering of the prediction, keyed by the example position.
func (r *Kafka) Write(rec Record) error {
	entry, err := rec.Render()
	if err != nil {
		return err
	}
	var json = jsoniter.ConfigCompatibleWithStandardLibrary
	value, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	msg := kafkago.Message{
		Key:   []byte(strconv.Itoa(rec.Example)),
		Value: value,
	}
	if err := r.kafkaWriter.WriteMessages(context.Background(), msg); err != nil {
		log.Errorf("Kafka error: %v", err)
		return err
	}
	predictionsWritten.WithLabelValues(api.WriteTypeName("Kafka")).Inc()
	return nil
}

// NewWriteKafka create a new writer to kafka
func NewWriteKafka(params *api.WriteKafka) (Writer, error) {
	log.Debugf("entering NewWriteKafka")
	var balancer kafkago.Balancer
	switch params.Balancer {
	case api.KafkaBalancerName("RoundRobin"):
		balancer = &kafkago.RoundRobin{}
	case api.KafkaBalancerName("LeastBytes"):
		balancer = &kafkago.LeastBytes{}
	case api.KafkaBalancerName("Hash"):
		balancer = &kafkago.Hash{}
	case api.KafkaBalancerName("Crc32"):
		balancer = &kafkago.CRC32Balancer{}
	case api.KafkaBalancerName("Murmur2"):
		balancer = &kafkago.Murmur2Balancer{}
	default:
		balancer = nil
	}

	readTimeout := defaultReadTimeout
	if params.ReadTimeout.Duration != 0 {
		readTimeout = params.ReadTimeout.Duration
	}

	writeTimeout := defaultWriteTimeout
	if params.WriteTimeout.Duration != 0 {
		writeTimeout = params.WriteTimeout.Duration
	}

	// connect to the kafka server
	kafkaWriter := kafkago.Writer{
		Addr:         kafkago.TCP(params.Address),
		Topic:        params.Topic,
		Balancer:     balancer,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		BatchSize:    params.BatchSize,
		BatchBytes:   params.BatchBytes,
	}

	return &Kafka{
		kafkaParams: *params,
		kafkaWriter: &kafkaWriter,
	}, nil
}
