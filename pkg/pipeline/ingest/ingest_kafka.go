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

package ingest

import (
	"context"
	"errors"
	"strings"

	"github.com/netobserv/labeltree/pkg/api"
	kafkago "github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

type kafkaReadMessage interface {
	ReadMessage(ctx context.Context) (kafkago.Message, error)
	Config() kafkago.ReaderConfig
	Close() error
}

type ingestKafka struct {
	kafkaParams api.IngestKafka
	kafkaReader kafkaReadMessage
	metric      string
}

// Ingest reads messages until ctx is done or MaxMessages were read. A message may hold several example lines.
func (r *ingestKafka) Ingest(ctx context.Context, out chan<- string) error {
	defer func() {
		if err := r.kafkaReader.Close(); err != nil {
			log.Warnf("closing kafka reader: %v", err)
		}
	}()
	read := 0
	for r.kafkaParams.MaxMessages <= 0 || read < r.kafkaParams.MaxMessages {
		m, err := r.kafkaReader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			ingestErrors.WithLabelValues(r.metric).Inc()
			return err
		}
		read++
		log.Debugf("message at topic:%v partition:%v offset:%v", m.Topic, m.Partition, m.Offset)
		for _, line := range strings.Split(string(m.Value), "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			if !send(ctx, out, line) {
				return nil
			}
			linesIngested.WithLabelValues(r.metric).Inc()
		}
	}
	log.Infof("ingestKafka: read %d messages", read)
	return nil
}

// Replayable is false: a consumer group moves on once messages are read.
func (r *ingestKafka) Replayable() bool {
	return false
}

// NewIngestKafka create a new ingester
func NewIngestKafka(params *api.IngestKafka) (Ingester, error) {
	log.Debugf("entering NewIngestKafka")
	if params == nil || len(params.Brokers) == 0 || params.Topic == "" {
		return nil, errors.New("NewIngestKafka: kafka brokers and topic must be set")
	}

	startOffset := kafkago.FirstOffset
	if params.StartOffset == "LastOffset" {
		startOffset = kafkago.LastOffset
	}

	kafkaReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        params.Brokers,
		Topic:          params.Topic,
		GroupID:        params.GroupId,
		StartOffset:    startOffset,
		CommitInterval: params.CommitInterval.Duration,
	})
	if kafkaReader == nil {
		errMsg := "NewIngestKafka: failed to create kafka reader"
		log.Errorf("%s", errMsg)
		return nil, errors.New(errMsg)
	}

	return &ingestKafka{
		kafkaParams: *params,
		kafkaReader: kafkaReader,
		metric:      api.IngestTypeName("Kafka"),
	}, nil
}
