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

package config

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/netobserv/labeltree/pkg/api"
	"github.com/sirupsen/logrus"
)

type Options struct {
	Parameters      string
	Health          Health
	Profile         Profile
	MetricsSettings string
}

type Health struct {
	Address string
	Port    string
}

type Profile struct {
	Port int
}

// ConfigFileStruct is the parsed form of the whole configuration.
type ConfigFileStruct struct {
	LogLevel        string          `yaml:"log-level,omitempty" json:"log-level,omitempty"`
	Parameters      Parameters      `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	MetricsSettings MetricsSettings `yaml:"metricsSettings,omitempty" json:"metricsSettings,omitempty"`
}

type Parameters struct {
	Ingest  Ingest            `yaml:"ingest" json:"ingest"`
	Tree    api.TreeParams    `yaml:"tree" json:"tree"`
	Learner api.LearnerParams `yaml:"learner,omitempty" json:"learner,omitempty"`
	Run     api.RunParams     `yaml:"run,omitempty" json:"run,omitempty"`
	Model   *api.ModelStore   `yaml:"model,omitempty" json:"model,omitempty"`
	Write   *Write            `yaml:"write,omitempty" json:"write,omitempty"`
}

type Ingest struct {
	Type  string           `yaml:"type" json:"type"`
	File  *api.IngestFile  `yaml:"file,omitempty" json:"file,omitempty"`
	Kafka *api.IngestKafka `yaml:"kafka,omitempty" json:"kafka,omitempty"`
}

type Write struct {
	Type   string           `yaml:"type" json:"type"`
	Stdout *api.WriteStdout `yaml:"stdout,omitempty" json:"stdout,omitempty"`
	Kafka  *api.WriteKafka  `yaml:"kafka,omitempty" json:"kafka,omitempty"`
}

// MetricsSettings configures the server exposing the operational metrics.
type MetricsSettings struct {
	PromConnectionInfo  `yaml:",inline" json:",inline"`
	DisableGlobalServer bool   `yaml:"disableGlobalServer,omitempty" json:"disableGlobalServer,omitempty" doc:"disabling the global metrics server makes operational metrics unavailable"`
	Prefix              string `yaml:"prefix,omitempty" json:"prefix,omitempty" doc:"prefix for names of the operational metrics"`
	NoPanic             bool   `yaml:"noPanic,omitempty" json:"noPanic,omitempty"`
	SuppressGoMetrics   bool   `yaml:"suppressGoMetrics,omitempty" json:"suppressGoMetrics,omitempty" doc:"filter out Go and process metrics"`
}

type PromConnectionInfo struct {
	Address string `yaml:"address,omitempty" json:"address,omitempty" doc:"endpoint address to expose"`
	Port    int    `yaml:"port,omitempty" json:"port,omitempty" doc:"endpoint port number to expose"`
}

// GenericMap is a free-form record, used for the json rendering of predictions.
type GenericMap map[string]interface{}

// Copy will create a flat copy of GenericMap
func (m GenericMap) Copy() GenericMap {
	result := make(GenericMap, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

var jsonStrict = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	DisallowUnknownFields:  true,
}.Froze()

// JsonUnmarshalStrict is like Unmarshal except that any fields that are found
// in the data that do not have corresponding struct members, or mapping
// keys that are duplicates, will result in an error.
func JsonUnmarshalStrict(data []byte, v interface{}) error {
	return jsonStrict.Unmarshal(data, v)
}

// ParseConfig creates the internal unmarshalled representation from the Parameters and MetricsSettings json
func ParseConfig(opts *Options) (ConfigFileStruct, error) {
	out := ConfigFileStruct{}

	logrus.Debugf("opts.Parameters = %v ", opts.Parameters)
	if opts.Parameters == "" {
		return out, errors.New("missing parameters")
	}
	if err := JsonUnmarshalStrict([]byte(opts.Parameters), &out.Parameters); err != nil {
		logrus.Errorf("error when parsing pipeline parameters: %v", err)
		return out, err
	}
	logrus.Debugf("params = %v ", out.Parameters)

	if opts.MetricsSettings != "" {
		if err := JsonUnmarshalStrict([]byte(opts.MetricsSettings), &out.MetricsSettings); err != nil {
			logrus.Errorf("error when parsing global metrics settings: %v", err)
			return out, err
		}
		logrus.Debugf("metrics settings = %v ", out.MetricsSettings)
	} else {
		logrus.Infof("using default metrics settings")
	}

	out.Parameters.SetDefaults()
	if err := out.Parameters.Validate(); err != nil {
		return out, fmt.Errorf("invalid parameters: %w", err)
	}
	return out, nil
}

func (p *Parameters) SetDefaults() {
	p.Tree.SetDefaults()
	p.Learner.SetDefaults()
	p.Run.SetDefaults()
	if p.Model != nil {
		p.Model.SetDefaults()
	}
	if p.Write == nil {
		p.Write = &Write{Type: api.WriteTypeName("None")}
	}
	if p.Write.Type == api.WriteTypeName("Stdout") && p.Write.Stdout == nil {
		p.Write.Stdout = &api.WriteStdout{}
	}
}

func (p *Parameters) Validate() error {
	switch p.Ingest.Type {
	case api.IngestTypeName("File"):
		if p.Ingest.File == nil || p.Ingest.File.Filename == "" {
			return errors.New("ingest filename not specified")
		}
	case api.IngestTypeName("Kafka"):
		if p.Ingest.Kafka == nil || len(p.Ingest.Kafka.Brokers) == 0 || p.Ingest.Kafka.Topic == "" {
			return errors.New("kafka ingest requires brokers and topic")
		}
	default:
		return fmt.Errorf("`ingest` type %q not defined", p.Ingest.Type)
	}
	if err := p.Tree.Validate(); err != nil {
		return err
	}
	if err := p.Learner.Validate(); err != nil {
		return err
	}
	if p.Run.Passes < 1 {
		return fmt.Errorf("passes must be positive, got %d", p.Run.Passes)
	}
	if p.Model != nil {
		if err := p.Model.Validate(); err != nil {
			return err
		}
	}
	switch p.Write.Type {
	case api.WriteTypeName("Stdout"), api.WriteTypeName("None"):
	case api.WriteTypeName("Kafka"):
		if p.Write.Kafka == nil || p.Write.Kafka.Address == "" || p.Write.Kafka.Topic == "" {
			return errors.New("kafka write requires address and topic")
		}
	default:
		return fmt.Errorf("`write` type %q not defined", p.Write.Type)
	}
	return nil
}
