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

package example

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const (
	DefaultBits     = 18
	constantFeature = "^constant"
	labelSeparator  = ","
	valueSeparator  = ":"
	nsSeparator     = "|"
)

// Parser reads examples in the `<labels> [weight] | [namespace] <name[:value]> ...` text format.
// Feature names are hashed with xxhash and masked to the configured number of bits.
type Parser struct {
	mask     uint64
	constant uint64
}

func NewParser(bits int) (*Parser, error) {
	if bits <= 0 || bits > 32 {
		return nil, fmt.Errorf("feature bits must be in [1, 32], got %d", bits)
	}
	mask := uint64(1)<<uint(bits) - 1
	return &Parser{
		mask:     mask,
		constant: xxhash.Sum64String(constantFeature) & mask,
	}, nil
}

// Parse parses one example line. Every example also gets a constant bias feature.
func (p *Parser) Parse(line string) (*Example, error) {
	segments := strings.Split(line, nsSeparator)
	if len(segments) < 2 {
		return nil, fmt.Errorf("missing '%s' separator in example %q", nsSeparator, line)
	}

	ex := &Example{Weight: 1}
	if err := p.parseHeader(strings.Fields(segments[0]), ex); err != nil {
		return nil, err
	}

	for _, segment := range segments[1:] {
		namespace := ""
		if segment != "" && segment[0] != ' ' && segment[0] != '\t' {
			fields := strings.Fields(segment)
			if len(fields) == 0 {
				continue
			}
			namespace = fields[0]
			segment = strings.TrimPrefix(strings.TrimLeft(segment, " \t"), namespace)
		}
		for _, token := range strings.Fields(segment) {
			f, err := p.parseFeature(namespace, token)
			if err != nil {
				return nil, err
			}
			ex.Features = append(ex.Features, f)
		}
	}
	ex.Features = append(ex.Features, Feature{Index: p.constant, Value: 1})
	return ex, nil
}

func (p *Parser) parseHeader(fields []string, ex *Example) error {
	switch len(fields) {
	case 0:
		return nil
	case 1, 2:
	default:
		return fmt.Errorf("too many fields before '%s': %v", nsSeparator, fields)
	}
	for _, l := range strings.Split(fields[0], labelSeparator) {
		if l == "" {
			continue
		}
		label, err := strconv.ParseUint(l, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid label %q: %w", l, err)
		}
		ex.Labels = append(ex.Labels, uint32(label))
	}
	if len(fields) == 2 {
		w, err := strconv.ParseFloat(fields[1], 32)
		if err != nil {
			return fmt.Errorf("invalid example weight %q: %w", fields[1], err)
		}
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("example weight must be finite and non-negative, got %v", w)
		}
		ex.Weight = float32(w)
	}
	return nil
}

func (p *Parser) parseFeature(namespace, token string) (Feature, error) {
	name, value := token, float32(1)
	if i := strings.LastIndex(token, valueSeparator); i > 0 {
		v, err := strconv.ParseFloat(token[i+1:], 32)
		if err != nil {
			return Feature{}, fmt.Errorf("invalid value in feature %q: %w", token, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Feature{}, fmt.Errorf("non-finite value in feature %q", token)
		}
		name, value = token[:i], float32(v)
	}
	if namespace != "" {
		name = namespace + "^" + name
	}
	return Feature{Index: xxhash.Sum64String(name) & p.mask, Value: value}, nil
}
