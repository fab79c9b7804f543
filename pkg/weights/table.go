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

package weights

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	log "github.com/sirupsen/logrus"
)

const maxTableBits = 34

// Table is the parameter table shared by every classifier slot.
// The scalar for (feature, slot, aux) lives at
// (feature << (predictorBits+strideShift)) | (slot << strideShift) | aux.
type Table struct {
	featureBits   uint
	predictorBits uint
	strideShift   uint
	data          []float32
}

func NewTable(featureBits, predictorBits, strideShift uint) (*Table, error) {
	total := featureBits + predictorBits + strideShift
	if total > maxTableBits {
		return nil, fmt.Errorf("parameter table needs 2^%d entries, limit is 2^%d", total, maxTableBits)
	}
	log.WithFields(log.Fields{
		"featureBits":   featureBits,
		"predictorBits": predictorBits,
		"strideShift":   strideShift,
	}).Debug("allocating parameter table")
	return &Table{
		featureBits:   featureBits,
		predictorBits: predictorBits,
		strideShift:   strideShift,
		data:          make([]float32, uint64(1)<<total),
	}, nil
}

func (t *Table) FeatureBits() uint   { return t.featureBits }
func (t *Table) PredictorBits() uint { return t.predictorBits }
func (t *Table) Stride() int         { return 1 << t.strideShift }
func (t *Table) Slots() uint32       { return uint32(1) << t.predictorBits }

func (t *Table) offset(feature uint64, slot uint32) uint64 {
	feature &= uint64(1)<<t.featureBits - 1
	return feature<<(t.predictorBits+t.strideShift) | uint64(slot)<<t.strideShift
}

// Cell returns the stride-sized group of scalars stored for a feature at a slot.
func (t *Table) Cell(feature uint64, slot uint32) []float32 {
	off := t.offset(feature, slot)
	return t.data[off : off+uint64(t.Stride())]
}

// CopyRow duplicates every scalar of slot src into slot dst, across all feature buckets.
func (t *Table) CopyRow(src, dst uint32) {
	if src >= t.Slots() || dst >= t.Slots() {
		log.Panicf("slot out of range: copy %d -> %d with %d slots", src, dst, t.Slots())
	}
	shift := t.predictorBits + t.strideShift
	stride := uint64(t.Stride())
	srcOff := uint64(src) << t.strideShift
	dstOff := uint64(dst) << t.strideShift
	buckets := uint64(1) << t.featureBits
	for i := uint64(0); i < buckets; i++ {
		base := i << shift
		copy(t.data[base+dstOff:base+dstOff+stride], t.data[base+srcOff:base+srcOff+stride])
	}
}

// WriteTo stores the table dimensions followed by its non-zero entries.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	cw := &countingWriter{w: bw}
	var nonZero uint64
	for _, v := range t.data {
		if v != 0 {
			nonZero++
		}
	}
	header := []uint64{uint64(t.featureBits), uint64(t.predictorBits), uint64(t.strideShift), nonZero}
	if err := binary.Write(cw, binary.LittleEndian, header); err != nil {
		return cw.n, err
	}
	var buf [12]byte
	for i, v := range t.data {
		if v == 0 {
			continue
		}
		binary.LittleEndian.PutUint64(buf[:8], uint64(i))
		binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(v))
		if _, err := cw.Write(buf[:]); err != nil {
			return cw.n, err
		}
	}
	return cw.n, bw.Flush()
}

// ReadTable rebuilds a table written by WriteTo.
func ReadTable(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	var header [4]uint64
	if err := binary.Read(br, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("reading parameter table header: %w", err)
	}
	t, err := NewTable(uint(header[0]), uint(header[1]), uint(header[2]))
	if err != nil {
		return nil, err
	}
	var buf [12]byte
	for i := uint64(0); i < header[3]; i++ {
		if _, err := io.ReadFull(br, buf[:]); err != nil {
			return nil, fmt.Errorf("reading parameter %d of %d: %w", i, header[3], err)
		}
		idx := binary.LittleEndian.Uint64(buf[:8])
		if idx >= uint64(len(t.data)) {
			return nil, fmt.Errorf("parameter index %d out of range", idx)
		}
		t.data[idx] = math.Float32frombits(binary.LittleEndian.Uint32(buf[8:]))
	}
	return t, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
