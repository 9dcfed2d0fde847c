// Copyright © 2023-2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package fingerprint turns DNA sequences into fixed-length CpG
// fingerprints: the sequence is truncated or left-padded to a fixed
// length, CpG sites are encoded as a binary signal, and the signal is
// decomposed with a Haar wavelet.
package fingerprint

import (
	"fmt"
	"sync"

	"github.com/odinokov/line1-pileup/cpgwave/cpg"
	"github.com/odinokov/line1-pileup/cpgwave/wavelet"
)

// RecordError means a single record could not be encoded.
// It does not affect other records.
type RecordError struct {
	Err error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("malformed record: %s", e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Fingerprinter computes fingerprints with a fixed Config.
// The buffers are reused between records, so it is not safe for
// concurrent use. Create one for each goroutine, or use a Pool.
type Fingerprinter struct {
	cfg Config

	seq       []byte
	occupancy []uint8
	signal    []float64
}

// New checks the config and returns a Fingerprinter.
func New(cfg *Config) (*Fingerprinter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Fingerprinter{
		cfg:       *cfg,
		seq:       make([]byte, 0, cfg.Bases),
		occupancy: make([]uint8, 0, cfg.Bases),
		signal:    make([]float64, cfg.Bases),
	}, nil
}

// Config returns the parameters.
func (f *Fingerprinter) Config() Config { return f.cfg }

// Occupancy returns the fixed-length sequence and its CpG occupancy
// vector. Both are only valid until the next call.
func (f *Fingerprinter) Occupancy(seq []byte) ([]byte, []uint8, error) {
	f.seq = cpg.NormalizeTo(f.seq, seq, f.cfg.Bases)

	var err error
	f.occupancy, err = cpg.EncodeTo(f.occupancy, f.seq, f.cfg.CaseSensitive)
	if err != nil {
		return f.seq, nil, &RecordError{Err: err}
	}
	return f.seq, f.occupancy, nil
}

// Fingerprint returns the wavelet coefficients of a sequence.
// The returned slice is newly allocated.
func (f *Fingerprinter) Fingerprint(seq []byte) ([]float64, error) {
	_, occupancy, err := f.Occupancy(seq)
	if err != nil {
		return nil, err
	}

	for i, v := range occupancy {
		f.signal[i] = float64(v)
	}

	values, err := wavelet.Compress(f.signal, f.cfg.Level, f.cfg.Restore)
	if err != nil {
		return nil, &RecordError{Err: err}
	}
	return values, nil
}

// Pool is a pool of Fingerprinters sharing the same Config.
type Pool struct {
	pool sync.Pool
}

// NewPool checks the config and returns a Pool.
func NewPool(cfg *Config) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := *cfg
	return &Pool{
		pool: sync.Pool{New: func() interface{} {
			f, _ := New(&c)
			return f
		}},
	}, nil
}

// Get returns a Fingerprinter from the pool.
func (p *Pool) Get() *Fingerprinter {
	return p.pool.Get().(*Fingerprinter)
}

// Put returns a Fingerprinter to the pool.
func (p *Pool) Put(f *Fingerprinter) {
	p.pool.Put(f)
}
