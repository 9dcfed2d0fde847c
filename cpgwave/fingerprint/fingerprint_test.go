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

package fingerprint

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/odinokov/line1-pileup/cpgwave/cpg"
	"gonum.org/v1/gonum/floats"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		cfg Config
		ok  bool
	}{
		{Config{Bases: 8, Level: 1}, true},
		{Config{Bases: 8, Level: 3}, true},
		{Config{Bases: 1000, Level: 9}, true},
		{Config{Bases: 8, Level: 4}, false},
		{Config{Bases: 1000, Level: 10}, false},
		{Config{Bases: 0, Level: 1}, false},
		{Config{Bases: -5, Level: 1}, false},
		{Config{Bases: 8, Level: 0}, false},
		{Config{Bases: 1, Level: 1}, false},
	}

	for _, c := range cases {
		err := c.cfg.Validate()
		if c.ok && err != nil {
			t.Errorf("%+v: unexpected error: %s", c.cfg, err)
		}
		if !c.ok {
			var e *ConfigError
			if !errors.As(err, &e) {
				t.Errorf("%+v: ConfigError expected, got: %v", c.cfg, err)
			}
		}
	}

	if _, err := New(&Config{Bases: 4, Level: 3}); err == nil {
		t.Errorf("error expected for a degenerate level")
	}
}

func TestFingerprint(t *testing.T) {
	f, err := New(&Config{Bases: 8, Level: 1})
	if err != nil {
		t.Error(err)
		return
	}

	fixed, occupancy, err := f.Occupancy([]byte("CGATCGCG"))
	if err != nil {
		t.Error(err)
		return
	}
	if string(fixed) != "CGATCGCG" {
		t.Errorf("unexpected fixed sequence: %s", fixed)
	}
	if s := cpg.Occupancy2String(occupancy); s != "10001010" {
		t.Errorf("unexpected occupancy vector: %s", s)
	}

	values, err := f.Fingerprint([]byte("CGATCGCG"))
	if err != nil {
		t.Error(err)
		return
	}
	r := math.Sqrt2 / 2
	expected := []float64{r, 0, r, r}
	if !floats.EqualApprox(values, expected, 1e-12) {
		t.Errorf("expected: %v, result: %v", expected, values)
	}
	if len(values) != f.cfg.OutputLen() {
		t.Errorf("unexpected length: %d", len(values))
	}

	// longer sequences are truncated
	values2, err := f.Fingerprint([]byte("CGATCGCGCGCGCGCG"))
	if err != nil {
		t.Error(err)
		return
	}
	if !floats.Equal(values, values2) {
		t.Errorf("truncation changed the result: %v", values2)
	}
}

func TestFingerprintPadding(t *testing.T) {
	f, err := New(&Config{Bases: 8, Level: 1})
	if err != nil {
		t.Error(err)
		return
	}

	fixed, occupancy, err := f.Occupancy([]byte("cgA"))
	if err != nil {
		t.Error(err)
		return
	}
	if string(fixed) != "00000cgA" {
		t.Errorf("unexpected fixed sequence: %s", fixed)
	}
	if s := cpg.Occupancy2String(occupancy); s != "00000100" {
		t.Errorf("unexpected occupancy vector: %s", s)
	}

	// an empty sequence is all filler
	values, err := f.Fingerprint(nil)
	if err != nil {
		t.Error(err)
		return
	}
	if !floats.Equal(values, []float64{0, 0, 0, 0}) {
		t.Errorf("unexpected result: %v", values)
	}
}

func TestFingerprintRestore(t *testing.T) {
	f, err := New(&Config{Bases: 8, Level: 2, Restore: true})
	if err != nil {
		t.Error(err)
		return
	}
	values, err := f.Fingerprint([]byte("CGATCGCG"))
	if err != nil {
		t.Error(err)
		return
	}
	expected := []float64{0.25, 0.25, 0.25, 0.25, 0.5, 0.5, 0.5, 0.5}
	if !floats.EqualApprox(values, expected, 1e-12) {
		t.Errorf("expected: %v, result: %v", expected, values)
	}
}

func TestFingerprintInvalid(t *testing.T) {
	f, err := New(&Config{Bases: 8, Level: 1})
	if err != nil {
		t.Error(err)
		return
	}

	_, err = f.Fingerprint([]byte("ACGTRYAC"))
	var e *RecordError
	if !errors.As(err, &e) {
		t.Errorf("RecordError expected, got: %v", err)
	}
	if !errors.Is(err, cpg.ErrInvalidBase) {
		t.Errorf("ErrInvalidBase expected, got: %v", err)
	}

	// invalid bases after the truncation point are never inspected
	if _, err = f.Fingerprint([]byte("ACGTACGTRRRR")); err != nil {
		t.Errorf("unexpected error: %s", err)
	}

	// the Fingerprinter is still usable
	if _, err = f.Fingerprint([]byte("ACGTACGT")); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
}

func TestPool(t *testing.T) {
	p, err := NewPool(&Config{Bases: 16, Level: 2})
	if err != nil {
		t.Error(err)
		return
	}

	done := make(chan []float64, 8)
	for i := 0; i < 8; i++ {
		go func() {
			f := p.Get()
			defer p.Put(f)
			v, err := f.Fingerprint([]byte("CGCGAATTCGCGAATT"))
			if err != nil {
				done <- nil
				return
			}
			done <- v
		}()
	}

	var first []float64
	for i := 0; i < 8; i++ {
		v := <-done
		if v == nil {
			t.Errorf("unexpected error")
			continue
		}
		if first == nil {
			first = v
		} else if !floats.Equal(first, v) {
			t.Errorf("results differ: %v, %v", first, v)
		}
	}

	if _, err = NewPool(&Config{Bases: 0, Level: 1}); err == nil {
		t.Errorf("error expected")
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "params.toml")

	cfg := &Config{Bases: 1000, Level: 2, CaseSensitive: true}
	if err := WriteConfig(file, cfg); err != nil {
		t.Error(err)
		return
	}
	cfg2, err := ReadConfig(file)
	if err != nil {
		t.Error(err)
		return
	}
	if *cfg2 != *cfg {
		t.Errorf("expected: %+v, result: %+v", cfg, cfg2)
	}

	info := NewInfo(cfg)
	info.Records = 10
	if info.OutputLen != 250 {
		t.Errorf("unexpected output length: %d", info.OutputLen)
	}
	fileInfo := filepath.Join(dir, "info.toml")
	if err = WriteInfo(fileInfo, info); err != nil {
		t.Error(err)
		return
	}
	info2, err := ReadInfo(fileInfo)
	if err != nil {
		t.Error(err)
		return
	}
	if *info2 != *info {
		t.Errorf("expected: %+v, result: %+v", info, info2)
	}

	if _, err = ReadConfig(fileInfo); err == nil {
		t.Errorf("error expected for unknown keys")
	}
}
