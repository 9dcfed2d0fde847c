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

package cpg

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	_seq := []byte("CGATCGCGTTAC")

	// truncation keeps the 5' prefix
	for bases := 1; bases <= len(_seq); bases++ {
		s := Normalize(_seq, bases)
		if !bytes.Equal(s, _seq[:bases]) {
			t.Errorf("bases: %d, expected: %s, result: %s", bases, _seq[:bases], s)
		}
	}

	// padding keeps the sequence as the suffix
	for n := 0; n < 8; n++ {
		s := Normalize(_seq[:n], 8)
		if len(s) != 8 {
			t.Errorf("n: %d, unexpected length: %d", n, len(s))
			continue
		}
		if !bytes.HasSuffix(s, _seq[:n]) {
			t.Errorf("n: %d, %s is not a suffix of %s", n, _seq[:n], s)
		}
		if strings.Trim(string(s[:8-n]), "0") != "" {
			t.Errorf("n: %d, unexpected padding: %s", n, s)
		}
	}
}

func TestNormalizeTo(t *testing.T) {
	buf := make([]byte, 0, 4)
	s := NormalizeTo(buf, []byte("acg"), 8)
	if string(s) != "00000acg" {
		t.Errorf("unexpected result: %s", s)
	}
	s = NormalizeTo(s, []byte("CGATCGCGTT"), 8)
	if string(s) != "CGATCGCG" {
		t.Errorf("unexpected result: %s", s)
	}
}

func TestEncode(t *testing.T) {
	cases := []struct {
		seq      string
		expected string
	}{
		{"", ""},
		{"c", "0"},
		{"cg", "10"},
		{"cgcg", "1010"},
		{"cgg", "100"},
		{"gcg", "010"},
		{"ccg", "010"},
		{"CGCGCG", "101010"},
		{"CgAtcG", "100010"},
		{"CGATCGCG", "10001010"},
		{"00000cga", "00000100"},
		{"NNCGNN", "001000"},
		{"c0g", "000"},
	}

	for _, c := range cases {
		v, err := Encode([]byte(c.seq))
		if err != nil {
			t.Errorf("%s: %s", c.seq, err)
			continue
		}
		if len(v) != len(c.seq) {
			t.Errorf("%s: length not preserved: %d", c.seq, len(v))
		}
		if s := Occupancy2String(v); s != c.expected {
			t.Errorf("%s: expected: %s, result: %s", c.seq, c.expected, s)
		}
	}
}

func TestEncodeNonCpG(t *testing.T) {
	for k := 1; k < 10; k++ {
		seq := strings.Repeat("atgcn", k)
		v, err := Encode([]byte(seq))
		if err != nil {
			t.Error(err)
			return
		}
		if len(v) != 5*k {
			t.Errorf("k: %d, unexpected length: %d", k, len(v))
		}
		if CountCpG(v) != 0 {
			t.Errorf("k: %d, unexpected CpG in %s", k, seq)
		}
	}
}

func TestEncodeCaseSensitive(t *testing.T) {
	v, err := EncodeTo(nil, []byte("CGcgCgcG"), true)
	if err != nil {
		t.Error(err)
		return
	}
	if s := Occupancy2String(v); s != "10000000" {
		t.Errorf("unexpected result: %s", s)
	}
}

func TestEncodeInvalidBase(t *testing.T) {
	for _, seq := range []string{"ACGR", "cg-a", "1", "acg t"} {
		_, err := Encode([]byte(seq))
		if err == nil {
			t.Errorf("%s: error expected", seq)
			continue
		}
		if !errors.Is(err, ErrInvalidBase) {
			t.Errorf("%s: unexpected error: %s", seq, err)
		}
	}

	_, err := Encode([]byte("ACGR"))
	var e *InvalidBaseError
	if !errors.As(err, &e) {
		t.Errorf("InvalidBaseError expected")
		return
	}
	if e.Pos != 3 || e.Base != 'R' {
		t.Errorf("unexpected error detail: %d, %c", e.Pos, e.Base)
	}
}

func TestEncodeReuse(t *testing.T) {
	buf, _ := Encode([]byte("CGCGCGCG"))
	buf, err := EncodeTo(buf, []byte("ATATAT"), false)
	if err != nil {
		t.Error(err)
		return
	}
	if s := Occupancy2String(buf); s != "000000" {
		t.Errorf("stale values left in reused buffer: %s", s)
	}
}
