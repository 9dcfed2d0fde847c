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
	"errors"
	"fmt"
)

// Filler is the character used to left-pad sequences shorter than
// the target length. It never takes part in a CpG.
const Filler byte = '0'

// ErrInvalidBase means a byte outside of the accepted alphabet
// (a, c, g, t, n in any case, and the filler) was found.
var ErrInvalidBase = errors.New("cpg: invalid base")

// InvalidBaseError records the position and value of an invalid byte.
type InvalidBaseError struct {
	Pos  int // 0-based position in the fixed-length sequence
	Base byte
}

func (e *InvalidBaseError) Error() string {
	return fmt.Sprintf("cpg: invalid base '%c' (0x%02x) at position %d", e.Base, e.Base, e.Pos+1)
}

// Unwrap makes errors.Is(err, ErrInvalidBase) work.
func (e *InvalidBaseError) Unwrap() error { return ErrInvalidBase }

const (
	_invalid uint8 = iota
	_other
	_c // upper-case C
	_lc
	_g // upper-case G
	_lg
)

var classes [256]uint8

func init() {
	for _, b := range []byte("AaTtNn") {
		classes[b] = _other
	}
	classes[Filler] = _other
	classes['C'] = _c
	classes['c'] = _lc
	classes['G'] = _g
	classes['g'] = _lg
}

// Normalize returns a sequence of exactly bases characters.
// Longer sequences are truncated to the 5'-most bases characters,
// shorter ones are left-padded with Filler.
// It panics if bases <= 0, which should be checked before processing.
func Normalize(seq []byte, bases int) []byte {
	return NormalizeTo(nil, seq, bases)
}

// NormalizeTo is like Normalize, but reuses the capacity of dst.
// The returned slice may share memory with seq when no padding is needed
// and dst is nil.
func NormalizeTo(dst []byte, seq []byte, bases int) []byte {
	if bases <= 0 {
		panic(fmt.Sprintf("cpg: invalid target length: %d", bases))
	}

	if len(seq) >= bases {
		if dst == nil {
			return seq[:bases]
		}
		return append(dst[:0], seq[:bases]...)
	}

	dst = dst[:0]
	for i := len(seq); i < bases; i++ {
		dst = append(dst, Filler)
	}
	return append(dst, seq...)
}

// Encode marks the 5' base of every non-overlapping CpG in seq with 1,
// and all other positions with 0. Matching is case-insensitive and
// greedy from left to right, so "CGCG" gives 1010 and "CGG" gives 100.
func Encode(seq []byte) ([]uint8, error) {
	return EncodeTo(nil, seq, false)
}

// EncodeTo is like Encode, but reuses the capacity of dst.
// With caseSensitive, only upper-case "CG" is detected and soft-masked
// (lower-case) CpGs are treated as other bases.
func EncodeTo(dst []uint8, seq []byte, caseSensitive bool) ([]uint8, error) {
	n := len(seq)
	if cap(dst) < n {
		dst = make([]uint8, n)
	} else {
		dst = dst[:n]
	}

	var c, next uint8
	for i := 0; i < n; i++ {
		c = classes[seq[i]]
		if c == _invalid {
			return dst, &InvalidBaseError{Pos: i, Base: seq[i]}
		}

		dst[i] = 0
		if i+1 == n {
			break
		}

		if c == _c || (c == _lc && !caseSensitive) {
			next = classes[seq[i+1]]
			if next == _g || (next == _lg && !caseSensitive) {
				dst[i] = 1
				dst[i+1] = 0
				i++ // resume after the pair
			}
		}
	}

	return dst, nil
}

// CountCpG returns the number of CpG sites in an occupancy vector.
func CountCpG(occupancy []uint8) int {
	var n int
	for _, v := range occupancy {
		if v == 1 {
			n++
		}
	}
	return n
}

// Occupancy2String returns the occupancy vector as a string of 0 and 1,
// e.g., "10001010".
func Occupancy2String(occupancy []uint8) string {
	s := make([]byte, len(occupancy))
	for i, v := range occupancy {
		s[i] = '0' + v
	}
	return string(s)
}
