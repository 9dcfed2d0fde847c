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

// Package record parses BED6 records followed by a sequence column,
// e.g., the output of "bedtools getfasta -bed -tab" pasted to the BED file.
package record

import (
	"errors"
	"strings"
)

// NumColumns is the number of columns of a record.
const NumColumns = 7

// ErrTooFewColumns means the line has fewer than 6 columns.
var ErrTooFewColumns = errors.New("record: too few columns, 7 expected (chrom, start, end, name, score, strand, seq)")

// ErrMissingSeq means the sequence column is absent.
var ErrMissingSeq = errors.New("record: sequence column (7th) missing")

// Record is a genomic interval with its sequence.
type Record struct {
	Chrom  string
	Start  string
	End    string
	Name   string
	Score  string
	Strand string

	Seq string

	items []string
}

// Parse splits a tab-delimited line into r. Columns after the 7th are ignored.
// The fields share memory with line.
func (r *Record) Parse(line string) error {
	if r.items == nil {
		r.items = make([]string, NumColumns+1)
	} else {
		r.items = r.items[:NumColumns+1]
	}
	splitN(line, '\t', NumColumns+1, &r.items)

	items := r.items
	if len(items) < NumColumns-1 {
		return ErrTooFewColumns
	}
	if len(items) == NumColumns-1 {
		return ErrMissingSeq
	}

	r.Chrom = items[0]
	r.Start = items[1]
	r.End = items[2]
	r.Name = items[3]
	r.Score = items[4]
	r.Strand = items[5]
	r.Seq = items[6]
	return nil
}

// Label returns the identifier of the record: name::chrom:start-end(strand).
func (r *Record) Label() string {
	var b strings.Builder
	b.Grow(len(r.Name) + len(r.Chrom) + len(r.Start) + len(r.End) + len(r.Strand) + 6)
	b.WriteString(r.Name)
	b.WriteString("::")
	b.WriteString(r.Chrom)
	b.WriteByte(':')
	b.WriteString(r.Start)
	b.WriteByte('-')
	b.WriteString(r.End)
	b.WriteByte('(')
	b.WriteString(r.Strand)
	b.WriteByte(')')
	return b.String()
}

// IsComment tells if a line should be skipped: empty lines, comments,
// and track/browser lines of the BED format.
func IsComment(line string) bool {
	return line == "" || line[0] == '#' ||
		strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser")
}

func splitN(s string, sep byte, n int, a *[]string) {
	n--
	i := 0
	for i < n {
		m := strings.IndexByte(s, sep)
		if m < 0 {
			break
		}
		(*a)[i] = s[:m]
		s = s[m+1:]
		i++
	}
	(*a)[i] = s

	(*a) = (*a)[:i+1]
}
