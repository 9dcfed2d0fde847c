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

package cmd

import (
	"math"
	"path/filepath"
	"testing"
)

func TestProfile(t *testing.T) {
	file := writeTestFile(t, "fingerprints.tsv", []string{
		"a\t1\t0\t2",
		"b\t3\t0\t2",
		"c\t2\t0\t5",
	})

	columns, err := readFingerprintColumns([]string{file}, 1<<20)
	if err != nil {
		t.Error(err)
		return
	}
	if len(columns) != 3 || len(columns[0]) != 3 {
		t.Errorf("unexpected columns: %v", columns)
		return
	}

	profiles := summarizeColumns(columns)
	p := profiles[0]
	if p.N != 3 || p.Mean != 2 || p.Min != 1 || p.Max != 3 || p.Median != 2 {
		t.Errorf("unexpected profile: %+v", p)
	}
	if math.Abs(p.Stdev-1) > 1e-12 {
		t.Errorf("unexpected stdev: %f", p.Stdev)
	}
	if profiles[1].Stdev != 0 || profiles[1].Mean != 0 {
		t.Errorf("unexpected profile: %+v", profiles[1])
	}
	if profiles[2].Median != 2 || profiles[2].Max != 5 {
		t.Errorf("unexpected profile: %+v", profiles[2])
	}

	plotFile := filepath.Join(t.TempDir(), "profile.png")
	if err = plotProfiles(profiles, "test", plotFile); err != nil {
		t.Error(err)
	}
}

func TestProfileInconsistent(t *testing.T) {
	file := writeTestFile(t, "fingerprints.tsv", []string{
		"a\t1\t0",
		"b\t3\t0\t2",
	})
	if _, err := readFingerprintColumns([]string{file}, 1<<20); err == nil {
		t.Errorf("error expected for inconsistent number of values")
	}

	file = writeTestFile(t, "fingerprints.tsv", []string{"a\t1\tx"})
	if _, err := readFingerprintColumns([]string{file}, 1<<20); err == nil {
		t.Errorf("error expected for invalid values")
	}
}
