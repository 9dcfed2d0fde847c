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

package wavelet

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

const tol = 1e-12

var r = math.Sqrt2 / 2

func TestDwt(t *testing.T) {
	cases := []struct {
		x      []float64
		cA, cD []float64
	}{
		{[]float64{1, 0}, []float64{r}, []float64{r}},
		{[]float64{1, 0, 0, 0, 1, 0, 1, 0}, []float64{r, 0, r, r}, []float64{r, 0, r, r}},
		{[]float64{0, 1, 1, 1}, []float64{r, 2 * r}, []float64{-r, 0}},
		// the last pair is completed by linear extrapolation: 4 + (4-2) = 6
		{[]float64{1, 2, 4}, []float64{3 * r, 10 * r}, []float64{-r, -2 * r}},
		{[]float64{3}, []float64{6 * r}, []float64{0}},
	}

	for i, c := range cases {
		cA, cD := Dwt(c.x, Haar)
		if !floats.EqualApprox(cA, c.cA, tol) {
			t.Errorf("case %d: cA expected: %v, result: %v", i, c.cA, cA)
		}
		if !floats.EqualApprox(cD, c.cD, tol) {
			t.Errorf("case %d: cD expected: %v, result: %v", i, c.cD, cD)
		}
	}
}

func TestExtend(t *testing.T) {
	x := []float64{1, 3, 4}
	cases := map[int]float64{
		-2: -3, -1: -1, 0: 1, 2: 4, 3: 5, 4: 6,
	}
	for p, v := range cases {
		if e := extend(x, p); e != v {
			t.Errorf("p: %d, expected: %f, result: %f", p, v, e)
		}
	}
}

func TestWavedec(t *testing.T) {
	x := []float64{1, 0, 0, 0, 1, 0, 1, 0}

	c, err := Wavedec(x, Haar, 2)
	if err != nil {
		t.Error(err)
		return
	}
	if !floats.EqualApprox(c.Approx, []float64{0.5, 1}, tol) {
		t.Errorf("unexpected approximation: %v", c.Approx)
	}
	if len(c.Details) != 2 || len(c.Details[0]) != 2 || len(c.Details[1]) != 4 {
		t.Errorf("unexpected detail coefficients: %v", c.Details)
	}
	if !floats.EqualApprox(c.Details[0], []float64{0.5, 0}, tol) {
		t.Errorf("unexpected detail coefficients at level 2: %v", c.Details[0])
	}

	if _, err = Wavedec(x, Haar, 0); err != ErrInvalidLevel {
		t.Errorf("ErrInvalidLevel expected, got: %v", err)
	}
	if _, err = Wavedec(nil, Haar, 1); err != ErrEmptySignal {
		t.Errorf("ErrEmptySignal expected, got: %v", err)
	}
}

func TestCoeffLen(t *testing.T) {
	var prev int
	for n := 1; n <= 130; n++ {
		x := make([]float64, n)
		for i := range x {
			x[i] = float64(i % 3)
		}

		prev = n
		for level := 1; level <= 8; level++ {
			v, err := Compress(x, level, false)
			if err != nil {
				t.Error(err)
				return
			}
			if len(v) != CoeffLen(Haar, n, level) {
				t.Errorf("n: %d, level: %d, length: %d, expected: %d", n, level, len(v), CoeffLen(Haar, n, level))
			}
			if len(v) > prev {
				t.Errorf("n: %d, level: %d, length increased: %d > %d", n, level, len(v), prev)
			}
			prev = len(v)

			// ceil(n / 2^level)
			if e := (n + 1<<level - 1) >> level; len(v) != e {
				t.Errorf("n: %d, level: %d, length: %d, expected: %d", n, level, len(v), e)
			}
		}
	}

	if CoeffLen(Haar, 1000, 2) != 250 {
		t.Errorf("unexpected length: %d", CoeffLen(Haar, 1000, 2))
	}
}

func TestMaxLevel(t *testing.T) {
	cases := map[int]int{1: 0, 2: 1, 3: 1, 8: 3, 1000: 9, 1024: 10}
	for n, l := range cases {
		if m := MaxLevel(Haar, n); m != l {
			t.Errorf("n: %d, expected: %d, result: %d", n, l, m)
		}
	}
}

func TestCompressDeterministic(t *testing.T) {
	x := []float64{0, 1, 0, 0, 1, 0, 1, 0, 0, 0, 0, 1, 0}
	for level := 1; level <= 3; level++ {
		a, _ := Compress(x, level, false)
		b, _ := Compress(x, level, false)
		if !floats.Equal(a, b) {
			t.Errorf("level: %d, outputs differ: %v, %v", level, a, b)
		}
	}
}

func TestCompressRestore(t *testing.T) {
	x := []float64{1, 0, 0, 0, 1, 0, 1, 0}

	s, err := Compress(x, 2, true)
	if err != nil {
		t.Error(err)
		return
	}
	expected := []float64{0.25, 0.25, 0.25, 0.25, 0.5, 0.5, 0.5, 0.5}
	if !floats.EqualApprox(s, expected, tol) {
		t.Errorf("expected: %v, result: %v", expected, s)
	}

	// constant signals are kept by the smooth extension
	y := []float64{1, 1, 1, 1, 1}
	for level := 1; level <= 2; level++ {
		s, err = Compress(y, level, true)
		if err != nil {
			t.Error(err)
			return
		}
		if !floats.EqualApprox(s, y, tol) {
			t.Errorf("level: %d, expected: %v, result: %v", level, y, s)
		}
	}
}

func TestUpcoef(t *testing.T) {
	u, err := Upcoef([]float64{2, 4}, Haar, 1)
	if err != nil {
		t.Error(err)
		return
	}
	if !floats.EqualApprox(u, []float64{2 * r, 2 * r, 4 * r, 4 * r}, tol) {
		t.Errorf("unexpected result: %v", u)
	}

	if _, err = Upcoef([]float64{1}, Haar, 0); err != ErrInvalidLevel {
		t.Errorf("ErrInvalidLevel expected, got: %v", err)
	}
}
