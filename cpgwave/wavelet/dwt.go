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

import "math"

// DwtLen returns the length of the coefficients of a single-level
// transform of a signal of n samples with a filter of length f.
func DwtLen(n, f int) int {
	if n < 1 {
		return 0
	}
	return (n + f - 1) / 2
}

// CoeffLen returns the number of approximation coefficients after
// level stages of decomposition of a signal of n samples.
func CoeffLen(w *Wavelet, n, level int) int {
	f := w.Len()
	for i := 0; i < level; i++ {
		n = DwtLen(n, f)
	}
	return n
}

// MaxLevel returns the maximum useful decomposition level for a signal
// of n samples, i.e., the last level at which the signal is not shorter
// than the filter.
func MaxLevel(w *Wavelet, n int) int {
	f := w.Len()
	if n < 1 || f < 2 {
		return 0
	}
	return int(math.Floor(math.Log2(float64(n) / float64(f-1))))
}

// extend returns x[p], or a linear extrapolation from the nearest edge
// when p is out of range. For a single sample the extension is constant.
func extend(x []float64, p int) float64 {
	n := len(x)
	if p >= 0 && p < n {
		return x[p]
	}
	if n == 1 {
		return x[0]
	}
	if p < 0 {
		return x[0] + float64(-p)*(x[0]-x[1])
	}
	return x[n-1] + float64(p-n+1)*(x[n-1]-x[n-2])
}

// downsample convolves x with filter and keeps every second sample,
// starting from the first complete overlap.
func downsample(dst []float64, x []float64, filter []float64) []float64 {
	n, f := len(x), len(filter)
	dst = dst[:0]

	var sum float64
	var j int
	for i := 1; i < n+f-1; i += 2 {
		sum = 0
		if i >= f-1 && i < n {
			for j = 0; j < f; j++ {
				sum += filter[j] * x[i-j]
			}
		} else {
			for j = 0; j < f; j++ {
				sum += filter[j] * extend(x, i-j)
			}
		}
		dst = append(dst, sum)
	}
	return dst
}

// Dwt performs a single-level transform and returns the approximation
// and detail coefficients.
func Dwt(x []float64, w *Wavelet) (cA, cD []float64) {
	if len(x) == 0 {
		return []float64{}, []float64{}
	}
	m := DwtLen(len(x), w.Len())
	cA = downsample(make([]float64, 0, m), x, w.DecLo)
	cD = downsample(make([]float64, 0, m), x, w.DecHi)
	return cA, cD
}

// Wavedec performs a multilevel decomposition. Stage 1 runs on x,
// and every further stage on the approximation of the previous one.
func Wavedec(x []float64, w *Wavelet, level int) (*Coefficients, error) {
	if level < 1 {
		return nil, ErrInvalidLevel
	}
	if len(x) == 0 {
		return nil, ErrEmptySignal
	}

	c := &Coefficients{
		Details: make([][]float64, level),
		Level:   level,
		N:       len(x),
	}

	a := x
	var d []float64
	for i := level - 1; i >= 0; i-- {
		a, d = Dwt(a, w)
		c.Details[i] = d
	}
	c.Approx = a

	return c, nil
}
