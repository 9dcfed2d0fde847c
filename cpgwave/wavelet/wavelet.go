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

// Package wavelet implements the discrete wavelet decomposition used for
// CpG fingerprints: a Haar filter bank with smooth (first-order linear)
// boundary extension. Coefficient values and lengths follow the
// conventions of PyWavelets ("haar", mode "smooth").
package wavelet

import (
	"errors"
	"math"
)

// ErrInvalidLevel means the decomposition level is smaller than 1.
var ErrInvalidLevel = errors.New("wavelet: level should be >= 1")

// ErrEmptySignal means the input signal has no samples.
var ErrEmptySignal = errors.New("wavelet: empty signal")

// Mode is the name of the only supported signal extension mode.
const Mode = "smooth"

// Wavelet is a two-channel orthogonal filter bank.
type Wavelet struct {
	Name string

	DecLo []float64 // decomposition low-pass filter
	DecHi []float64 // decomposition high-pass filter
	RecLo []float64 // reconstruction low-pass filter
	RecHi []float64 // reconstruction high-pass filter
}

// Len returns the filter length.
func (w *Wavelet) Len() int { return len(w.DecLo) }

var _r = math.Sqrt2 / 2

// Haar is the Haar wavelet.
var Haar = &Wavelet{
	Name: "haar",

	DecLo: []float64{_r, _r},
	DecHi: []float64{-_r, _r},
	RecLo: []float64{_r, _r},
	RecHi: []float64{_r, -_r},
}

// Coefficients stores the result of a multilevel decomposition.
type Coefficients struct {
	Approx  []float64   // approximation coefficients of the last level
	Details [][]float64 // detail coefficients, from the coarsest level to the finest
	Level   int
	N       int // length of the original signal
}
