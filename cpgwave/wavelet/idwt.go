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

// upsample inserts zeros between samples of x and convolves the result
// with filter, keeping the full convolution of length 2*len(x)+len(filter)-2.
func upsample(x []float64, filter []float64) []float64 {
	n, f := len(x), len(filter)
	if n == 0 {
		return []float64{}
	}
	out := make([]float64, 2*n+f-2)
	var o, j int
	for i, v := range x {
		o = i << 1
		for j = 0; j < f; j++ {
			out[o+j] += v * filter[j]
		}
	}
	return out
}

// Upcoef reconstructs the signal contribution of a level-th approximation
// coefficient vector, by applying the reconstruction low-pass filter level
// times. For Haar the output has len(coeffs) * 2^level samples, each being
// the average of its 2^level window scaled back to the input domain.
func Upcoef(coeffs []float64, w *Wavelet, level int) ([]float64, error) {
	if level < 1 {
		return nil, ErrInvalidLevel
	}
	data := coeffs
	for i := 0; i < level; i++ {
		data = upsample(data, w.RecLo)
	}
	return data, nil
}

// Compress decomposes signal with the Haar wavelet in smooth mode.
//
// If restore is false, the approximation coefficients of the last level
// are returned, with CoeffLen(Haar, len(signal), level) values.
// Otherwise the approximation is reconstructed back to the sampling rate of
// the input and truncated to len(signal), giving a smoothed signal.
func Compress(signal []float64, level int, restore bool) ([]float64, error) {
	c, err := Wavedec(signal, Haar, level)
	if err != nil {
		return nil, err
	}
	if !restore {
		return c.Approx, nil
	}

	r, err := Upcoef(c.Approx, Haar, level)
	if err != nil {
		return nil, err
	}
	if len(r) > len(signal) {
		r = r[:len(signal)]
	} else {
		for len(r) < len(signal) { // not reached for Haar
			r = append(r, 0)
		}
	}
	return r, nil
}
