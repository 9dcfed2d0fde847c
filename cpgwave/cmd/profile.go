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
	"bufio"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
	"github.com/twotwotwo/sorts/sortutil"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Summarize fingerprints position by position",
	Long: `Summarize fingerprints position by position

Input:
  Output of "cpgwave encode". All records should have the same number of values.

Output format:
  Tab-delimited format with 7 columns.
    1. pos:     1-based index of the value.
    2. n:       number of records.
    3. mean:    mean.
    4. stdev:   sample standard deviation.
    5. min:     minimum.
    6. median:  median.
    7. max:     maximum.

  The mean profile with one standard deviation around it could be plotted
  to a PNG/PDF/SVG file with --plot.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		outFile := getFlagString(cmd, "out-file")
		plotFile := expandPath(getFlagString(cmd, "plot"))
		plotTitle := getFlagString(cmd, "plot-title")
		decimals := getFlagInt(cmd, "decimals")

		bufferSize, err := ParseByteSize(getFlagString(cmd, "buffer-size"))
		if err != nil {
			checkError(fmt.Errorf("invalid value of buffer size. supported unit: K, M, G"))
		}

		files := getFileListFromArgsAndFile(cmd, args, true, "infile-list", true)

		columns, err := readFingerprintColumns(files, bufferSize)
		checkError(err)

		if len(columns) == 0 {
			log.Warningf("no records found")
			return
		}

		profiles := summarizeColumns(columns)

		outfh, gw, w, err := outStream(outFile, strings.HasSuffix(outFile, ".gz"), opt.CompressionLevel)
		checkError(err)
		defer func() {
			outfh.Flush()
			if gw != nil {
				gw.Close()
			}
			w.Close()
		}()

		fmt.Fprintf(outfh, "pos\tn\tmean\tstdev\tmin\tmedian\tmax\n")
		for i, p := range profiles {
			fmt.Fprintf(outfh, "%d\t%d\t%.*f\t%.*f\t%.*f\t%.*f\t%.*f\n", i+1, p.N,
				decimals, p.Mean, decimals, p.Stdev, decimals, p.Min, decimals, p.Median, decimals, p.Max)
		}

		if plotFile != "" {
			checkError(plotProfiles(profiles, plotTitle, plotFile))
			if opt.Verbose {
				log.Infof("plot saved to: %s", plotFile)
			}
		}
	},
}

func init() {
	utilsCmd.AddCommand(profileCmd)

	profileCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports a ".gz" suffix ("-" for stdout).`))

	profileCmd.Flags().IntP("decimals", "p", 6,
		formatFlagUsage(`Number of decimal places.`))

	profileCmd.Flags().StringP("plot", "", "",
		formatFlagUsage(`Plot the mean profile to a file, the format is decided by the suffix, e.g., .png, .pdf, .svg.`))

	profileCmd.Flags().StringP("plot-title", "", "CpG wavelet profile",
		formatFlagUsage(`Title of the plot.`))

	profileCmd.Flags().StringP("buffer-size", "", "20M",
		formatFlagUsage(`Size of buffer, supported unit: K, M, G. You need increase the value when "bufio.Scanner: token too long" error reported`))

	profileCmd.SetUsageTemplate(usageTemplate("[fingerprints.tsv.gz ...] [-o profile.tsv] [--plot profile.png]"))
}

// Profile summarizes the values of a position.
type Profile struct {
	N      int
	Mean   float64
	Stdev  float64
	Min    float64
	Median float64
	Max    float64
}

// readFingerprintColumns reads the output of "cpgwave encode", and returns
// values of each position.
func readFingerprintColumns(files []string, bufferSize int) ([][]float64, error) {
	var columns [][]float64
	ncols := -1

	if bufferSize < bufio.MaxScanTokenSize {
		bufferSize = bufio.MaxScanTokenSize
	}
	buf := make([]byte, 0, bufio.MaxScanTokenSize)

	var line string
	var items []string
	var n int
	var v float64
	for _, file := range files {
		fh, err := xopen.Ropen(file)
		if err != nil {
			return nil, fmt.Errorf("read file %s: %s", file, err)
		}

		scanner := bufio.NewScanner(fh)
		scanner.Buffer(buf, bufferSize)
		n = 0
		for scanner.Scan() {
			n++
			line = strings.TrimRight(scanner.Text(), "\r\n")
			if line == "" || line[0] == '#' {
				continue
			}

			items = strings.Split(line, "\t")[1:] // the first column is the label

			if ncols < 0 {
				ncols = len(items)
				columns = make([][]float64, ncols)
				for i := range columns {
					columns[i] = make([]float64, 0, 1024)
				}
			} else if len(items) != ncols {
				fh.Close()
				return nil, fmt.Errorf("%s:%d: inconsistent number of values: %d != %d", file, n, len(items), ncols)
			}

			for i, item := range items {
				v, err = strconv.ParseFloat(item, 64)
				if err != nil {
					fh.Close()
					return nil, fmt.Errorf("%s:%d: invalid value: %s", file, n, item)
				}
				columns[i] = append(columns[i], v)
			}
		}
		if err = scanner.Err(); err != nil {
			fh.Close()
			return nil, fmt.Errorf("read file %s: %s", file, err)
		}
		if err = fh.Close(); err != nil {
			return nil, err
		}
	}

	return columns, nil
}

// summarizeColumns computes profiles of columns. Columns are sorted in place.
func summarizeColumns(columns [][]float64) []Profile {
	profiles := make([]Profile, len(columns))
	for i, values := range columns {
		if len(values) == 0 {
			continue
		}

		p := &profiles[i]
		p.N = len(values)
		if p.N == 1 {
			p.Mean = values[0]
		} else {
			p.Mean, p.Stdev = stat.MeanStdDev(values, nil)
		}
		p.Min = floats.Min(values)
		p.Max = floats.Max(values)

		sortutil.Float64s(values)
		p.Median = stat.Quantile(0.5, stat.Empirical, values, nil)
	}
	return profiles
}

func plotProfiles(profiles []Profile, title string, file string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Position"
	p.Y.Label.Text = "Value"
	p.Add(plotter.NewGrid())

	mean := make(plotter.XYs, len(profiles))
	lower := make(plotter.XYs, len(profiles))
	upper := make(plotter.XYs, len(profiles))
	for i, pr := range profiles {
		x := float64(i + 1)
		mean[i].X, mean[i].Y = x, pr.Mean
		lower[i].X, lower[i].Y = x, pr.Mean-pr.Stdev
		upper[i].X, upper[i].Y = x, pr.Mean+pr.Stdev
	}

	lMean, err := plotter.NewLine(mean)
	if err != nil {
		return err
	}
	lMean.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	lMean.Width = vg.Points(1.5)

	dashes := []vg.Length{vg.Points(4), vg.Points(2)}
	lLower, err := plotter.NewLine(lower)
	if err != nil {
		return err
	}
	lLower.Color = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	lLower.Dashes = dashes

	lUpper, err := plotter.NewLine(upper)
	if err != nil {
		return err
	}
	lUpper.Color = lLower.Color
	lUpper.Dashes = dashes

	p.Add(lLower, lUpper, lMean)
	p.Legend.Add("mean", lMean)
	p.Legend.Add("mean ± stdev", lLower)
	p.Legend.Top = true

	return p.Save(8*vg.Inch, 4*vg.Inch, file)
}
