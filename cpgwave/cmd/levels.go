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
	"fmt"
	"strings"

	"github.com/odinokov/line1-pileup/cpgwave/wavelet"
	"github.com/spf13/cobra"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List output lengths of decomposition levels for a sequence length",
	Long: `List output lengths of decomposition levels for a sequence length

Output format:
  Tab-delimited format with 4 columns.
    1. level:   decomposition level.
    2. window:  number of bases summarized by a coefficient, i.e., 2^level.
    3. values:  number of approximation coefficients.
    4. valid:   whether the level can be used, i.e., 2^level <= bases.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		bases := getFlagPositiveInt(cmd, "bases")
		maxLevel := getFlagNonNegativeInt(cmd, "max-level")
		validOnly := getFlagBool(cmd, "valid-only")

		top := wavelet.MaxLevel(wavelet.Haar, bases)
		if maxLevel == 0 {
			maxLevel = top
			if maxLevel == 0 {
				maxLevel = 1
			}
		}

		outFile := getFlagString(cmd, "out-file")
		outfh, gw, w, err := outStream(outFile, strings.HasSuffix(outFile, ".gz"), opt.CompressionLevel)
		checkError(err)
		defer func() {
			outfh.Flush()
			if gw != nil {
				gw.Close()
			}
			w.Close()
		}()

		fmt.Fprintf(outfh, "level\twindow\tvalues\tvalid\n")
		var valid string
		for level := 1; level <= maxLevel; level++ {
			if level <= top {
				valid = "yes"
			} else if validOnly {
				break
			} else {
				valid = "no"
			}
			fmt.Fprintf(outfh, "%d\t%d\t%d\t%s\n", level, 1<<level,
				wavelet.CoeffLen(wavelet.Haar, bases, level), valid)
		}
	},
}

func init() {
	utilsCmd.AddCommand(levelsCmd)

	levelsCmd.Flags().IntP("bases", "b", 1000,
		formatFlagUsage(`Number of bases to keep.`))

	levelsCmd.Flags().IntP("max-level", "m", 0,
		formatFlagUsage(`Maximum level to show (0 for the maximum valid level).`))

	levelsCmd.Flags().BoolP("valid-only", "v", false,
		formatFlagUsage(`Only show valid levels.`))

	levelsCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports a ".gz" suffix ("-" for stdout).`))

	levelsCmd.SetUsageTemplate(usageTemplate("[-b <bases>]"))
}
