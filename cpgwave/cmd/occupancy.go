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
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shenwei356/bio/seq"
	"github.com/spf13/cobra"
)

var occupancyCmd = &cobra.Command{
	Use:   "occupancy",
	Short: "Show fixed-length sequences and their CpG occupancy vectors",
	Long: `Show fixed-length sequences and their CpG occupancy vectors

This command shows the intermediate data of "cpgwave encode", for checking
the truncation/padding and CpG detection.

Output format:
  Tab-delimited, one line per record, in the same order as the input.
    1. label:     name::chrom:start-end(strand), or the sequence ID for FASTA/Q input.
    2. seq:       fixed-length sequence, left-padded with '0'.
    3. cpgs:      number of CpG sites.
    4. occupancy: CpG occupancy vector, 1 for the 5' base of a CpG, 0 for others.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		seq.ValidateSeq = false

		var fhLog *os.File
		if opt.Log2File {
			fhLog = addLog(opt.LogFile, opt.Verbose)
		}
		outputLog := opt.Verbose || opt.Log2File

		timeStart := time.Now()
		defer func() {
			if outputLog {
				log.Infof("elapsed time: %s", time.Since(timeStart))
			}
			if opt.Log2File {
				fhLog.Close()
			}
		}()

		cfg := getFingerprintConfig(cmd)
		checkError(cfg.Validate())

		bufferSize, err := ParseByteSize(getFlagString(cmd, "buffer-size"))
		if err != nil {
			checkError(fmt.Errorf("invalid value of buffer size. supported unit: K, M, G"))
		}

		outFile := getFlagString(cmd, "out-file")
		files := getFileListFromArgsAndFile(cmd, args, true, "infile-list", true)

		outFileClean := filepath.Clean(expandPath(outFile))
		for _, file := range files {
			if !isStdin(file) && filepath.Clean(file) == outFileClean {
				checkError(fmt.Errorf("out file should not be one of the input file"))
			}
		}

		outfh, gw, w, err := outStream(outFile, strings.HasSuffix(outFile, ".gz"), opt.CompressionLevel)
		checkError(err)

		outfh.WriteString("label\tseq\tcpgs\toccupancy\n")

		stats, err := encodeFiles(files, outfh, &EncodingOptions{
			Config: *cfg,

			NumCPUs:    opt.NumCPUs,
			ChunkSize:  getFlagPositiveInt(cmd, "chunk-size"),
			BufferSize: bufferSize,

			Fastx:     getFlagBool(cmd, "fastx"),
			Strict:    getFlagBool(cmd, "strict"),
			Occupancy: true,
		}, nil)

		outfh.Flush()
		if gw != nil {
			gw.Close()
		}
		w.Close()

		checkError(err)

		if outputLog {
			log.Infof("%d records processed, %d emitted, %d skipped", stats.Records, stats.Emitted, stats.Skipped)
		}
	},
}

func init() {
	utilsCmd.AddCommand(occupancyCmd)

	addFingerprintFlags(occupancyCmd)

	occupancyCmd.SetUsageTemplate(usageTemplate("[-b <bases>] [regions.bed.gz ...] [-o occupancy.tsv.gz]"))
}
