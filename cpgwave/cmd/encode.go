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

	"github.com/dustin/go-humanize"
	"github.com/odinokov/line1-pileup/cpgwave/fingerprint"
	"github.com/odinokov/line1-pileup/cpgwave/wavelet"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Compute CpG wavelet fingerprints of sequences",
	Long: `Compute CpG wavelet fingerprints of sequences

Steps for each record:
  1. The sequence is truncated to the first -b/--bases bases (5' to 3'),
     or left-padded with '0' if it is shorter.
  2. The 5' base of every CpG is encoded as 1, and all other bases as 0.
     CpGs are detected from left to right without overlaps, case-insensitively
     unless -C/--case-sensitive is given.
  3. The binary signal is decomposed with the Haar wavelet (boundary mode: smooth)
     to level -l/--level, and the approximation coefficients are reported.
     E.g., level 2 for 1000 bases reports 250 values.

Input:
  1. Tab-delimited BED6 records with sequences in the 7th column, from files or stdin:
       chrom, start, end, name, score, strand, seq
     Empty lines and lines starting with "#", "track" or "browser" are ignored.
  2. Or (gzipped) FASTA/FASTQ records with the flag -F/--fastx.

Output format:
  Tab-delimited, one line per record, in the same order as the input.
    1.  label:  name::chrom:start-end(strand), or the sequence ID for FASTA/Q input.
    2-. values: approximation coefficients, or the smoothed signal with -r/--restore.

Malformed records:
  Records with too few columns or characters other than A, C, G, T, N (any case)
  are reported and skipped. Use -S/--strict to stop at the first one.

Parameters:
  -b/--bases and -l/--level can also be read from a TOML file (-c/--config),
  values of flags given explicitly have a higher priority.
  2^level should not be greater than bases.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		seq.ValidateSeq = false

		outFile := getFlagString(cmd, "out-file")

		var fhLog *os.File
		if opt.Log2File {
			fhLog = addLog(opt.LogFile, opt.Verbose)
		}

		outputLog := opt.Verbose || opt.Log2File

		timeStart := time.Now()
		defer func() {
			if outputLog {
				log.Info()
				log.Infof("elapsed time: %s", time.Since(timeStart))
				log.Info()
			}
			if opt.Log2File {
				fhLog.Close()
			}
		}()

		// ---------------------------------------------------------------
		// parameters

		cfg := getFingerprintConfig(cmd)
		checkError(cfg.Validate())

		infoFile := expandPath(getFlagString(cmd, "info-file"))

		decimals := getFlagInt(cmd, "decimals")
		if decimals < -1 {
			checkError(fmt.Errorf("the value of flag -p/--decimals should be >= -1"))
		}

		bufferSizeS := getFlagString(cmd, "buffer-size")
		if bufferSizeS == "" {
			checkError(fmt.Errorf("value of buffer size. supported unit: K, M, G"))
		}
		bufferSize, err := ParseByteSize(bufferSizeS)
		if err != nil {
			checkError(fmt.Errorf("invalid value of buffer size. supported unit: K, M, G"))
		}

		eopt := &EncodingOptions{
			Config: *cfg,

			NumCPUs:    opt.NumCPUs,
			ChunkSize:  getFlagPositiveInt(cmd, "chunk-size"),
			BufferSize: bufferSize,

			Fastx:    getFlagBool(cmd, "fastx"),
			Decimals: decimals,
			Strict:   getFlagBool(cmd, "strict"),
		}

		// ---------------------------------------------------------------
		// input files

		files := getFileListFromArgsAndFile(cmd, args, true, "infile-list", true)

		outFileClean := filepath.Clean(expandPath(outFile))
		for _, file := range files {
			if !isStdin(file) && filepath.Clean(file) == outFileClean {
				checkError(fmt.Errorf("out file should not be one of the input file"))
			}
		}

		for _, file := range []string{outFile, infoFile} {
			if file == "" || isStdin(file) {
				continue
			}
			dir := filepath.Dir(expandPath(file))
			ok, err := pathutil.DirExists(dir)
			if err != nil {
				checkError(fmt.Errorf("check output directory %s: %s", dir, err))
			}
			if !ok {
				checkError(fmt.Errorf("output directory does not exist: %s", dir))
			}
		}

		if outputLog {
			log.Infof("cpgwave v%s", VERSION)
			log.Info()
			log.Infof("  bases: %d, level: %d, wavelet: %s, mode: %s", cfg.Bases, cfg.Level, wavelet.Haar.Name, wavelet.Mode)
			if cfg.Restore {
				log.Infof("  output: smoothed signal of %d values", cfg.OutputLen())
			} else {
				log.Infof("  output: %d approximation coefficients", cfg.OutputLen())
			}
			if len(files) == 1 && isStdin(files[0]) {
				log.Info("  no files given, reading from stdin")
			} else {
				log.Infof("  %d input file(s) given", len(files))
			}
			log.Info()
		}

		// ---------------------------------------------------------------
		// progress bar

		showProgressBar := len(files) > 1 && opt.Verbose

		var pbs *mpb.Progress
		var bar *mpb.Bar
		var fileDone func(time.Duration)
		if showProgressBar {
			pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
			bar = pbs.AddBar(int64(len(files)),
				mpb.PrependDecorators(
					decor.Name("processed files: ", decor.WC{W: len("processed files: "), C: decor.DindentRight}),
					decor.Name("", decor.WCSyncSpaceR),
					decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
				),
				mpb.AppendDecorators(
					decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
					decor.EwmaETA(decor.ET_STYLE_GO, 5),
					decor.OnComplete(decor.Name(""), ". done"),
				),
			)
			fileDone = func(t time.Duration) {
				bar.EwmaIncrBy(1, t)
			}
		}

		// ---------------------------------------------------------------
		// encoding

		outfh, gw, w, err := outStream(outFile, strings.HasSuffix(outFile, ".gz"), opt.CompressionLevel)
		checkError(err)

		stats, err := encodeFiles(files, outfh, eopt, fileDone)

		if showProgressBar {
			if err != nil {
				bar.Abort(false)
			}
			pbs.Wait()
		}

		outfh.Flush()
		if gw != nil {
			gw.Close()
		}
		w.Close()

		checkError(err)

		if outputLog {
			log.Infof("%s records processed, %s emitted, %s skipped",
				humanize.Comma(stats.Records), humanize.Comma(stats.Emitted), humanize.Comma(stats.Skipped))
			if !isStdin(outFile) {
				log.Infof("fingerprints saved to: %s", outFile)
			}
		}

		if infoFile != "" {
			info := fingerprint.NewInfo(cfg)
			info.Records = stats.Emitted
			info.Skipped = stats.Skipped
			checkError(fingerprint.WriteInfo(infoFile, info))
			if outputLog {
				log.Infof("run information saved to: %s", infoFile)
			}
		}
	},
}

// getFingerprintConfig reads -c/--config if given, and overrides the values
// with the flags given explicitly.
func getFingerprintConfig(cmd *cobra.Command) *fingerprint.Config {
	cfg := &fingerprint.Config{}

	configFile := expandPath(getFlagString(cmd, "config"))
	fromFile := configFile != ""
	if fromFile {
		var err error
		cfg, err = fingerprint.ReadConfig(configFile)
		checkError(err)
	}

	flags := cmd.Flags()
	if !fromFile || flags.Changed("bases") {
		cfg.Bases = getFlagInt(cmd, "bases")
	}
	if !fromFile || flags.Changed("level") {
		cfg.Level = getFlagInt(cmd, "level")
	}
	if flags.Lookup("restore") != nil && (!fromFile || flags.Changed("restore")) {
		cfg.Restore = getFlagBool(cmd, "restore")
	}
	if !fromFile || flags.Changed("case-sensitive") {
		cfg.CaseSensitive = getFlagBool(cmd, "case-sensitive")
	}
	return cfg
}

// addFingerprintFlags adds flags shared by commands computing fingerprints.
func addFingerprintFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("bases", "b", 1000,
		formatFlagUsage(`Number of bases to keep in 5' to 3' direction. Shorter sequences are left-padded.`))

	cmd.Flags().IntP("level", "l", 2,
		formatFlagUsage(`Wavelet decomposition level, i.e., level 2 for 1000 bases reports 250 values.`))

	cmd.Flags().BoolP("case-sensitive", "C", false,
		formatFlagUsage(`Only detect upper-case CG, i.e., soft-masked CpGs are ignored.`))

	cmd.Flags().StringP("config", "c", "",
		formatFlagUsage(`TOML file of parameters (bases, level, restore, case-sensitive).`))

	cmd.Flags().BoolP("fastx", "F", false,
		formatFlagUsage(`Input is (gzipped) FASTA/FASTQ, sequence IDs are used as labels.`))

	cmd.Flags().StringP("buffer-size", "", "20M",
		formatFlagUsage(`Size of buffer, supported unit: K, M, G. You need increase the value when "bufio.Scanner: token too long" error reported`))

	cmd.Flags().IntP("chunk-size", "", 1000,
		formatFlagUsage(`Number of records processed by a thread at a time.`))

	cmd.Flags().StringP("in-dir", "I", "",
		formatFlagUsage(`Directory containing input files. Directory symlinks are followed.`))

	cmd.Flags().StringP("file-regexp", "r", `\.(bed|tsv|txt)(\.gz|\.xz|\.zst|\.bz2)?$`,
		formatFlagUsage(`Regular expression for matching input files in -I/--in-dir, case ignored.`))

	cmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports a ".gz" suffix ("-" for stdout).`))

	cmd.Flags().BoolP("strict", "S", false,
		formatFlagUsage(`Stop at the first malformed record, instead of skipping it.`))
}

func init() {
	RootCmd.AddCommand(encodeCmd)

	addFingerprintFlags(encodeCmd)

	encodeCmd.Flags().BoolP("restore", "R", false,
		formatFlagUsage(`Output the smoothed signal (approximation reconstructed to the original length) instead of coefficients.`))

	encodeCmd.Flags().IntP("decimals", "p", -1,
		formatFlagUsage(`Number of decimal places of values (-1 for the shortest representation).`))

	encodeCmd.Flags().StringP("info-file", "", "",
		formatFlagUsage(`Write run information (parameters, output length and record counts) to a TOML file.`))

	encodeCmd.SetUsageTemplate(usageTemplate("[-b <bases>] [-l <level>] [regions.bed.gz ...] [-o fingerprints.tsv.gz]"))
}
