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
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/odinokov/line1-pileup/cpgwave/cpg"
	"github.com/odinokov/line1-pileup/cpgwave/fingerprint"
	"github.com/odinokov/line1-pileup/cpgwave/record"
	"github.com/odinokov/line1-pileup/cpgwave/util"
	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/xopen"
)

// EncodingOptions contains the options of the encoding pipeline.
type EncodingOptions struct {
	fingerprint.Config

	NumCPUs    int
	ChunkSize  int // number of records processed by a worker at a time
	BufferSize int // maximum line length of BED input

	Fastx     bool // FASTA/FASTQ input instead of BED+seq
	Decimals  int  // -1 for the shortest representation
	Strict    bool // stop at the first malformed record
	Occupancy bool // output occupancy vectors instead of wavelet coefficients
}

// EncodingStats counts records of a run.
type EncodingStats struct {
	Records int64 // records read and processed
	Emitted int64
	Skipped int64
}

// RecordFailure describes a record that could not be encoded.
type RecordFailure struct {
	File  string
	Line  int // line number for BED input, record number for FASTA/Q
	Label string
	Err   error
}

func (f *RecordFailure) Error() string {
	if f.Label == "" {
		return fmt.Sprintf("%s:%d: %s", f.File, f.Line, f.Err)
	}
	return fmt.Sprintf("%s:%d (%s): %s", f.File, f.Line, f.Label, f.Err)
}

func (f *RecordFailure) Unwrap() error { return f.Err }

type inputRecord struct {
	label string
	seq   []byte
	file  string
	line  int
	err   error // error in parsing
}

type chunk struct {
	id      uint64
	records []*inputRecord

	out       []byte
	processed int
	emitted   int
	failed    []*RecordFailure
}

func (c *chunk) process(f *fingerprint.Fingerprinter, opt *EncodingOptions) {
	var values []float64
	var fixed []byte
	var occupancy []uint8
	var err error
	for _, r := range c.records {
		c.processed++

		err = r.err
		if err == nil {
			if opt.Occupancy {
				fixed, occupancy, err = f.Occupancy(r.seq)
				if err == nil {
					c.out = append(c.out, r.label...)
					c.out = append(c.out, '\t')
					c.out = append(c.out, fixed...)
					c.out = append(c.out, '\t')
					c.out = strconv.AppendInt(c.out, int64(cpg.CountCpG(occupancy)), 10)
					c.out = append(c.out, '\t')
					c.out = append(c.out, cpg.Occupancy2String(occupancy)...)
					c.out = append(c.out, '\n')
				}
			} else {
				values, err = f.Fingerprint(r.seq)
				if err == nil {
					c.out = util.AppendValues(c.out, r.label, values, opt.Decimals)
				}
			}
		}

		if err != nil {
			c.failed = append(c.failed, &RecordFailure{File: r.file, Line: r.line, Label: r.label, Err: err})
			if opt.Strict {
				break
			}
			continue
		}
		c.emitted++
	}
	c.records = nil
}

// encodeFiles reads records from files, computes their fingerprints
// concurrently, and writes the lines to w in the input order.
// fileDone, if not nil, is called after each file is read.
func encodeFiles(files []string, w io.Writer, opt *EncodingOptions, fileDone func(time.Duration)) (*EncodingStats, error) {
	pool, err := fingerprint.NewPool(&opt.Config)
	if err != nil {
		return nil, err
	}

	threads := opt.NumCPUs
	if threads < 1 {
		threads = 1
	}
	chunkSize := opt.ChunkSize
	if chunkSize < 1 {
		chunkSize = 1
	}

	stats := &EncodingStats{}
	var stop atomic.Bool
	var errOut error

	// outputter, keeping the order of chunks
	ch := make(chan *chunk, threads)
	done := make(chan int)
	go func() {
		write := func(c *chunk) {
			if errOut != nil {
				return
			}
			stats.Records += int64(c.processed)
			stats.Emitted += int64(c.emitted)
			if len(c.out) > 0 {
				if _, err := w.Write(c.out); err != nil {
					errOut = errors.Wrap(err, "write output")
					stop.Store(true)
					return
				}
			}
			for _, f := range c.failed {
				stats.Skipped++
				if opt.Strict {
					errOut = f
					stop.Store(true)
					return
				}
				log.Warningf("record skipped: %s", f)
			}
		}

		buffer := make(map[uint64]*chunk, threads)
		var next uint64
		var ok bool
		for c := range ch {
			if c.id != next {
				buffer[c.id] = c
				continue
			}
			write(c)
			next++

			for {
				if c, ok = buffer[next]; !ok {
					break
				}
				write(c)
				delete(buffer, next)
				next++
			}
		}
		done <- 1
	}()

	// workers
	var wg sync.WaitGroup
	tokens := make(chan int, threads)
	var id uint64
	records := make([]*inputRecord, 0, chunkSize)

	dispatch := func() {
		if len(records) == 0 {
			return
		}
		c := &chunk{id: id, records: records}
		id++
		records = make([]*inputRecord, 0, chunkSize)

		tokens <- 1
		wg.Add(1)
		go func(c *chunk) {
			defer func() {
				<-tokens
				wg.Done()
			}()

			f := pool.Get()
			c.process(f, opt)
			pool.Put(f)

			ch <- c
		}(c)
	}

	emit := func(r *inputRecord) bool {
		if stop.Load() {
			return false
		}
		records = append(records, r)
		if len(records) == chunkSize {
			dispatch()
		}
		return true
	}

	// reader
	var errRead error
	var timeStart time.Time
	for _, file := range files {
		timeStart = time.Now()
		if opt.Fastx {
			errRead = readFastxRecords(file, emit)
		} else {
			errRead = readBEDRecords(file, opt.BufferSize, emit)
		}
		if errRead != nil || stop.Load() {
			break
		}
		if fileDone != nil {
			fileDone(time.Since(timeStart))
		}
	}
	if errRead == nil {
		dispatch()
	}

	wg.Wait()
	close(ch)
	<-done

	if errRead != nil {
		return stats, errRead
	}
	return stats, errOut
}

// readBEDRecords reads BED6+seq records, and stops when emit returns false.
func readBEDRecords(file string, bufferSize int, emit func(*inputRecord) bool) error {
	fh, err := xopen.Ropen(file)
	if err != nil {
		return errors.Wrapf(err, "read file: %s", file)
	}
	defer fh.Close()

	if bufferSize < bufio.MaxScanTokenSize {
		bufferSize = bufio.MaxScanTokenSize
	}
	scanner := bufio.NewScanner(fh)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), bufferSize)

	var r record.Record
	var line string
	var n int
	for scanner.Scan() {
		n++
		line = strings.TrimRight(scanner.Text(), "\r\n")
		if record.IsComment(line) {
			continue
		}

		rec := &inputRecord{file: file, line: n}
		if err = r.Parse(line); err != nil {
			rec.err = err
		} else {
			rec.label = r.Label()
			rec.seq = []byte(r.Seq)
		}

		if !emit(rec) {
			return nil
		}
	}
	if err = scanner.Err(); err != nil {
		return errors.Wrapf(err, "read file: %s", file)
	}
	return nil
}

// readFastxRecords reads FASTA/FASTQ records, the label is the sequence ID.
func readFastxRecords(file string, emit func(*inputRecord) bool) error {
	reader, err := fastx.NewReader(nil, file, "")
	if err != nil {
		return errors.Wrapf(err, "read file: %s", file)
	}
	defer reader.Close()

	var n int
	for {
		rec, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return errors.Wrapf(err, "read file: %s", file)
		}
		n++

		if !emit(&inputRecord{
			label: string(rec.ID),
			seq:   append([]byte(nil), rec.Seq.Seq...),
			file:  file,
			line:  n,
		}) {
			return nil
		}
	}
	return nil
}
