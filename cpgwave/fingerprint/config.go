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

package fingerprint

import (
	"fmt"
	"os"

	"github.com/odinokov/line1-pileup/cpgwave/wavelet"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Config contains the parameters shared by all records of a run.
type Config struct {
	Bases int `toml:"bases" comment:"number of bases to keep in 5' to 3' direction"`
	Level int `toml:"level" comment:"wavelet decomposition level"`

	Restore       bool `toml:"restore" comment:"output the smoothed signal instead of the approximation coefficients"`
	CaseSensitive bool `toml:"case-sensitive" comment:"only detect upper-case CG"`
}

// ConfigError means the parameters can not be used for any record.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("fingerprint: invalid %s: %s", e.Field, e.Msg)
}

// Validate checks the parameters before any record is processed.
func (c *Config) Validate() error {
	if c.Bases <= 0 {
		return &ConfigError{Field: "bases", Msg: fmt.Sprintf("%d, should be positive", c.Bases)}
	}
	if c.Level <= 0 {
		return &ConfigError{Field: "level", Msg: fmt.Sprintf("%d, should be positive", c.Level)}
	}
	if maxLevel := wavelet.MaxLevel(wavelet.Haar, c.Bases); c.Level > maxLevel {
		return &ConfigError{Field: "level",
			Msg: fmt.Sprintf("%d, 2^level should not be greater than bases (%d), the maximum level is %d",
				c.Level, c.Bases, maxLevel)}
	}
	return nil
}

// OutputLen returns the number of values produced for every record.
func (c *Config) OutputLen() int {
	if c.Restore {
		return c.Bases
	}
	return wavelet.CoeffLen(wavelet.Haar, c.Bases, c.Level)
}

// Info describes the output of a run, for downstream tools which
// rely on a fixed vector length.
type Info struct {
	Config

	Wavelet   string `toml:"wavelet"`
	Mode      string `toml:"mode"`
	OutputLen int    `toml:"output-len" comment:"number of values following the label in each line"`

	Records int64 `toml:"records"`
	Skipped int64 `toml:"skipped"`
}

// NewInfo creates an Info from a Config.
func NewInfo(c *Config) *Info {
	return &Info{
		Config:    *c,
		Wavelet:   wavelet.Haar.Name,
		Mode:      wavelet.Mode,
		OutputLen: c.OutputLen(),
	}
}

// ReadConfig reads parameters from a TOML file. Unknown keys are rejected.
func ReadConfig(file string) (*Config, error) {
	fh, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrapf(err, "read config file")
	}
	defer fh.Close()

	c := &Config{}
	dec := toml.NewDecoder(fh)
	dec.DisallowUnknownFields()
	if err = dec.Decode(c); err != nil {
		return nil, errors.Wrapf(err, "parse config file: %s", file)
	}
	return c, nil
}

// WriteConfig writes parameters to a TOML file.
func WriteConfig(file string, c *Config) error {
	return writeTOML(file, c)
}

// WriteInfo writes a run summary to a TOML file.
func WriteInfo(file string, info *Info) error {
	return writeTOML(file, info)
}

// ReadInfo reads a run summary from a TOML file.
func ReadInfo(file string) (*Info, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "read info file")
	}
	info := &Info{}
	if err = toml.Unmarshal(data, info); err != nil {
		return nil, errors.Wrapf(err, "parse info file: %s", file)
	}
	return info, nil
}

func writeTOML(file string, v interface{}) error {
	fh, err := os.Create(file)
	if err != nil {
		return errors.Wrapf(err, "write file: %s", file)
	}

	enc := toml.NewEncoder(fh)
	if err = enc.Encode(v); err != nil {
		fh.Close()
		return errors.Wrapf(err, "write file: %s", file)
	}
	return fh.Close()
}
