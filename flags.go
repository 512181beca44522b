// RTLAPT - A NOAA APT decoder for recorded and rtl-sdr captured audio.
// Copyright (C) 2026 Douglas Hall
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"encoding/json"
	"encoding/xml"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/bemasher/rtlapt/apt"
	"github.com/bemasher/rtlapt/csv"
)

var sampleFilename = flag.String("samplefile", os.DevNull, "raw IQ dump file while capturing")
var sampleFile *os.File

var audioFilename = flag.String("audiofile", "", "write the 20800 Hz audio being decoded to this wav file")

var configFilename = flag.String("config", "", "yaml file of flag values, explicit flags take precedence")

var lowPercentile = flag.Float64("plow", apt.LowPercentile, "percentile mapped to black")
var highPercentile = flag.Float64("phigh", apt.HighPercentile, "percentile mapped to white")

var truncate = flag.String("truncate", "drop", "rows running past the end of the pass: drop, pad or strict")
var truncatePolicy apt.TruncatePolicy

var timeLimit = flag.Duration("duration", 0, "capture from rtl_tcp for this long instead of reading a file, ex. 15m")

var encoder Encoder
var format = flag.String("format", "plain", "sync report format: plain, csv, json, xml or none")

var quiet = flag.Bool("quiet", false, "suppress state information printed at startup")
var debug = flag.Bool("debug", false, "log stage timings and intermediate sizes")

var version = flag.Bool("version", false, "display build date and commit hash")

func RegisterFlags() {
	rtlaptFlags := map[string]bool{
		"samplefile": true,
		"audiofile":  true,
		"config":     true,
		"plow":       true,
		"phigh":      true,
		"truncate":   true,
		"duration":   true,
		"format":     true,
		"quiet":      true,
		"debug":      true,
		"version":    true,
	}

	printDefaults := func(validFlags map[string]bool, inclusion bool) {
		flag.CommandLine.VisitAll(func(f *flag.Flag) {
			if validFlags[f.Name] != inclusion {
				return
			}

			format := "  -%s=%s: %s\n"
			fmt.Fprintf(os.Stderr, format, f.Name, f.Value, f.Usage)
		})
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s: [flags] input.wav [output.png]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s: -duration=15m [flags] [output.png]\n", os.Args[0])
		printDefaults(rtlaptFlags, true)

		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "rtltcp specific:")
		printDefaults(rtlaptFlags, false)
	}
}

func EnvOverride() {
	flag.VisitAll(func(f *flag.Flag) {
		envName := "RTLAPT_" + strings.ToUpper(f.Name)
		flagValue := os.Getenv(envName)
		if flagValue != "" {
			if err := flag.Set(f.Name, flagValue); err != nil {
				log.Warnf(
					"Environment variable %q failed to override flag %q with value %q: %q",
					envName, f.Name, flagValue, err,
				)
			} else {
				log.Infof("Environment variable %q overrides flag %q with %q", envName, f.Name, flagValue)
			}
		}
	})
}

func HandleFlags() {
	var err error

	switch {
	case *quiet:
		log.SetLevel(log.WarnLevel)
	case *debug:
		log.SetLevel(log.DebugLevel)
	}

	sampleFile, err = os.Create(*sampleFilename)
	if err != nil {
		log.Fatal("Error creating sample file: ", err)
	}

	truncatePolicy, err = apt.ParseTruncatePolicy(*truncate)
	if err != nil {
		log.Fatal(err)
	}

	encoder, err = NewEncoder(*format, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
}

// JSON, XML and CSV all implement this interface so we can simplify report
// output formatting.
type Encoder interface {
	Encode(interface{}) error
}

// NewEncoder returns an encoder for the named format writing to w.
func NewEncoder(format string, w io.Writer) (Encoder, error) {
	switch strings.ToLower(format) {
	case "plain":
		return PlainEncoder{w}, nil
	case "csv":
		return csv.NewEncoder(w), nil
	case "json":
		return json.NewEncoder(w), nil
	case "xml":
		return xml.NewEncoder(w), nil
	case "none":
		return NopEncoder{}, nil
	}
	return nil, fmt.Errorf("invalid report format: %q", format)
}

type PlainEncoder struct {
	w io.Writer
}

func (pe PlainEncoder) Encode(msg interface{}) (err error) {
	_, err = fmt.Fprintln(pe.w, msg)
	return
}

type NopEncoder struct{}

func (NopEncoder) Encode(interface{}) error {
	return nil
}
