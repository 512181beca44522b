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
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/bemasher/rtlapt/apt"
	"github.com/bemasher/rtlapt/audio"
)

// Load returns the audio to decode at apt.SampleRate and the default output
// filename. Files are resampled as needed, without a duration flag the first
// argument names the file.
func Load(args []string) (s audio.Samples, outfile string, err error) {
	if *timeLimit > 0 {
		if err = rcvr.NewReceiver(); err != nil {
			return s, "", err
		}
		defer rcvr.Close()

		s, err = rcvr.Capture(*timeLimit, sampleFile)
		outfile = time.Now().UTC().Format("noaa_20060102T150405.png")
		return s, outfile, err
	}

	if len(args) == 0 {
		return s, "", errors.New("no input file given")
	}

	s, err = audio.Read(args[0])
	if err != nil {
		return s, "", err
	}

	s, err = audio.Conform(s)
	if err != nil {
		return s, "", err
	}

	outfile = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".png"
	return s, outfile, nil
}

// OutputFilename picks the explicit output argument over the default.
func OutputFilename(args []string, outfile string) string {
	idx := 1
	if *timeLimit > 0 {
		idx = 0
	}
	if len(args) > idx {
		return args[idx]
	}
	return outfile
}

// WriteImage encodes img as a grayscale PNG.
func WriteImage(filename string, img *apt.Image) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "create image")
	}
	defer f.Close()

	if err := png.Encode(f, img.Gray()); err != nil {
		return errors.Wrap(err, "encode image")
	}

	return errors.Wrap(f.Close(), "close image")
}

func init() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006/01/02 15:04:05.000000",
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			return "", fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
		},
	})
	log.SetReportCaller(true)
}

var (
	buildTag   = "dev"     // v#.#.#
	buildDate  = "unknown" // date -u '+%Y-%m-%d'
	commitHash = "unknown" // git rev-parse HEAD
)

func main() {
	rcvr.RegisterFlags()
	RegisterFlags()
	EnvOverride()
	flag.Parse()

	if *version {
		fmt.Println("Build Tag: ", buildTag)
		fmt.Println("Build Date:", buildDate)
		fmt.Println("Commit:    ", commitHash)
		os.Exit(0)
	}

	if err := ConfigOverride(*configFilename); err != nil {
		log.Fatal(err)
	}

	HandleFlags()
	defer sampleFile.Close()

	s, outfile, err := Load(flag.Args())
	if err != nil {
		log.Fatal(err)
	}
	outfile = OutputFilename(flag.Args(), outfile)

	if *audioFilename != "" {
		if err := audio.Write(*audioFilename, s); err != nil {
			log.Fatal(err)
		}
	}

	d := apt.NewDecoder(apt.Config{
		LowPercentile:  *lowPercentile,
		HighPercentile: *highPercentile,
		Truncate:       truncatePolicy,
	})
	d.Log()

	start := time.Now()
	img, err := d.Decode(s.Data, s.Rate)
	if err != nil {
		log.Fatal(err)
	}
	log.WithFields(log.Fields{
		"rows":    img.Height,
		"elapsed": time.Since(start),
	}).Info("decoded")

	if err := Report(encoder, img); err != nil {
		log.Fatal("Error encoding report: ", err)
	}

	if err := WriteImage(outfile, img); err != nil {
		log.Fatal(err)
	}
	log.Info("Wrote ", outfile)
}
