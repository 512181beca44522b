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
	"io"
	"net"
	"os"
	"os/signal"
	"time"

	"github.com/bemasher/rtltcp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/bemasher/rtlapt/apt"
	"github.com/bemasher/rtlapt/audio"
	"github.com/bemasher/rtlapt/dsp"
)

const (
	// NOAA 19, override with -centerfreq for NOAA 15 (137.62M) or 18 (137.9125M).
	CenterFreq = 137100000

	// Discriminator rate, twice the audio rate.
	DiscriminatorRate = 2 * apt.SampleRate

	// 1.04 MHz covers the 34 kHz wide FM channel with plenty of margin.
	SampleRate = 25 * DiscriminatorRate

	// IQ sample pairs per block read from rtl_tcp.
	BlockSamples = 1 << 14
)

var rcvr Receiver

type Receiver struct {
	rtltcp.SDR
	demod *dsp.FMDemodulator

	sampleRate int
	stop       chan struct{}
}

// IQDecimation returns the decimation from rate to the discriminator rate, or
// an error if rate isn't a multiple of it.
func IQDecimation(rate int) (int, error) {
	if rate <= 0 || rate%DiscriminatorRate != 0 {
		return 0, &apt.SampleRateError{Rate: rate, Want: SampleRate}
	}
	return rate / DiscriminatorRate, nil
}

func (rcvr *Receiver) NewReceiver() error {
	rcvr.stop = make(chan struct{}, 1)
	rcvr.sampleRate = SampleRate
	centerFreq := uint32(CenterFreq)

	gainFlagSet := false
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "centerfreq":
			centerFreq = uint32(rcvr.Flags.CenterFreq)
		case "samplerate":
			rcvr.sampleRate = int(rcvr.Flags.SampleRate)
		case "gainbyindex", "tunergainmode", "tunergain", "agcmode":
			gainFlagSet = true
		}
	})

	decimation, err := IQDecimation(rcvr.sampleRate)
	if err != nil {
		return errors.Wrap(err, "capture sample rate")
	}
	rcvr.demod = dsp.NewFMDemodulator(decimation, DiscriminatorRate/apt.SampleRate)

	// Connect to rtl_tcp server.
	if err := rcvr.Connect(nil); err != nil {
		return errors.Wrap(err, "connect")
	}

	if err := rcvr.HandleFlags(); err != nil {
		return errors.Wrap(err, "rtltcp flags")
	}

	if err := rcvr.SetCenterFreq(centerFreq); err != nil {
		return errors.Wrap(err, "set center frequency")
	}
	if err := rcvr.SetSampleRate(uint32(rcvr.sampleRate)); err != nil {
		return errors.Wrap(err, "set sample rate")
	}

	if !gainFlagSet {
		if err := rcvr.SetGainMode(true); err != nil {
			return errors.Wrap(err, "set gain mode")
		}
	}

	log.WithFields(log.Fields{
		"server":     rcvr.RemoteAddr(),
		"tuner":      rcvr.Info.Tuner,
		"centerfreq": centerFreq,
		"samplerate": rcvr.sampleRate,
		"decimation": decimation,
	}).Info("connected")

	// Tell the user how many gain settings were reported by rtl_tcp.
	log.Println("GainCount:", rcvr.SDR.Info.GainCount)

	return nil
}

func (rcvr *Receiver) Close() {
	rcvr.stop <- struct{}{}
	rcvr.SDR.Close()
}

// Capture records FM demodulated audio for duration or until interrupted.
// The raw IQ stream is copied to sampleFile.
func (rcvr *Receiver) Capture(duration time.Duration, sampleFile io.Writer) (audio.Samples, error) {
	s := audio.Samples{Rate: apt.SampleRate}

	// Setup signal channel for interruption.
	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt)
	defer signal.Stop(sigint)

	tLimit := time.After(duration)
	start := time.Now()

	// Allocate a channel of blocks.
	blockCh := make(chan []byte)
	errCh := make(chan error, 1)

	// Read and send sample blocks to the demodulator.
	go func() {
		// Make two sample blocks, one for reading, and one for the demodulator,
		// these are exchanged each time we read a new block.
		blockA := make([]byte, BlockSamples<<1)
		blockB := make([]byte, BlockSamples<<1)

		// When exiting this goroutine, close the block channel.
		defer close(blockCh)

		for {
			select {
			// Exit if we've been told to stop.
			case <-rcvr.stop:
				return
			default:
				_, err := io.ReadFull(rcvr, blockA)

				if err == io.EOF || err == io.ErrUnexpectedEOF {
					log.Warn("encountered eof: ", err)
					return
				}

				if opErr, ok := err.(*net.OpError); ok {
					if opErr.Temporary() {
						log.Warnf("operr: temporary: %+v", opErr)
						continue
					}

					errCh <- errors.Wrap(opErr, "read samples")
					return
				}

				if err != nil {
					errCh <- errors.Wrap(err, "read samples")
					return
				}

				select {
				case blockCh <- blockA:
				case <-rcvr.stop:
					return
				}

				// Exchange blocks for next read.
				blockA, blockB = blockB, blockA
			}
		}
	}()

	log.WithField("duration", duration).Info("Capturing...")

	for {
		select {
		case <-sigint:
			log.Println("Interrupted:", time.Since(start))
			return s, nil
		case <-tLimit:
			log.Println("Time Limit Reached:", time.Since(start))
			return s, nil
		case err := <-errCh:
			return s, err
		case block, ok := <-blockCh:
			if !ok {
				return s, nil
			}

			if _, err := sampleFile.Write(block); err != nil {
				return s, errors.Wrap(err, "write raw samples")
			}

			s.Data = rcvr.demod.Execute(block, s.Data)
		}
	}
}
