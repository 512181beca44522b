package main

import (
	"flag"
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ConfigOverride sets flags from a yaml mapping of flag names to values.
// Flags given on the command line or through the environment are left alone.
func ConfigOverride(filename string) error {
	if filename == "" {
		return nil
	}

	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "read config")
	}

	return ApplyConfig(flag.CommandLine, data)
}

// ApplyConfig applies yaml encoded flag values to fs.
func ApplyConfig(fs *flag.FlagSet, data []byte) error {
	values := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return errors.Wrap(err, "parse config")
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	for name, value := range values {
		if fs.Lookup(name) == nil {
			return errors.Errorf("config: unknown flag %q", name)
		}
		if set[name] {
			log.Debugf("Config value for %q ignored, flag already set", name)
			continue
		}

		if err := fs.Set(name, fmt.Sprint(value)); err != nil {
			return errors.Wrapf(err, "config: flag %q", name)
		}
		log.Debugf("Config sets flag %q to %v", name, value)
	}

	return nil
}
