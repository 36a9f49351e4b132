// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config loads circuit descriptions from YAML files.
//
// A circuit description lists clocked components, the stimulus driven on
// circuit wires cycle after cycle and the wires to probe:
//
//	steps_per_cycle: 32
//	components:
//	  - name: ctr
//	    kind: counter
//	    attrs: {width: 4, max: 9}
//	    pins: "clk=clk, en=en, q=count, carry=carry"
//	  - name: rom
//	    kind: rom
//	    attrs: {addr_bits: 4, data_bits: 8}
//	    image: digits.hex
//	    pins: "addr=count, d=segments"
//	inputs:
//	  - wire: en
//	    values: [1, 1, 0, 1]
//	probes: [count, carry, segments]
//
// Component attributes are decoded into the hwlib attribute struct of their
// kind. Image paths are relative to the directory of the description file.
//
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// DefaultStepsPerCycle is the clock period used when a description does not
// set one. It leaves room for the largest part delay within half a cycle.
//
const DefaultStepsPerCycle = 32

// File is a circuit description.
//
type File struct {
	StepsPerCycle uint `yaml:"steps_per_cycle"`
	Workers       int  `yaml:"workers"`
	// StartUnknown sets the start_unknown attribute of all components that
	// support it and do not set it themselves.
	StartUnknown bool        `yaml:"start_unknown"`
	Components   []Component `yaml:"components"`
	Inputs       []Input     `yaml:"inputs"`
	Probes       []string    `yaml:"probes"`

	// Dir is the directory image paths are relative to.
	Dir string `yaml:"-"`
}

// Component describes one clocked part.
//
type Component struct {
	Name  string         `yaml:"name"`
	Kind  string         `yaml:"kind"`
	Attrs map[string]any `yaml:"attrs"`
	// Pins is a connection string, see seqsim.ParseConnections.
	Pins string `yaml:"pins"`
	// Image is the path of a raw memory image with the initial contents of
	// RAM and ROM components.
	Image string `yaml:"image"`
}

// Input is the stimulus driven on a circuit wire. Values[i] is driven
// during clock cycle i, the last value is held once the list runs out.
// Values are parsed with seqsim.ParseValue. Width defaults to 1.
//
type Input struct {
	Wire   string   `yaml:"wire"`
	Width  int      `yaml:"width"`
	Values []string `yaml:"values"`
}

// Parse parses a circuit description.
//
func Parse(data []byte) (*File, error) {
	f := new(File)
	if err := yaml.UnmarshalStrict(data, f); err != nil {
		return nil, errors.Wrap(err, "parse circuit description")
	}
	if f.StepsPerCycle == 0 {
		f.StepsPerCycle = DefaultStepsPerCycle
	}
	return f, nil
}

// Load reads and parses the circuit description in the named file.
//
func Load(name string) (*File, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "load circuit description")
	}
	f, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	f.Dir = filepath.Dir(name)
	return f, nil
}

func (f *File) path(name string) string {
	if filepath.IsAbs(name) || f.Dir == "" {
		return name
	}
	return filepath.Join(f.Dir, name)
}
