// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package seqsim

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Trigger selects when a clocked part latches new state.
//
type Trigger uint8

// Trigger modes.
//
const (
	Rising  Trigger = iota // rising edge of the clock
	Falling                // falling edge of the clock
	High                   // level: while the clock is high
	Low                    // level: while the clock is low
)

var triggerNames = [...]string{
	Rising:  "rising",
	Falling: "falling",
	High:    "high",
	Low:     "low",
}

func (t Trigger) String() string {
	if int(t) < len(triggerNames) {
		return triggerNames[t]
	}
	return "Trigger(" + strconv.Itoa(int(t)) + ")"
}

// Edge returns true for edge sensitive modes.
//
func (t Trigger) Edge() bool { return t == Rising || t == Falling }

// ParseTrigger parses a trigger name. Names are case insensitive.
//
func ParseTrigger(s string) (Trigger, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range triggerNames {
		if s == n {
			return Trigger(i), nil
		}
	}
	return Rising, errors.Errorf("invalid trigger mode %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
//
func (t *Trigger) UnmarshalText(text []byte) error {
	v, err := ParseTrigger(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
//
func (t Trigger) MarshalText() ([]byte, error) {
	if int(t) >= len(triggerNames) {
		return nil, errors.Errorf("invalid trigger mode %d", t)
	}
	return []byte(triggerNames[t]), nil
}
