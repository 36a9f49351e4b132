// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package seqsim

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind identifies the family of a sequential part.
//
type Kind uint8

// Part kinds.
//
const (
	KindFlipFlop Kind = iota
	KindRegister
	KindCounter
	KindShiftRegister
	KindRandom
	KindRAM
	KindROM
)

var kindNames = [...]string{
	KindFlipFlop:      "flipflop",
	KindRegister:      "register",
	KindCounter:       "counter",
	KindShiftRegister: "shiftregister",
	KindRandom:        "random",
	KindRAM:           "ram",
	KindROM:           "rom",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind returns the Kind with the given name.
//
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if s == n {
			return Kind(i), nil
		}
	}
	return 0, errors.Errorf("unknown part kind %q", s)
}

// Control holds the control pins shared by clocked parts. Pins that a part
// does not have are left Nil.
//
type Control struct {
	Clock  Value
	Reset  Value
	Preset Value
	Enable Value
}

// A Rule is the kind specific half of a state update. Reset is required.
// Preset is nil for parts without a preset pin. Next may be nil for parts
// that act on Seq.Triggered themselves.
//
type Rule struct {
	Reset  func()
	Preset func()
	Next   func()
}

// Event tells which branch of Seq.Update ran.
//
type Event uint8

// Update events.
//
const (
	EventNone Event = iota
	EventReset
	EventPreset
	EventNext
)

// Seq carries the state shared by every clocked part: its kind, trigger mode
// and clock history.
//
type Seq struct {
	Kind    Kind
	Trigger Trigger
	Clock   ClockEdge

	triggered bool
}

// Update runs one evaluation of a clocked part.
//
// The clock is always sampled first. Then, in order of priority: a
// definitely true reset calls r.Reset, a definitely true preset calls
// r.Preset, and a trigger with an enable that is not definitely false calls
// r.Next.
//
func (s *Seq) Update(ctl Control, r Rule) Event {
	s.triggered = s.Clock.Triggered(ctl.Clock, s.Trigger)
	switch {
	case ctl.Reset.IsTrue():
		r.Reset()
		return EventReset
	case r.Preset != nil && ctl.Preset.IsTrue():
		r.Preset()
		return EventPreset
	case s.triggered && !ctl.Enable.IsFalse():
		if r.Next != nil {
			r.Next()
		}
		return EventNext
	}
	return EventNone
}

// Triggered reports whether the last call to Update saw a trigger, whether or
// not it was acted upon.
//
func (s *Seq) Triggered() bool { return s.triggered }
