// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"
	"strings"

	"github.com/db47h/seqsim"
	"github.com/pkg/errors"
)

// Propagation delays, in simulation steps.
//
const (
	FlipFlopDelay      = 5
	RegisterDelay      = 5
	CounterDelay       = 8
	ShiftRegisterDelay = 4
	RandomDelay        = 4
	MemDelay           = 10
)

func parseName(names []string, s, what string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if s == n {
			return i, nil
		}
	}
	return 0, errors.Errorf("unknown %s %q", what, s)
}

func enumName(names []string, i int, what string) string {
	if i >= 0 && i < len(names) {
		return names[i]
	}
	return what + "(" + strconv.Itoa(i) + ")"
}

// FlipFlopType selects the truth table of a flip-flop.
//
type FlipFlopType uint8

// Flip-flop types.
//
const (
	D FlipFlopType = iota
	T
	JK
	SR
)

var flipFlopNames = []string{"d", "t", "jk", "sr"}

func (t FlipFlopType) String() string { return enumName(flipFlopNames, int(t), "FlipFlopType") }

// UnmarshalText implements encoding.TextUnmarshaler.
//
func (t *FlipFlopType) UnmarshalText(b []byte) error {
	i, err := parseName(flipFlopNames, string(b), "flip-flop type")
	*t = FlipFlopType(i)
	return err
}

// inputs returns the names of the data inputs for the flip-flop type.
//
func (t FlipFlopType) inputs() []string {
	switch t {
	case T:
		return []string{"t"}
	case JK:
		return []string{"j", "k"}
	case SR:
		return []string{"s", "r"}
	}
	return []string{"d"}
}

// OnGoal selects what a counter does once it reaches its goal.
//
type OnGoal uint8

// Counter goal policies.
//
const (
	Wrap OnGoal = iota
	Stay
	Load
	Continue
)

var onGoalNames = []string{"wrap", "stay", "load", "continue"}

func (g OnGoal) String() string { return enumName(onGoalNames, int(g), "OnGoal") }

// UnmarshalText implements encoding.TextUnmarshaler.
//
func (g *OnGoal) UnmarshalText(b []byte) error {
	i, err := parseName(onGoalNames, string(b), "goal policy")
	*g = OnGoal(i)
	return err
}

// FlipFlopAttrs configures a flip-flop.
//
type FlipFlopAttrs struct {
	Type         FlipFlopType   `mapstructure:"type"`
	Trigger      seqsim.Trigger `mapstructure:"trigger"`
	StartUnknown bool           `mapstructure:"start_unknown"`
}

// Validate implements Attrs.
//
func (a *FlipFlopAttrs) Validate() error {
	if a.Type > SR {
		return errors.Errorf("invalid flip-flop type %d", a.Type)
	}
	return validTrigger(a.Trigger)
}

func validTrigger(t seqsim.Trigger) error {
	if t > seqsim.Low {
		return errors.Errorf("invalid trigger %d", t)
	}
	return nil
}

func validWidth(what string, w, max int) error {
	if w < 1 || w > max {
		return errors.Errorf("%s %d out of range [1, %d]", what, w, max)
	}
	return nil
}

// RegisterAttrs configures a register.
//
type RegisterAttrs struct {
	Width        int            `mapstructure:"width"`
	Trigger      seqsim.Trigger `mapstructure:"trigger"`
	StartUnknown bool           `mapstructure:"start_unknown"`
}

// Validate implements Attrs.
//
func (a *RegisterAttrs) Validate() error {
	if err := validWidth("width", a.Width, seqsim.MaxWidth); err != nil {
		return err
	}
	return validTrigger(a.Trigger)
}

// CounterAttrs configures a counter. A zero Max counts up to the largest
// value that fits in Width bits.
//
type CounterAttrs struct {
	Width   int            `mapstructure:"width"`
	Max     uint64         `mapstructure:"max"`
	OnGoal  OnGoal         `mapstructure:"on_goal"`
	Trigger seqsim.Trigger `mapstructure:"trigger"`
}

// Validate implements Attrs.
//
func (a *CounterAttrs) Validate() error {
	if err := validWidth("width", a.Width, seqsim.MaxWidth); err != nil {
		return err
	}
	if a.OnGoal > Continue {
		return errors.Errorf("invalid goal policy %d", a.OnGoal)
	}
	return validTrigger(a.Trigger)
}

func (a *CounterAttrs) max() uint64 {
	m := seqsim.Mask(a.Width)
	if a.Max == 0 {
		return m
	}
	return a.Max & m
}

// MaxShiftLength is the maximum number of stages of a shift register.
//
const MaxShiftLength = 32

// ShiftRegisterAttrs configures a shift register.
//
type ShiftRegisterAttrs struct {
	Width    int            `mapstructure:"width"`
	Length   int            `mapstructure:"length"`
	Parallel bool           `mapstructure:"parallel"`
	Trigger  seqsim.Trigger `mapstructure:"trigger"`
}

// Validate implements Attrs.
//
func (a *ShiftRegisterAttrs) Validate() error {
	if err := validWidth("width", a.Width, seqsim.MaxWidth); err != nil {
		return err
	}
	if err := validWidth("length", a.Length, MaxShiftLength); err != nil {
		return err
	}
	return validTrigger(a.Trigger)
}

// MaxRandomWidth is the widest output of a random generator.
//
const MaxRandomWidth = 32

// RandomAttrs configures a random generator. A zero Seed seeds the generator
// from the current time.
//
type RandomAttrs struct {
	Width   int            `mapstructure:"width"`
	Seed    uint64         `mapstructure:"seed"`
	Trigger seqsim.Trigger `mapstructure:"trigger"`
}

// Validate implements Attrs.
//
func (a *RandomAttrs) Validate() error {
	if err := validWidth("width", a.Width, MaxRandomWidth); err != nil {
		return err
	}
	return validTrigger(a.Trigger)
}

// MemAttrs configures a RAM.
//
type MemAttrs struct {
	AddrBits int            `mapstructure:"addr_bits"`
	DataBits int            `mapstructure:"data_bits"`
	Trigger  seqsim.Trigger `mapstructure:"trigger"`
	// Enables selects byte or line enables.
	Enables EnablePolicy `mapstructure:"enables"`
	// Lines is the number of data lines with line enables: 1, 2, 4 or 8.
	Lines int `mapstructure:"lines"`
	// ByteEnables adds one enable pin per byte lane for words wider than
	// 8 bits, with byte enables.
	ByteEnables     bool      `mapstructure:"byte_enables"`
	AsyncRead       bool      `mapstructure:"async_read"`
	ReadOrder       ReadOrder `mapstructure:"read_order"`
	ClearPin        bool      `mapstructure:"clear_pin"`
	AllowMisaligned bool      `mapstructure:"allow_misaligned"`
	// Separate selects separate data in and out pins. Otherwise the data
	// pins are a shared bidirectional bus.
	Separate     bool   `mapstructure:"separate"`
	StartUnknown bool   `mapstructure:"start_unknown"`
	Seed         uint64 `mapstructure:"seed"`
}

// Validate implements Attrs.
//
func (a *MemAttrs) Validate() error {
	if err := validWidth("address bits", a.AddrBits, 32); err != nil {
		return err
	}
	if err := validWidth("data bits", a.DataBits, seqsim.MaxWidth); err != nil {
		return err
	}
	if a.Enables > LineEnables {
		return errors.Errorf("invalid enable policy %d", a.Enables)
	}
	if a.Enables == LineEnables {
		switch a.Lines {
		case 1, 2, 4, 8:
		default:
			return errors.Errorf("invalid line count %d", a.Lines)
		}
	}
	if a.ReadOrder > WriteAfterRead {
		return errors.Errorf("invalid read order %d", a.ReadOrder)
	}
	return validTrigger(a.Trigger)
}

// lines returns the number of data lines.
//
func (a *MemAttrs) lines() int {
	if a.Enables != LineEnables || a.Lines < 1 {
		return 1
	}
	return a.Lines
}

// lanes returns the number of byte enable pins.
//
func (a *MemAttrs) lanes() int {
	if a.Enables != ByteEnables || !a.ByteEnables {
		return 0
	}
	return ByteLanes(a.DataBits)
}

// ROMAttrs configures a ROM.
//
type ROMAttrs struct {
	AddrBits int `mapstructure:"addr_bits"`
	DataBits int `mapstructure:"data_bits"`
}

// Validate implements Attrs.
//
func (a *ROMAttrs) Validate() error {
	if err := validWidth("address bits", a.AddrBits, 32); err != nil {
		return err
	}
	return validWidth("data bits", a.DataBits, seqsim.MaxWidth)
}

// Attrs is implemented by all attribute structs.
//
type Attrs interface {
	Validate() error
}

// DefaultAttrs returns the default attributes for the given kind.
//
func DefaultAttrs(k seqsim.Kind) Attrs {
	switch k {
	case seqsim.KindFlipFlop:
		return &FlipFlopAttrs{Type: D}
	case seqsim.KindRegister:
		return &RegisterAttrs{Width: 8}
	case seqsim.KindCounter:
		return &CounterAttrs{Width: 8}
	case seqsim.KindShiftRegister:
		return &ShiftRegisterAttrs{Width: 1, Length: 8}
	case seqsim.KindRandom:
		return &RandomAttrs{Width: 8}
	case seqsim.KindRAM:
		return &MemAttrs{AddrBits: 8, DataBits: 8, Lines: 1, Separate: true}
	case seqsim.KindROM:
		return &ROMAttrs{AddrBits: 8, DataBits: 8}
	}
	return nil
}
