// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import "github.com/db47h/seqsim"

// Common pin names.
//
const (
	pClk    = "clk"
	pEn     = "en"
	pClr    = "clr"
	pReset  = "reset"
	pPreset = "preset"
	pLoad   = "load"
	pQ      = "q"
	pD      = "d"
)

// A PartOption configures a part built by one of the part factories.
//
type PartOption func(*partConfig)

type partConfig struct {
	onCreate func(state any)
}

// OnCreate registers f to be called with the state of a part instance once
// it has been created, on the first evaluation of the part. The state is
// one of *FlipFlop, *Register, *Counter, *ShiftRegister, *Random, *RAM or
// *ROM.
//
func OnCreate(f func(state any)) PartOption {
	return func(c *partConfig) { c.onCreate = f }
}

func newPartConfig(opts []PartOption) *partConfig {
	c := new(partConfig)
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *partConfig) created(state any) {
	if c.onCreate != nil {
		c.onCreate(state)
	}
}

// names returns the pin names of an n pin bus. A single pin bus is named
// after the bus itself.
//
func names(name string, n int) []string {
	if n == 1 {
		return []string{name}
	}
	r := make([]string, n)
	for i := range r {
		r[i] = seqsim.BusPinName(name, i)
	}
	return r
}

// busPins returns the pin numbers of a bus named by names(name, n).
//
func busPins(s *seqsim.Socket, name string, n int) []int {
	switch n {
	case 0:
		return nil
	case 1:
		return []int{s.Pin(name)}
	}
	return s.Bus(name, n)
}

func pins(s *seqsim.Socket, names []string) []int {
	r := make([]int, len(names))
	for i, n := range names {
		r[i] = s.Pin(n)
	}
	return r
}

func ioNames(groups ...[]string) []string {
	var r []string
	for _, g := range groups {
		r = append(r, g...)
	}
	return r
}

// word returns the data input value v fitted to width. Unconnected inputs
// read as unknown.
//
func word(v seqsim.Value, width int) seqsim.Value {
	if v.IsNil() {
		return seqsim.Unknown(width)
	}
	return v.Resize(width)
}

func setAll(c *seqsim.Circuit, ps []int, vs []seqsim.Value, delay uint) {
	for i, p := range ps {
		c.Set(p, vs[i], delay)
	}
}
