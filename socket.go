// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package seqsim

import (
	"github.com/pkg/errors"
)

// Constant input pin names.
//
const (
	GND = "false"
	VCC = "true"
	Clk = "clk"
	NC  = "nc" // not connected, always Nil
)

const (
	cstFalse = iota
	cstTrue
	cstClk
	cstNil
	cstCount
)

// A Socket maps a part's pin names to pin numbers in a circuit.
//
type Socket struct {
	m map[string]int
	c *Circuit
}

func newSocket(c *Circuit) *Socket {
	return &Socket{
		m: map[string]int{GND: cstFalse, VCC: cstTrue, Clk: cstClk, NC: cstNil},
		c: c,
	}
}

// mountSocket builds the socket for part p, allocating circuit wires as
// needed. Unconnected inputs read Nil, unconnected outputs get a private
// wire.
//
func (s *Socket) mountSocket(p Part) (*Socket, error) {
	sub := &Socket{m: make(map[string]int, len(p.Inputs)+len(p.Outputs)), c: s.c}
	outs := make(map[string]bool, len(p.Outputs))
	for _, in := range p.Inputs {
		sub.m[in] = cstNil
	}
	for _, o := range p.Outputs {
		sub.m[o] = -1
		outs[o] = true
	}
	for _, cn := range p.Conns {
		if _, ok := sub.m[cn.PP]; !ok {
			return nil, errors.New("invalid pin name " + cn.PP + " for part " + p.Name)
		}
		if outs[cn.PP] {
			switch cn.CP {
			case GND, VCC, Clk, NC:
				return nil, errors.New("output pin " + cn.PP + " connected to constant " + cn.CP)
			}
		}
		sub.m[cn.PP] = s.PinOrNew(cn.CP)
	}
	for o := range outs {
		if sub.m[o] < 0 {
			sub.m[o] = s.c.allocPin()
		}
	}
	return sub, nil
}

// Pin returns the pin number allocated to the given pin name.
// This function panics if the pin does not exist.
//
func (s *Socket) Pin(name string) int {
	n, ok := s.m[name]
	if !ok {
		panic("pin " + name + " does not exist")
	}
	return n
}

// PinOrNew returns the pin number allocated to the given pin name.
// If no such pin exists a new one is allocated.
//
func (s *Socket) PinOrNew(name string) int {
	n, ok := s.m[name]
	if !ok {
		n = s.c.allocPin()
		s.m[name] = n
	}
	return n
}

// Bus returns the pin numbers allocated to the bus pins name[0] to
// name[size-1].
// This function panics if any of the pins does not exist.
//
func (s *Socket) Bus(name string, size int) []int {
	out := make([]int, size)
	for i := range out {
		out[i] = s.Pin(BusPinName(name, i))
	}
	return out
}

// Values reads the values of the given pins.
//
func (c *Circuit) Values(pins []int) []Value {
	vs := make([]Value, len(pins))
	for i, p := range pins {
		vs[i] = c.wires[p]
	}
	return vs
}
