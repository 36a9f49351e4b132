// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strings"

	"github.com/db47h/seqsim"
)

// FlipFlop is the state of a 1 bit flip-flop or latch.
//
type FlipFlop struct {
	seqsim.Seq
	Type FlipFlopType
	Q    seqsim.Value
}

// FlipFlopInputs holds the input pin values of a flip-flop. A holds the
// first data input (D, T, J or S), B the second (K or R).
//
type FlipFlopInputs struct {
	seqsim.Control
	A, B seqsim.Value
}

// FlipFlopOutputs holds the values driven by a flip-flop.
//
type FlipFlopOutputs struct {
	Q, NotQ seqsim.Value
	Delay   uint
}

// NewFlipFlop returns a new flip-flop state.
//
func NewFlipFlop(a FlipFlopAttrs) *FlipFlop {
	q := seqsim.False
	if a.StartUnknown {
		q = seqsim.Unknown(1)
	}
	return &FlipFlop{
		Seq:  seqsim.Seq{Kind: seqsim.KindFlipFlop, Trigger: a.Trigger},
		Type: a.Type,
		Q:    q,
	}
}

// Update evaluates the flip-flop.
//
func (f *FlipFlop) Update(in FlipFlopInputs) FlipFlopOutputs {
	f.Seq.Update(in.Control, seqsim.Rule{
		Reset:  func() { f.Q = seqsim.False },
		Preset: func() { f.Q = seqsim.True },
		Next:   func() { f.Q = f.next(in.A, in.B) },
	})
	return FlipFlopOutputs{Q: f.Q, NotQ: f.Q.Not(), Delay: FlipFlopDelay}
}

// undefined returns Error if any of vs has error bits, Unknown if any is not
// fully defined.
//
func undefined(vs ...seqsim.Value) (seqsim.Value, bool) {
	for _, v := range vs {
		if v.IsError() {
			return seqsim.Error(1), true
		}
	}
	for _, v := range vs {
		if !v.IsFullyDefined() {
			return seqsim.Unknown(1), true
		}
	}
	return seqsim.Nil, false
}

func (f *FlipFlop) next(a, b seqsim.Value) seqsim.Value {
	ins := []seqsim.Value{a, b}
	if f.Type == D || f.Type == T {
		ins = ins[:1]
	}
	if u, ok := undefined(ins...); ok {
		return u
	}
	switch f.Type {
	case D:
		return a
	case T:
		if a.IsTrue() {
			return f.Q.Not()
		}
		return f.Q
	case JK:
		switch {
		case a.IsTrue() && b.IsTrue():
			return f.Q.Not()
		case a.IsTrue():
			return seqsim.True
		case b.IsTrue():
			return seqsim.False
		}
		return f.Q
	case SR:
		switch {
		case a.IsTrue() && b.IsTrue():
			return seqsim.Error(1)
		case a.IsTrue():
			return seqsim.True
		case b.IsTrue():
			return seqsim.False
		}
		return f.Q
	}
	return seqsim.Error(1)
}

// FlipFlopPart returns a flip-flop part.
//
//	Inputs: d | t | j, k | s, r; clk, en, reset, preset
//	Outputs: q, nq
//
// Data inputs wider than 1 bit only use their bit 0.
//
func FlipFlopPart(a FlipFlopAttrs, opts ...PartOption) seqsim.NewPartFn {
	cfg := newPartConfig(opts)
	data := a.Type.inputs()
	return (&seqsim.PartSpec{
		Name:    strings.ToUpper(a.Type.String()) + "FlipFlop",
		Inputs:  ioNames(data, []string{pClk, pEn, pReset, pPreset}),
		Outputs: []string{pQ, "nq"},
		Mount: func(s *seqsim.Socket) []seqsim.Component {
			dp := pins(s, data)
			clk, en, rst, pre := s.Pin(pClk), s.Pin(pEn), s.Pin(pReset), s.Pin(pPreset)
			q, nq := s.Pin(pQ), s.Pin("nq")
			var ff *FlipFlop
			return []seqsim.Component{
				func(c *seqsim.Circuit) {
					if ff == nil {
						ff = NewFlipFlop(a)
						cfg.created(ff)
					}
					in := FlipFlopInputs{
						Control: seqsim.Control{Clock: c.Get(clk), Reset: c.Get(rst), Preset: c.Get(pre), Enable: c.Get(en)},
						A:       bit0(c.Get(dp[0])),
					}
					if len(dp) > 1 {
						in.B = bit0(c.Get(dp[1]))
					}
					out := ff.Update(in)
					c.Set(q, out.Q, out.Delay)
					c.Set(nq, out.NotQ, out.Delay)
				}}
		}}).NewPart
}

func bit0(v seqsim.Value) seqsim.Value {
	if v.Width() <= 1 {
		return v
	}
	return v.Bit(0)
}

// DFlipFlop returns a D flip-flop part with the given trigger.
//
func DFlipFlop(t seqsim.Trigger) seqsim.NewPartFn {
	return FlipFlopPart(FlipFlopAttrs{Type: D, Trigger: t})
}

// JKFlipFlop returns a JK flip-flop part with the given trigger.
//
func JKFlipFlop(t seqsim.Trigger) seqsim.NewPartFn {
	return FlipFlopPart(FlipFlopAttrs{Type: JK, Trigger: t})
}
