// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/seqsim"
)

// Register is the state of a multi-bit register.
//
type Register struct {
	seqsim.Seq
	Width int
	Q     seqsim.Value
}

// RegisterInputs holds the input pin values of a register. Control.Reset is
// the clear pin, Control.Preset is ignored.
//
type RegisterInputs struct {
	seqsim.Control
	Data seqsim.Value
}

// NewRegister returns a new register state.
//
func NewRegister(a RegisterAttrs) *Register {
	q := seqsim.Known(a.Width, 0)
	if a.StartUnknown {
		q = seqsim.Unknown(a.Width)
	}
	return &Register{
		Seq:   seqsim.Seq{Kind: seqsim.KindRegister, Trigger: a.Trigger},
		Width: a.Width,
		Q:     q,
	}
}

// Update evaluates the register and returns its output value and delay.
//
func (r *Register) Update(in RegisterInputs) (seqsim.Value, uint) {
	in.Preset = seqsim.Nil
	r.Seq.Update(in.Control, seqsim.Rule{
		Reset: func() { r.Q = seqsim.Known(r.Width, 0) },
		Next:  func() { r.Q = word(in.Data, r.Width) },
	})
	return r.Q, RegisterDelay
}

// RegisterPart returns a register part.
//
//	Inputs: d, clk, en, clr
//	Outputs: q
//
func RegisterPart(a RegisterAttrs, opts ...PartOption) seqsim.NewPartFn {
	cfg := newPartConfig(opts)
	return (&seqsim.PartSpec{
		Name:    "Register" + strconv.Itoa(a.Width),
		Inputs:  []string{pD, pClk, pEn, pClr},
		Outputs: []string{pQ},
		Mount: func(s *seqsim.Socket) []seqsim.Component {
			d, clk, en, clr, q := s.Pin(pD), s.Pin(pClk), s.Pin(pEn), s.Pin(pClr), s.Pin(pQ)
			var r *Register
			return []seqsim.Component{
				func(c *seqsim.Circuit) {
					if r == nil {
						r = NewRegister(a)
						cfg.created(r)
					}
					v, delay := r.Update(RegisterInputs{
						Control: seqsim.Control{Clock: c.Get(clk), Reset: c.Get(clr), Enable: c.Get(en)},
						Data:    c.Get(d),
					})
					c.Set(q, v, delay)
				}}
		}}).NewPart
}
