// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/seqsim"
)

// ShiftRegister is the state of a shift register. Stage 0 holds the newest
// word, the last stage the oldest.
//
type ShiftRegister struct {
	seqsim.Seq
	Width    int
	Parallel bool
	Stages   []seqsim.Value
}

// ShiftRegisterInputs holds the input pin values of a shift register.
// Control.Reset is the clear pin. D holds the parallel inputs, one per stage.
//
type ShiftRegisterInputs struct {
	seqsim.Control
	In    seqsim.Value
	Shift seqsim.Value
	Load  seqsim.Value
	D     []seqsim.Value
}

// ShiftRegisterOutputs holds the values driven by a shift register. Taps is
// nil unless the register has parallel outputs.
//
type ShiftRegisterOutputs struct {
	Out   seqsim.Value
	Taps  []seqsim.Value
	Delay uint
}

// NewShiftRegister returns a new shift register state with all stages at 0.
//
func NewShiftRegister(a ShiftRegisterAttrs) *ShiftRegister {
	r := &ShiftRegister{
		Seq:      seqsim.Seq{Kind: seqsim.KindShiftRegister, Trigger: a.Trigger},
		Width:    a.Width,
		Parallel: a.Parallel,
		Stages:   make([]seqsim.Value, a.Length),
	}
	r.clear()
	return r
}

func (r *ShiftRegister) clear() {
	for i := range r.Stages {
		r.Stages[i] = seqsim.Known(r.Width, 0)
	}
}

// Update evaluates the shift register.
//
func (r *ShiftRegister) Update(in ShiftRegisterInputs) ShiftRegisterOutputs {
	ctl := seqsim.Control{Clock: in.Clock, Reset: in.Reset}
	r.Seq.Update(ctl, seqsim.Rule{
		Reset: r.clear,
		Next: func() {
			switch {
			case r.Parallel && in.Load.IsTrue():
				for i := range r.Stages {
					var d seqsim.Value
					if i < len(in.D) {
						d = in.D[i]
					}
					r.Stages[i] = word(d, r.Width)
				}
			case !in.Shift.IsFalse():
				copy(r.Stages[1:], r.Stages)
				r.Stages[0] = word(in.In, r.Width)
			}
		},
	})
	out := ShiftRegisterOutputs{Out: r.Stages[len(r.Stages)-1], Delay: ShiftRegisterDelay}
	if r.Parallel {
		out.Taps = append([]seqsim.Value(nil), r.Stages...)
	}
	return out
}

// ShiftRegisterPart returns a shift register part.
//
//	Inputs: in, shift, clk, clr; load, d[Length] when parallel
//	Outputs: out; q[Length] when parallel
//
func ShiftRegisterPart(a ShiftRegisterAttrs, opts ...PartOption) seqsim.NewPartFn {
	cfg := newPartConfig(opts)
	ins := []string{"in", "shift", pClk, pClr}
	outs := []string{"out"}
	var dn, qn []string
	if a.Parallel {
		dn, qn = names(pD, a.Length), names(pQ, a.Length)
		ins = ioNames(ins, []string{pLoad}, dn)
		outs = ioNames(outs, qn)
	}
	return (&seqsim.PartSpec{
		Name:    "ShiftRegister" + strconv.Itoa(a.Length),
		Inputs:  ins,
		Outputs: outs,
		Mount: func(s *seqsim.Socket) []seqsim.Component {
			in, sh, clk, clr, out := s.Pin("in"), s.Pin("shift"), s.Pin(pClk), s.Pin(pClr), s.Pin("out")
			ld := -1
			if a.Parallel {
				ld = s.Pin(pLoad)
			}
			dp, qp := busPins(s, pD, len(dn)), busPins(s, pQ, len(qn))
			var r *ShiftRegister
			return []seqsim.Component{
				func(c *seqsim.Circuit) {
					if r == nil {
						r = NewShiftRegister(a)
						cfg.created(r)
					}
					si := ShiftRegisterInputs{
						Control: seqsim.Control{Clock: c.Get(clk), Reset: c.Get(clr)},
						In:      c.Get(in),
						Shift:   c.Get(sh),
					}
					if ld >= 0 {
						si.Load = c.Get(ld)
						si.D = c.Values(dp)
					}
					o := r.Update(si)
					c.Set(out, o.Out, o.Delay)
					setAll(c, qp, o.Taps, o.Delay)
				}}
		}}).NewPart
}
