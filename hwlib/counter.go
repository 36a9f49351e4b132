// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/seqsim"
)

// Counter is the state of an up/down counter.
//
type Counter struct {
	seqsim.Seq
	Width  int
	Max    uint64
	OnGoal OnGoal
	Q      seqsim.Value
}

// CounterInputs holds the input pin values of a counter. Control.Reset is
// the clear pin and Control.Enable the count enable. UpDown counts up
// unless it is definitely false.
//
type CounterInputs struct {
	seqsim.Control
	Data   seqsim.Value
	Load   seqsim.Value
	UpDown seqsim.Value
}

// CounterOutputs holds the values driven by a counter.
//
type CounterOutputs struct {
	Q     seqsim.Value
	Carry seqsim.Value
	Delay uint
}

// NewCounter returns a new counter state, starting at 0.
//
func NewCounter(a CounterAttrs) *Counter {
	return &Counter{
		Seq:    seqsim.Seq{Kind: seqsim.KindCounter, Trigger: a.Trigger},
		Width:  a.Width,
		Max:    a.max(),
		OnGoal: a.OnGoal,
		Q:      seqsim.Known(a.Width, 0),
	}
}

// Update evaluates the counter.
//
// Carry is asserted while the value driven on the output equals the goal
// for the current direction: Max when counting up, 0 when counting down.
//
func (n *Counter) Update(in CounterInputs) CounterOutputs {
	up := !in.UpDown.IsFalse()
	en := !in.Enable.IsFalse()
	ctl := seqsim.Control{Clock: in.Clock, Reset: in.Reset}
	ev := n.Seq.Update(ctl, seqsim.Rule{
		Reset: func() { n.Q = seqsim.Known(n.Width, 0) },
		Next:  func() { n.Q = n.next(in, up, en) },
	})
	carry := seqsim.False
	if v, ok := n.Q.Uint64(); ok && ev != seqsim.EventReset && v == n.goal(up) {
		carry = seqsim.True
	}
	return CounterOutputs{Q: n.Q, Carry: carry, Delay: CounterDelay}
}

func (n *Counter) goal(up bool) uint64 {
	if up {
		return n.Max
	}
	return 0
}

func (n *Counter) load(d seqsim.Value) seqsim.Value {
	v, _ := d.Uint64()
	if v > n.Max {
		v &= n.Max
	}
	return seqsim.Known(n.Width, v)
}

func (n *Counter) next(in CounterInputs, up, en bool) seqsim.Value {
	if in.Load.IsTrue() {
		return n.load(in.Data)
	}
	cur, ok := n.Q.Uint64()
	if !ok {
		return seqsim.Error(n.Width)
	}
	if !en {
		return n.Q
	}
	step := func() seqsim.Value {
		if up {
			return seqsim.Known(n.Width, cur+1)
		}
		return seqsim.Known(n.Width, cur-1)
	}
	if cur != n.goal(up) {
		return step()
	}
	switch n.OnGoal {
	case Wrap:
		if up {
			return seqsim.Known(n.Width, 0)
		}
		return seqsim.Known(n.Width, n.Max)
	case Stay:
		return n.Q
	case Load:
		return n.load(in.Data)
	}
	return step()
}

// CounterPart returns a counter part.
//
//	Inputs: d, clk, en, clr, load, updown
//	Outputs: q, carry
//
func CounterPart(a CounterAttrs, opts ...PartOption) seqsim.NewPartFn {
	cfg := newPartConfig(opts)
	return (&seqsim.PartSpec{
		Name:    "Counter" + strconv.Itoa(a.Width),
		Inputs:  []string{pD, pClk, pEn, pClr, pLoad, "updown"},
		Outputs: []string{pQ, "carry"},
		Mount: func(s *seqsim.Socket) []seqsim.Component {
			d, clk, en, clr, ld, ud := s.Pin(pD), s.Pin(pClk), s.Pin(pEn), s.Pin(pClr), s.Pin(pLoad), s.Pin("updown")
			q, carry := s.Pin(pQ), s.Pin("carry")
			var n *Counter
			return []seqsim.Component{
				func(c *seqsim.Circuit) {
					if n == nil {
						n = NewCounter(a)
						cfg.created(n)
					}
					out := n.Update(CounterInputs{
						Control: seqsim.Control{Clock: c.Get(clk), Reset: c.Get(clr), Enable: c.Get(en)},
						Data:    c.Get(d),
						Load:    c.Get(ld),
						UpDown:  c.Get(ud),
					})
					c.Set(q, out.Q, out.Delay)
					c.Set(carry, out.Carry, out.Delay)
				}}
		}}).NewPart
}
