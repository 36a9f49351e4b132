// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"
	"time"

	"github.com/db47h/seqsim"
)

// Linear congruential generator parameters.
//
const (
	lcgMul  = 0x5DEECE66D
	lcgAdd  = 0xB
	lcgMask = 1<<48 - 1
)

// Now returns the current time. Random generators seeded from the clock
// call it when (re)seeding.
//
var Now = time.Now

// Random is the state of a pseudo-random generator: a 48 bit linear
// congruential generator.
//
type Random struct {
	seqsim.Seq
	Width int
	Seed  uint64 // configured seed; 0 seeds from the clock

	init      uint64 // last seed
	reset     uint64 // seed captured on the last reset pulse
	cur       uint64
	value     uint64
	prevReset seqsim.Value
}

// RandomInputs holds the input pin values of a random generator.
// Control.Enable is the next pin, Control.Preset is ignored.
//
type RandomInputs struct {
	seqsim.Control
}

// NewRandom returns a new random generator state.
//
func NewRandom(a RandomAttrs) *Random {
	r := &Random{
		Seq:   seqsim.Seq{Kind: seqsim.KindRandom, Trigger: a.Trigger},
		Width: a.Width,
		Seed:  a.Seed,
	}
	r.seedWith(r.newSeed())
	r.reset = r.init
	return r
}

// newSeed returns the configured seed, or a seed derived from the clock.
//
func (r *Random) newSeed() uint64 {
	s := r.Seed & lcgMask
	if s == 0 {
		s = (uint64(Now().UnixMilli()) ^ lcgMul) & lcgMask
		if s == r.init {
			s = (s + lcgMul) & lcgMask
		}
	}
	return s
}

func (r *Random) seedWith(s uint64) {
	r.init = s
	r.cur = s
	r.value = s
}

// Step advances the generator.
//
func (r *Random) Step() {
	r.cur = (r.cur*lcgMul + lcgAdd) & lcgMask
	r.value = r.cur >> 12
}

// Value returns the current output value.
//
func (r *Random) Value() seqsim.Value {
	return seqsim.Known(r.Width, r.value)
}

// Update evaluates the generator and returns its output value and delay.
//
// A new reset seed is captured once per reset pulse, when the reset pin
// goes high. The generator is held at that seed while reset is high.
//
func (r *Random) Update(in RandomInputs) (seqsim.Value, uint) {
	if in.Reset.IsTrue() && !r.prevReset.IsTrue() {
		r.reset = r.newSeed()
	}
	r.prevReset = in.Reset
	in.Preset = seqsim.Nil
	r.Seq.Update(in.Control, seqsim.Rule{
		Reset: func() { r.seedWith(r.reset) },
		Next:  r.Step,
	})
	return r.Value(), RandomDelay
}

// RandomPart returns a random generator part.
//
//	Inputs: clk, next, reset
//	Outputs: q
//
func RandomPart(a RandomAttrs, opts ...PartOption) seqsim.NewPartFn {
	cfg := newPartConfig(opts)
	return (&seqsim.PartSpec{
		Name:    "Random" + strconv.Itoa(a.Width),
		Inputs:  []string{pClk, "next", pReset},
		Outputs: []string{pQ},
		Mount: func(s *seqsim.Socket) []seqsim.Component {
			clk, nxt, rst, q := s.Pin(pClk), s.Pin("next"), s.Pin(pReset), s.Pin(pQ)
			var r *Random
			return []seqsim.Component{
				func(c *seqsim.Circuit) {
					if r == nil {
						r = NewRandom(a)
						cfg.created(r)
					}
					v, delay := r.Update(RandomInputs{seqsim.Control{Clock: c.Get(clk), Reset: c.Get(rst), Enable: c.Get(nxt)}})
					c.Set(q, v, delay)
				}}
		}}).NewPart
}
