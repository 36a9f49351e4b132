// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing circuits.
//
package hwtest

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/db47h/seqsim"
)

// A Vector is one line of a test bench: the input values applied before a
// clock cycle and the output values expected once it has run. Inputs keep
// their value until changed by a later vector. Outputs not listed are not
// checked.
//
type Vector struct {
	In  map[string]seqsim.Value
	Out map[string]seqsim.Value
}

// Bench drives a single part with Input parts and records its outputs.
//
type Bench struct {
	c    *seqsim.Circuit
	spec *seqsim.PartSpec
	in   map[string]seqsim.Value
	out  map[string]*seqsim.Value
}

func connString(pins []string) string {
	var b strings.Builder
	for _, n := range pins {
		if b.Len() > 0 {
			b.WriteRune(',')
		}
		b.WriteString(n)
		b.WriteRune('=')
		b.WriteString(n)
	}
	return b.String()
}

// NewBench mounts part in a new circuit. Inputs listed in driven are driven
// by the bench, a "clk" input not listed there is wired to the circuit
// clock, all other inputs are left unconnected. Callers must call Close
// once done with the bench.
//
func NewBench(tpc uint, part seqsim.NewPartFn, driven ...string) (*Bench, error) {
	spec := part("").PartSpec
	b := &Bench{spec: spec, in: make(map[string]seqsim.Value), out: make(map[string]*seqsim.Value)}
	var parts seqsim.Parts
	var pins []string
	for _, n := range spec.Inputs {
		switch {
		case slices.Contains(driven, n):
			name := n
			parts = append(parts, seqsim.Input(func() seqsim.Value { return b.in[name] })("out="+n))
			pins = append(pins, n)
		case n == seqsim.Clk:
			pins = append(pins, n)
		}
	}
	for _, n := range spec.Outputs {
		v := new(seqsim.Value)
		b.out[n] = v
		parts = append(parts, seqsim.Output(func(x seqsim.Value) { *v = x })("in="+n))
		pins = append(pins, n)
	}
	p, err := spec.Wire(connString(pins))
	if err != nil {
		return nil, err
	}
	parts = append(parts, p)
	if b.c, err = seqsim.NewCircuit(0, tpc, parts); err != nil {
		return nil, err
	}
	return b, nil
}

// Circuit returns the underlying circuit.
//
func (b *Bench) Circuit() *seqsim.Circuit { return b.c }

// Set sets the value of a driven input. It takes effect on the next step.
//
func (b *Bench) Set(pin string, v seqsim.Value) { b.in[pin] = v }

// Get returns the last value seen on output pin.
//
func (b *Bench) Get(pin string) seqsim.Value {
	if v := b.out[pin]; v != nil {
		return *v
	}
	return seqsim.Nil
}

// Close disposes of the underlying circuit.
//
func (b *Bench) Close() { b.c.Dispose() }

func driven(vs []Vector) []string {
	var r []string
	for _, v := range vs {
		for n := range v.In {
			if !slices.Contains(r, n) {
				r = append(r, n)
			}
		}
	}
	return r
}

// Run runs part against the given vectors. It first moves the circuit to the
// low half of the first clock cycle, then for each vector, sets the inputs,
// runs through a rising clock edge to the low half of the next cycle and
// checks the outputs.
//
// tpc should be more than twice the largest part delay.
//
func Run(t testing.TB, tpc uint, part seqsim.NewPartFn, vs []Vector) {
	t.Helper()
	b, err := NewBench(tpc, part, driven(vs)...)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	b.c.Tick()
	for i, v := range vs {
		for n, x := range v.In {
			b.Set(n, x)
		}
		b.c.TockTick()
		for _, n := range sortedKeys(v.Out) {
			if got, ex := b.Get(n), v.Out[n]; !got.Equal(ex) {
				t.Errorf("%s vector %d: %s = %v, expected %v", b.spec.Name, i, n, got, ex)
			}
		}
	}
}

func sortedKeys(m map[string]seqsim.Value) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	slices.Sort(ks)
	return ks
}

// ComparePart takes two parts and compares their outputs given the same
// random inputs over a number of clock cycles. Both parts must have the same
// Input/Output interface. widths gives the width of input pins, pins not
// listed are 1 bit wide. A "clk" input is wired to the circuit clock.
//
func ComparePart(t testing.TB, tpc uint, widths map[string]int, part1, part2 seqsim.NewPartFn) {
	t.Helper()

	ps1, ps2 := part1("").PartSpec, part2("").PartSpec
	if !slices.Equal(ps1.Inputs, ps2.Inputs) {
		t.Fatalf("input mismatch: %v != %v", ps1.Inputs, ps2.Inputs)
	}
	if !slices.Equal(ps1.Outputs, ps2.Outputs) {
		t.Fatalf("output mismatch: %v != %v", ps1.Outputs, ps2.Outputs)
	}

	var ins []string
	for _, n := range ps1.Inputs {
		if n != seqsim.Clk {
			ins = append(ins, n)
		}
	}
	b1, err := NewBench(tpc, part1, ins...)
	if err != nil {
		t.Fatal(err)
	}
	defer b1.Close()
	b2, err := NewBench(tpc, part2, ins...)
	if err != nil {
		t.Fatal(err)
	}
	defer b2.Close()

	r := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	iter := 1 << min(len(ins), 10)
	start := time.Now()
	b1.c.Tick()
	b2.c.Tick()
	for i := 0; i < iter; i++ {
		for _, n := range ins {
			w, ok := widths[n]
			if !ok {
				w = 1
			}
			v := seqsim.Known(w, r.Uint64())
			b1.Set(n, v)
			b2.Set(n, v)
		}
		b1.c.TockTick()
		b2.c.TockTick()
		for _, o := range ps1.Outputs {
			if v1, v2 := b1.Get(o), b2.Get(o); !v1.Equal(v2) {
				t.Fatalf("cycle %d: %s: %v != %v", i, o, v1, v2)
			}
		}
	}

	elapsed := time.Since(start)
	ticks := b1.c.Steps() / tpc
	t.Logf("%d components. %d steps in %v. %d clock ticks => %.2f Hz", b1.c.Size(), b1.c.Steps(), elapsed, ticks, float64(ticks)/(float64(elapsed)/float64(time.Second)))
}
