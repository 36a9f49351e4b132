// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package config

import (
	"os"
	"sort"
	"sync"

	"github.com/db47h/seqsim"
	"github.com/db47h/seqsim/hwlib"
	"github.com/db47h/seqsim/mem"
	"github.com/pkg/errors"
)

// startUnknownKinds lists the kinds with a start_unknown attribute.
//
var startUnknownKinds = map[seqsim.Kind]bool{
	seqsim.KindFlipFlop: true,
	seqsim.KindRegister: true,
	seqsim.KindRAM:      true,
}

// Sim is a circuit built from a description, ready to run.
//
type Sim struct {
	Circuit *seqsim.Circuit
	Probes  []string

	cycle int

	mu     sync.Mutex
	states map[string]any
}

type stimulus struct {
	wire string
	vs   []seqsim.Value
}

func (s *stimulus) at(cycle int) seqsim.Value {
	if len(s.vs) == 0 {
		return seqsim.Nil
	}
	return s.vs[min(cycle, len(s.vs)-1)]
}

// Build mounts the described components in a new circuit.
//
func (f *File) Build(opts ...seqsim.Option) (*Sim, error) {
	sim := &Sim{states: make(map[string]any)}
	var parts seqsim.Parts
	seen := make(map[string]bool)
	for i := range f.Components {
		cp := &f.Components[i]
		if cp.Name == "" {
			return nil, errors.Errorf("component %d: missing name", i)
		}
		if seen[cp.Name] {
			return nil, errors.Errorf("duplicate component name %q", cp.Name)
		}
		seen[cp.Name] = true
		p, err := f.part(sim, cp)
		if err != nil {
			return nil, errors.Wrapf(err, "component %s", cp.Name)
		}
		parts = append(parts, p)
	}
	for i := range f.Inputs {
		in := &f.Inputs[i]
		st := &stimulus{wire: in.Wire}
		w := in.Width
		if w == 0 {
			w = 1
		}
		for _, s := range in.Values {
			v, err := seqsim.ParseValue(w, s)
			if err != nil {
				return nil, errors.Wrapf(err, "input %s", in.Wire)
			}
			st.vs = append(st.vs, v)
		}
		p, err := seqsim.Input(func() seqsim.Value { return st.at(sim.cycle) })("").Wire("out=" + in.Wire)
		if err != nil {
			return nil, errors.Wrapf(err, "input %s", in.Wire)
		}
		parts = append(parts, p)
	}

	c, err := seqsim.NewCircuit(f.Workers, f.StepsPerCycle, parts, opts...)
	if err != nil {
		return nil, err
	}
	for _, p := range f.Probes {
		if _, ok := c.Wire(p); !ok {
			c.Dispose()
			return nil, errors.Errorf("probe: no such wire %q", p)
		}
	}
	sim.Circuit = c
	sim.Probes = f.Probes
	return sim, nil
}

func (f *File) part(sim *Sim, cp *Component) (seqsim.Part, error) {
	k, err := seqsim.ParseKind(cp.Kind)
	if err != nil {
		return seqsim.Part{}, err
	}
	raw := make(map[string]any, len(cp.Attrs)+1)
	for key, v := range cp.Attrs {
		raw[key] = v
	}
	if _, ok := raw["start_unknown"]; !ok && f.StartUnknown && startUnknownKinds[k] {
		raw["start_unknown"] = true
	}
	a, err := hwlib.DecodeAttrs(k, raw)
	if err != nil {
		return seqsim.Part{}, err
	}
	var contents *mem.Store
	if cp.Image != "" {
		addrBits, dataBits, ok := hwlib.MemGeometry(a)
		if !ok {
			return seqsim.Part{}, errors.Errorf("%v components have no contents", k)
		}
		if contents, err = f.loadImage(cp.Image, addrBits, dataBits); err != nil {
			return seqsim.Part{}, err
		}
	}
	name := cp.Name
	fn, err := hwlib.PartFor(a, contents, hwlib.OnCreate(func(state any) { sim.record(name, state) }))
	if err != nil {
		return seqsim.Part{}, err
	}
	return fn("").Wire(cp.Pins)
}

func (f *File) loadImage(name string, addrBits, dataBits int) (*mem.Store, error) {
	r, err := os.Open(f.path(name))
	if err != nil {
		return nil, errors.Wrap(err, "image")
	}
	defer r.Close()
	s := mem.New(addrBits, dataBits)
	if err = mem.ReadImage(r, s); err != nil {
		return nil, errors.Wrap(err, name)
	}
	return s, nil
}

func (s *Sim) record(name string, state any) {
	s.mu.Lock()
	s.states[name] = state
	s.mu.Unlock()
}

// Cycle returns the number of clock cycles run so far.
//
func (s *Sim) Cycle() int { return s.cycle }

// Run runs the given number of clock cycles. Each cycle drives the stimulus
// for that cycle, runs through the rising clock edge to the low half of the
// next cycle and calls f, if not nil, with the values of the probed wires.
//
func (s *Sim) Run(cycles int, f func(cycle int, probes []seqsim.Value)) {
	if s.Circuit.Steps() == 0 {
		s.Circuit.Tick()
	}
	for i := 0; i < cycles; i++ {
		s.Circuit.TockTick()
		if f != nil {
			f(s.cycle, s.sample())
		}
		s.cycle++
	}
}

func (s *Sim) sample() []seqsim.Value {
	vs := make([]seqsim.Value, len(s.Probes))
	for i, p := range s.Probes {
		vs[i], _ = s.Circuit.Wire(p)
	}
	return vs
}

// States returns the state of each component created so far, by component
// name. States are created on the first evaluation of a component and must
// not be accessed while the circuit runs.
//
func (s *Sim) States() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := make(map[string]any, len(s.states))
	for k, v := range s.states {
		m[k] = v
	}
	return m
}

// Stores returns the memory stores of RAM and ROM components.
//
func (s *Sim) Stores() map[string]*mem.Store {
	m := make(map[string]*mem.Store)
	for n, st := range s.States() {
		switch st := st.(type) {
		case *hwlib.RAM:
			m[n] = st.Store
		case *hwlib.ROM:
			m[n] = st.Store
		}
	}
	return m
}

// Names returns the sorted names of the components created so far.
//
func (s *Sim) Names() []string {
	st := s.States()
	ns := make([]string, 0, len(st))
	for n := range st {
		ns = append(ns, n)
	}
	sort.Strings(ns)
	return ns
}

// Close releases the resources held by the circuit.
//
func (s *Sim) Close() { s.Circuit.Dispose() }
