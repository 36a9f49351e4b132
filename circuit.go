// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package seqsim

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// A Component is a component in a circuit that can Get and Set pin values.
//
type Component func(c *Circuit)

type drive struct {
	pin int
	v   Value
}

// Circuit is a runnable circuit simulation.
//
// Components read the wire values of the current step and schedule new
// values with a delay of one or more steps. Since nothing a component does
// is visible before the next step, the evaluation order of components does
// not matter and they may be updated concurrently.
//
type Circuit struct {
	wires   []Value // wire values at the current step
	count   int     // wire count
	names   map[string]int
	pending map[uint][]drive // scheduled drives by step
	mu      sync.Mutex       // guards pending
	cs      []Component
	tpc     uint // ticks per clock cycle
	tick    uint
	changes int

	log logrus.FieldLogger

	wc []chan struct{}
	wg sync.WaitGroup
}

// An Option configures a Circuit.
//
type Option func(c *Circuit)

// WithLogger sets the logger used by the circuit. The default is the logrus
// standard logger.
//
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Circuit) { c.log = l }
}

// NewCircuit builds a new circuit based on the given parts.
//
// workers is the number of goroutines used to update the state of the Circuit
// each step of the simulation. If less or equal to 0, the value of GOMAXPROCS
// will be used.
//
// stepsPerCycle indicates how many simulation steps to run per clock cycle
// (the Clk signal, not wall clock). It is rounded up to a power of two, and
// should be more than twice the largest part delay so that outputs settle
// within half a clock cycle.
//
// Callers must make sure to call Dispose() once the circuit is no longer needed
// in order to release allocated resources.
//
func NewCircuit(workers int, stepsPerCycle uint, parts Parts, opts ...Option) (*Circuit, error) {
	if len(parts) == 0 {
		return nil, errors.New("empty part list")
	}

	if stepsPerCycle < 2 {
		stepsPerCycle = 2
	}
	stepsPerCycle--
	stepsPerCycle |= stepsPerCycle >> 1
	stepsPerCycle |= stepsPerCycle >> 2
	stepsPerCycle |= stepsPerCycle >> 4
	stepsPerCycle |= stepsPerCycle >> 8
	stepsPerCycle |= stepsPerCycle >> 16
	stepsPerCycle |= stepsPerCycle >> 32
	stepsPerCycle++

	// new circuit with room for constant value pins.
	cc := &Circuit{
		count:   cstCount,
		tpc:     stepsPerCycle,
		pending: make(map[uint][]drive),
		log:     logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(cc)
	}

	root := newSocket(cc)
	var ups []Component
	for _, p := range parts {
		sub, err := root.mountSocket(p)
		if err != nil {
			return nil, errors.Wrapf(err, "mount %s", p.Name)
		}
		ups = append(ups, p.Mount(sub)...)
	}
	cc.cs = ups
	cc.names = root.m
	cc.wires = make([]Value, cc.count)
	// init constant pins
	cc.wires[cstFalse] = False
	cc.wires[cstTrue] = True
	cc.wires[cstClk] = True
	cc.wires[cstNil] = Nil

	// workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(-1)
	}
	if workers <= 0 {
		workers = 1
	}
	for len(ups) > 0 {
		size := len(ups) / workers
		if size*workers < len(ups) {
			size++
		}
		wc := make(chan struct{}, 1)
		cc.wc = append(cc.wc, wc)
		go worker(cc, ups[:size], wc)
		ups = ups[size:]
	}

	cc.log.WithFields(logrus.Fields{
		"parts":      len(parts),
		"components": len(cc.cs),
		"wires":      cc.count,
		"workers":    len(cc.wc),
		"tpc":        cc.tpc,
	}).Debug("circuit ready")

	return cc, nil
}

func (c *Circuit) updClock() {
	tick := c.tick
	if tick&(c.tpc-1) == 0 {
		c.wires[cstClk] = True
	} else if tick&(c.tpc/2-1) == 0 {
		c.wires[cstClk] = False
	}
}

// Dispose releases all resources allocated for a circuit and stops
// worker goroutines.
//
func (c *Circuit) Dispose() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		close(wc)
	}
	c.wg.Wait()
	c.wc = nil
}

func worker(c *Circuit, cs []Component, wc <-chan struct{}) {
	for {
		_, ok := <-wc
		if !ok {
			c.wg.Done()
			return
		}
		for _, f := range cs {
			f(c)
		}
		c.wg.Done()
	}
}

// allocPin allocates a pin and returns its number.
//
func (c *Circuit) allocPin() int {
	cnt := c.count
	c.count++
	return cnt
}

// Steps returns the value of the step counter.
//
func (c *Circuit) Steps() uint {
	return c.tick
}

// SPC returns the stepsPerCycle value.
//
func (c *Circuit) SPC() uint {
	return c.tpc
}

// Size returns the component count in the circuit.
//
func (c *Circuit) Size() int { return len(c.cs) }

// Changes returns the number of wires whose value changed during the last
// step. Drives that repeat the current value of a wire are not counted.
//
func (c *Circuit) Changes() int { return c.changes }

// Get returns the value of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Get(n int) Value {
	return c.wires[n]
}

// Set drives pin n with value v, delay steps from now. A delay of 0 is
// treated as 1. The value of n should be obtained in a MountFn by a call to
// one of the Socket methods.
//
func (c *Circuit) Set(n int, v Value, delay uint) {
	if delay == 0 {
		delay = 1
	}
	t := c.tick + delay
	c.mu.Lock()
	c.pending[t] = append(c.pending[t], drive{n, v})
	c.mu.Unlock()
}

// Wire returns the value of the named circuit wire.
//
func (c *Circuit) Wire(name string) (Value, bool) {
	n, ok := c.names[name]
	if !ok {
		return Nil, false
	}
	return c.wires[n], true
}

// Step advances the simulation by one step.
//
func (c *Circuit) Step() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		wc <- struct{}{}
	}
	c.wg.Wait()

	c.tick++
	c.apply(c.pending[c.tick])
	delete(c.pending, c.tick)
	c.updClock()
}

// apply commits the drives landing on the current step. Different values
// driven onto the same wire in the same step combine into an error.
//
func (c *Circuit) apply(ds []drive) {
	c.changes = 0
	if len(ds) == 0 {
		return
	}
	landed := make(map[int]Value, len(ds))
	for _, d := range ds {
		if d.pin < cstCount {
			continue
		}
		if v, ok := landed[d.pin]; ok {
			nv := v.Combine(d.v)
			if nv.IsError() && !v.IsError() {
				c.log.WithFields(logrus.Fields{"wire": d.pin, "a": v, "b": d.v, "step": c.tick}).Debug("bus conflict")
			}
			landed[d.pin] = nv
			continue
		}
		landed[d.pin] = d.v
	}
	for n, v := range landed {
		if c.wires[n] != v {
			c.wires[n] = v
			c.changes++
		}
	}
}

// Tick runs the simulation until the beginning of the next half clock cycle.
//
func (c *Circuit) Tick() {
	for c.Get(cstClk).IsTrue() {
		c.Step()
	}
}

// Tock runs the simulation until the beginning of the next clock cycle.
//
func (c *Circuit) Tock() {
	for !c.Get(cstClk).IsTrue() {
		c.Step()
	}
}

// TickTock runs the simulation for a whole clock cycle.
//
func (c *Circuit) TickTock() {
	c.Tick()
	c.Tock()
}

// TockTick runs the simulation from the low half of a clock cycle, through
// the rising edge, to the low half of the next cycle. Once it returns, parts
// triggered by the rising edge have had half a cycle to drive their outputs.
//
func (c *Circuit) TockTick() {
	c.Tock()
	c.Tick()
}
