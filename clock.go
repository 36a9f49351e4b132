// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package seqsim

// ClockEdge detects clock triggers for a single part instance. It remembers
// the clock sample seen on the previous evaluation.
//
// The zero value is ready to use: no previous sample is known, so the first
// call can only report a level trigger.
//
type ClockEdge struct {
	prev Value
}

// Triggered records clk and reports whether it triggers a part configured
// with the given mode.
//
// Rising and Falling report true once per definite transition. High and Low
// report true on every call while the clock is at the active level. Unknown
// or error clocks never trigger, but are still recorded so that a later
// definite transition is measured against them.
//
func (c *ClockEdge) Triggered(clk Value, t Trigger) bool {
	prev := c.prev
	c.prev = clk
	switch t {
	case Rising:
		return prev.IsFalse() && clk.IsTrue()
	case Falling:
		return prev.IsTrue() && clk.IsFalse()
	case High:
		return clk.IsTrue()
	case Low:
		return clk.IsFalse()
	}
	return false
}

// Prev returns the last recorded clock sample.
//
func (c *ClockEdge) Prev() Value { return c.prev }

// Reset forgets the last clock sample.
//
func (c *ClockEdge) Reset() { c.prev = Nil }
