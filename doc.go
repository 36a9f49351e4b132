/*
Package seqsim provides the clocked state core of a digital logic simulator.

Pins carry multi-bit four state values (see Value): every bit is either a
definite 0 or 1, unknown or in error. Clocked parts detect their trigger
condition with a ClockEdge and run their state update through Seq.Update,
which applies the reset, preset and enable priority shared by all sequential
parts. The parts themselves live in the hwlib package, their backing memory
in the mem package.

A Circuit wires parts together and runs them. Each simulation step, every
component reads the current wire values and schedules output values a number
of steps in the future, which models propagation delay:

	var q seqsim.Value
	c, err := seqsim.NewCircuit(0, 32, seqsim.Parts{
		seqsim.Input(func() seqsim.Value { return d })("out=d"),
		hwlib.DFlipFlop(seqsim.Rising)("d=d, clk=clk, q=q"),
		seqsim.Output(func(v seqsim.Value) { q = v })("in=q"),
	})
	if err != nil {
		// handle error
	}
	defer c.Dispose()
	c.TickTock()

The constant pin "clk" is the circuit clock. It is high for the first half of
each cycle and low for the second half.

*/
package seqsim
