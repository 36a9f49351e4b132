// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package seqsim

// Input returns an input part that drives its "out" pin with the value
// returned by f. f is called once per simulation step and its result
// appears on the wire one step later.
//
func Input(f func() Value) NewPartFn {
	p := &PartSpec{
		Name:    "Input",
		Inputs:  nil,
		Outputs: []string{"out"},
		Mount: func(s *Socket) []Component {
			out := s.Pin("out")
			return []Component{func(c *Circuit) { c.Set(out, f(), 1) }}
		}}
	return p.NewPart
}

// Output returns an output part that calls f with the value of its "in" pin
// on every simulation step.
//
func Output(f func(v Value)) NewPartFn {
	p := &PartSpec{
		Name:    "Output",
		Inputs:  []string{"in"},
		Outputs: nil,
		Mount: func(s *Socket) []Component {
			in := s.Pin("in")
			return []Component{func(c *Circuit) { f(c.Get(in)) }}
		}}
	return p.NewPart
}

// Constant returns a part that constantly drives v on its "out" pin.
//
func Constant(v Value) NewPartFn {
	return Input(func() Value { return v })
}
