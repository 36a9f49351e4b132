// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package seqsim

// A MountFn mounts a part into socket s. MountFn's should query
// the socket for assigned pin numbers and return closures around
// these pin numbers.
//
// For example, a D latch can be defined like this:
//
//	latch := &PartSpec{
//		Name: "Latch",
//		Inputs: IO("d, en"),
//		Outputs: IO("q"),
//		Mount: func (s *Socket) []Component {
//			d, en, q := s.Pin("d"), s.Pin("en"), s.Pin("q")
//			var st Value
//			return []Component{
//				func (c *Circuit) {
//					if c.Get(en).IsTrue() {
//						st = c.Get(d)
//					}
//					c.Set(q, st, 1)
//				},
//			}
//		}}
//
// State owned by the closures is created when the part is mounted and lives
// as long as the circuit.
//
type MountFn func(s *Socket) []Component

// A PartSpec wraps a part specification (its blueprint).
//
type PartSpec struct {
	// Part name.
	Name string
	// Input pin names. Must be distinct pin names.
	// Use the IO() function to expand an input description like
	// "a, b, bus[2]" to []string{"a", "b", "bus[0]", "bus[1]"}
	// See IO() for more details.
	Inputs []string
	// Output pin name. Must be distinct pin names.
	// Use the IO() function to expand an output description string.
	Outputs []string

	// Mount function (see MountFn).
	Mount MountFn
}

// NewPart is a NewPartFn that wraps p with the given connections into a Part.
// It panics if the connection string cannot be parsed. See Wire for a
// variant that returns an error.
//
func (p *PartSpec) NewPart(connections string) Part {
	part, err := p.Wire(connections)
	if err != nil {
		panic(err)
	}
	return part
}

// Wire wraps p with the given connections into a Part.
//
func (p *PartSpec) Wire(connections string) (Part, error) {
	ex, err := ParseConnections(connections)
	if err != nil {
		return Part{}, err
	}
	return Part{p, ex}, nil
}

// A NewPartFn is a function that takes a connection configuration and returns a
// new Part. See ParseConnections for the syntax of the connection configuration
// string.
//
type NewPartFn func(c string) Part

// A Part wraps a part specification together with its connections within a
// circuit.
//
type Part struct {
	*PartSpec
	Conns []Connection
}

// Parts is a convenience wrapper for []Part.
//
type Parts []Part
