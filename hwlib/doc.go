// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides the clocked parts of seqsim: flip-flops, registers,
// counters, shift registers, random number generators, RAM and ROM.
//
// Each part comes in two halves. The state model (FlipFlop, Register,
// Counter, ...) holds the part's state and exposes an Update method that
// takes pin values and returns output values; it can be driven directly from
// tests or other simulators. The part factory (FlipFlopPart, RegisterPart,
// ...) wraps a state model into a seqsim.PartSpec that can be mounted in a
// seqsim.Circuit.
//
// Parts are configured with an attribute struct per kind. DecodeAttrs builds
// one from a generic map, as found in circuit description files, and New
// combines it with PartFor to get a seqsim.NewPartFn.
//
package hwlib
