// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import "github.com/db47h/seqsim"

// EnablePolicy selects how a wide memory gates its accesses.
//
type EnablePolicy uint8

// Enable policies.
//
const (
	// ByteEnables gates the byte lanes of a single word.
	ByteEnables EnablePolicy = iota
	// LineEnables splits the data bus into lines of consecutive words,
	// each with its own enable.
	LineEnables
)

var enableNames = []string{"byte", "line"}

func (p EnablePolicy) String() string { return enableNames[p%2] }

// UnmarshalText implements encoding.TextUnmarshaler.
//
func (p *EnablePolicy) UnmarshalText(b []byte) error {
	i, err := parseName(enableNames, string(b), "enable policy")
	*p = EnablePolicy(i)
	return err
}

// ReadOrder tells what a synchronous read sees when a write to the same word
// happens on the same clock edge.
//
type ReadOrder uint8

// Read orders.
//
const (
	ReadAfterWrite ReadOrder = iota // the read sees the new word
	WriteAfterRead                  // the read sees the old word
)

var readOrderNames = []string{"read-after-write", "write-after-read"}

func (o ReadOrder) String() string { return readOrderNames[o%2] }

// UnmarshalText implements encoding.TextUnmarshaler.
//
func (o *ReadOrder) UnmarshalText(b []byte) error {
	i, err := parseName(readOrderNames, string(b), "read order")
	*o = ReadOrder(i)
	return err
}

// ByteLanes returns the number of byte lanes of a word of the given width:
// ceil(width/8) for words wider than 8 bits, 0 otherwise.
//
func ByteLanes(width int) int {
	if width <= 8 {
		return 0
	}
	return (width + 7) / 8
}

// LaneMask returns the bit mask of byte lane i in a word of the given width.
// The last lane may be narrower than 8 bits.
//
func LaneMask(lane, width int) uint64 {
	lo := lane * 8
	if lane < 0 || lo >= width {
		return 0
	}
	return seqsim.Mask(min(8, width-lo)) << uint(lo)
}

// MergeLanes returns the word written when data is written over old with
// the given byte enables: lanes whose enable is definitely true take their
// bits from data, other lanes keep the bits of old. Without enables, the
// whole word is replaced.
//
func MergeLanes(old, data uint64, be []seqsim.Value, width int) uint64 {
	if len(be) == 0 {
		return data & seqsim.Mask(width)
	}
	w := old
	for i, e := range be {
		if e.IsTrue() {
			m := LaneMask(i, width)
			w = w&^m | data&m
		}
	}
	return w & seqsim.Mask(width)
}

// ReadLanes returns the value read from word with the given byte enables.
// Lanes whose enable is definitely false read as unknown.
//
func ReadLanes(word uint64, be []seqsim.Value, width int) seqsim.Value {
	var off uint64
	for i, e := range be {
		if e.IsFalse() {
			off |= LaneMask(i, width)
		}
	}
	return seqsim.Partial(width, word, off)
}

// LineWrites returns which of the given number of lines are written. A line
// is written unless its enable is definitely false. Missing enables read as
// not connected.
//
func LineWrites(le []seqsim.Value, lines int) []bool {
	r := make([]bool, lines)
	for i := range r {
		r[i] = i >= len(le) || !le[i].IsFalse()
	}
	return r
}

// Misaligned returns true if an access to addr with the given number of
// lines must be rejected: addr is not a multiple of lines and misaligned
// accesses are not allowed.
//
func Misaligned(addr uint64, lines int, allow bool) bool {
	return !allow && lines > 1 && addr%uint64(lines) != 0
}
