// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package seqsim

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// MaxWidth is the widest value a pin can carry.
//
const MaxWidth = 64

// Value is the state of a pin: a word of 0 to 64 bits where each bit is
// either a definite 0 or 1, unknown (not driven yet, floating) or an error
// (conflicting drivers, bad address).
//
// The zero Value is Nil: a pin that carries no bits at all. Unconnected
// optional control pins read as Nil, which is neither definitely true nor
// definitely false.
//
type Value struct {
	width   uint8
	bits    uint64
	unknown uint64
	err     uint64
}

// Common 1 bit values.
//
var (
	Nil   = Value{}
	False = Value{width: 1}
	True  = Value{width: 1, bits: 1}
)

// Mask returns a mask of the given bit width.
//
func Mask(width int) uint64 {
	if width >= MaxWidth {
		return ^uint64(0)
	}
	if width <= 0 {
		return 0
	}
	return 1<<uint(width) - 1
}

func clampWidth(width int) uint8 {
	if width < 0 {
		return 0
	}
	if width > MaxWidth {
		return MaxWidth
	}
	return uint8(width)
}

// Known returns a fully defined value of the given width. v is masked to width.
//
func Known(width int, v uint64) Value {
	w := clampWidth(width)
	return Value{width: w, bits: v & Mask(int(w))}
}

// Unknown returns a value of the given width with all bits undefined.
//
func Unknown(width int) Value {
	w := clampWidth(width)
	return Value{width: w, unknown: Mask(int(w))}
}

// Error returns a value of the given width with all bits in error.
//
func Error(width int) Value {
	w := clampWidth(width)
	return Value{width: w, err: Mask(int(w))}
}

// Bool returns True or False.
//
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// Partial builds a value from a word and a mask of the bits that are
// unknown. Unknown bits in v are cleared.
//
func Partial(width int, v, unknown uint64) Value {
	w := clampWidth(width)
	m := Mask(int(w))
	unknown &= m
	return Value{width: w, bits: v & m &^ unknown, unknown: unknown}
}

// ParseValue parses a value of the given width. It accepts words in any
// base supported by strconv.ParseUint with a 0 base (42, 0x2a, 0b101010,
// 0o52), "x" for an all unknown value and "E" for an all error value.
//
func ParseValue(width int, s string) (Value, error) {
	if width < 1 || width > MaxWidth {
		return Nil, errors.Errorf("invalid width %d", width)
	}
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "x":
		return Unknown(width), nil
	case "e":
		return Error(width), nil
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return Nil, errors.Wrapf(err, "invalid value %q", s)
	}
	if v&^Mask(width) != 0 {
		return Nil, errors.Errorf("value %q overflows %d bits", s, width)
	}
	return Known(width, v), nil
}

// Width returns the bit width of v.
//
func (v Value) Width() int { return int(v.width) }

// IsNil returns true if v carries no bits.
//
func (v Value) IsNil() bool { return v.width == 0 }

// IsFullyDefined returns true if all bits of v are either 0 or 1.
//
func (v Value) IsFullyDefined() bool {
	return v.width > 0 && v.unknown == 0 && v.err == 0
}

// IsError returns true if any bit of v is in error.
//
func (v Value) IsError() bool { return v.err != 0 }

// IsUnknown returns true if all bits of v are unknown and none is in error.
//
func (v Value) IsUnknown() bool {
	return v.width > 0 && v.err == 0 && v.unknown == Mask(int(v.width))
}

// IsTrue returns true if v is a definite 1 bit high value.
//
func (v Value) IsTrue() bool {
	return v.width == 1 && v.unknown == 0 && v.err == 0 && v.bits == 1
}

// IsFalse returns true if v is a definite 1 bit low value.
//
func (v Value) IsFalse() bool {
	return v.width == 1 && v.unknown == 0 && v.err == 0 && v.bits == 0
}

// Uint64 returns the word held by v. ok is false if v is not fully defined,
// in which case the returned word has its undefined bits cleared.
//
func (v Value) Uint64() (w uint64, ok bool) {
	return v.bits, v.IsFullyDefined()
}

// UnknownMask returns the mask of undefined bits (unknown or error).
//
func (v Value) UnknownMask() uint64 {
	return v.unknown | v.err
}

// Resize returns v truncated or zero extended to the given width.
//
func (v Value) Resize(width int) Value {
	w := clampWidth(width)
	m := Mask(int(w))
	return Value{width: w, bits: v.bits & m, unknown: v.unknown & m, err: v.err & m}
}

// Bit returns bit i of v as a 1 bit value.
//
func (v Value) Bit(i int) Value {
	if i < 0 || i >= int(v.width) {
		return Nil
	}
	m := uint64(1) << uint(i)
	switch {
	case v.err&m != 0:
		return Error(1)
	case v.unknown&m != 0:
		return Unknown(1)
	case v.bits&m != 0:
		return True
	}
	return False
}

// Not returns the bitwise complement of v. Undefined bits stay undefined.
//
func (v Value) Not() Value {
	m := Mask(int(v.width))
	u := v.unknown | v.err
	return Value{width: v.width, bits: ^v.bits & m &^ u, unknown: v.unknown, err: v.err}
}

// Combine returns the value seen on a wire driven with both v and o. Equal
// values or Nil on either side combine cleanly; anything else is an error.
//
func (v Value) Combine(o Value) Value {
	switch {
	case v.width == 0:
		return o
	case o.width == 0:
		return v
	case v == o:
		return v
	case v.width != o.width:
		w := v.width
		if o.width > w {
			w = o.width
		}
		return Error(int(w))
	}
	// floating bits yield to driven ones.
	m := Mask(int(v.width))
	vu, ou := v.unknown&^v.err, o.unknown&^o.err
	defV, defO := m&^(v.unknown|v.err), m&^(o.unknown|o.err)
	r := Value{width: v.width}
	r.err = v.err | o.err | (defV & defO & (v.bits ^ o.bits))
	r.bits = (v.bits&defV | o.bits&defO) &^ r.err
	r.unknown = vu & ou &^ r.err
	return r
}

// Equal returns true if v and o have the same width and state.
//
func (v Value) Equal(o Value) bool { return v == o }

// String returns a hex representation of v. Undefined nibbles are printed as
// 'x', nibbles with error bits as 'E'. 1 bit values print as 0, 1, x or E.
//
func (v Value) String() string {
	if v.width == 0 {
		return "-"
	}
	n := (int(v.width) + 3) / 4
	var b strings.Builder
	b.Grow(n)
	for i := n - 1; i >= 0; i-- {
		shift := uint(i * 4)
		m := uint64(0xf) << shift
		switch {
		case v.err&m != 0:
			b.WriteByte('E')
		case v.unknown&m != 0:
			b.WriteByte('x')
		default:
			b.WriteByte("0123456789abcdef"[(v.bits&m)>>shift])
		}
	}
	return b.String()
}
