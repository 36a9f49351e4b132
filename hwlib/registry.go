// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/seqsim"
	"github.com/db47h/seqsim/mem"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// DecodeAttrs decodes raw attributes for the given kind over the kind's
// defaults and validates them. Enumerations and triggers are decoded from
// their names, numbers may be given as strings.
//
func DecodeAttrs(k seqsim.Kind, raw map[string]any) (Attrs, error) {
	a := DefaultAttrs(k)
	if a == nil {
		return nil, errors.Errorf("unsupported kind %v", k)
	}
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.TextUnmarshallerHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           a,
	})
	if err != nil {
		return nil, errors.Wrap(err, "attribute decoder")
	}
	if err = d.Decode(raw); err != nil {
		return nil, errors.Wrapf(err, "%v attributes", k)
	}
	if err = a.Validate(); err != nil {
		return nil, errors.Wrapf(err, "%v attributes", k)
	}
	return a, nil
}

// New returns a part factory for the given kind and raw attributes. contents
// is the initial memory contents of RAM and ROM parts and is ignored by other
// kinds.
//
func New(k seqsim.Kind, raw map[string]any, contents *mem.Store, opts ...PartOption) (seqsim.NewPartFn, error) {
	a, err := DecodeAttrs(k, raw)
	if err != nil {
		return nil, err
	}
	return PartFor(a, contents, opts...)
}

// PartFor returns a part factory for decoded attributes.
//
func PartFor(a Attrs, contents *mem.Store, opts ...PartOption) (seqsim.NewPartFn, error) {
	switch a := a.(type) {
	case *FlipFlopAttrs:
		return FlipFlopPart(*a, opts...), nil
	case *RegisterAttrs:
		return RegisterPart(*a, opts...), nil
	case *CounterAttrs:
		return CounterPart(*a, opts...), nil
	case *ShiftRegisterAttrs:
		return ShiftRegisterPart(*a, opts...), nil
	case *RandomAttrs:
		return RandomPart(*a, opts...), nil
	case *MemAttrs:
		return RAMPart(*a, contents, opts...), nil
	case *ROMAttrs:
		return ROMPart(*a, contents, opts...), nil
	}
	return nil, errors.Errorf("unsupported attributes %T", a)
}

// MemGeometry returns the address and data widths of memory kinds.
//
func MemGeometry(a Attrs) (addrBits, dataBits int, ok bool) {
	switch a := a.(type) {
	case *MemAttrs:
		return a.AddrBits, a.DataBits, true
	case *ROMAttrs:
		return a.AddrBits, a.DataBits, true
	}
	return 0, 0, false
}
