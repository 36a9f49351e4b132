// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/seqsim"
	"github.com/db47h/seqsim/mem"
)

// ROM is the state of a read only memory.
//
type ROM struct {
	Attrs  ROMAttrs
	Store  *mem.Store
	Cursor Cursor
}

// NewROM returns a new ROM state holding a copy of contents. A nil contents
// yields an all zero ROM.
//
func NewROM(a ROMAttrs, contents *mem.Store) *ROM {
	var s *mem.Store
	if contents != nil {
		s = contents.Clone()
		s.SetDimensions(a.AddrBits, a.DataBits)
	} else {
		s = mem.New(a.AddrBits, a.DataBits)
	}
	return &ROM{Attrs: a, Store: s, Cursor: Cursor{Addr: -1}}
}

// Update returns the word at addr and the output delay. An address with
// error bits or wider than the memory reads as an error, any other address
// that is not fully defined reads as unknown.
//
func (r *ROM) Update(addr seqsim.Value) (seqsim.Value, uint) {
	w := r.Attrs.DataBits
	if addr.IsError() {
		return seqsim.Error(w), MemDelay
	}
	a, ok := addr.Uint64()
	if !ok {
		return seqsim.Unknown(w), MemDelay
	}
	if a&^seqsim.Mask(r.Attrs.AddrBits) != 0 {
		return seqsim.Error(w), MemDelay
	}
	r.Cursor.moveTo(a)
	return seqsim.Known(w, r.Store.Get(a)), MemDelay
}

// ROMPart returns a ROM part. Each instance holds a copy of contents.
//
//	Inputs: addr
//	Outputs: d
//
func ROMPart(a ROMAttrs, contents *mem.Store, opts ...PartOption) seqsim.NewPartFn {
	cfg := newPartConfig(opts)
	return (&seqsim.PartSpec{
		Name:    "ROM" + strconv.Itoa(a.AddrBits) + "x" + strconv.Itoa(a.DataBits),
		Inputs:  []string{"addr"},
		Outputs: []string{pD},
		Mount: func(s *seqsim.Socket) []seqsim.Component {
			addr, d := s.Pin("addr"), s.Pin(pD)
			var r *ROM
			return []seqsim.Component{
				func(c *seqsim.Circuit) {
					if r == nil {
						r = NewROM(a, contents)
						cfg.created(r)
					}
					v, delay := r.Update(c.Get(addr))
					c.Set(d, v, delay)
				}}
		}}).NewPart
}
