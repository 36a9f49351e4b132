// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/seqsim"
	"github.com/db47h/seqsim/mem"
)

// ViewRows is the number of rows of the display window that memory cursors
// keep in view.
//
const ViewRows = 4

// Cursor tracks the last valid address seen by a memory and keeps it within
// a display window of ViewRows rows of mem.DefaultColumns words.
//
type Cursor struct {
	Addr   int64 // -1 until a valid address is seen
	Scroll uint64
}

func (c *Cursor) moveTo(addr uint64) {
	if int64(addr) == c.Addr {
		return
	}
	c.Addr = int64(addr)
	const cols = mem.DefaultColumns
	row := addr - addr%cols
	switch {
	case addr < c.Scroll:
		c.Scroll = row
	case addr >= c.Scroll+ViewRows*cols:
		c.Scroll = row - (ViewRows-1)*cols
	}
}

// RAM is the state of a random access memory.
//
type RAM struct {
	seqsim.Seq
	Attrs  MemAttrs
	Store  *mem.Store
	Cursor Cursor

	out []seqsim.Value
}

// RAMInputs holds the input pin values of a RAM. Data holds one value per
// data line, LE the line enables and BE the byte enables.
//
type RAMInputs struct {
	Clock, Addr, WE, OE, Clear seqsim.Value

	Data []seqsim.Value
	LE   []seqsim.Value
	BE   []seqsim.Value
}

// RAMOutputs holds the values driven by a RAM, one per data line.
//
type RAMOutputs struct {
	Data  []seqsim.Value
	Delay uint
}

// NewRAM returns a new RAM state. If contents is not nil, the memory is
// initialized with a copy of it.
//
func NewRAM(a MemAttrs, contents *mem.Store) *RAM {
	var s *mem.Store
	if contents != nil {
		s = contents.Clone()
		s.SetDimensions(a.AddrBits, a.DataBits)
	} else {
		var opts []mem.Option
		if a.StartUnknown {
			opts = append(opts, mem.StartUnknown(a.Seed))
		}
		s = mem.New(a.AddrBits, a.DataBits, opts...)
	}
	r := &RAM{
		Seq:    seqsim.Seq{Kind: seqsim.KindRAM, Trigger: a.Trigger},
		Attrs:  a,
		Store:  s,
		Cursor: Cursor{Addr: -1},
		out:    make([]seqsim.Value, a.lines()),
	}
	for i := range r.out {
		r.out[i] = seqsim.Unknown(a.DataBits)
	}
	return r
}

// SetDimensions changes the geometry of the memory. Contents are preserved
// where the old and new geometry overlap.
//
func (r *RAM) SetDimensions(addrBits, dataBits int) {
	r.Attrs.AddrBits, r.Attrs.DataBits = addrBits, dataBits
	r.Store.SetDimensions(addrBits, dataBits)
	for i := range r.out {
		r.out[i] = seqsim.Unknown(dataBits)
	}
}

func (r *RAM) drive(v seqsim.Value) RAMOutputs {
	for i := range r.out {
		r.out[i] = v
	}
	return r.outputs()
}

func (r *RAM) outputs() RAMOutputs {
	return RAMOutputs{Data: append([]seqsim.Value(nil), r.out...), Delay: MemDelay}
}

func pick(vs []seqsim.Value, i int) seqsim.Value {
	if i < len(vs) {
		return vs[i]
	}
	return seqsim.Nil
}

// Update evaluates the memory.
//
func (r *RAM) Update(in RAMInputs) RAMOutputs {
	w := r.Attrs.DataBits
	var clr seqsim.Value
	if r.Attrs.ClearPin {
		clr = in.Clear
	}
	ev := r.Seq.Update(seqsim.Control{Clock: in.Clock, Reset: clr}, seqsim.Rule{Reset: r.Store.Clear})
	if ev == seqsim.EventReset {
		if r.Attrs.Separate {
			return r.drive(seqsim.Known(w, 0))
		}
		return r.drive(seqsim.Unknown(w))
	}

	addr, good := in.Addr.Uint64()
	if addr&^seqsim.Mask(r.Attrs.AddrBits) != 0 {
		good = false
	}
	if good {
		r.Cursor.moveTo(addr)
	}
	if r.Attrs.Enables == LineEnables {
		return r.lineAccess(in, addr, good)
	}
	return r.byteAccess(in, addr, good)
}

// async returns true if reads reflect the store immediately.
//
func (r *RAM) async() bool {
	return r.Attrs.AsyncRead || !r.Trigger.Edge()
}

// read returns the value a read sees given the word before and after the
// write of this evaluation, or false if the output must hold.
//
func (r *RAM) read(old, cur uint64) (uint64, bool) {
	switch {
	case r.async():
		return cur, true
	case !r.Triggered():
		return 0, false
	case r.Attrs.ReadOrder == WriteAfterRead:
		return old, true
	}
	return cur, true
}

func (r *RAM) byteAccess(in RAMInputs, addr uint64, good bool) RAMOutputs {
	w := r.Attrs.DataBits
	be := make([]seqsim.Value, r.Attrs.lanes())
	for i := range be {
		be[i] = pick(in.BE, i)
	}
	var old, cur uint64
	if good {
		old = r.Store.Get(addr)
		cur = old
		if r.Triggered() && in.WE.IsTrue() {
			d, _ := pick(in.Data, 0).Uint64()
			cur = MergeLanes(old, d, be, w)
			r.Store.Set(addr, cur)
		}
	}
	switch {
	case in.OE.IsFalse():
		return r.drive(seqsim.Unknown(w))
	case !good:
		return r.drive(seqsim.Error(w))
	}
	if v, ok := r.read(old, cur); ok {
		r.out[0] = ReadLanes(v, be, w)
	}
	return r.outputs()
}

func (r *RAM) lineAccess(in RAMInputs, addr uint64, good bool) RAMOutputs {
	w := r.Attrs.DataBits
	lines := r.Attrs.lines()
	if !good || Misaligned(addr, lines, r.Attrs.AllowMisaligned) {
		if in.OE.IsFalse() {
			return r.drive(seqsim.Unknown(w))
		}
		return r.drive(seqsim.Error(w))
	}
	size := r.Store.Size()
	olds := make([]uint64, lines)
	for i := range olds {
		olds[i] = r.Store.Get((addr + uint64(i)) % size)
	}
	if r.Triggered() && in.WE.IsTrue() {
		for i, ok := range LineWrites(in.LE, lines) {
			if ok {
				d, _ := pick(in.Data, i).Uint64()
				r.Store.Set((addr+uint64(i))%size, d)
			}
		}
	}
	if in.OE.IsFalse() {
		return r.drive(seqsim.Unknown(w))
	}
	for i := range r.out {
		if pick(in.LE, i).IsFalse() {
			r.out[i] = seqsim.Unknown(w)
			continue
		}
		if v, ok := r.read(olds[i], r.Store.Get((addr+uint64(i))%size)); ok {
			r.out[i] = seqsim.Known(w, v)
		}
	}
	return r.outputs()
}

// RAMPart returns a RAM part. If contents is not nil, each instance starts
// with a copy of it.
//
//	Inputs: addr, clk, we, oe, clr; din (separate bus); le, be
//	Outputs: d
//
// With line enables, din, d and le are buses of Lines pins. With byte
// enables, be is a bus of one pin per byte lane. With a shared bus, the
// memory reads its data from its own d pins.
//
func RAMPart(a MemAttrs, contents *mem.Store, opts ...PartOption) seqsim.NewPartFn {
	cfg := newPartConfig(opts)
	lines := a.lines()
	dn := names(pD, lines)
	var din, le, be []string
	if a.Separate {
		din = names("din", lines)
	}
	if lines > 1 {
		le = names("le", lines)
	}
	if n := a.lanes(); n > 0 {
		be = names("be", n)
	}
	return (&seqsim.PartSpec{
		Name:    "RAM" + strconv.Itoa(a.AddrBits) + "x" + strconv.Itoa(a.DataBits),
		Inputs:  ioNames([]string{"addr", pClk, "we", "oe", pClr}, din, le, be),
		Outputs: dn,
		Mount: func(s *seqsim.Socket) []seqsim.Component {
			addr, clk, we, oe, clr := s.Pin("addr"), s.Pin(pClk), s.Pin("we"), s.Pin("oe"), s.Pin(pClr)
			dp, lep, bep := busPins(s, pD, lines), busPins(s, "le", len(le)), busPins(s, "be", len(be))
			dip := dp
			if a.Separate {
				dip = busPins(s, "din", lines)
			}
			var r *RAM
			return []seqsim.Component{
				func(c *seqsim.Circuit) {
					if r == nil {
						r = NewRAM(a, contents)
						cfg.created(r)
					}
					out := r.Update(RAMInputs{
						Clock: c.Get(clk),
						Addr:  c.Get(addr),
						WE:    c.Get(we),
						OE:    c.Get(oe),
						Clear: c.Get(clr),
						Data:  c.Values(dip),
						LE:    c.Values(lep),
						BE:    c.Values(bep),
					})
					setAll(c, dp, out.Data, out.Delay)
				}}
		}}).NewPart
}
