// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package mem implements the sparse paged word store backing RAM and ROM
// parts.
//
// A Store spans up to 2^32 words of up to 64 bits each. Storage is split into
// pages of PageSize words that are only allocated once a non-zero word is
// written to them. Pages that go back to all zeros after a fill or load are
// released.
//
package mem

import (
	"math/bits"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

// Store geometry limits.
//
const (
	PageBits    = 12
	PageSize    = 1 << PageBits
	MaxAddrBits = 32
	MaxWidth    = 64
)

var log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger sets the logger used by the package. The default is the logrus
// standard logger.
//
func SetLogger(l logrus.FieldLogger) {
	log = l
}

// Store is a sparse array of 2^AddrBits words of Width bits.
//
// A Store is not safe for concurrent use.
//
type Store struct {
	addrBits int
	width    int
	mask     uint64
	pageLen  int
	pages    []page

	// start unknown mode: absent pages flagged in fresh read as a
	// pseudo-random pattern until written or cleared.
	random bool
	seed   uint64
	fresh  bitset

	ls []watcher
}

// An Option configures a Store.
//
type Option func(s *Store)

// StartUnknown makes pages that have not been written or cleared since the
// store was created read as a pseudo-random pattern derived from seed and
// the page index, the way uninitialized hardware memory would.
//
func StartUnknown(seed uint64) Option {
	return func(s *Store) {
		s.random = true
		s.seed = seed
	}
}

// New returns a new store of 2^addrBits words of the given bit width.
// addrBits is clamped to [0, MaxAddrBits], width to [1, MaxWidth].
//
func New(addrBits, width int, opts ...Option) *Store {
	s := new(Store)
	for _, o := range opts {
		o(s)
	}
	s.shape(clamp(addrBits, 0, MaxAddrBits), clamp(width, 1, MaxWidth))
	if s.random {
		s.fresh.setRange(0, len(s.pages))
	}
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// shape sets the store geometry and allocates an empty page table.
//
func (s *Store) shape(addrBits, width int) {
	s.addrBits = addrBits
	s.width = width
	s.mask = ^uint64(0) >> uint(64-width)
	count := 1
	s.pageLen = 1 << uint(addrBits)
	if addrBits > PageBits {
		count = 1 << uint(addrBits-PageBits)
		s.pageLen = PageSize
	}
	s.pages = make([]page, count)
	s.fresh = newBitset(count)
}

// AddrBits returns the address width of s.
//
func (s *Store) AddrBits() int { return s.addrBits }

// Width returns the word width of s.
//
func (s *Store) Width() int { return s.width }

// Size returns the number of addressable words, 2^AddrBits.
//
func (s *Store) Size() uint64 { return 1 << uint(s.addrBits) }

// Pages returns the number of allocated pages.
//
func (s *Store) Pages() int {
	n := 0
	for _, p := range s.pages {
		if p != nil {
			n++
		}
	}
	return n
}

// locate splits addr into a page index and offset. ok is false if addr is
// out of range.
//
func (s *Store) locate(addr uint64) (p, off int, ok bool) {
	if addr >= s.Size() {
		return 0, 0, false
	}
	return int(addr >> PageBits), int(addr & (PageSize - 1)), true
}

// noise returns the start unknown pattern for word off of page p.
//
func (s *Store) noise(p, off int) uint64 {
	return rand.NewPCG(s.seed, uint64(p)<<PageBits|uint64(off)).Uint64() & s.mask
}

func (s *Store) absent(p, off int) uint64 {
	if s.fresh.get(p) {
		return s.noise(p, off)
	}
	return 0
}

// ensure returns page p, allocating it if needed. If the page is fresh and
// keep is true, the new page is filled with its start unknown pattern.
//
func (s *Store) ensure(p int, keep bool) page {
	if pg := s.pages[p]; pg != nil {
		return pg
	}
	pg := newPage(s.pageLen, s.width)
	if keep && s.fresh.get(p) {
		for i := 0; i < s.pageLen; i++ {
			pg.set(i, s.noise(p, i))
		}
	}
	s.fresh.clear(p)
	s.pages[p] = pg
	return pg
}

// Get returns the word at addr. Words in pages never written read 0 (or
// their start unknown pattern). Out of range addresses read 0.
//
func (s *Store) Get(addr uint64) uint64 {
	p, off, ok := s.locate(addr)
	if !ok {
		return 0
	}
	if pg := s.pages[p]; pg != nil {
		return pg.get(off)
	}
	return s.absent(p, off)
}

// Set sets the word at addr to v masked to the store width. It does nothing
// if addr is out of range or if the word already holds that value.
//
func (s *Store) Set(addr, v uint64) {
	p, off, ok := s.locate(addr)
	if !ok {
		return
	}
	v &= s.mask
	old := s.Get(addr)
	if old == v {
		return
	}
	s.ensure(p, true).set(off, v)
	s.contentsChanged(addr, []uint64{old})
}

// chunks calls f for each page sized chunk of [start, start+n), clipped to
// the store size. i is the chunk offset relative to start.
//
func (s *Store) chunks(start, n uint64, f func(p, off, cnt int, i uint64)) {
	size := s.Size()
	if start >= size || n == 0 {
		return
	}
	if n > size-start {
		n = size - start
	}
	for i := uint64(0); i < n; {
		p, off, _ := s.locate(start + i)
		cnt := s.pageLen - off
		if rem := n - i; uint64(cnt) > rem {
			cnt = int(rem)
		}
		f(p, off, cnt, i)
		i += uint64(cnt)
	}
}

func (s *Store) readChunk(p, off, cnt int) []uint64 {
	r := make([]uint64, cnt)
	if pg := s.pages[p]; pg != nil {
		for i := range r {
			r[i] = pg.get(off + i)
		}
		return r
	}
	if s.fresh.get(p) {
		for i := range r {
			r[i] = s.noise(p, off+i)
		}
	}
	return r
}

// isBlank returns true if page p reads all zeros without being allocated.
//
func (s *Store) isBlank(p int) bool {
	return s.pages[p] == nil && !s.fresh.get(p)
}

// Fill sets n words starting at start to v. Pages that end up all zeros are
// released, pages fully covered are written in bulk.
//
func (s *Store) Fill(start, n, v uint64) {
	v &= s.mask
	s.chunks(start, n, func(p, off, cnt int, _ uint64) {
		whole := cnt == s.pageLen
		if v == 0 && s.isBlank(p) {
			return
		}
		old := s.readChunk(p, off, cnt)
		if !s.fresh.get(p) && allEqual(old, v) {
			return
		}
		if whole && v == 0 {
			s.pages[p] = nil
			s.fresh.clear(p)
		} else {
			pg := s.ensure(p, !whole)
			pg.fill(off, off+cnt, v)
			if v == 0 && pg.isZero() {
				s.pages[p] = nil
			}
		}
		if !allEqual(old, v) {
			s.contentsChanged(uint64(p)<<PageBits|uint64(off), old)
		}
	})
}

func allEqual(ws []uint64, v uint64) bool {
	for _, w := range ws {
		if w != v {
			return false
		}
	}
	return true
}

// Load copies values into the store starting at start. Values are masked
// to the store width and values beyond the end of the store are ignored.
// Absent pages that only receive zeros stay absent.
//
func (s *Store) Load(start uint64, values []uint64) {
	s.chunks(start, uint64(len(values)), func(p, off, cnt int, i uint64) {
		src := values[i : i+uint64(cnt)]
		old := s.readChunk(p, off, cnt)
		changed := false
		for j, w := range src {
			if w&s.mask != old[j] {
				changed = true
				break
			}
		}
		if !changed {
			return
		}
		pg := s.ensure(p, cnt != s.pageLen)
		for j, w := range src {
			pg.set(off+j, w&s.mask)
		}
		if pg.isZero() {
			s.pages[p] = nil
		}
		s.contentsChanged(uint64(p)<<PageBits|uint64(off), old)
	})
}

// Read returns n words starting at start, clipped to the store size.
//
func (s *Store) Read(start, n uint64) []uint64 {
	var r []uint64
	s.chunks(start, n, func(p, off, cnt int, _ uint64) {
		r = append(r, s.readChunk(p, off, cnt)...)
	})
	return r
}

// Clear sets all words to zero and releases all pages. This also ends the
// start unknown pattern of pages never written.
//
func (s *Store) Clear() {
	s.Fill(0, s.Size(), 0)
}

// IsClear returns true if all words in the store read as zero.
//
func (s *Store) IsClear() bool {
	if !s.fresh.empty() {
		return false
	}
	for _, pg := range s.pages {
		if pg != nil && !pg.isZero() {
			return false
		}
	}
	return true
}

// Last returns the address of the last non-zero word in s and true, or
// false if s is clear.
//
func (s *Store) Last() (uint64, bool) {
	for p := len(s.pages) - 1; p >= 0; p-- {
		if s.isBlank(p) {
			continue
		}
		for off := s.pageLen - 1; off >= 0; off-- {
			a := uint64(p)<<PageBits | uint64(off)
			if s.Get(a) != 0 {
				return a, true
			}
		}
	}
	return 0, false
}

// SetDimensions changes the geometry of s. Words whose address is valid in
// both geometries are kept, masked to the new width. In start unknown mode,
// pages that did not exist in the old geometry read as a pseudo-random
// pattern.
//
func (s *Store) SetDimensions(addrBits, width int) {
	addrBits, width = clamp(addrBits, 0, MaxAddrBits), clamp(width, 1, MaxWidth)
	if addrBits == s.addrBits && width == s.width {
		return
	}
	old := *s
	s.shape(addrBits, width)
	n := min(len(old.pages), len(s.pages))
	kept := 0
	for p := 0; p < n; p++ {
		if old.fresh.get(p) {
			s.fresh.set(p)
		}
		opg := old.pages[p]
		if opg == nil {
			continue
		}
		pg := newPage(s.pageLen, s.width)
		m := min(opg.len(), s.pageLen)
		for i := 0; i < m; i++ {
			pg.set(i, opg.get(i)&s.mask)
		}
		if s.random {
			for i := m; i < s.pageLen; i++ {
				pg.set(i, s.noise(p, i))
			}
		}
		if !pg.isZero() {
			s.pages[p] = pg
			kept++
		}
	}
	if s.random {
		s.fresh.setRange(n, len(s.pages))
	}
	log.WithFields(logrus.Fields{
		"addrBits": addrBits,
		"width":    width,
		"pages":    kept,
	}).Debug("store resized")
	s.dimensionsChanged()
}

// Clone returns a deep copy of s. Listeners are not copied.
//
func (s *Store) Clone() *Store {
	c := *s
	c.ls = nil
	c.pages = make([]page, len(s.pages))
	for i, pg := range s.pages {
		if pg != nil {
			c.pages[i] = pg.clone()
		}
	}
	c.fresh = append(bitset(nil), s.fresh...)
	return &c
}

type bitset []uint64

func newBitset(n int) bitset {
	return make(bitset, (n+63)/64)
}

func (b bitset) get(i int) bool {
	return b[i/64]&(1<<uint(i%64)) != 0
}

func (b bitset) set(i int) {
	b[i/64] |= 1 << uint(i%64)
}

func (b bitset) clear(i int) {
	b[i/64] &^= 1 << uint(i%64)
}

func (b bitset) setRange(from, to int) {
	for i := from; i < to; i++ {
		b.set(i)
	}
}

func (b bitset) empty() bool {
	return b.count() == 0
}

func (b bitset) count() int {
	n := 0
	for _, w := range b {
		n += bits.OnesCount64(w)
	}
	return n
}
