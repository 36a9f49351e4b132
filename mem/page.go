// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package mem

// word is the set of unsigned types a page can be stored as.
//
type word interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// page is a dense block of words. Implementations store words in the
// narrowest unsigned type that can hold the store width.
//
type page interface {
	len() int
	get(i int) uint64
	set(i int, v uint64)
	// fill sets words [from, to) to v.
	fill(from, to int, v uint64)
	// isZero returns true if all words in the page are zero.
	isZero() bool
	clone() page
}

type dense[T word] []T

func (p dense[T]) len() int { return len(p) }
func (p dense[T]) get(i int) uint64 { return uint64(p[i]) }
func (p dense[T]) set(i int, v uint64) { p[i] = T(v) }
func (p dense[T]) clone() page { return append(dense[T](nil), p...) }
func (p dense[T]) fill(from, to int, v uint64) {
	w := T(v)
	for i := from; i < to; i++ {
		p[i] = w
	}
}

func (p dense[T]) isZero() bool {
	for _, w := range p {
		if w != 0 {
			return false
		}
	}
	return true
}

// newPage returns a zeroed page of size words for the given store width.
//
func newPage(size, width int) page {
	switch {
	case width <= 8:
		return make(dense[uint8], size)
	case width <= 16:
		return make(dense[uint16], size)
	case width <= 32:
		return make(dense[uint32], size)
	}
	return make(dense[uint64], size)
}
