// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package mem

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"
	"weak"
)

// DefaultColumns is the number of words per row of a new Viewer.
//
const DefaultColumns = 8

// A Viewer renders the contents of a store as rows of hex words. It does
// not keep its store alive.
//
type Viewer struct {
	s    weak.Pointer[Store]
	Cols int
}

var viewers = struct {
	sync.Mutex
	m map[weak.Pointer[Store]]*Viewer
}{m: make(map[weak.Pointer[Store]]*Viewer)}

// ViewerFor returns the viewer for s. Successive calls with the same store
// return the same viewer until s is garbage collected.
//
func ViewerFor(s *Store) *Viewer {
	k := weak.Make(s)
	viewers.Lock()
	defer viewers.Unlock()
	if v, ok := viewers.m[k]; ok {
		return v
	}
	v := &Viewer{s: k, Cols: DefaultColumns}
	viewers.m[k] = v
	runtime.AddCleanup(s, func(k weak.Pointer[Store]) {
		viewers.Lock()
		delete(viewers.m, k)
		viewers.Unlock()
	}, k)
	return v
}

// cachedViewers returns the number of live entries in the viewer cache.
//
func cachedViewers() int {
	viewers.Lock()
	defer viewers.Unlock()
	return len(viewers.m)
}

// Store returns the viewed store, or nil if it has been collected.
//
func (v *Viewer) Store() *Store { return v.s.Value() }

func (v *Viewer) cols() int {
	if v.Cols <= 0 {
		return DefaultColumns
	}
	return v.Cols
}

// Row returns the start address of the row holding addr.
//
func (v *Viewer) Row(addr uint64) uint64 {
	c := uint64(v.cols())
	return addr - addr%c
}

// Rows renders n rows starting at the row holding addr. Each row is the
// row address followed by the words of the row.
//
func (v *Viewer) Rows(addr uint64, n int) []string {
	s := v.Store()
	if s == nil {
		return nil
	}
	var rows []string
	c := uint64(v.cols())
	for a := v.Row(addr); n > 0 && a < s.Size(); a, n = a+c, n-1 {
		rows = append(rows, v.row(s, a))
	}
	return rows
}

func (v *Viewer) row(s *Store, a uint64) string {
	ad, wd := digits(s.addrBits), digits(s.width)
	var b strings.Builder
	fmt.Fprintf(&b, "%0*x:", ad, a)
	for _, w := range s.Read(a, uint64(v.cols())) {
		fmt.Fprintf(&b, " %0*x", wd, w)
	}
	return b.String()
}

func digits(bits int) int {
	if bits <= 0 {
		return 1
	}
	return (bits + 3) / 4
}

// WriteTo writes all rows that hold a non-zero word to w. Runs of skipped
// rows are marked with a "*" line.
//
func (v *Viewer) WriteTo(w io.Writer) (int64, error) {
	s := v.Store()
	if s == nil {
		return 0, nil
	}
	var n int64
	last, ok := s.Last()
	if !ok {
		return 0, nil
	}
	c := uint64(v.cols())
	skipped := false
	for a := uint64(0); a <= last; a += c {
		if p := int(a >> PageBits); PageSize%c == 0 && a&(PageSize-1) == 0 && s.pageLen == PageSize && s.isBlank(p) {
			// skip the whole page
			if !skipped {
				m, err := io.WriteString(w, "*\n")
				n += int64(m)
				if err != nil {
					return n, err
				}
				skipped = true
			}
			a += PageSize - c
			continue
		}
		if allEqual(s.Read(a, c), 0) {
			if !skipped {
				m, err := io.WriteString(w, "*\n")
				n += int64(m)
				if err != nil {
					return n, err
				}
				skipped = true
			}
			continue
		}
		skipped = false
		m, err := io.WriteString(w, v.row(s, a)+"\n")
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// String renders the non-zero rows of the viewed store.
//
func (v *Viewer) String() string {
	var b strings.Builder
	v.WriteTo(&b)
	return b.String()
}
