// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package mem

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ImageHeader is the first line of a memory image.
//
const ImageHeader = "v2.0 raw"

// run of identical words shorter than this are written one by one.
const minRun = 4

// WriteImage writes the contents of s to w as a memory image: the header line
// followed by space separated hex words, eight per line. Runs of identical
// words are written as count*word. Trailing zero words are omitted.
//
func WriteImage(w io.Writer, s *Store) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(ImageHeader)
	bw.WriteByte('\n')
	last, ok := s.Last()
	if !ok {
		return errors.Wrap(bw.Flush(), "write image")
	}
	iw := imageWriter{w: bw}
	s.chunks(0, last+1, func(p, off, cnt int, _ uint64) {
		if s.isBlank(p) {
			iw.add(0, uint64(cnt))
			return
		}
		for _, v := range s.readChunk(p, off, cnt) {
			iw.add(v, 1)
		}
	})
	iw.flush()
	bw.WriteByte('\n')
	return errors.Wrap(bw.Flush(), "write image")
}

// imageWriter accumulates runs of identical words.
//
type imageWriter struct {
	w      *bufio.Writer
	v, n   uint64
	tokens int
}

func (iw *imageWriter) add(v, n uint64) {
	if iw.n > 0 && v != iw.v {
		iw.flush()
	}
	iw.v = v
	iw.n += n
}

func (iw *imageWriter) flush() {
	if iw.n < minRun {
		for ; iw.n > 0; iw.n-- {
			iw.token(1)
		}
		return
	}
	iw.token(iw.n)
	iw.n = 0
}

func (iw *imageWriter) token(n uint64) {
	if iw.tokens > 0 {
		if iw.tokens%8 == 0 {
			iw.w.WriteByte('\n')
		} else {
			iw.w.WriteByte(' ')
		}
	}
	if n > 1 {
		iw.w.WriteString(strconv.FormatUint(n, 10))
		iw.w.WriteByte('*')
	}
	iw.w.WriteString(strconv.FormatUint(iw.v, 16))
	iw.tokens++
}

// imageRun is count copies of a word.
//
type imageRun struct {
	n, v uint64
}

// ReadImage replaces the contents of s with the memory image read from r.
// Anything following a '#' up to the end of line is ignored. Words are
// masked to the store width. s is left untouched if the image cannot be
// read.
//
func ReadImage(r io.Reader, s *Store) error {
	sc := bufio.NewScanner(r)
	line := 0
	header := false
	var runs []imageRun
	var total uint64
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if !header {
			if text != ImageHeader {
				return errors.Errorf("line %d: bad image header %q", line, text)
			}
			header = true
			continue
		}
		for _, tok := range strings.Fields(text) {
			n := uint64(1)
			if i := strings.IndexByte(tok, '*'); i >= 0 {
				c, err := strconv.ParseUint(tok[:i], 10, 64)
				if err != nil {
					return errors.Wrapf(err, "line %d: bad run length", line)
				}
				n, tok = c, tok[i+1:]
			}
			v, err := strconv.ParseUint(tok, 16, 64)
			if err != nil {
				return errors.Wrapf(err, "line %d: bad word", line)
			}
			if n > s.Size()-total {
				return errors.Errorf("line %d: image larger than %d words", line, s.Size())
			}
			total += n
			runs = append(runs, imageRun{n, v})
		}
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "read image")
	}
	if !header {
		return errors.New("empty image")
	}
	s.Clear()
	var (
		addr uint64
		lit  []uint64
	)
	for _, run := range runs {
		if run.n == 1 {
			lit = append(lit, run.v)
			continue
		}
		s.Load(addr, lit)
		addr += uint64(len(lit))
		lit = lit[:0]
		s.Fill(addr, run.n, run.v)
		addr += run.n
	}
	s.Load(addr, lit)
	return nil
}
