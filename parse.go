// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package seqsim

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// A Connection represents a connection between the pin PP of a part and
// the pin CP of the circuit it is mounted in.
//
type Connection struct {
	PP string
	CP string
}

// BusPinName returns the pin name for the n-th bit of the named bus.
//
func BusPinName(name string, bit int) string {
	return name + "[" + strconv.Itoa(bit) + "]"
}

// IO parses an input or output pin description string and returns a slice
// of individual pin names suitable for use as the Input or Output field of
// a PartSpec.
//
// The input format is:
//
//	InputDecl = PinDecl { "," PinDecl } .
//	PinDecl   = PinIdentifier | BusIdentifier .
//	BusIdentifier = identifier "[" size "]" .
//	PinIdentifier = identifier .
//
// Buses are expanded to one pin per element. For example, IO("a, b[2]")
// returns []string{"a", "b[0]", "b[1]"}.
//
// IO panics if the description cannot be parsed.
//
func IO(spec string) []string {
	r, err := parseIOspec(spec)
	if err != nil {
		panic(err)
	}
	return r
}

func parseIOspec(names string) ([]string, error) {
	var out []string
	for _, decl := range strings.Split(names, ",") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			if strings.TrimSpace(names) == "" {
				return nil, nil
			}
			return nil, parseError(names, "empty pin name")
		}
		name, size, isBus, err := splitBus(decl)
		if err != nil {
			return nil, parseError(names, err.Error())
		}
		if !isBus {
			out = append(out, name)
			continue
		}
		n, err := strconv.Atoi(size)
		if err != nil || n <= 0 {
			return nil, parseError(names, "invalid bus size "+size)
		}
		for i := 0; i < n; i++ {
			out = append(out, BusPinName(name, i))
		}
	}
	return out, nil
}

// splitBus splits "name[x]" into "name" and "x".
//
func splitBus(decl string) (name, index string, isBus bool, err error) {
	i := strings.IndexRune(decl, '[')
	if i < 0 {
		if !isIdent(decl) {
			return "", "", false, errors.New("invalid pin name " + decl)
		}
		return decl, "", false, nil
	}
	name = strings.TrimSpace(decl[:i])
	if !isIdent(name) {
		return "", "", false, errors.New("invalid bus name " + decl)
	}
	if !strings.HasSuffix(decl, "]") {
		return "", "", false, errors.New("no terminating ] in " + decl)
	}
	return name, strings.TrimSpace(decl[i+1 : len(decl)-1]), true, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && (unicode.IsDigit(r) || r == '.')) {
			continue
		}
		return false
	}
	return true
}

// expandRange expands a pin or bus range like "a", "a[3]" or "a[0..3]".
//
func expandRange(pin string) ([]string, error) {
	name, index, isBus, err := splitBus(pin)
	if err != nil {
		return nil, err
	}
	if !isBus {
		return []string{name}, nil
	}
	i := strings.Index(index, "..")
	if i < 0 {
		n, err := strconv.Atoi(index)
		if err != nil || n < 0 {
			return nil, errors.New("invalid bus index in " + pin)
		}
		return []string{BusPinName(name, n)}, nil
	}
	start, err := strconv.Atoi(strings.TrimSpace(index[:i]))
	if err != nil || start < 0 {
		return nil, errors.New("invalid bus range start in " + pin)
	}
	end, err := strconv.Atoi(strings.TrimSpace(index[i+2:]))
	if err != nil || end < 0 {
		return nil, errors.New("invalid bus range end in " + pin)
	}
	var r []string
	if start <= end {
		for n := start; n <= end; n++ {
			r = append(r, BusPinName(name, n))
		}
	} else {
		for n := start; n >= end; n-- {
			r = append(r, BusPinName(name, n))
		}
	}
	return r, nil
}

// ParseConnections parses a connection configuration like "partPin=circuitPin, ...".
//
//	ConnDecl  = PinConn { "," PinConn } .
//	PinConn   = PinExpr "=" PinExpr .
//	PinExpr   = identifier [ "[" Index | Range "]" ] .
//	Index     = integer .
//	Range     = integer ".." integer .
//
// Both sides of a connection must expand to the same number of pins, or the
// right side must be a single pin, in which case every pin on the left is
// connected to it.
//
func ParseConnections(c string) ([]Connection, error) {
	var conns []Connection
	if strings.TrimSpace(c) == "" {
		return nil, nil
	}
	for _, decl := range strings.Split(c, ",") {
		kv := strings.Split(decl, "=")
		if len(kv) != 2 {
			return nil, parseError(c, "expected pin=wire in "+strconv.Quote(strings.TrimSpace(decl)))
		}
		ks, err := expandRange(strings.TrimSpace(kv[0]))
		if err != nil {
			return nil, parseError(c, err.Error())
		}
		vs, err := expandRange(strings.TrimSpace(kv[1]))
		if err != nil {
			return nil, parseError(c, err.Error())
		}
		switch {
		case len(ks) == len(vs):
			for i := range ks {
				conns = append(conns, Connection{ks[i], vs[i]})
			}
		case len(vs) == 1:
			for _, k := range ks {
				conns = append(conns, Connection{k, vs[0]})
			}
		default:
			return nil, parseError(c, "pin count mismatch in "+strconv.Quote(strings.TrimSpace(decl)))
		}
	}
	return conns, nil
}

func parseError(in string, msg string) error {
	return errors.Errorf("in %q: %s", in, msg)
}
