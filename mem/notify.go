// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package mem

import "weak"

// A Listener is notified of changes to a store.
//
type Listener interface {
	// ContentsChanged is called after len(old) words starting at start
	// changed. old holds their previous values.
	ContentsChanged(s *Store, start uint64, old []uint64)
	// DimensionsChanged is called after the geometry of s changed.
	DimensionsChanged(s *Store)
}

type watcher struct {
	key any // weak.Pointer of the listener
	get func() Listener
}

// Watch registers l to be notified of changes to s. The store only holds
// a weak reference to l: once l is no longer referenced elsewhere, it
// stops receiving notifications and is eventually dropped.
//
func Watch[T any, PT interface {
	*T
	Listener
}](s *Store, l PT) {
	wp := weak.Make((*T)(l))
	for _, w := range s.ls {
		if w.key == any(wp) {
			return
		}
	}
	s.ls = append(s.ls, watcher{
		key: wp,
		get: func() Listener {
			if p := wp.Value(); p != nil {
				return PT(p)
			}
			return nil
		},
	})
}

// Unwatch removes l from the listeners of s.
//
func Unwatch[T any, PT interface {
	*T
	Listener
}](s *Store, l PT) {
	wp := weak.Make((*T)(l))
	s.prune(func(w watcher) bool { return w.key == any(wp) })
}

// Listeners returns the number of live listeners of s.
//
func (s *Store) Listeners() int {
	s.prune(func(watcher) bool { return false })
	return len(s.ls)
}

// prune removes collected listeners and listeners for which drop returns
// true.
//
func (s *Store) prune(drop func(w watcher) bool) {
	ls := s.ls[:0]
	for _, w := range s.ls {
		if w.get() == nil || drop(w) {
			continue
		}
		ls = append(ls, w)
	}
	clear(s.ls[len(ls):])
	s.ls = ls
}

func (s *Store) notify(f func(l Listener)) {
	dead := false
	for _, w := range s.ls {
		if l := w.get(); l != nil {
			f(l)
		} else {
			dead = true
		}
	}
	if dead {
		s.prune(func(watcher) bool { return false })
	}
}

func (s *Store) contentsChanged(start uint64, old []uint64) {
	if len(s.ls) == 0 {
		return
	}
	s.notify(func(l Listener) { l.ContentsChanged(s, start, old) })
}

func (s *Store) dimensionsChanged() {
	if len(s.ls) == 0 {
		return
	}
	s.notify(func(l Listener) { l.DimensionsChanged(s) })
}
