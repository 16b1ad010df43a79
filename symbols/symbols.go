// Package symbols resolves Jack identifiers to their declared type, storage
// kind and running index. Class and subroutine scopes are separate values so
// that a compilation unit owns its own counters.
package symbols

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Kind string

const (
	STATIC = Kind("static")
	FIELD  = Kind("field")
	ARG    = Kind("argument")
	VAR    = Kind("local")
	NONE   = Kind("")
)

// ClassLevel reports whether the kind lives in class scope.
func (k Kind) ClassLevel() bool {
	return k == STATIC || k == FIELD
}

type Entry struct {
	Name  string
	Type  string
	Kind  Kind
	Index int
}

// Scope maps names to entries and hands out dense indices per kind.
type Scope struct {
	entries map[string]Entry
	counts  map[Kind]int
}

func NewScope() *Scope {
	return &Scope{
		entries: make(map[string]Entry),
		counts:  make(map[Kind]int),
	}
}

func (s *Scope) define(name, typ string, kind Kind) Entry {
	entry := Entry{Name: name, Type: typ, Kind: kind, Index: s.counts[kind]}
	s.entries[name] = entry
	s.counts[kind]++
	return entry
}

func (s *Scope) Lookup(name string) (Entry, bool) {
	entry, ok := s.entries[name]
	return entry, ok
}

func (s *Scope) Count(kind Kind) int {
	return s.counts[kind]
}

// Entries lists the scope's entries ordered by kind then index.
func (s *Scope) Entries() []Entry {
	entries := maps.Values(s.entries)
	slices.SortFunc(entries, func(a, b Entry) bool {
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Index < b.Index
	})
	return entries
}

// Table pairs the class scope of one compilation unit with the scope of the
// subroutine currently being compiled.
type Table struct {
	Class      *Scope
	Subroutine *Scope
}

func New() *Table {
	return &Table{Class: NewScope(), Subroutine: NewScope()}
}

// StartSubroutine discards the previous subroutine scope.
func (t *Table) StartSubroutine() {
	t.Subroutine = NewScope()
}

// Define adds name to the scope its kind belongs to. Redeclaring a name in
// the same scope is an error.
func (t *Table) Define(name, typ string, kind Kind) (Entry, error) {
	scope := t.Subroutine
	switch {
	case kind.ClassLevel():
		scope = t.Class
	case kind == ARG || kind == VAR:
	default:
		return Entry{}, fmt.Errorf("invalid symbol kind %q for %q", kind, name)
	}

	if _, ok := scope.Lookup(name); ok {
		return Entry{}, fmt.Errorf("%q already declared", name)
	}

	return scope.define(name, typ, kind), nil
}

// Lookup searches the subroutine scope first, then the class scope.
func (t *Table) Lookup(name string) (Entry, bool) {
	if entry, ok := t.Subroutine.Lookup(name); ok {
		return entry, true
	}
	return t.Class.Lookup(name)
}

func (t *Table) VarCount(kind Kind) int {
	if kind.ClassLevel() {
		return t.Class.Count(kind)
	}
	return t.Subroutine.Count(kind)
}

func (t *Table) KindOf(name string) Kind {
	entry, ok := t.Lookup(name)
	if !ok {
		return NONE
	}
	return entry.Kind
}

func (t *Table) TypeOf(name string) string {
	entry, _ := t.Lookup(name)
	return entry.Type
}

func (t *Table) IndexOf(name string) int {
	entry, ok := t.Lookup(name)
	if !ok {
		return -1
	}
	return entry.Index
}
