package assembler

import (
	"fmt"
	"regexp"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	DefaultVariableBase = 16
	MaxAddress          = 32767
)

var symbolPattern = regexp.MustCompile(`^[A-Za-z_.$:][A-Za-z0-9_.$:]*$`)

var predefined = map[string]int{
	"SP":     0,
	"LCL":    1,
	"ARG":    2,
	"THIS":   3,
	"THAT":   4,
	"SCREEN": 16384,
	"KBD":    24576,
}

func init() {
	for i := 0; i < 16; i++ {
		predefined[fmt.Sprintf("R%d", i)] = i
	}
}

type SymbolKind string

const (
	PREDEFINED = SymbolKind("predefined")
	LABEL      = SymbolKind("label")
	VARIABLE   = SymbolKind("variable")
)

type Symbol struct {
	Name    string
	Kind    SymbolKind
	Address int
}

// SymbolTable keeps labels and variables apart from the predefined
// aliases. Lookups go predefined, labels, then variables.
type SymbolTable struct {
	labels       map[string]int
	variables    map[string]int
	nextVariable int
}

func NewSymbolTable(variableBase int) *SymbolTable {
	return &SymbolTable{
		labels:       map[string]int{},
		variables:    map[string]int{},
		nextVariable: variableBase,
	}
}

func (s *SymbolTable) Lookup(name string) (int, bool) {
	if address, ok := predefined[name]; ok {
		return address, true
	}
	if address, ok := s.labels[name]; ok {
		return address, true
	}
	address, ok := s.variables[name]
	return address, ok
}

func (s *SymbolTable) DefineLabel(name string, address int) error {
	if _, ok := predefined[name]; ok {
		return fmt.Errorf("%w %q: predefined symbol", ErrDuplicateLabel, name)
	}
	if _, ok := s.labels[name]; ok {
		return fmt.Errorf("%w %q", ErrDuplicateLabel, name)
	}
	s.labels[name] = address
	return nil
}

// Resolve returns the address of name, allocating the next free variable
// slot when it is unknown.
func (s *SymbolTable) Resolve(name string) (int, error) {
	if address, ok := s.Lookup(name); ok {
		return address, nil
	}
	if s.nextVariable > MaxAddress {
		return 0, fmt.Errorf("%w: no room for variable %q", ErrAddressRange, name)
	}

	address := s.nextVariable
	s.variables[name] = address
	s.nextVariable++
	return address, nil
}

// Snapshot lists every known symbol ordered by address, then name.
func (s *SymbolTable) Snapshot() []Symbol {
	symbols := make([]Symbol, 0, len(predefined)+len(s.labels)+len(s.variables))
	add := func(kind SymbolKind, table map[string]int) {
		names := maps.Keys(table)
		slices.Sort(names)
		for _, name := range names {
			symbols = append(symbols, Symbol{Name: name, Kind: kind, Address: table[name]})
		}
	}
	add(PREDEFINED, predefined)
	add(LABEL, s.labels)
	add(VARIABLE, s.variables)

	slices.SortStableFunc(symbols, func(a, b Symbol) bool {
		return a.Address < b.Address
	})
	return symbols
}
