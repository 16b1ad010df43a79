package assembler

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/hlmerscher/hack-toolchain-go/logger"
)

// Unit is one assembly source, named after the file it came from.
type Unit struct {
	Name   string
	Source io.Reader
}

type instruction struct {
	unit string
	line int
	text string
}

// Assembler turns Hack assembly into 16-bit binary words. Units are added
// in order by Add, which runs the first pass; Assemble runs the second.
type Assembler struct {
	symbols *SymbolTable
	program []instruction
}

type Option func(*Assembler)

// WithVariableBase sets the address of the first variable.
func WithVariableBase(base int) Option {
	return func(a *Assembler) {
		a.symbols = NewSymbolTable(base)
	}
}

func New(options ...Option) *Assembler {
	a := &Assembler{symbols: NewSymbolTable(DefaultVariableBase)}
	for _, option := range options {
		option(a)
	}
	return a
}

// Assemble writes the binary program of the units to out.
func Assemble(units []Unit, out io.Writer, options ...Option) error {
	a := New(options...)
	for _, unit := range units {
		if err := a.Add(unit.Name, unit.Source); err != nil {
			return err
		}
	}
	return a.Assemble(out)
}

// Add strips comments and blank lines from one unit, binds its labels to
// the address of the next instruction and queues the instructions.
func (a *Assembler) Add(unit string, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := clean(scanner.Text())
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "(") {
			if err := a.label(text); err != nil {
				return &Error{Unit: unit, Line: line, Text: text, Err: err}
			}
			continue
		}

		a.program = append(a.program, instruction{unit: unit, line: line, text: text})
	}

	return scanner.Err()
}

func (a *Assembler) label(text string) error {
	name := strings.TrimPrefix(text, "(")
	if !strings.HasSuffix(name, ")") {
		return ErrMalformedLabel
	}
	name = strings.TrimSuffix(name, ")")
	if !symbolPattern.MatchString(name) {
		return ErrMalformedLabel
	}

	return a.symbols.DefineLabel(name, len(a.program))
}

// Assemble translates the queued instructions, allocating variables in the
// order they first appear.
func (a *Assembler) Assemble(out io.Writer) error {
	w := bufio.NewWriter(out)
	for _, inst := range a.program {
		word, err := a.encode(inst.text)
		if err != nil {
			return &Error{Unit: inst.unit, Line: inst.line, Text: inst.text, Err: err}
		}
		if _, err := w.WriteString(word + "\n"); err != nil {
			return err
		}
	}

	logger.Printf("assembled %d instructions\n", len(a.program))
	logger.Dump(a.Symbols())
	return w.Flush()
}

func (a *Assembler) encode(text string) (string, error) {
	if !strings.HasPrefix(text, "@") {
		return encodeC(text)
	}

	value := text[1:]
	if value != "" && value[0] >= '0' && value[0] <= '9' {
		address, err := strconv.Atoi(value)
		if err != nil {
			return "", ErrMalformedSymbol
		}
		if address > MaxAddress {
			return "", ErrAddressRange
		}
		return encodeA(address), nil
	}

	if !symbolPattern.MatchString(value) {
		return "", ErrMalformedSymbol
	}
	address, err := a.symbols.Resolve(value)
	if err != nil {
		return "", err
	}
	return encodeA(address), nil
}

// Len is the number of instructions queued so far.
func (a *Assembler) Len() int {
	return len(a.program)
}

// Symbols snapshots the symbol table.
func (a *Assembler) Symbols() []Symbol {
	return a.symbols.Snapshot()
}

// clean drops the comment and all whitespace of a line.
func clean(text string) string {
	if i := strings.Index(text, "//"); i >= 0 {
		text = text[:i]
	}
	return strings.Join(strings.Fields(text), "")
}
