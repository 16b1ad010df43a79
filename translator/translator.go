package translator

import (
	"io"

	"github.com/hlmerscher/hack-toolchain-go/logger"
	"github.com/hlmerscher/hack-toolchain-go/vm"
)

// Options controls the program-level code written around the units.
type Options struct {
	Bootstrap bool
	Entry     string
	StackBase int
}

func DefaultOptions() Options {
	return Options{Entry: DefaultEntry, StackBase: DefaultStackBase}
}

// Unit is one VM source, named after the file it came from.
type Unit struct {
	Name   string
	Source io.Reader
}

// Translate writes the units as one assembly program to out.
func Translate(units []Unit, out io.Writer, opts Options) error {
	w := NewCodeWriter(out)

	if opts.Bootstrap {
		entry, stackBase := opts.Entry, opts.StackBase
		if entry == "" {
			entry = DefaultEntry
		}
		if stackBase == 0 {
			stackBase = DefaultStackBase
		}
		w.WriteInit(entry, stackBase)
	}

	for _, unit := range units {
		if err := w.Translate(unit.Name, unit.Source); err != nil {
			return err
		}
	}

	return w.Err()
}

// Translate writes every command of one VM unit.
func (w *CodeWriter) Translate(name string, r io.Reader) error {
	w.SetFileName(name)
	logger.Printf("translating %s\n", name)

	p := vm.NewParser(r)
	n := 0
	for p.Scan() {
		cmd := p.Command()
		if err := w.Write(cmd); err != nil {
			return &Error{Unit: name, Line: p.Line(), Command: cmd.String(), Err: err}
		}
		n++
	}
	if err := p.Err(); err != nil {
		return &Error{Unit: name, Err: err}
	}

	logger.Printf("translated %d commands from %s\n", n, name)
	return w.Err()
}
