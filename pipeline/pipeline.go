package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hlmerscher/hack-toolchain-go/assembler"
	"github.com/hlmerscher/hack-toolchain-go/config"
	"github.com/hlmerscher/hack-toolchain-go/cpu"
	"github.com/hlmerscher/hack-toolchain-go/engine"
	"github.com/hlmerscher/hack-toolchain-go/logger"
	"github.com/hlmerscher/hack-toolchain-go/tokenizer"
	"github.com/hlmerscher/hack-toolchain-go/translator"
	"github.com/hlmerscher/hack-toolchain-go/vm"
)

// Unit is one source file held in memory.
type Unit struct {
	Name   string
	Source []byte
}

type Options struct {
	Translate    translator.Options
	VariableBase int
}

func DefaultOptions() Options {
	return Options{
		Translate:    translator.DefaultOptions(),
		VariableBase: assembler.DefaultVariableBase,
	}
}

// OptionsFrom applies cfg to a run over units source files, which came from
// a directory when directory is set.
func OptionsFrom(cfg config.Config, units int, directory bool) Options {
	return Options{
		Translate: translator.Options{
			Bootstrap: cfg.Bootstrap.Required(units, directory),
			Entry:     cfg.Entry,
			StackBase: cfg.StackBase,
		},
		VariableBase: cfg.VariableBase,
	}
}

// CompileJack compiles one Jack class to VM code.
func CompileJack(name string, r io.Reader, w io.Writer) error {
	tk, err := tokenizer.New(r)
	if err != nil {
		return err
	}

	c := engine.New(vm.New(w))
	if err := c.Compile(tk); err != nil {
		return err
	}

	logger.Printf("compiled %s\n", name)
	return nil
}

// TranslateVM translates VM units into one assembly program.
func TranslateVM(units []Unit, w io.Writer, opts translator.Options) error {
	sources := make([]translator.Unit, 0, len(units))
	for _, unit := range units {
		sources = append(sources, translator.Unit{Name: unit.Name, Source: bytes.NewReader(unit.Source)})
	}
	return translator.Translate(sources, w, opts)
}

// Assemble assembles units into one binary program.
func Assemble(units []Unit, w io.Writer, variableBase int) error {
	_, err := assemble(units, w, variableBase)
	return err
}

func assemble(units []Unit, w io.Writer, variableBase int) (*assembler.Assembler, error) {
	a := assembler.New(assembler.WithVariableBase(variableBase))
	for _, unit := range units {
		if err := a.Add(unit.Name, bytes.NewReader(unit.Source)); err != nil {
			return nil, err
		}
	}
	return a, a.Assemble(w)
}

// Result holds every stage's output of a Build.
type Result struct {
	VM       []Unit
	Assembly string
	Binary   string
	Symbols  []assembler.Symbol
}

// Build runs Jack units through every stage in memory. The first failing
// stage stops the build.
func Build(units []Unit, opts Options) (*Result, error) {
	result := &Result{}

	for _, unit := range units {
		out := new(bytes.Buffer)
		if err := CompileJack(unit.Name, bytes.NewReader(unit.Source), out); err != nil {
			return nil, fmt.Errorf("%s: %w", unit.Name, err)
		}
		result.VM = append(result.VM, Unit{Name: withExt(unit.Name, ".vm"), Source: out.Bytes()})
	}

	asm := new(strings.Builder)
	if err := TranslateVM(result.VM, asm, opts.Translate); err != nil {
		return nil, err
	}
	result.Assembly = asm.String()

	name := "Prog.asm"
	if len(units) > 0 {
		name = withExt(units[0].Name, ".asm")
	}
	binary := new(strings.Builder)
	a, err := assemble([]Unit{{Name: name, Source: []byte(result.Assembly)}}, binary, opts.VariableBase)
	if err != nil {
		return nil, err
	}
	result.Binary = binary.String()
	result.Symbols = a.Symbols()

	return result, nil
}

// Run executes a binary program for at most cycles instructions. Running
// out of cycles is the normal end of a Hack program and is not an error.
func Run(binary io.Reader, cycles int) (*cpu.CPU, error) {
	rom, err := cpu.Load(binary)
	if err != nil {
		return nil, err
	}

	c := cpu.New(rom)
	if err := c.Run(cycles); err != nil {
		logger.Printf("stopped after %d cycles at pc %d\n", c.Cycles, c.PC)
	}
	return c, nil
}

func withExt(name, ext string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}
