package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hlmerscher/hack-toolchain-go/analyzer"
	"github.com/hlmerscher/hack-toolchain-go/config"
	"github.com/hlmerscher/hack-toolchain-go/logger"
	"github.com/hlmerscher/hack-toolchain-go/onerror"
	"github.com/hlmerscher/hack-toolchain-go/pipeline"
	"github.com/hlmerscher/hack-toolchain-go/writer"
)

// sourceExt is the input file extension of every mode.
var sourceExt = map[string]string{
	"compile":   ".jack",
	"tokens":    ".jack",
	"tree":      ".jack",
	"build":     ".jack",
	"translate": ".vm",
	"assemble":  ".asm",
	"run":       ".hack",
}

func main() {
	var filename, dirname, mode, configFile, bootstrap string
	var verbose bool
	flag.StringVar(&filename, "f", "", "the filename of the source file")
	flag.StringVar(&dirname, "d", "", "the directory of the source files")
	flag.StringVar(&mode, "mode", "compile", "compile, tokens, tree, translate, assemble, build or run")
	flag.StringVar(&configFile, "config", "", "an optional YAML configuration file")
	flag.StringVar(&bootstrap, "bootstrap", "", "auto, always or never; overrides the configuration")
	flag.BoolVar(&verbose, "v", false, "verbose output")
	flag.Parse()
	if filename == "" && dirname == "" {
		onerror.Log(fmt.Errorf("filename/directory is missing"))
	}
	if _, ok := sourceExt[mode]; !ok {
		onerror.Log(fmt.Errorf("unknown mode %q", mode))
	}

	cfg := loadConfig(configFile, bootstrap)
	logger.Toggle(verbose || cfg.Verbose)
	logger.Dump(cfg)

	var units []pipeline.Unit
	if filename != "" {
		units = append(units, readUnit(filename))
	}
	if dirname != "" {
		for _, filename := range dirFilenames(dirname, sourceExt[mode]) {
			units = append(units, readUnit(filename))
		}
	}

	opts := pipeline.OptionsFrom(cfg, len(units), dirname != "")

	var failures []pipeline.Failure
	switch mode {
	case "compile":
		failures = pipeline.Batch(units, compileUnit)
	case "tokens":
		failures = pipeline.Batch(units, tokensUnit)
	case "tree":
		failures = pipeline.Batch(units, treeUnit)
	case "assemble":
		failures = pipeline.Batch(units, assembleUnit(opts))
	case "translate":
		output := writer.OutputPath(filename, ".asm")
		if dirname != "" {
			output = writer.DirOutputPath(dirname, ".asm")
		}
		out := new(strings.Builder)
		onerror.Log(pipeline.TranslateVM(units, out, opts.Translate))
		onerror.Log(writer.File(output, out.String()))
	case "build":
		build(units, opts, filename, dirname)
	case "run":
		run(units, cfg.Cycles)
	}

	for _, failure := range failures {
		onerror.Report(failure.Unit, failure.Err)
	}
	if len(failures) > 0 {
		os.Exit(1)
	}
}

func loadConfig(configFile, bootstrap string) config.Config {
	cfg := config.Default()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		onerror.Logf("error loading configuration\n", err)
	}

	if bootstrap != "" {
		policy, err := config.ParseBootstrap(bootstrap)
		onerror.Log(err)
		cfg.Bootstrap = policy
	}
	return cfg
}

func compileUnit(unit pipeline.Unit) error {
	fmt.Printf("input:\t%s\n", unit.Name)

	out := new(strings.Builder)
	if err := pipeline.CompileJack(unit.Name, bytes.NewReader(unit.Source), out); err != nil {
		return err
	}
	return writer.File(writer.OutputPath(unit.Name, ".vm"), out.String())
}

func tokensUnit(unit pipeline.Unit) error {
	fmt.Printf("input:\t%s\n", unit.Name)

	out := new(strings.Builder)
	if err := analyzer.Tokens(bytes.NewReader(unit.Source), out); err != nil {
		return err
	}
	return writer.File(writer.OutputPath(unit.Name, "T.xml"), out.String())
}

func treeUnit(unit pipeline.Unit) error {
	fmt.Printf("input:\t%s\n", unit.Name)

	out := new(strings.Builder)
	if err := analyzer.Tree(bytes.NewReader(unit.Source), out); err != nil {
		return err
	}
	return writer.File(writer.OutputPath(unit.Name, ".xml"), out.String())
}

func assembleUnit(opts pipeline.Options) func(pipeline.Unit) error {
	return func(unit pipeline.Unit) error {
		fmt.Printf("input:\t%s\n", unit.Name)

		out := new(strings.Builder)
		if err := pipeline.Assemble([]pipeline.Unit{unit}, out, opts.VariableBase); err != nil {
			return err
		}
		return writer.File(writer.OutputPath(unit.Name, ".hack"), out.String())
	}
}

func build(units []pipeline.Unit, opts pipeline.Options, filename, dirname string) {
	result, err := pipeline.Build(units, opts)
	onerror.Log(err)

	for _, unit := range result.VM {
		onerror.Log(writer.File(unit.Name, string(unit.Source)))
	}

	base := writer.OutputPath(filename, "")
	if dirname != "" {
		base = writer.DirOutputPath(dirname, "")
	}
	onerror.Log(writer.File(base+".asm", result.Assembly))
	onerror.Log(writer.File(base+".hack", result.Binary))
}

func run(units []pipeline.Unit, cycles int) {
	for _, unit := range units {
		fmt.Printf("input:\t%s\n", unit.Name)

		c, err := pipeline.Run(bytes.NewReader(unit.Source), cycles)
		onerror.Log(err)

		fmt.Printf("cycles:\t%d\n", c.Cycles)
		for i, name := range []string{"SP", "LCL", "ARG", "THIS", "THAT"} {
			fmt.Printf("%s:\t%d\n", name, c.RAM[i])
		}
		logger.Dump(c.RAM[:16])
	}
}

func readUnit(filename string) pipeline.Unit {
	source, err := os.ReadFile(filename)
	onerror.Logf("error opening file\n", err)
	return pipeline.Unit{Name: filename, Source: source}
}

func dirFilenames(dirname, ext string) []string {
	entries, err := os.ReadDir(dirname)
	onerror.Logf("error reading directory\n", err)

	filenames := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) == ext {
			filenames = append(filenames, filepath.Join(dirname, entry.Name()))
		}
	}

	return filenames
}
