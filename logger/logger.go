package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sanity-io/litter"
)

var (
	verbose           = false
	out     io.Writer = os.Stderr
)

var dumper = litter.Options{
	HidePrivateFields: true,
	StripPackageNames: true,
	Separator:         " ",
}

func Toggle(flag bool) {
	verbose = flag
}

func Verbose() bool {
	return verbose
}

// SetOutput redirects verbose output, which goes to stderr by default.
func SetOutput(w io.Writer) {
	out = w
}

func Print(values ...any) {
	if !verbose {
		return
	}

	fmt.Fprint(out, values...)
}

func Printf(format string, values ...any) {
	if !verbose {
		return
	}

	fmt.Fprintf(out, format, values...)
}

func Println(values ...any) {
	if !verbose {
		return
	}

	fmt.Fprintln(out, values...)
}

// Dump pretty-prints data structures such as symbol tables.
func Dump(values ...any) {
	if !verbose {
		return
	}

	fmt.Fprintln(out, dumper.Sdump(values...))
}
