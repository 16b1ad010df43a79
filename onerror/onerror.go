package onerror

import (
	"fmt"
	"io"
	"log"
	"os"
)

var out io.Writer = os.Stderr

func Log(err error) {
	Logf("", err)
}

// Logf exits the process when err is set.
func Logf(msg string, err error) {
	if err != nil {
		log.Fatalf("\n%s%s", msg, err)
	}
}

// Report prints a failure of one unit of a batch without stopping the
// process. It returns whether err was set.
func Report(unit string, err error) bool {
	if err == nil {
		return false
	}

	fmt.Fprintf(out, "error:\t%s: %s\n", unit, err)
	return true
}
