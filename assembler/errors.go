package assembler

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownComp     = errors.New("unknown computation")
	ErrUnknownDest     = errors.New("unknown destination")
	ErrUnknownJump     = errors.New("unknown jump")
	ErrDuplicateLabel  = errors.New("duplicate label")
	ErrMalformedLabel  = errors.New("malformed label")
	ErrMalformedSymbol = errors.New("malformed symbol")
	ErrAddressRange    = errors.New("address out of range")
)

// Error locates an assembly failure by unit and source line.
type Error struct {
	Unit string
	Line int
	Text string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d: %v: %q", e.Unit, e.Line, e.Err, e.Text)
}

func (e *Error) Unwrap() error {
	return e.Err
}
