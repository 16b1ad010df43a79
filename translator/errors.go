package translator

import (
	"errors"
	"fmt"
)

var (
	ErrPopConstant    = errors.New("constant segment is read-only")
	ErrSegmentIndex   = errors.New("segment index out of range")
	ErrUnknownOp      = errors.New("unknown arithmetic command")
	ErrUnknownSegment = errors.New("unknown segment")
)

// Error locates a translation failure in its source unit.
type Error struct {
	Unit    string
	Line    int
	Command string
	Err     error
}

func (e *Error) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("%s: %v", e.Unit, e.Err)
	}
	return fmt.Sprintf("%s:%d: %s: %v", e.Unit, e.Line, e.Command, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
