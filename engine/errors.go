package engine

import (
	"errors"
	"fmt"
)

var (
	notClassVarDec   = errors.New("not a class variable declaration")
	notLocalVarDec   = errors.New("not a local variable declaration")
	notSubroutineDec = errors.New("not a subroutine declaration")
)

// SyntaxError reports a token that does not fit the grammar.
type SyntaxError struct {
	Line int
	Got  string
	Want string
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: expected %s, got %s", e.Line, e.Want, e.Got)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// SemanticError reports an identifier that cannot be used where it appears.
type SemanticError struct {
	Line   int
	Name   string
	Reason string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Reason, e.Name)
}

// bailout carries an error up through the recursive descent; Compile
// recovers it.
type bailout struct {
	err error
}

func fail(err error) {
	panic(bailout{err})
}
