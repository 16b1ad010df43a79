package tokenizer

import (
	"errors"
	"fmt"
)

// ErrNoMoreTokens is returned by Advance once the sequence is exhausted.
var ErrNoMoreTokens = errors.New("unexpected end of input")

// LexicalError reports malformed source text, such as 007 or an
// unterminated string constant.
type LexicalError struct {
	Line   int
	Lexeme string
	Reason string
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Lexeme)
}
