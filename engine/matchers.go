package engine

import (
	"fmt"
	"strings"

	"github.com/hlmerscher/hack-toolchain-go/tokenizer"
	"golang.org/x/exp/slices"
)

// matcher reports whether a token fits and describes what it expects.
type matcher func(tokenizer.Token) (string, bool)

func is(raw string) matcher {
	return func(t tokenizer.Token) (string, bool) {
		fixed := t.Type == tokenizer.KEYWORD || t.Type == tokenizer.SYMBOL
		return fmt.Sprintf("%q", raw), fixed && t.Raw == raw
	}
}

func or(matchers ...matcher) matcher {
	return func(t tokenizer.Token) (string, bool) {
		wants := make([]string, 0, len(matchers))
		for _, m := range matchers {
			want, ok := m(t)
			if ok {
				return want, true
			}
			wants = append(wants, want)
		}
		return strings.Join(wants, " or "), false
	}
}

func oneOf(raws ...string) matcher {
	matchers := make([]matcher, 0, len(raws))
	for _, raw := range raws {
		matchers = append(matchers, is(raw))
	}
	return or(matchers...)
}

func ofType(tokenType tokenizer.TokenType, want string) matcher {
	return func(t tokenizer.Token) (string, bool) {
		return want, t.Type == tokenType
	}
}

func isIdentifier() matcher {
	return ofType(tokenizer.IDENTIFIER, "identifier")
}

func isIntConst() matcher {
	return ofType(tokenizer.INT_CONST, "integer constant")
}

func isStringConst() matcher {
	return ofType(tokenizer.STRING_CONST, "string constant")
}

// isVarType matches int, char, boolean or a class name.
func isVarType() matcher {
	return or(oneOf("int", "char", "boolean"), isIdentifier())
}

var binaryOps = []string{"+", "-", "*", "/", "&", "|", "<", ">", "="}

func isOp() matcher {
	return func(t tokenizer.Token) (string, bool) {
		return "binary operator", t.Type == tokenizer.SYMBOL && slices.Contains(binaryOps, t.Raw)
	}
}

func isUnaryOp() matcher {
	return oneOf("-", "~")
}

func isKeywordConstant() matcher {
	return oneOf("true", "false", "null", "this")
}

func isSubroutineKind() matcher {
	return oneOf("constructor", "function", "method")
}

func isClassVarKind() matcher {
	return oneOf("static", "field")
}

func lookahead(tk *tokenizer.Tokenizer, m matcher) bool {
	_, ok := m(tk.Peek())
	return ok
}

// processTokenOrPanics consumes the next token if any of the matchers
// accepts it and bails out with a SyntaxError otherwise.
func (c *Compiler) processTokenOrPanics(tk *tokenizer.Tokenizer, matchers ...matcher) tokenizer.Token {
	next := tk.Peek()
	want, ok := or(matchers...)(next)
	if !ok {
		if next.IsEmpty() {
			line := tk.Current.Line
			fail(&SyntaxError{Line: line, Got: "end of input", Want: want, Err: tokenizer.ErrNoMoreTokens})
		}
		fail(&SyntaxError{Line: next.Line, Got: fmt.Sprintf("%q", next.Raw), Want: want})
	}

	token, err := tk.Advance()
	if err != nil {
		fail(err)
	}
	c.listener.Terminal(token)

	return token
}
