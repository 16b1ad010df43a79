package tokenizer

import (
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/exp/slices"
)

// MaxInt is the largest integer constant representable on the target.
const MaxInt = 32767

var EmptyToken = Token{}

var (
	identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*`)
	integerPattern    = regexp.MustCompile(`^[0-9]+`)
)

// New reads the whole input and splits it into tokens. Lexical errors are
// reported here, before any consumer sees the first token.
func New(input io.Reader) (*Tokenizer, error) {
	src, err := io.ReadAll(input)
	if err != nil {
		return nil, err
	}

	tokens, err := scan(string(src))
	if err != nil {
		return nil, err
	}

	return &Tokenizer{tokens: tokens, Current: EmptyToken}, nil
}

// Tokenizer is a forward-only cursor over a token sequence.
type Tokenizer struct {
	tokens  []Token
	cursor  int
	Current Token
}

func (tk *Tokenizer) HasMoreTokens() bool {
	return tk.cursor < len(tk.tokens)
}

// Peek returns the next token without consuming it, or EmptyToken once the
// sequence is exhausted.
func (tk *Tokenizer) Peek() Token {
	if !tk.HasMoreTokens() {
		return EmptyToken
	}
	return tk.tokens[tk.cursor]
}

// Advance consumes the next token and makes it Current.
func (tk *Tokenizer) Advance() (Token, error) {
	if !tk.HasMoreTokens() {
		return EmptyToken, ErrNoMoreTokens
	}

	tk.Current = tk.tokens[tk.cursor]
	tk.cursor++

	return tk.Current, nil
}

// Tokens returns a copy of the full sequence regardless of the cursor.
func (tk *Tokenizer) Tokens() []Token {
	return slices.Clone(tk.tokens)
}

type scanner struct {
	src    string
	pos    int
	line   int
	tokens []Token
}

func scan(src string) ([]Token, error) {
	s := &scanner{src: src, line: 1}
	for {
		s.skipIgnored()
		if s.pos >= len(s.src) {
			return s.tokens, nil
		}
		if err := s.next(); err != nil {
			return nil, err
		}
	}
}

// skipIgnored drops whitespace and comments. A block comment without its
// closing */ swallows the rest of the input.
func (s *scanner) skipIgnored() {
	for s.pos < len(s.src) {
		rest := s.src[s.pos:]
		switch {
		case rest[0] == '\n':
			s.line++
			s.pos++
		case isSpace(rest[0]):
			s.pos++
		case strings.HasPrefix(rest, "//"):
			end := strings.IndexByte(rest, '\n')
			if end < 0 {
				s.pos = len(s.src)
				return
			}
			s.pos += end
		case strings.HasPrefix(rest, "/*"):
			end := strings.Index(rest[2:], "*/")
			if end < 0 {
				s.line += strings.Count(rest, "\n")
				s.pos = len(s.src)
				return
			}
			comment := rest[:end+4]
			s.line += strings.Count(comment, "\n")
			s.pos += len(comment)
		default:
			return
		}
	}
}

func (s *scanner) next() error {
	rest := s.src[s.pos:]

	switch c := rest[0]; {
	case c == '"':
		end := strings.IndexAny(rest[1:], "\"\n")
		if end < 0 || rest[1+end] == '\n' {
			lexeme := rest
			if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
				lexeme = rest[:nl]
			}
			return s.errorf(lexeme, "unterminated string constant")
		}
		s.emit(STRING_CONST, rest[1:1+end], end+2)

	case isDigit(c):
		lit := integerPattern.FindString(rest)
		if len(lit) > 1 && lit[0] == '0' {
			return s.errorf(lit, "integer constant with leading zero")
		}
		if n, err := strconv.Atoi(lit); err != nil || n > MaxInt {
			return s.errorf(lit, "integer constant out of range")
		}
		s.emit(INT_CONST, lit, len(lit))

	case identifierPattern.MatchString(rest):
		word := identifierPattern.FindString(rest)
		tokenType := IDENTIFIER
		if isKeyword(word) {
			tokenType = KEYWORD
		}
		s.emit(tokenType, word, len(word))

	case isSymbol(string(c)):
		s.emit(SYMBOL, string(c), 1)

	default:
		r, _ := utf8.DecodeRuneInString(rest)
		return s.errorf(string(r), "unexpected character")
	}

	return nil
}

func (s *scanner) emit(tokenType TokenType, raw string, width int) {
	s.tokens = append(s.tokens, Token{Raw: raw, Type: tokenType, Line: s.line})
	s.pos += width
}

func (s *scanner) errorf(lexeme, reason string) error {
	return &LexicalError{Line: s.line, Lexeme: lexeme, Reason: reason}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

var keywords = []string{
	"class",
	"constructor",
	"function",
	"method",
	"field",
	"static",
	"var",
	"int",
	"char",
	"boolean",
	"void",
	"true",
	"false",
	"null",
	"this",
	"let",
	"do",
	"if",
	"else",
	"while",
	"return",
}

func isKeyword(value string) bool {
	return slices.Contains(keywords, value)
}

var symbols = []string{
	"{", "}",
	"(", ")",
	"[", "]",
	".", ",", ";",
	"+", "-", "*", "/",
	"&", "|",
	"<", ">",
	"=", "~",
}

func isSymbol(value string) bool {
	return slices.Contains(symbols, value)
}
