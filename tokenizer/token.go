package tokenizer

import (
	"encoding/xml"
	"fmt"
	"strconv"
)

type TokenType string

const (
	KEYWORD      = TokenType("keyword")
	SYMBOL       = TokenType("symbol")
	IDENTIFIER   = TokenType("identifier")
	INT_CONST    = TokenType("integerConstant")
	STRING_CONST = TokenType("stringConstant")
	UNKNOWN      = TokenType("UNKNOWN")
)

// Token is a single lexeme of Jack source. String constants hold their
// contents without the surrounding quotes.
type Token struct {
	Raw  string
	Type TokenType
	Line int
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q", t.Type, t.Raw)
}

// Int returns the value of an integer constant.
func (t Token) Int() int {
	n, _ := strconv.Atoi(t.Raw)
	return n
}

func (t Token) IsEmpty() bool {
	return t.Type == ""
}

// MarshalXML renders the token as <type> value </type>. Escaping of
// characters such as < and & happens here and nowhere else.
func (t Token) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name.Local = string(t.Type)
	return e.EncodeElement(fmt.Sprintf(" %s ", t.Raw), start)
}
