package analyzer

import (
	"encoding/xml"
	"io"

	"github.com/hlmerscher/hack-toolchain-go/engine"
	"github.com/hlmerscher/hack-toolchain-go/tokenizer"
	"github.com/hlmerscher/hack-toolchain-go/vm"
	"github.com/hlmerscher/hack-toolchain-go/writer"
)

type tokensWrapper struct {
	XMLName xml.Name `xml:"tokens"`
	Tokens  []tokenizer.Token
}

// Tokens renders the token stream of a Jack source as XML.
func Tokens(r io.Reader, out io.Writer) error {
	tk, err := tokenizer.New(r)
	if err != nil {
		return err
	}

	return writer.XML(out, tokensWrapper{Tokens: tk.Tokens()})
}

// Tree renders the parse tree of a Jack source as XML. Identifiers are not
// resolved, so classes referring to undeclared names still render.
func Tree(r io.Reader, out io.Writer) error {
	tk, err := tokenizer.New(r)
	if err != nil {
		return err
	}

	tree := &engine.TreeBuilder{}
	c := engine.New(vm.New(io.Discard), engine.WithListener(tree), engine.ParseOnly())
	if err := c.Compile(tk); err != nil {
		return err
	}

	return writer.XML(out, tree.Root())
}
