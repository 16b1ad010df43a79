package engine

import (
	"encoding/xml"

	"github.com/hlmerscher/hack-toolchain-go/tokenizer"
)

// Listener observes the grammar traversal: Open and Close bracket every
// non-terminal rule, Terminal reports every consumed token.
type Listener interface {
	Open(rule string)
	Terminal(token tokenizer.Token)
	Close(rule string)
}

type nopListener struct{}

func (nopListener) Open(string)              {}
func (nopListener) Terminal(tokenizer.Token) {}
func (nopListener) Close(string)             {}

// NestedToken is one non-terminal of the parse tree.
type NestedToken struct {
	XMLName  xml.Name
	Children []xml.Marshaler
}

func (nt *NestedToken) append(token xml.Marshaler) {
	if token != nil {
		nt.Children = append(nt.Children, token)
	}
}

func (nt *NestedToken) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: nt.XMLName}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, child := range nt.Children {
		if err := e.Encode(child); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// TreeBuilder is a Listener that records the traversal as a NestedToken
// tree.
type TreeBuilder struct {
	root  *NestedToken
	stack []*NestedToken
}

func (b *TreeBuilder) Open(rule string) {
	node := &NestedToken{XMLName: xml.Name{Local: rule}}
	if len(b.stack) == 0 {
		b.root = node
	} else {
		b.stack[len(b.stack)-1].append(node)
	}
	b.stack = append(b.stack, node)
}

func (b *TreeBuilder) Terminal(token tokenizer.Token) {
	if len(b.stack) == 0 {
		return
	}
	b.stack[len(b.stack)-1].append(token)
}

func (b *TreeBuilder) Close(string) {
	b.stack = b.stack[:len(b.stack)-1]
}

// Root returns the outermost rule seen, normally the class.
func (b *TreeBuilder) Root() *NestedToken {
	return b.root
}
