package vm

import (
	"io"
)

// Writer emits VM commands as text, one per line. The first write error is
// kept and every later write becomes a no-op; check it with Err.
type Writer struct {
	out io.Writer
	n   int
	err error
}

func New(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (b *Writer) Write(cmd Command) {
	if b.err != nil {
		return
	}

	_, b.err = io.WriteString(b.out, cmd.String()+"\n")
	b.n++
}

func (b *Writer) WritePush(segment Segment, index int) {
	b.Write(Push(segment, index))
}

func (b *Writer) WritePop(segment Segment, index int) {
	b.Write(Pop(segment, index))
}

func (b *Writer) WriteArithmetic(op string) {
	b.Write(Arithmetic(op))
}

func (b *Writer) WriteLabel(label string) {
	b.Write(Command{Type: C_LABEL, Arg1: label})
}

func (b *Writer) WriteGoto(label string) {
	b.Write(Command{Type: C_GOTO, Arg1: label})
}

func (b *Writer) WriteIf(label string) {
	b.Write(Command{Type: C_IF, Arg1: label})
}

func (b *Writer) WriteFunction(name string, nLocals int) {
	b.Write(Command{Type: C_FUNCTION, Arg1: name, Arg2: nLocals})
}

func (b *Writer) WriteCall(name string, nArgs int) {
	b.Write(Command{Type: C_CALL, Arg1: name, Arg2: nArgs})
}

func (b *Writer) WriteReturn() {
	b.Write(Command{Type: C_RETURN})
}

// Len is the number of commands written so far.
func (b *Writer) Len() int {
	return b.n
}

func (b *Writer) Err() error {
	return b.err
}
