package vm

import (
	"errors"
	"strings"
	"testing"
)

func TestWriterOutput(t *testing.T) {
	out := new(strings.Builder)
	w := New(out)

	w.WriteFunction("Main.main", 2)
	w.WritePush(CONSTANT, 7)
	w.WritePop(LOCAL, 1)
	w.WriteArithmetic("add")
	w.WriteLabel("WHILE_EXP0")
	w.WriteIf("WHILE_END0")
	w.WriteGoto("WHILE_EXP0")
	w.WriteCall("Math.multiply", 2)
	w.WriteReturn()

	want := strings.Join([]string{
		"function Main.main 2",
		"push constant 7",
		"pop local 1",
		"add",
		"label WHILE_EXP0",
		"if-goto WHILE_END0",
		"goto WHILE_EXP0",
		"call Math.multiply 2",
		"return",
	}, "\n") + "\n"

	if out.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", out.String(), want)
	}
	if w.Len() != 9 {
		t.Errorf("Len() = %d, want 9", w.Len())
	}
	if w.Err() != nil {
		t.Errorf("Err() = %v", w.Err())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriterKeepsFirstError(t *testing.T) {
	w := New(failingWriter{})
	w.WriteReturn()
	w.WriteReturn()
	if w.Err() == nil || w.Len() != 1 {
		t.Errorf("Err() = %v, Len() = %d; want error after one write", w.Err(), w.Len())
	}
}

func TestParserRoundTrip(t *testing.T) {
	src := `// header comment
function Main.main 0

   push constant 7   // seven
call Sys.halt 0
if-goto LOOP
return
`
	p := NewParser(strings.NewReader(src))

	var got []string
	var lines []int
	for p.Scan() {
		got = append(got, p.Command().String())
		lines = append(lines, p.Line())
	}
	if p.Err() != nil {
		t.Fatalf("Err() = %v", p.Err())
	}

	want := []string{"function Main.main 0", "push constant 7", "call Sys.halt 0", "if-goto LOOP", "return"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("commands = %v, want %v", got, want)
	}
	if lines[1] != 4 {
		t.Errorf("line of push = %d, want 4", lines[1])
	}
}

func TestParseCommandErrors(t *testing.T) {
	tests := []string{
		"push",
		"push heap 1",
		"pop local -1",
		"push local x",
		"add 1",
		"label",
		"return 0",
		"jump END",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			if cmd, err := ParseCommand(text); err == nil {
				t.Errorf("ParseCommand(%q) = %v, want error", text, cmd)
			}
		})
	}
}

func TestParserReportsLine(t *testing.T) {
	p := NewParser(strings.NewReader("push constant 1\n\nfrob\npush constant 2\n"))
	for p.Scan() {
	}

	var perr *ParseError
	if !errors.As(p.Err(), &perr) {
		t.Fatalf("Err() = %v, want *ParseError", p.Err())
	}
	if perr.Line != 3 {
		t.Errorf("line = %d, want 3", perr.Line)
	}
}

func TestOperands(t *testing.T) {
	for op, want := range map[string]int{"add": 2, "eq": 2, "neg": 1, "not": 1} {
		if got := Operands(op); got != want {
			t.Errorf("Operands(%s) = %d, want %d", op, got, want)
		}
	}
}
