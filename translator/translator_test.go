package translator

import (
	"errors"
	"strings"
	"testing"

	"github.com/hlmerscher/hack-toolchain-go/vm"
)

func translate(t *testing.T, opts Options, sources ...string) []string {
	t.Helper()
	var units []Unit
	for i, src := range sources {
		name := []string{"Main.vm", "Other.vm", "Third.vm"}[i]
		units = append(units, Unit{Name: name, Source: strings.NewReader(src)})
	}

	out := new(strings.Builder)
	if err := Translate(units, out, opts); err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	return strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
}

func instructions(lines []string) []string {
	var out []string
	for _, line := range lines {
		if !strings.HasPrefix(line, "//") {
			out = append(out, line)
		}
	}
	return out
}

func TestBootstrapComesFirst(t *testing.T) {
	opts := DefaultOptions()
	opts.Bootstrap = true
	got := instructions(translate(t, opts, "function Main.seven 0\npush constant 7\nreturn\n"))

	want := []string{"@256", "D=A", "@SP", "M=D", "@Sys.init$ret.0", "D=A"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("instruction %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBootstrapOptions(t *testing.T) {
	got := instructions(translate(t, Options{Bootstrap: true, Entry: "Main.main", StackBase: 300}, "return"))
	if got[0] != "@300" || got[4] != "@Main.main$ret.0" {
		t.Errorf("bootstrap = %v", got[:5])
	}

	got = instructions(translate(t, DefaultOptions(), "push constant 1"))
	if got[0] != "@1" {
		t.Errorf("first instruction without bootstrap = %q, want @1", got[0])
	}
}

func TestPushPopTemplates(t *testing.T) {
	tests := []struct {
		command string
		want    []string
	}{
		{"push constant 7", []string{"@7", "D=A", "@SP", "A=M", "M=D", "@SP", "M=M+1"}},
		{"push local 2", []string{"@LCL", "D=M", "@2", "D=D+A", "A=D", "D=M", "@SP", "A=M", "M=D", "@SP", "M=M+1"}},
		{"push that 0", []string{"@THAT", "D=M", "@0", "D=D+A", "A=D", "D=M", "@SP", "A=M", "M=D", "@SP", "M=M+1"}},
		{"push temp 6", []string{"@R11", "D=M", "@SP", "A=M", "M=D", "@SP", "M=M+1"}},
		{"push pointer 1", []string{"@R4", "D=M", "@SP", "A=M", "M=D", "@SP", "M=M+1"}},
		{"push static 3", []string{"@Main.3", "D=M", "@SP", "A=M", "M=D", "@SP", "M=M+1"}},
		{"pop argument 1", []string{"@ARG", "D=M", "@1", "D=D+A", "@R13", "M=D", "@SP", "AM=M-1", "D=M", "@R13", "A=M", "M=D"}},
		{"pop pointer 0", []string{"@SP", "AM=M-1", "D=M", "@R3", "M=D"}},
		{"pop static 0", []string{"@SP", "AM=M-1", "D=M", "@Main.0", "M=D"}},
		{"add", []string{"@SP", "AM=M-1", "D=M", "A=A-1", "M=D+M"}},
		{"sub", []string{"@SP", "AM=M-1", "D=M", "A=A-1", "M=M-D"}},
		{"not", []string{"@SP", "A=M-1", "M=!M"}},
		{"neg", []string{"@SP", "A=M-1", "M=-M"}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			got := translate(t, DefaultOptions(), tt.command)
			if got[0] != "// "+tt.command {
				t.Errorf("comment = %q", got[0])
			}
			assertEqual(t, got[1:], tt.want)
		})
	}
}

func TestComparisonLabelsAreFresh(t *testing.T) {
	got := instructions(translate(t, DefaultOptions(), "eq\nlt\n", "gt\n"))

	seen := map[string]bool{}
	for _, line := range got {
		if strings.HasPrefix(line, "(") {
			if seen[line] {
				t.Errorf("label %s defined twice", line)
			}
			seen[line] = true
		}
	}
	for _, label := range []string{"(TRUE_0)", "(END_0)", "(TRUE_1)", "(END_1)", "(TRUE_2)", "(END_2)"} {
		if !seen[label] {
			t.Errorf("missing %s", label)
		}
	}
}

func TestProgramLabelsAreScopedByFunction(t *testing.T) {
	src := `
function Main.a 0
label IF_TRUE0
goto IF_TRUE0
return
function Main.b 0
label IF_TRUE0
if-goto IF_TRUE0
return
`
	got := instructions(translate(t, DefaultOptions(), src))
	joined := strings.Join(got, "\n")
	for _, want := range []string{"(Main.a$IF_TRUE0)\n@Main.a$IF_TRUE0\n0;JMP", "(Main.b$IF_TRUE0)", "@Main.b$IF_TRUE0\nD;JNE"} {
		if !strings.Contains(joined, want) {
			t.Errorf("output does not contain %q", want)
		}
	}
}

func TestCallReturnSymmetry(t *testing.T) {
	push := "@SP\nA=M\nM=D\n@SP\nM=M+1"

	call := strings.Join(translate(t, DefaultOptions(), "call Math.multiply 2"), "\n")
	if n := strings.Count(call, push); n != 5 {
		t.Errorf("call pushes %d values, want 5", n)
	}
	for _, want := range []string{"@Math.multiply$ret.0\nD=A", "@7\nD=D-A\n@ARG\nM=D", "@SP\nD=M\n@LCL\nM=D", "@Math.multiply\n0;JMP\n(Math.multiply$ret.0)"} {
		if !strings.Contains(call, want) {
			t.Errorf("call does not contain %q", want)
		}
	}

	ret := instructions(translate(t, DefaultOptions(), "return"))
	var restored []string
	for i, line := range ret {
		if line == "AM=M-1" && ret[i-1] == "@R13" {
			restored = append(restored, ret[i+2])
		}
	}
	assertEqual(t, restored, []string{"@THAT", "@THIS", "@ARG", "@LCL"})
	if last := ret[len(ret)-3:]; strings.Join(last, " ") != "@R14 A=M 0;JMP" {
		t.Errorf("return ends with %v", last)
	}
}

func TestFunctionInitializesLocals(t *testing.T) {
	got := instructions(translate(t, DefaultOptions(), "function Main.f 2"))
	assertEqual(t, got, []string{
		"(Main.f)",
		"@SP", "A=M", "M=0", "@SP", "M=M+1",
		"@SP", "A=M", "M=0", "@SP", "M=M+1",
	})
}

func TestReturnLabelsNeverReset(t *testing.T) {
	got := instructions(translate(t, DefaultOptions(), "call A.f 0\neq", "call A.f 0"))
	joined := strings.Join(got, "\n")
	for _, want := range []string{"(A.f$ret.0)", "(TRUE_1)", "(A.f$ret.2)"} {
		if !strings.Contains(joined, want) {
			t.Errorf("output does not contain %s", want)
		}
	}
}

func TestStaticsAreNamedByUnit(t *testing.T) {
	got := instructions(translate(t, DefaultOptions(), "push static 0", "push static 0"))
	joined := strings.Join(got, "\n")
	if !strings.Contains(joined, "@Main.0") || !strings.Contains(joined, "@Other.0") {
		t.Errorf("statics not qualified by unit:\n%s", joined)
	}

	w := NewCodeWriter(new(strings.Builder))
	w.SetFileName("some/dir/Pong.vm")
	if w.file != "Pong" {
		t.Errorf("file = %q, want Pong", w.file)
	}
}

func TestTranslateErrors(t *testing.T) {
	tests := []struct {
		src  string
		want error
		line int
	}{
		{"push constant 1\npop constant 0", ErrPopConstant, 2},
		{"\n// temp\npush temp 8", ErrSegmentIndex, 3},
		{"pop pointer 2", ErrSegmentIndex, 1},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			units := []Unit{{Name: "Bad.vm", Source: strings.NewReader(tt.src)}}
			err := Translate(units, new(strings.Builder), DefaultOptions())
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			var tErr *Error
			if !errors.As(err, &tErr) || tErr.Line != tt.line || tErr.Unit != "Bad.vm" {
				t.Errorf("error = %#v, want line %d of Bad.vm", err, tt.line)
			}
		})
	}

	units := []Unit{{Name: "Bad.vm", Source: strings.NewReader("push nowhere 1")}}
	err := Translate(units, new(strings.Builder), DefaultOptions())
	var parseErr *vm.ParseError
	if !errors.As(err, &parseErr) || parseErr.Line != 1 {
		t.Errorf("error = %v, want *vm.ParseError on line 1", err)
	}
}

func TestWriteRejectsInvalidCommands(t *testing.T) {
	out := new(strings.Builder)
	w := NewCodeWriter(out)

	if err := w.Write(vm.Arithmetic("mul")); !errors.Is(err, ErrUnknownOp) {
		t.Errorf("Write(mul) error = %v", err)
	}
	if err := w.Write(vm.Push("heap", 0)); !errors.Is(err, ErrUnknownSegment) {
		t.Errorf("Write(push heap) error = %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("invalid commands wrote %q", out.String())
	}
}

func assertEqual(t *testing.T, got, want []string) {
	t.Helper()
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("got\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}
