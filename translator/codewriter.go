package translator

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hlmerscher/hack-toolchain-go/vm"
)

const (
	DefaultEntry     = "Sys.init"
	DefaultStackBase = 256
)

var baseRegisters = map[vm.Segment]string{
	vm.LOCAL:    "LCL",
	vm.ARGUMENT: "ARG",
	vm.THIS:     "THIS",
	vm.THAT:     "THAT",
}

// fixedSegments live at a fixed RAM range: pointer is R3-R4 and temp R5-R12.
var fixedSegments = map[vm.Segment]struct{ base, size int }{
	vm.POINTER: {3, 2},
	vm.TEMP:    {5, 8},
}

var binaryOpsTable = map[string]string{
	"add": "M=D+M",
	"sub": "M=M-D",
	"and": "M=D&M",
	"or":  "M=D|M",
}

var unaryOpsTable = map[string]string{
	"neg": "M=-M",
	"not": "M=!M",
}

var comparisonJumps = map[string]string{
	"eq": "JEQ",
	"gt": "JGT",
	"lt": "JLT",
}

// savedFrame is the order the caller's segment pointers are pushed by call
// and restored, reversed, by return.
var savedFrame = []string{"LCL", "ARG", "THIS", "THAT"}

// CodeWriter emits Hack assembly for VM commands. Its label counter is shared
// by every unit written through it and never resets.
type CodeWriter struct {
	out      io.Writer
	err      error
	file     string
	function string
	labels   int
}

func NewCodeWriter(out io.Writer) *CodeWriter {
	return &CodeWriter{out: out}
}

// SetFileName starts a new source unit. Static variables are named after it.
func (w *CodeWriter) SetFileName(name string) {
	base := filepath.Base(name)
	w.file = strings.TrimSuffix(base, filepath.Ext(base))
	w.function = ""
}

// WriteInit emits the bootstrap: SP is set to stackBase and entry is called.
func (w *CodeWriter) WriteInit(entry string, stackBase int) {
	w.comment("bootstrap")
	w.emit(fmt.Sprintf("@%d", stackBase), "D=A", "@SP", "M=D")
	w.writeCall(entry, 0)
}

// Write translates one command. Invalid operands are reported without
// emitting anything; write errors are sticky and returned by Err.
func (w *CodeWriter) Write(cmd vm.Command) error {
	if err := w.validate(cmd); err != nil {
		return err
	}

	w.comment(cmd.String())
	switch cmd.Type {
	case vm.C_ARITHMETIC:
		w.writeArithmetic(cmd.Arg1)
	case vm.C_PUSH:
		w.writePush(vm.Segment(cmd.Arg1), cmd.Arg2)
	case vm.C_POP:
		w.writePop(vm.Segment(cmd.Arg1), cmd.Arg2)
	case vm.C_LABEL:
		w.emit(fmt.Sprintf("(%s)", w.scoped(cmd.Arg1)))
	case vm.C_GOTO:
		w.emit("@"+w.scoped(cmd.Arg1), "0;JMP")
	case vm.C_IF:
		w.popD()
		w.emit("@"+w.scoped(cmd.Arg1), "D;JNE")
	case vm.C_FUNCTION:
		w.writeFunction(cmd.Arg1, cmd.Arg2)
	case vm.C_CALL:
		w.writeCall(cmd.Arg1, cmd.Arg2)
	case vm.C_RETURN:
		w.writeReturn()
	}

	return nil
}

func (w *CodeWriter) Err() error {
	return w.err
}

func (w *CodeWriter) validate(cmd vm.Command) error {
	switch cmd.Type {
	case vm.C_ARITHMETIC:
		if !vm.IsArithmetic(cmd.Arg1) {
			return fmt.Errorf("%w %q", ErrUnknownOp, cmd.Arg1)
		}
	case vm.C_PUSH, vm.C_POP:
		segment := vm.Segment(cmd.Arg1)
		if !vm.IsSegment(cmd.Arg1) {
			return fmt.Errorf("%w %q", ErrUnknownSegment, cmd.Arg1)
		}
		if cmd.Type == vm.C_POP && segment == vm.CONSTANT {
			return ErrPopConstant
		}
		if fixed, ok := fixedSegments[segment]; ok && cmd.Arg2 >= fixed.size {
			return fmt.Errorf("%w: %s %d", ErrSegmentIndex, segment, cmd.Arg2)
		}
	}
	return nil
}

func (w *CodeWriter) nextLabel() int {
	n := w.labels
	w.labels++
	return n
}

// scoped qualifies a program label with the function it appears in.
func (w *CodeWriter) scoped(label string) string {
	if w.function == "" {
		return label
	}
	return w.function + "$" + label
}

func (w *CodeWriter) writeArithmetic(op string) {
	if code, ok := unaryOpsTable[op]; ok {
		w.emit("@SP", "A=M-1", code)
		return
	}

	w.popD()
	w.emit("A=A-1")

	if code, ok := binaryOpsTable[op]; ok {
		w.emit(code)
		return
	}

	n := w.nextLabel()
	trueLabel, endLabel := fmt.Sprintf("TRUE_%d", n), fmt.Sprintf("END_%d", n)
	w.emit(
		"D=M-D",
		"@"+trueLabel, "D;"+comparisonJumps[op],
		"@SP", "A=M-1", "M=0",
		"@"+endLabel, "0;JMP",
		"("+trueLabel+")",
		"@SP", "A=M-1", "M=-1",
		"("+endLabel+")",
	)
}

// address leaves the RAM address of segment[index] in A, or in D when
// the address has to be computed from a base register.
func (w *CodeWriter) address(segment vm.Segment, index int) (computed bool) {
	if register, ok := baseRegisters[segment]; ok {
		w.emit("@"+register, "D=M", fmt.Sprintf("@%d", index), "D=D+A")
		return true
	}
	if fixed, ok := fixedSegments[segment]; ok {
		w.emit(fmt.Sprintf("@R%d", fixed.base+index))
		return false
	}
	w.emit(fmt.Sprintf("@%s.%d", w.file, index))
	return false
}

func (w *CodeWriter) writePush(segment vm.Segment, index int) {
	if segment == vm.CONSTANT {
		w.emit(fmt.Sprintf("@%d", index), "D=A")
		w.pushD()
		return
	}

	if w.address(segment, index) {
		w.emit("A=D")
	}
	w.emit("D=M")
	w.pushD()
}

func (w *CodeWriter) writePop(segment vm.Segment, index int) {
	if _, ok := baseRegisters[segment]; ok {
		w.address(segment, index)
		w.emit("@R13", "M=D")
		w.popD()
		w.emit("@R13", "A=M", "M=D")
		return
	}

	w.popD()
	w.address(segment, index)
	w.emit("M=D")
}

func (w *CodeWriter) writeFunction(name string, nLocals int) {
	w.function = name
	w.emit("(" + name + ")")
	for i := 0; i < nLocals; i++ {
		w.emit("@SP", "A=M", "M=0", "@SP", "M=M+1")
	}
}

func (w *CodeWriter) writeCall(name string, nArgs int) {
	returnLabel := fmt.Sprintf("%s$ret.%d", name, w.nextLabel())

	w.emit("@"+returnLabel, "D=A")
	w.pushD()
	for _, register := range savedFrame {
		w.emit("@"+register, "D=M")
		w.pushD()
	}

	w.emit(
		"@SP", "D=M", fmt.Sprintf("@%d", nArgs+5), "D=D-A", "@ARG", "M=D",
		"@SP", "D=M", "@LCL", "M=D",
		"@"+name, "0;JMP",
		"("+returnLabel+")",
	)
}

func (w *CodeWriter) writeReturn() {
	// R13 holds the frame, R14 the return address.
	w.emit(
		"@LCL", "D=M", "@R13", "M=D",
		"@5", "A=D-A", "D=M", "@R14", "M=D",
	)
	w.popD()
	w.emit(
		"@ARG", "A=M", "M=D",
		"@ARG", "D=M+1", "@SP", "M=D",
	)
	for i := len(savedFrame) - 1; i >= 0; i-- {
		w.emit("@R13", "AM=M-1", "D=M", "@"+savedFrame[i], "M=D")
	}
	w.emit("@R14", "A=M", "0;JMP")
}

func (w *CodeWriter) pushD() {
	w.emit("@SP", "A=M", "M=D", "@SP", "M=M+1")
}

func (w *CodeWriter) popD() {
	w.emit("@SP", "AM=M-1", "D=M")
}

func (w *CodeWriter) comment(text string) {
	w.emit("// " + text)
}

func (w *CodeWriter) emit(lines ...string) {
	for _, line := range lines {
		if w.err != nil {
			return
		}
		_, w.err = io.WriteString(w.out, line+"\n")
	}
}
