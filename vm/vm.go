package vm

import (
	"fmt"

	"golang.org/x/exp/slices"
)

type Segment string

const (
	CONSTANT = Segment("constant")
	LOCAL    = Segment("local")
	ARGUMENT = Segment("argument")
	THIS     = Segment("this")
	THAT     = Segment("that")
	POINTER  = Segment("pointer")
	TEMP     = Segment("temp")
	STATIC   = Segment("static")
)

var segments = []Segment{CONSTANT, LOCAL, ARGUMENT, THIS, THAT, POINTER, TEMP, STATIC}

func IsSegment(value string) bool {
	return slices.Contains(segments, Segment(value))
}

type CommandType int

const (
	C_ARITHMETIC CommandType = iota
	C_PUSH
	C_POP
	C_LABEL
	C_GOTO
	C_IF
	C_FUNCTION
	C_CALL
	C_RETURN
)

var keywords = map[string]CommandType{
	"push":     C_PUSH,
	"pop":      C_POP,
	"label":    C_LABEL,
	"goto":     C_GOTO,
	"if-goto":  C_IF,
	"function": C_FUNCTION,
	"call":     C_CALL,
	"return":   C_RETURN,
}

var binaryOps = []string{"add", "sub", "eq", "gt", "lt", "and", "or"}
var unaryOps = []string{"neg", "not"}

func IsArithmetic(op string) bool {
	return slices.Contains(binaryOps, op) || slices.Contains(unaryOps, op)
}

// Operands returns how many stack values op consumes.
func Operands(op string) int {
	if slices.Contains(unaryOps, op) {
		return 1
	}
	return 2
}

// Command is one VM instruction. Arg1 holds the operation for arithmetic
// commands, the segment for push/pop and the label or function name
// otherwise. Arg2 holds the index, local count or argument count.
type Command struct {
	Type CommandType
	Arg1 string
	Arg2 int
}

func Push(segment Segment, index int) Command {
	return Command{Type: C_PUSH, Arg1: string(segment), Arg2: index}
}

func Pop(segment Segment, index int) Command {
	return Command{Type: C_POP, Arg1: string(segment), Arg2: index}
}

func Arithmetic(op string) Command {
	return Command{Type: C_ARITHMETIC, Arg1: op}
}

func (c Command) String() string {
	switch c.Type {
	case C_ARITHMETIC:
		return c.Arg1
	case C_PUSH:
		return fmt.Sprintf("push %s %d", c.Arg1, c.Arg2)
	case C_POP:
		return fmt.Sprintf("pop %s %d", c.Arg1, c.Arg2)
	case C_LABEL:
		return "label " + c.Arg1
	case C_GOTO:
		return "goto " + c.Arg1
	case C_IF:
		return "if-goto " + c.Arg1
	case C_FUNCTION:
		return fmt.Sprintf("function %s %d", c.Arg1, c.Arg2)
	case C_CALL:
		return fmt.Sprintf("call %s %d", c.Arg1, c.Arg2)
	case C_RETURN:
		return "return"
	}
	return fmt.Sprintf("<invalid command %d>", c.Type)
}
