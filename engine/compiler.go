package engine

import (
	"errors"
	"fmt"

	"github.com/hlmerscher/hack-toolchain-go/logger"
	"github.com/hlmerscher/hack-toolchain-go/symbols"
	"github.com/hlmerscher/hack-toolchain-go/tokenizer"
	"github.com/hlmerscher/hack-toolchain-go/vm"
)

// Routines of the operating system library the generated code relies on.
const (
	mathMultiply     = "Math.multiply"
	mathDivide       = "Math.divide"
	memoryAlloc      = "Memory.alloc"
	stringNew        = "String.new"
	stringAppendChar = "String.appendChar"
)

var arithmeticOpsTable = map[string]string{
	"+": "add",
	"-": "sub",
	"=": "eq",
	">": "gt",
	"<": "lt",
	"&": "and",
	"|": "or",
}

var runtimeOpsTable = map[string]string{
	"*": mathMultiply,
	"/": mathDivide,
}

var unaryOpsTable = map[string]string{
	"-": "neg",
	"~": "not",
}

var kindSegments = map[symbols.Kind]vm.Segment{
	symbols.STATIC: vm.STATIC,
	symbols.FIELD:  vm.THIS,
	symbols.ARG:    vm.ARGUMENT,
	symbols.VAR:    vm.LOCAL,
}

type Option func(*Compiler)

// WithListener reports the grammar traversal to l.
func WithListener(l Listener) Option {
	return func(c *Compiler) {
		c.listener = l
	}
}

// ParseOnly accepts undeclared identifiers. Generated code is meaningless in
// this mode; it exists for rendering the parse tree of incomplete programs.
func ParseOnly() Option {
	return func(c *Compiler) {
		c.parseOnly = true
	}
}

// Compiler translates one Jack class into VM code while parsing it.
type Compiler struct {
	vmw       *vm.Writer
	listener  Listener
	parseOnly bool

	symbols   *symbols.Table
	className string
	labels    labelCounter
}

func New(vmw *vm.Writer, options ...Option) Compiler {
	c := Compiler{vmw: vmw, listener: nopListener{}}
	for _, option := range options {
		option(&c)
	}
	return c
}

// Compile consumes the whole token sequence, which must hold exactly one
// class.
func (c *Compiler) Compile(tk *tokenizer.Tokenizer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			err = b.err
		}
	}()

	c.symbols = symbols.New()
	c.Class(tk)

	if tk.HasMoreTokens() {
		next := tk.Peek()
		return &SyntaxError{Line: next.Line, Got: fmt.Sprintf("%q", next.Raw), Want: "end of input"}
	}

	return c.vmw.Err()
}

// Symbols exposes the class scope of the last compiled class.
func (c *Compiler) Symbols() *symbols.Table {
	return c.symbols
}

func (c *Compiler) enter(rule string) func() {
	c.listener.Open(rule)
	return func() { c.listener.Close(rule) }
}

func (c *Compiler) Class(tk *tokenizer.Tokenizer) {
	defer c.enter("class")()

	c.processTokenOrPanics(tk, is("class"))
	c.className = c.processTokenOrPanics(tk, isIdentifier()).Raw
	c.processTokenOrPanics(tk, is("{"))

	for {
		err := c.ClassVarDec(tk)
		if errors.Is(err, notClassVarDec) {
			break
		}
	}

	for {
		err := c.Subroutine(tk)
		if errors.Is(err, notSubroutineDec) {
			break
		}
	}

	c.processTokenOrPanics(tk, is("}"))
	logger.Dump(c.className, c.symbols.Class.Entries())
}

func (c *Compiler) ClassVarDec(tk *tokenizer.Tokenizer) error {
	if !lookahead(tk, isClassVarKind()) {
		return notClassVarDec
	}
	defer c.enter("classVarDec")()

	kind := c.processTokenOrPanics(tk, isClassVarKind())
	c.declarations(tk, symbols.Kind(kind.Raw))

	return nil
}

// declarations compiles "type name (, name)* ;" defining every name as kind.
func (c *Compiler) declarations(tk *tokenizer.Tokenizer, kind symbols.Kind) {
	varType := c.processTokenOrPanics(tk, isVarType())
	for {
		name := c.processTokenOrPanics(tk, isIdentifier())
		c.define(name, varType.Raw, kind)

		if !lookahead(tk, is(",")) {
			break
		}
		c.processTokenOrPanics(tk, is(","))
	}
	c.processTokenOrPanics(tk, is(";"))
}

func (c *Compiler) define(name tokenizer.Token, varType string, kind symbols.Kind) {
	if _, err := c.symbols.Define(name.Raw, varType, kind); err != nil {
		fail(&SemanticError{Line: name.Line, Name: name.Raw, Reason: err.Error()})
	}
}

func (c *Compiler) Subroutine(tk *tokenizer.Tokenizer) error {
	if !lookahead(tk, isSubroutineKind()) {
		return notSubroutineDec
	}
	defer c.enter("subroutineDec")()

	kind := c.processTokenOrPanics(tk, isSubroutineKind())
	c.processTokenOrPanics(tk, is("void"), isVarType())
	name := c.processTokenOrPanics(tk, isIdentifier())

	c.symbols.StartSubroutine()
	c.labels = labelCounter{}
	if kind.Raw == "method" {
		c.define(tokenizer.Token{Raw: "this", Line: name.Line}, c.className, symbols.ARG)
	}

	c.processTokenOrPanics(tk, is("("))
	c.ParameterList(tk)
	c.processTokenOrPanics(tk, is(")"))

	c.SubroutineBody(tk, kind.Raw, c.className+"."+name.Raw)

	return nil
}

func (c *Compiler) ParameterList(tk *tokenizer.Tokenizer) {
	defer c.enter("parameterList")()

	if lookahead(tk, is(")")) {
		return
	}

	for {
		varType := c.processTokenOrPanics(tk, isVarType())
		name := c.processTokenOrPanics(tk, isIdentifier())
		c.define(name, varType.Raw, symbols.ARG)

		if !lookahead(tk, is(",")) {
			return
		}
		c.processTokenOrPanics(tk, is(","))
	}
}

func (c *Compiler) SubroutineBody(tk *tokenizer.Tokenizer, kind, fnName string) {
	defer c.enter("subroutineBody")()

	c.processTokenOrPanics(tk, is("{"))
	for {
		err := c.VarDec(tk)
		if errors.Is(err, notLocalVarDec) {
			break
		}
	}

	nLocals := c.symbols.VarCount(symbols.VAR)
	c.vmw.WriteFunction(fnName, nLocals)
	logger.Printf("compiling %s %s with %d locals\n", kind, fnName, nLocals)

	switch kind {
	case "constructor":
		c.vmw.WritePush(vm.CONSTANT, c.symbols.VarCount(symbols.FIELD))
		c.vmw.WriteCall(memoryAlloc, 1)
		c.vmw.WritePop(vm.POINTER, 0)
	case "method":
		c.vmw.WritePush(vm.ARGUMENT, 0)
		c.vmw.WritePop(vm.POINTER, 0)
	}

	c.Statements(tk)
	c.processTokenOrPanics(tk, is("}"))
}

func (c *Compiler) VarDec(tk *tokenizer.Tokenizer) error {
	if !lookahead(tk, is("var")) {
		return notLocalVarDec
	}
	defer c.enter("varDec")()

	c.processTokenOrPanics(tk, is("var"))
	c.declarations(tk, symbols.VAR)

	return nil
}

func (c *Compiler) Statements(tk *tokenizer.Tokenizer) {
	defer c.enter("statements")()

	for {
		switch {
		case lookahead(tk, is("let")):
			c.Let(tk)
		case lookahead(tk, is("if")):
			c.If(tk)
		case lookahead(tk, is("while")):
			c.While(tk)
		case lookahead(tk, is("do")):
			c.Do(tk)
		case lookahead(tk, is("return")):
			c.Return(tk)
		default:
			return
		}
	}
}

func (c *Compiler) Let(tk *tokenizer.Tokenizer) {
	defer c.enter("letStatement")()

	c.processTokenOrPanics(tk, is("let"))
	name := c.processTokenOrPanics(tk, isIdentifier())

	if lookahead(tk, is("[")) {
		c.arrayAddress(tk, name)
		c.processTokenOrPanics(tk, is("="))
		c.Expression(tk)
		c.processTokenOrPanics(tk, is(";"))

		c.vmw.WritePop(vm.TEMP, 0)
		c.vmw.WritePop(vm.POINTER, 1)
		c.vmw.WritePush(vm.TEMP, 0)
		c.vmw.WritePop(vm.THAT, 0)
		return
	}

	entry := c.resolve(name)
	c.processTokenOrPanics(tk, is("="))
	c.Expression(tk)
	c.processTokenOrPanics(tk, is(";"))

	c.vmw.WritePop(kindSegments[entry.Kind], entry.Index)
}

func (c *Compiler) If(tk *tokenizer.Tokenizer) {
	defer c.enter("ifStatement")()
	trueLabel, falseLabel, endLabel := c.labels.nextIf()

	c.processTokenOrPanics(tk, is("if"))
	c.processTokenOrPanics(tk, is("("))
	c.Expression(tk)
	c.processTokenOrPanics(tk, is(")"))

	c.vmw.WriteArithmetic("not")
	c.vmw.WriteIf(falseLabel)
	c.vmw.WriteLabel(trueLabel)

	c.processTokenOrPanics(tk, is("{"))
	c.Statements(tk)
	c.processTokenOrPanics(tk, is("}"))

	c.vmw.WriteGoto(endLabel)
	c.vmw.WriteLabel(falseLabel)

	if lookahead(tk, is("else")) {
		c.processTokenOrPanics(tk, is("else"))
		c.processTokenOrPanics(tk, is("{"))
		c.Statements(tk)
		c.processTokenOrPanics(tk, is("}"))
	}

	c.vmw.WriteLabel(endLabel)
}

func (c *Compiler) While(tk *tokenizer.Tokenizer) {
	defer c.enter("whileStatement")()
	expLabel, endLabel := c.labels.nextWhile()

	c.vmw.WriteLabel(expLabel)

	c.processTokenOrPanics(tk, is("while"))
	c.processTokenOrPanics(tk, is("("))
	c.Expression(tk)
	c.processTokenOrPanics(tk, is(")"))

	c.vmw.WriteArithmetic("not")
	c.vmw.WriteIf(endLabel)

	c.processTokenOrPanics(tk, is("{"))
	c.Statements(tk)
	c.processTokenOrPanics(tk, is("}"))

	c.vmw.WriteGoto(expLabel)
	c.vmw.WriteLabel(endLabel)
}

func (c *Compiler) Do(tk *tokenizer.Tokenizer) {
	defer c.enter("doStatement")()

	c.processTokenOrPanics(tk, is("do"))
	name := c.processTokenOrPanics(tk, isIdentifier())
	c.SubroutineCall(tk, name)
	c.processTokenOrPanics(tk, is(";"))

	c.vmw.WritePop(vm.TEMP, 0)
}

func (c *Compiler) Return(tk *tokenizer.Tokenizer) {
	defer c.enter("returnStatement")()

	c.processTokenOrPanics(tk, is("return"))
	if lookahead(tk, is(";")) {
		c.vmw.WritePush(vm.CONSTANT, 0)
	} else {
		c.Expression(tk)
	}
	c.processTokenOrPanics(tk, is(";"))

	c.vmw.WriteReturn()
}

func (c *Compiler) Expression(tk *tokenizer.Tokenizer) {
	defer c.enter("expression")()

	c.Term(tk)
	for lookahead(tk, isOp()) {
		op := c.processTokenOrPanics(tk, isOp())
		c.Term(tk)
		c.writeOp(op.Raw)
	}
}

func (c *Compiler) writeOp(op string) {
	if fn, ok := runtimeOpsTable[op]; ok {
		c.vmw.WriteCall(fn, 2)
		return
	}
	c.vmw.WriteArithmetic(arithmeticOpsTable[op])
}

func (c *Compiler) Term(tk *tokenizer.Tokenizer) {
	defer c.enter("term")()

	switch {
	case lookahead(tk, isIntConst()):
		constant := c.processTokenOrPanics(tk, isIntConst())
		c.vmw.WritePush(vm.CONSTANT, constant.Int())

	case lookahead(tk, isStringConst()):
		str := c.processTokenOrPanics(tk, isStringConst())
		c.writeString(str.Raw)

	case lookahead(tk, isKeywordConstant()):
		keyword := c.processTokenOrPanics(tk, isKeywordConstant())
		c.writeKeywordConstant(keyword.Raw)

	case lookahead(tk, is("(")):
		c.processTokenOrPanics(tk, is("("))
		c.Expression(tk)
		c.processTokenOrPanics(tk, is(")"))

	case lookahead(tk, isUnaryOp()):
		op := c.processTokenOrPanics(tk, isUnaryOp())
		c.Term(tk)
		c.vmw.WriteArithmetic(unaryOpsTable[op.Raw])

	default:
		name := c.processTokenOrPanics(tk, isIntConst(), isStringConst(), isKeywordConstant(),
			is("("), isUnaryOp(), isIdentifier())

		switch {
		case lookahead(tk, is("[")):
			c.arrayAddress(tk, name)
			c.vmw.WritePop(vm.POINTER, 1)
			c.vmw.WritePush(vm.THAT, 0)
		case lookahead(tk, or(is("("), is("."))):
			c.SubroutineCall(tk, name)
		default:
			entry := c.resolve(name)
			c.vmw.WritePush(kindSegments[entry.Kind], entry.Index)
		}
	}
}

func (c *Compiler) writeString(str string) {
	c.vmw.WritePush(vm.CONSTANT, len(str))
	c.vmw.WriteCall(stringNew, 1)
	for _, char := range str {
		c.vmw.WritePush(vm.CONSTANT, int(char))
		c.vmw.WriteCall(stringAppendChar, 2)
	}
}

func (c *Compiler) writeKeywordConstant(keyword string) {
	switch keyword {
	case "this":
		c.vmw.WritePush(vm.POINTER, 0)
	case "true":
		c.vmw.WritePush(vm.CONSTANT, 0)
		c.vmw.WriteArithmetic("not")
	default:
		c.vmw.WritePush(vm.CONSTANT, 0)
	}
}

// arrayAddress compiles "[expression]" following name and leaves the
// element address on the stack. Reads and writes both go through here.
func (c *Compiler) arrayAddress(tk *tokenizer.Tokenizer, name tokenizer.Token) {
	entry := c.resolve(name)
	c.vmw.WritePush(kindSegments[entry.Kind], entry.Index)

	c.processTokenOrPanics(tk, is("["))
	c.Expression(tk)
	c.processTokenOrPanics(tk, is("]"))

	c.vmw.WriteArithmetic("add")
}

// SubroutineCall compiles the rest of a call whose first identifier has
// already been consumed: name(...), Class.name(...) or var.name(...).
func (c *Compiler) SubroutineCall(tk *tokenizer.Tokenizer, name tokenizer.Token) {
	var fnName string
	var nArgs int

	if lookahead(tk, is(".")) {
		c.processTokenOrPanics(tk, is("."))
		method := c.processTokenOrPanics(tk, isIdentifier())

		if entry, ok := c.symbols.Lookup(name.Raw); ok {
			c.vmw.WritePush(kindSegments[entry.Kind], entry.Index)
			fnName = entry.Type + "." + method.Raw
			nArgs = 1
		} else {
			fnName = name.Raw + "." + method.Raw
		}
	} else {
		c.vmw.WritePush(vm.POINTER, 0)
		fnName = c.className + "." + name.Raw
		nArgs = 1
	}

	c.processTokenOrPanics(tk, is("("))
	nArgs += c.ExpressionList(tk)
	c.processTokenOrPanics(tk, is(")"))

	c.vmw.WriteCall(fnName, nArgs)
}

// ExpressionList compiles comma separated expressions and returns how many
// there were.
func (c *Compiler) ExpressionList(tk *tokenizer.Tokenizer) int {
	defer c.enter("expressionList")()

	if lookahead(tk, is(")")) {
		return 0
	}

	n := 0
	for {
		c.Expression(tk)
		n++

		if !lookahead(tk, is(",")) {
			return n
		}
		c.processTokenOrPanics(tk, is(","))
	}
}

func (c *Compiler) resolve(name tokenizer.Token) symbols.Entry {
	entry, ok := c.symbols.Lookup(name.Raw)
	if ok {
		return entry
	}
	if c.parseOnly {
		return symbols.Entry{Name: name.Raw, Kind: symbols.VAR}
	}

	fail(&SemanticError{Line: name.Line, Name: name.Raw, Reason: "undeclared identifier"})
	return symbols.Entry{}
}
