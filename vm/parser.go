package vm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseError locates a malformed line of VM text.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// Parser reads VM commands one line at a time, skipping blank lines and
// // comments.
type Parser struct {
	scanner *bufio.Scanner
	line    int
	current Command
	err     error
}

func NewParser(r io.Reader) *Parser {
	return &Parser{scanner: bufio.NewScanner(r)}
}

// Scan advances to the next command. It returns false at end of input or on
// the first malformed line.
func (p *Parser) Scan() bool {
	if p.err != nil {
		return false
	}

	for p.scanner.Scan() {
		p.line++
		text := p.scanner.Text()
		if i := strings.Index(text, "//"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		cmd, err := ParseCommand(text)
		if err != nil {
			p.err = &ParseError{Line: p.line, Text: text, Reason: err.Error()}
			return false
		}
		p.current = cmd
		return true
	}

	p.err = p.scanner.Err()
	return false
}

func (p *Parser) Command() Command {
	return p.current
}

// Line is the source line of the current command.
func (p *Parser) Line() int {
	return p.line
}

func (p *Parser) Err() error {
	return p.err
}

// ParseCommand parses a single comment-free VM instruction.
func ParseCommand(text string) (Command, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}

	name := fields[0]
	if IsArithmetic(name) {
		if len(fields) != 1 {
			return Command{}, fmt.Errorf("%s takes no arguments", name)
		}
		return Arithmetic(name), nil
	}

	cmdType, ok := keywords[name]
	if !ok {
		return Command{}, fmt.Errorf("unknown command %q", name)
	}

	cmd := Command{Type: cmdType}
	switch cmdType {
	case C_RETURN:
		if len(fields) != 1 {
			return Command{}, fmt.Errorf("return takes no arguments")
		}

	case C_LABEL, C_GOTO, C_IF:
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("%s expects a label", name)
		}
		cmd.Arg1 = fields[1]

	case C_PUSH, C_POP, C_FUNCTION, C_CALL:
		if len(fields) != 3 {
			return Command{}, fmt.Errorf("%s expects two arguments", name)
		}
		if (cmdType == C_PUSH || cmdType == C_POP) && !IsSegment(fields[1]) {
			return Command{}, fmt.Errorf("unknown segment %q", fields[1])
		}
		n, err := strconv.Atoi(fields[2])
		if err != nil || n < 0 {
			return Command{}, fmt.Errorf("invalid number %q", fields[2])
		}
		cmd.Arg1, cmd.Arg2 = fields[1], n
	}

	return cmd, nil
}
