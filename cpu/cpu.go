package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	RAMSize   = 32768
	WordWidth = 16
)

var ErrCycleLimit = errors.New("cycle limit reached")

// CPU executes Hack machine code. RAM addresses are masked to 15 bits.
type CPU struct {
	A, D int16
	PC   uint16

	RAM [RAMSize]int16
	ROM []uint16

	Cycles int
}

func New(rom []uint16) *CPU {
	return &CPU{ROM: rom}
}

// Load reads a program of 16-character binary lines.
func Load(r io.Reader) ([]uint16, error) {
	var rom []uint16
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if len(text) != WordWidth {
			return nil, fmt.Errorf("line %d: expected %d bits, got %q", line, WordWidth, text)
		}
		word, err := strconv.ParseUint(text, 2, WordWidth)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rom = append(rom, uint16(word))
	}
	return rom, scanner.Err()
}

// Halted reports whether PC has left the program.
func (c *CPU) Halted() bool {
	return int(c.PC) >= len(c.ROM)
}

// Step executes one instruction.
func (c *CPU) Step() {
	if c.Halted() {
		return
	}

	instr := c.ROM[c.PC]
	c.Cycles++

	if instr&0x8000 == 0 {
		c.A = int16(instr)
		c.PC++
		return
	}

	address := uint16(c.A) & (RAMSize - 1)
	y := c.A
	if instr&0x1000 != 0 {
		y = c.RAM[address]
	}
	out := alu(c.D, y, (instr>>6)&0x3F)

	dest := (instr >> 3) & 0x7
	jump := instr & 0x7
	target := uint16(c.A)

	if dest&0x1 != 0 {
		c.RAM[address] = out
	}
	if dest&0x4 != 0 {
		c.A = out
	}
	if dest&0x2 != 0 {
		c.D = out
	}

	if (jump&0x4 != 0 && out < 0) || (jump&0x2 != 0 && out == 0) || (jump&0x1 != 0 && out > 0) {
		c.PC = target
		return
	}
	c.PC++
}

// Run steps until the program halts or maxCycles instructions have run,
// in which case it returns ErrCycleLimit.
func (c *CPU) Run(maxCycles int) error {
	for i := 0; i < maxCycles; i++ {
		if c.Halted() {
			return nil
		}
		c.Step()
	}
	if c.Halted() {
		return nil
	}
	return ErrCycleLimit
}

// alu computes the Hack ALU function selected by zx nx zy ny f no.
func alu(x, y int16, control uint16) int16 {
	if control&0x20 != 0 {
		x = 0
	}
	if control&0x10 != 0 {
		x = ^x
	}
	if control&0x08 != 0 {
		y = 0
	}
	if control&0x04 != 0 {
		y = ^y
	}

	var out int16
	if control&0x02 != 0 {
		out = x + y
	} else {
		out = x & y
	}

	if control&0x01 != 0 {
		out = ^out
	}
	return out
}
