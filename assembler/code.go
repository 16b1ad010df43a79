package assembler

import (
	"fmt"
	"strings"
)

const cInstructionPrefix = "111"

var compTable = map[string]string{
	"0":   "0101010",
	"1":   "0111111",
	"-1":  "0111010",
	"D":   "0001100",
	"A":   "0110000",
	"M":   "1110000",
	"!D":  "0001101",
	"!A":  "0110001",
	"!M":  "1110001",
	"-D":  "0001111",
	"-A":  "0110011",
	"-M":  "1110011",
	"D+1": "0011111",
	"A+1": "0110111",
	"M+1": "1110111",
	"D-1": "0001110",
	"A-1": "0110010",
	"M-1": "1110010",
	"D+A": "0000010",
	"D+M": "1000010",
	"D-A": "0010011",
	"D-M": "1010011",
	"A-D": "0000111",
	"M-D": "1000111",
	"D&A": "0000000",
	"D&M": "1000000",
	"D|A": "0010101",
	"D|M": "1010101",

	// commuted spellings
	"A+D": "0000010",
	"M+D": "1000010",
	"A&D": "0000000",
	"M&D": "1000000",
	"A|D": "0010101",
	"M|D": "1010101",
}

var destTable = map[string]string{
	"":    "000",
	"M":   "001",
	"D":   "010",
	"MD":  "011",
	"A":   "100",
	"AM":  "101",
	"AD":  "110",
	"AMD": "111",
}

var jumpTable = map[string]string{
	"":    "000",
	"JGT": "001",
	"JEQ": "010",
	"JGE": "011",
	"JLT": "100",
	"JNE": "101",
	"JLE": "110",
	"JMP": "111",
}

// encodeA renders an address instruction: a zero bit and 15 address bits.
func encodeA(address int) string {
	return fmt.Sprintf("0%015b", address)
}

// encodeC renders dest=comp;jump, where dest and jump are optional.
func encodeC(text string) (string, error) {
	dest, comp, jump := "", text, ""
	if i := strings.Index(comp, "="); i >= 0 {
		dest, comp = comp[:i], comp[i+1:]
	}
	if i := strings.Index(comp, ";"); i >= 0 {
		comp, jump = comp[:i], comp[i+1:]
	}

	compBits, ok := compTable[comp]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownComp, comp)
	}
	destBits, ok := destTable[dest]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownDest, dest)
	}
	jumpBits, ok := jumpTable[jump]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownJump, jump)
	}

	return cInstructionPrefix + compBits + destBits + jumpBits, nil
}
