package engine

import "fmt"

// labelCounter numbers the if and while labels of one subroutine.
type labelCounter struct {
	ifs    int
	whiles int
}

func (l *labelCounter) nextIf() (trueLabel, falseLabel, endLabel string) {
	n := l.ifs
	l.ifs++
	return fmt.Sprintf("IF_TRUE%d", n), fmt.Sprintf("IF_FALSE%d", n), fmt.Sprintf("IF_END%d", n)
}

func (l *labelCounter) nextWhile() (expLabel, endLabel string) {
	n := l.whiles
	l.whiles++
	return fmt.Sprintf("WHILE_EXP%d", n), fmt.Sprintf("WHILE_END%d", n)
}
