package pipeline

import "fmt"

// Failure is the error of one unit of a batch.
type Failure struct {
	Unit string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Unit, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Batch runs fn over every unit. A failing unit is recorded and skipped;
// the remaining units still run.
func Batch(units []Unit, fn func(Unit) error) []Failure {
	var failures []Failure
	for _, unit := range units {
		if err := fn(unit); err != nil {
			failures = append(failures, Failure{Unit: unit.Name, Err: err})
		}
	}
	return failures
}
