package loader

import "fmt"

// LoadError reports that a source could not be read. The pipeline never runs
// without a table.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	if e == nil {
		return "load failed"
	}
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
