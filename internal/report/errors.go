package report

import (
	"fmt"
	"strings"
)

// FormatError reports an export format no writer supports. It is fatal to the run.
type FormatError struct {
	Format  string
	Allowed []string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unsupported format %q: choose %s", e.Format, strings.Join(e.Allowed, ", "))
}
