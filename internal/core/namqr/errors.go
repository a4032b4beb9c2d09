package namqr

import (
	"fmt"
	"strings"
)

// ValidationError describes one failed rule for one field. Errors are data,
// never control flow: callers collect them into lists and keep going.
type ValidationError struct {
	Field   string
	Rule    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s (%s): %s", e.Field, e.Rule, e.Message)
}

// ValidationErrors aggregates field errors so a generation request can be
// rejected with every problem reported at once.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}
