// File path: internal/ir/errors.go
package ir

import (
	"errors"
	"fmt"
)

// ErrNoComponent reports that the input text contains no recognizable
// component declaration with a JSX return block. Fatal: no artifacts.
var ErrNoComponent = errors.New("no component declaration found")

// DuplicateStateError reports two valid state declarations sharing one
// identifier. Fatal: no artifacts are produced for the component.
type DuplicateStateError struct {
	Name string
}

func (e *DuplicateStateError) Error() string {
	return fmt.Sprintf("duplicate state identifier %q", e.Name)
}

// Fatal reports whether err belongs to the taxonomy that aborts a
// conversion outright rather than degrading locally.
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	var dup *DuplicateStateError
	return errors.Is(err, ErrNoComponent) || errors.As(err, &dup)
}
