package ledgerfile

import (
	"errors"
	"fmt"
)

// ErrFormat matches any *FormatError via errors.Is.
var ErrFormat = errors.New("malformed ledger row")

// FormatError reports a row whose shape was right but whose date or
// amount could not be parsed. It aborts the whole read.
type FormatError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d: parsing %s %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrFormat) match.
func (e *FormatError) Is(target error) bool { return target == ErrFormat }
