package dataset

import (
	"errors"
	"fmt"
)

// ErrFieldNotFound is matched by every FieldError. A missing column is a
// schema mismatch on the caller's side, so it is returned immediately and
// never recovered from inside the analyses.
var ErrFieldNotFound = errors.New("field not found")

// FieldError names the column that was requested but is absent.
type FieldError struct {
	Column string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %q", ErrFieldNotFound, e.Column)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrFieldNotFound
}
