package transaction

import "fmt"

// MalformedFieldError is returned when a transaction field cannot be encoded
// at its fixed protocol size, or fails its structural checks. Expected and
// Actual are set for size mismatches; Err carries any other cause.
type MalformedFieldError struct {
	Field    string
	Expected int
	Actual   int
	Err      error
}

func (e *MalformedFieldError) Error() string {
	if e.Expected != 0 && e.Expected != e.Actual {
		return fmt.Sprintf("malformed %s: expected %d bytes, got %d", e.Field, e.Expected, e.Actual)
	}
	if e.Err != nil {
		return fmt.Sprintf("malformed %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("malformed %s", e.Field)
}

func (e *MalformedFieldError) Unwrap() error {
	return e.Err
}
