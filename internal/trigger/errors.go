package trigger

import "fmt"

// ResultFileMissingError indicates the screening subprocess did not produce
// the expected result file.
type ResultFileMissingError struct {
	Path string
}

func (e *ResultFileMissingError) Error() string {
	return fmt.Sprintf("trigger result file missing: %s", e.Path)
}

// MalformedResultError indicates the result file exists but is not valid
// structured data.
type MalformedResultError struct {
	Path    string
	Message string
	Cause   error
}

func (e *MalformedResultError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed trigger result %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed trigger result %s: %s", e.Path, e.Message)
}

func (e *MalformedResultError) Unwrap() error {
	return e.Cause
}
