package alert

import "fmt"

// InvalidDateError indicates a trade date that is not an 8-digit YYYYMMDD
// string.
type InvalidDateError struct {
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid trade date %q: expected 8 digits (YYYYMMDD)", e.Value)
}
