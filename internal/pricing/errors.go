package pricing

import "fmt"

// ErrInvalidInput is returned when a pricing request is malformed. Field
// names the offending input so callers can surface it next to the right
// form control.
type ErrInvalidInput struct {
	Field  string
	Reason string
}

func (e ErrInvalidInput) Error() string {
	return e.Field + ": " + e.Reason
}

func invalidf(field, format string, args ...any) error {
	return ErrInvalidInput{Field: field, Reason: fmt.Sprintf(format, args...)}
}
