package service

import "fmt"

// ValidationError marks malformed input, rejected before any store
// transaction is opened. Handlers answer it with a client error;
// everything else unexpected is a server error.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func invalidf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}
