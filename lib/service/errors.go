package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrBadCredentials     = errors.New("bad auth")
	ErrAccountDeactivated = errors.New("account has been deactivated")
	ErrDuplicateStatement = errors.New("a bank statement for this month already exists")
	ErrDuplicateMember    = errors.New("a khairat member with this identity card number already exists")
)

// ValidationError is returned for input that must be rejected before any write.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
