package errors

import "errors"

var (
	ErrInvalidInput = errors.New("invalid admin input")
	ErrUserNotFound = errors.New("user not found")
	ErrForbidden    = errors.New("caller is not allowed to perform this action")
)
