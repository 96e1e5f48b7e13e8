package errors

import "errors"

var (
	ErrInvalidNotificationInput = errors.New("invalid notification input")
	ErrNotificationNotFound     = errors.New("notification not found")
	ErrUserNotFound             = errors.New("user not found")
	ErrForbidden                = errors.New("caller is not allowed to perform this action")
	ErrConflict                 = errors.New("notification conflict")
)
