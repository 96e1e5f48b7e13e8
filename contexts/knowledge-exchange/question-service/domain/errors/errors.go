package errors

import "errors"

var (
	ErrInvalidQuestionInput = errors.New("invalid question input")
	ErrInvalidVoteInput     = errors.New("invalid vote input")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrForbidden            = errors.New("caller is not allowed to perform this action")
	ErrConflict             = errors.New("question conflict")
)
