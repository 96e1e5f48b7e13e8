package errors

import "errors"

var (
	ErrInvalidAnswerInput = errors.New("invalid answer input")
	ErrInvalidVoteInput   = errors.New("invalid vote input")
	ErrAnswerNotFound     = errors.New("answer not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("caller is not allowed to perform this action")
	ErrConflict           = errors.New("answer conflict")
)
