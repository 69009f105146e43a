package errors

import "errors"

var (
	ErrPollNotFound       = errors.New("poll is not tracked")
	ErrPollAlreadyTracked = errors.New("poll is already tracked")
)
