package errors

import "errors"

var (
	ErrInvalidKey = errors.New("option key name is empty")
)
