package model

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrNotInitialized = errors.New("storage not initialized: call Init before Get")
	ErrValidation     = errors.New("validation error")
)
