package domain

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConfig   = errors.New("configuration error")
)
