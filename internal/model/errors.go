package model

import "errors"

var (
	// ErrNotFound is returned by stores when a document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned by stores when a unique key is violated.
	ErrAlreadyExists = errors.New("already exists")
)
