package store

import "errors"

// Sentinel errors returned by Store implementations. Services translate
// these into coded domain errors at the boundary.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
)
