package tracker

import "errors"

var (
	// ErrNotFound is returned when no application has the requested id.
	ErrNotFound = errors.New("application not found")
	// ErrInvalidApplication wraps every validation failure on a draft or import.
	ErrInvalidApplication = errors.New("invalid application")
	// ErrDuplicateID is returned by Import when two records share an id.
	ErrDuplicateID = errors.New("duplicate application id")
)
