package observe

import "errors"

// Sentinel errors for the observe package.
var (
	// ErrNilObserver indicates a nil Observer was supplied.
	ErrNilObserver = errors.New("observe: nil observer")

	// ErrMissingServiceName indicates the config has no service name.
	ErrMissingServiceName = errors.New("observe: service name is required")
)
