package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidAction is returned when an activity event carries an
	// unrecognized action type. The event is rejected with no partial write.
	ErrInvalidAction = errors.New("invalid action type")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrStorageUnavailable wraps storage-layer failures. The engine has no
	// retry policy of its own; retries belong to the storage client.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
