package ewram

import "github.com/cockroachdb/errors"

var (
	// ErrAlreadyInitialized is returned by Init when the process-wide allocator already exists
	ErrAlreadyInitialized = errors.New("the ewram allocator has already been initialized")
	// ErrNotInitialized is returned (or panicked) when the process-wide allocator is used before Init
	ErrNotInitialized = errors.New("the ewram allocator has not been initialized")
)
