package memutils

import "github.com/pkg/errors"

var (
	// PowerOfTwoError is the error returned from CheckPow2 or other methods if the number being tested is not a power of two
	PowerOfTwoError error = errors.New("number must be a power of two")

	// ErrOutOfMemory is returned when no block in the arena can satisfy an allocation request. There is no
	// secondary memory source, so callers will usually treat this as fatal.
	ErrOutOfMemory = errors.New("out of memory")
	// ErrHeapCorruption indicates that a block header could not be trusted, most commonly because its size
	// was zero. It is never returned: it is the payload of the panic raised when the arena is found corrupted.
	ErrHeapCorruption = errors.New("heap corruption")
	// ErrInvalidRelease is returned by tracking allocators when a pointer is released that was never acquired,
	// or was already released
	ErrInvalidRelease = errors.New("released pointer was not acquired from this arena")
	// ErrUnsupportedAlignment is returned when an allocation requests an alignment stricter than the arena's
	// native word size
	ErrUnsupportedAlignment = errors.New("alignment is wider than the arena word size")
	// ErrInvalidSize is returned when an allocation requests a negative number of bytes
	ErrInvalidSize = errors.New("invalid allocation size")
	// ErrInvalidArena is returned when arena bounds cannot describe a usable arena
	ErrInvalidArena = errors.New("invalid arena bounds")
)
