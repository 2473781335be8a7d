package ewram

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Backing selects where the bytes of an arena are stored
type Backing int

const (
	// BackingHeap stores the arena in an ordinary Go byte slice
	BackingHeap Backing = iota
	// BackingMmap stores the arena in an anonymous private memory mapping, which keeps it out of the
	// garbage collector's view. Platforms without mmap fall back to BackingHeap.
	BackingMmap
)

func (b Backing) String() string {
	switch b {
	case BackingHeap:
		return "BackingHeap"
	case BackingMmap:
		return "BackingMmap"
	}

	return fmt.Sprintf("Backing(%d)", int(b))
}

func allocateBacking(backing Backing, size int) ([]byte, func() error, error) {
	switch backing {
	case BackingHeap:
		return allocateHeap(size)
	case BackingMmap:
		return mapAnonymous(size)
	}

	return nil, nil, errors.Newf("unknown arena backing: %s", backing)
}

func allocateHeap(size int) ([]byte, func() error, error) {
	return make([]byte, size), func() error { return nil }, nil
}
