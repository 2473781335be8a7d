package memutils

import (
	cerrors "github.com/cockroachdb/errors"
)

const (
	// WordSize is the native word size of the arena. Every block size is a multiple of it, and it is the
	// widest payload alignment the arena can honor.
	WordSize uint = 4
)

type Number interface {
	~int | ~uint
}

func CheckPow2[T Number](number T, name string) error {
	if number&(number-1) != 0 {
		return cerrors.Wrapf(PowerOfTwoError, "%s is %d", name, number)
	}
	return nil
}

// CheckAlignment verifies that an alignment request can be honored by an arena whose payloads are
// WordSize-aligned. An alignment of 0 is treated as 1.
func CheckAlignment(alignment uint) error {
	if alignment == 0 {
		return nil
	}

	err := CheckPow2(alignment, "alignment")
	if err != nil {
		return err
	}

	if alignment > WordSize {
		return cerrors.Wrapf(ErrUnsupportedAlignment, "requested %d, arena supports at most %d", alignment, WordSize)
	}

	return nil
}

func AlignUp(value int, alignment uint) int {
	return (value + int(alignment) - 1) & int(^(alignment - 1))
}
