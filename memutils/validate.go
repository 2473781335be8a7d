package memutils

import cerrors "github.com/cockroachdb/errors"

// Validatable is used by the DebugValidate method to allow it to act upon
// all types with a Validate method
type Validatable interface {
	Validate() error
}

// CheckWordAligned returns an error if value is not a multiple of WordSize
func CheckWordAligned(value int, name string) error {
	if value%int(WordSize) != 0 {
		return cerrors.Newf("%s is %d, which is not a multiple of the %d-byte arena word", name, value, WordSize)
	}
	return nil
}
