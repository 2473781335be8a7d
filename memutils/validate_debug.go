//go:build debug_mem_utils

package memutils

// DebugValidate will call Validate on the provided object and panics if any errors are returned. This
// method no-ops unless the debug_mem_utils build tag is present
func DebugValidate(validatable Validatable) {
	err := validatable.Validate()
	if err != nil {
		panic(err)
	}
}

// DebugCheckWordAligned will verify that the numerical value passed in is a multiple of WordSize, and panics
// if it is not. This method no-ops unless the debug_mem_utils build tag is present.
func DebugCheckWordAligned(value int, name string) {
	err := CheckWordAligned(value, name)
	if err != nil {
		panic(err)
	}
}
