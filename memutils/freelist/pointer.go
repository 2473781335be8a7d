package freelist

// Pointer is the offset of a payload from the start of the arena. Every payload sits behind a header,
// so no valid Pointer is ever below HeaderSize.
type Pointer int

const (
	// NoAllocation is the failure indicator returned by Acquire
	NoAllocation Pointer = 0
)

// BlockOffset returns the offset of the header that describes the block holding this payload
func (p Pointer) BlockOffset() int {
	return int(p) - HeaderSize
}
