//go:build !linux && !darwin

package ewram

func mapAnonymous(size int) ([]byte, func() error, error) {
	return allocateHeap(size)
}
