//go:build linux || darwin

package ewram

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

func mapAnonymous(size int) ([]byte, func() error, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to map %d bytes for the arena", size)
	}

	return data, func() error {
		return errors.Wrap(unix.Munmap(data), "failed to unmap the arena")
	}, nil
}
