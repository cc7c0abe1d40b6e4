package secret

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// alloc maps an anonymous region outside the Go heap so the garbage
// collector can never copy or relocate the secret. The region is locked
// into RAM and excluded from core dumps on a best-effort basis: both
// mlock (RLIMIT_MEMLOCK is commonly tiny in containers) and
// MADV_DONTDUMP (absent on older kernels) may be refused without making
// the buffer unusable.
func alloc(size int) ([]byte, bool, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, false, fmt.Errorf("secret: mmap: %w", err)
	}

	_ = unix.Mlock(data)
	_ = unix.Madvise(data, unix.MADV_DONTDUMP)

	return data, true, nil
}

// release unlocks and unmaps a region produced by alloc. The contents
// must already be zeroed.
func release(data []byte, mapped bool) error {
	if !mapped || data == nil {
		return nil
	}

	_ = unix.Munlock(data)

	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("secret: munmap: %w", err)
	}

	return nil
}
