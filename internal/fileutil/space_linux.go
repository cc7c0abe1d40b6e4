package fileutil

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// FreeSpace reports the bytes available to unprivileged writes in dir.
func FreeSpace(dir string) (uint64, error) {
	var stat unix.Statfs_t

	if err := unix.Statfs(dir, &stat); err != nil {
		return 0, fmt.Errorf("statfs %q: %w", dir, err)
	}

	return stat.Bavail * uint64(stat.Bsize), nil //nolint:gosec // Bsize is never negative
}
