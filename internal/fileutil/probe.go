package fileutil

import (
	"fmt"
	"os"
)

// Probe verifies that path names a readable regular file and returns its info.
func Probe(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("getting file info for %q: %w", path, err)
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%q is not a regular file", path)
	}

	file, err := os.Open(path) //nolint:gosec // user-selected input file
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}

	file.Close() //nolint:gosec // probe only, nothing written

	return info, nil
}
