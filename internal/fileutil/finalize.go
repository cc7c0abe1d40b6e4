// Package fileutil provides shared file operation helpers.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// TempContext holds state for an atomic file write operation.
type TempContext struct {
	TmpFile *os.File
	TmpName string
	target  string
}

// NewTempContext creates a hidden temp file in the target's directory,
// so the final rename never crosses a filesystem boundary.
// Caller must defer CleanupOnError.
func NewTempContext(target string) (*TempContext, error) {
	tmpFile, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &TempContext{
		TmpFile: tmpFile,
		TmpName: tmpFile.Name(),
		target:  target,
	}, nil
}

// CleanupOnError closes the temp file and removes it if the write failed.
func (tc *TempContext) CleanupOnError(errp *error) {
	tc.TmpFile.Close() //nolint:gosec // best-effort cleanup

	if *errp != nil {
		os.Remove(tc.TmpName) //nolint:gosec // best-effort cleanup
	}
}

// Finalize flushes the temp file and moves it into place.
func (tc *TempContext) Finalize() error {
	if err := tc.TmpFile.Sync(); err != nil {
		return fmt.Errorf("syncing %q: %w", tc.TmpName, err)
	}

	if err := tc.TmpFile.Close(); err != nil {
		return fmt.Errorf("closing %q: %w", tc.TmpName, err)
	}

	if err := os.Rename(tc.TmpName, tc.target); err != nil {
		return fmt.Errorf("renaming %q to %q: %w", tc.TmpName, tc.target, err)
	}

	return nil
}
