//go:build !linux

package fileutil

import "errors"

// FreeSpace is unsupported here; statfs field types differ across the
// BSDs, so only the Linux probe is wired. Callers treat the error as
// "unknown".
func FreeSpace(_ string) (uint64, error) {
	return 0, errors.ErrUnsupported
}
