//go:build !linux

package secret

// alloc falls back to an ordinary heap allocation where the Linux
// mmap/mlock/madvise combination is not portable (MADV_DONTDUMP has no
// darwin or BSD equivalent under one name). The zero-on-close guarantee
// still holds; the protection-against-swap guarantee does not.
func alloc(size int) ([]byte, bool, error) {
	return make([]byte, size), false, nil
}

func release([]byte, bool) error {
	return nil
}
