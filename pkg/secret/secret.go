// Package secret holds short-lived sensitive strings (passphrases) in
// memory that stays away from disk. On unix the backing allocation is
// made outside the Go heap via mmap, locked against swapping, and
// excluded from core dumps where the kernel supports it. Contents are
// zeroed when the buffer is closed.
package secret

import (
	"errors"
	"runtime"
	"sync"
)

// Buffer holds a secret byte string. It must not be copied after
// creation. After Close, any access to the contents panics.
type Buffer struct {
	mu     sync.Mutex
	data   []byte
	mapped bool
	closed bool
}

// New allocates a zero-filled buffer of the given size.
func New(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, errors.New("secret: size must be positive")
	}

	data, mapped, err := alloc(size)
	if err != nil {
		return nil, err
	}

	return &Buffer{data: data, mapped: mapped}, nil
}

// NewFromBytes copies source into a protected buffer and zeroes the
// source in place, so the caller's slice no longer holds the secret.
func NewFromBytes(source []byte) (*Buffer, error) {
	if len(source) == 0 {
		return nil, errors.New("secret: source is empty")
	}

	buffer, err := New(len(source))
	if err != nil {
		return nil, err
	}

	copy(buffer.data, source)
	Zero(source)

	return buffer, nil
}

// Bytes returns the secret contents. The slice aliases the protected
// region; do not retain it past the buffer's lifetime.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		panic("secret: use of closed buffer")
	}

	return b.data
}

// String returns the contents as a string. The copy lives on the Go
// heap, so use it only at API boundaries that require a string.
func (b *Buffer) String() string {
	return string(b.Bytes())
}

// Len returns the size of the secret.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.data)
}

// Close zeroes the contents and releases the backing memory. It is
// idempotent.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}

	b.closed = true

	Zero(b.data)

	err := release(b.data, b.mapped)
	b.data = nil

	return err
}

// Zero overwrites data with zeroes. The KeepAlive prevents the wipe
// from being treated as a dead store.
func Zero(data []byte) {
	for i := range data {
		data[i] = 0
	}

	runtime.KeepAlive(data)
}
