// Package encrypt adapts external passphrase-based encryption
// capabilities behind a single interface. Backends produce standard
// formats (OpenPGP symmetric, age scrypt) so recovery needs nothing but
// the stock tool and the passphrase.
package encrypt

import "fmt"

// Known backend names.
const (
	BackendGPG = "gpg"
	BackendAge = "age"
)

// Encryptor encrypts one file with one passphrase.
type Encryptor interface {
	// Name identifies the backend in messages and reports.
	Name() string

	// Available verifies the backend can run with its configured
	// algorithms, without touching any input.
	Available() error

	// Encrypt writes the encrypted form of src to dst atomically.
	// On failure no file exists at dst. The passphrase is borrowed,
	// never stored, and must not be empty.
	Encrypt(src, dst string, passphrase []byte) error
}

// Backends lists the known backend names.
func Backends() []string {
	return []string{BackendGPG, BackendAge}
}

// New returns the encryptor for the named backend. The cipher, digest
// and compression settings apply to the gpg backend; age ignores them.
func New(backend, cipher, digest string, compressLevel int) (Encryptor, error) {
	switch backend {
	case BackendGPG:
		return NewGPG(cipher, digest, compressLevel), nil
	case BackendAge:
		return NewAge(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}
