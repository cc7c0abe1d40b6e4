package encrypt

import (
	"fmt"
	"io"
	"os"

	"filippo.io/age"

	"github.com/idelchi/goseal/internal/fileutil"
)

// Age encrypts with the age file format's scrypt recipient, a
// passphrase-based mode that needs no external binary. Output decrypts
// with any age implementation.
type Age struct{}

// NewAge returns the age backend.
func NewAge() *Age {
	return &Age{}
}

// Name implements Encryptor.
func (a *Age) Name() string {
	return BackendAge
}

// Available implements Encryptor. The backend is compiled in, so it is
// always available.
func (a *Age) Available() error {
	return nil
}

// Encrypt implements Encryptor by streaming src through an age writer
// into a temp file next to dst, renaming on success.
func (a *Age) Encrypt(src, dst string, passphrase []byte) (err error) {
	if len(passphrase) == 0 {
		return fmt.Errorf("empty passphrase")
	}

	in, err := os.Open(src) //nolint:gosec // user-selected input file
	if err != nil {
		return fmt.Errorf("opening %q: %w", src, err)
	}
	defer in.Close()

	// NewScryptRecipient needs a string; the heap copy is brief and
	// call-scoped.
	recipient, err := age.NewScryptRecipient(string(passphrase))
	if err != nil {
		return fmt.Errorf("deriving age recipient: %w", err)
	}

	tc, err := fileutil.NewTempContext(dst)
	if err != nil {
		return err
	}
	defer tc.CleanupOnError(&err)

	writer, err := age.Encrypt(tc.TmpFile, recipient)
	if err != nil {
		return fmt.Errorf("creating age encryptor: %w", err)
	}

	if _, err = io.Copy(writer, in); err != nil {
		return fmt.Errorf("encrypting %q: %w", src, err)
	}

	if err = writer.Close(); err != nil {
		return fmt.Errorf("finalizing age encryption: %w", err)
	}

	return tc.Finalize()
}
