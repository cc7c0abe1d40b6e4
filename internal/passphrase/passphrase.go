// Package passphrase generates random passphrases from a configurable
// character-set policy, using crypto/rand exclusively.
package passphrase

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"

	"github.com/idelchi/goseal/pkg/secret"
)

// Charset policy names accepted in configuration.
const (
	CharsetLetters      = "letters"
	CharsetAlphanumeric = "alphanumeric"
	CharsetDigits       = "digits"
	CharsetFull         = "full"
)

const (
	lower   = "abcdefghijklmnopqrstuvwxyz"
	upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"
	symbols = "!#$%&()*+,-./:;<=>?@[]^_{|}~"
)

// Policy describes the strength of generated passphrases.
type Policy struct {
	// Number of characters to draw.
	Length int

	// Charset policy name, one of the Charset constants.
	Charset string
}

// Charsets lists the known charset policy names.
func Charsets() []string {
	return []string{CharsetAlphanumeric, CharsetLetters, CharsetDigits, CharsetFull}
}

// Alphabet returns the characters drawn from under the named policy.
func Alphabet(charset string) (string, error) {
	switch charset {
	case CharsetLetters:
		return lower + upper, nil
	case CharsetAlphanumeric:
		return lower + upper + digits, nil
	case CharsetDigits:
		return digits, nil
	case CharsetFull:
		// Quotes, backslash, backtick and space are left out so the
		// passphrase survives copy/paste through a shell untouched.
		return lower + upper + digits + symbols, nil
	default:
		return "", fmt.Errorf("unknown charset policy %q", charset)
	}
}

// Generate returns a passphrase of policy.Length characters drawn
// uniformly from the policy's alphabet. The value is returned in locked
// memory and is never logged or persisted here. A failing random source
// is an error, never a fallback to a weaker source.
func Generate(policy Policy) (*secret.Buffer, error) {
	alphabet, err := Alphabet(policy.Charset)
	if err != nil {
		return nil, err
	}

	if policy.Length <= 0 {
		return nil, fmt.Errorf("passphrase length must be positive, got %d", policy.Length)
	}

	out := make([]byte, policy.Length)
	size := big.NewInt(int64(len(alphabet)))

	for i := range out {
		// rand.Int is uniform over [0, size); no modulo bias.
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			secret.Zero(out)

			return nil, fmt.Errorf("reading random source: %w", err)
		}

		out[i] = alphabet[n.Int64()]
	}

	// NewFromBytes zeroes the heap copy.
	buffer, err := secret.NewFromBytes(out)
	if err != nil {
		return nil, fmt.Errorf("protecting passphrase: %w", err)
	}

	return buffer, nil
}

// Entropy reports the strength of the policy in bits.
func Entropy(policy Policy) float64 {
	alphabet, err := Alphabet(policy.Charset)
	if err != nil {
		return 0
	}

	return float64(policy.Length) * math.Log2(float64(len(alphabet)))
}
