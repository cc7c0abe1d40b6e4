package seal

import "errors"

var (
	// ErrConfig is returned for configuration the pipeline cannot run with.
	ErrConfig = errors.New("config error")
	// ErrInput is returned for sources that are missing, unreadable or irregular.
	ErrInput = errors.New("input error")
	// ErrEncryption is returned when the encryption capability or the passphrase source fails.
	ErrEncryption = errors.New("encryption error")
	// ErrIO is returned for chunking and output placement failures.
	ErrIO = errors.New("io error")
)
