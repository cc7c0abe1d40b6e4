package seal

import "time"

// Summary aggregates the outcome of one run.
type Summary struct {
	// Number of successfully sealed files
	Processed int

	// Number of failed files
	Errored int

	// Total plaintext bytes read
	InputSize int64

	// Total encrypted bytes written
	OutputSize int64

	// Wall time for the whole run
	Duration time.Duration
}

// Failed reports whether any job in the run failed.
func (s Summary) Failed() bool {
	return s.Errored > 0
}
