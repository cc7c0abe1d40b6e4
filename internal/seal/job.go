package seal

import (
	"time"

	"github.com/idelchi/goseal/pkg/secret"
)

// State is a job's position in the pipeline.
type State int

const (
	StatePending State = iota
	StateEncrypting
	StateEncrypted
	StateChunking
	StateDone
	StateFailed
)

// String returns the lowercase state name used in reports.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateEncrypting:
		return "encrypting"
	case StateEncrypted:
		return "encrypted"
	case StateChunking:
		return "chunking"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Next reports whether a job may move from s to next. Done and Failed
// are terminal; every non-terminal state may fail.
func (s State) Next(next State) bool {
	switch s {
	case StatePending:
		return next == StateEncrypting || next == StateFailed
	case StateEncrypting:
		return next == StateEncrypted || next == StateFailed
	case StateEncrypted:
		return next == StateChunking || next == StateFailed
	case StateChunking:
		return next == StateDone || next == StateFailed
	default:
		return false
	}
}

// Job tracks one input file through the pipeline.
type Job struct {
	// Input file path
	Input string

	// Input file size in bytes
	Size int64

	// Encrypted artifact size in bytes (sum of all chunk sizes)
	OutputSize int64

	// Current pipeline state
	State State

	// Generated passphrase, held in locked memory until disclosure
	Passphrase *secret.Buffer

	// Produced chunk files, in write order
	Chunks []string

	// Wall time spent on the job
	Duration time.Duration

	// Error that failed the job
	Err error
}

// NewJob returns a pending job for the given input file.
func NewJob(input string) *Job {
	return &Job{Input: input, State: StatePending}
}

// Advance moves the job to next and reports whether the transition was
// legal. Illegal transitions leave the job untouched, so terminal
// states stay terminal.
func (j *Job) Advance(next State) bool {
	if !j.State.Next(next) {
		return false
	}

	j.State = next

	return true
}

// Fail marks the job failed and releases its passphrase, which is never
// disclosed for a failed job.
func (j *Job) Fail(err error) {
	if j.Advance(StateFailed) {
		j.Err = err
	}

	if j.Passphrase != nil {
		j.Passphrase.Close() //nolint:gosec // release is best-effort
		j.Passphrase = nil
	}
}

// Throughput reports input bytes processed per second.
func (j *Job) Throughput() float64 {
	seconds := j.Duration.Seconds()
	if seconds <= 0 {
		return 0
	}

	return float64(j.Size) / seconds
}
