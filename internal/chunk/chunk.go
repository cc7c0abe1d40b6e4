// Package chunk splits encrypted artifacts into bounded-size pieces
// whose names sort back into write order, and reassembles them.
package chunk

import (
	"fmt"
	"io"
	"os"
)

// Split cuts the artifact into consecutive chunks of at most maxSize
// bytes, named `<artifact>.<NN>` with a zero-padded index. An artifact
// that already fits in one chunk is left untouched and returned as the
// single output. After a successful split the artifact is removed; on
// failure every chunk written so far is removed instead, so a failed
// job leaves no partial outputs.
func Split(artifact string, maxSize int64) (chunks []string, err error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("split size must be positive, got %d", maxSize)
	}

	info, err := os.Stat(artifact)
	if err != nil {
		return nil, fmt.Errorf("stat %q: %w", artifact, err)
	}

	size := info.Size()
	if size <= maxSize {
		return []string{artifact}, nil
	}

	in, err := os.Open(artifact) //nolint:gosec // artifact was produced by this run
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", artifact, err)
	}
	defer in.Close()

	count := (size + maxSize - 1) / maxSize
	width := Width(int(count) - 1)

	defer func() {
		if err != nil {
			for _, chunk := range chunks {
				os.Remove(chunk) //nolint:gosec,errcheck // best-effort cleanup
			}

			chunks = nil
		}
	}()

	for index, remaining := 0, size; remaining > 0; index++ {
		length := remaining
		if length > maxSize {
			length = maxSize
		}

		name := Name(artifact, index, width)

		if err = writeChunk(in, name, length); err != nil {
			return chunks, err
		}

		chunks = append(chunks, name)
		remaining -= length
	}

	if err = os.Remove(artifact); err != nil {
		return chunks, fmt.Errorf("removing split artifact %q: %w", artifact, err)
	}

	return chunks, nil
}

// writeChunk copies exactly length bytes from in to a new file at name.
func writeChunk(in io.Reader, name string, length int64) error {
	out, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // chunk path derives from the artifact
	if err != nil {
		return fmt.Errorf("creating chunk %q: %w", name, err)
	}

	if _, err := io.CopyN(out, in, length); err != nil {
		out.Close() //nolint:gosec // best-effort cleanup

		return fmt.Errorf("writing chunk %q: %w", name, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("closing chunk %q: %w", name, err)
	}

	return nil
}
