package chunk

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/idelchi/goseal/internal/fileutil"
)

// Order validates that the given files form one complete chunk set and
// returns them sorted by index, together with the artifact path the set
// reassembles into. A complete set shares one artifact and one index
// width and covers indexes 0..n-1 without gaps or duplicates.
func Order(chunks []string) (ordered []string, artifact string, err error) {
	if len(chunks) == 0 {
		return nil, "", fmt.Errorf("no chunks given")
	}

	type piece struct {
		path  string
		index int
	}

	pieces := make([]piece, 0, len(chunks))
	widths := make(map[int]bool)

	for _, chunk := range chunks {
		base, index, width, ok := Parse(chunk)
		if !ok {
			return nil, "", fmt.Errorf("%q does not look like a chunk", chunk)
		}

		if artifact == "" {
			artifact = base
		} else if base != artifact {
			return nil, "", fmt.Errorf("chunks from different artifacts: %q and %q", artifact, base)
		}

		widths[width] = true
		pieces = append(pieces, piece{path: chunk, index: index})
	}

	if len(widths) > 1 {
		return nil, "", fmt.Errorf("mixed index widths in chunk set for %q", artifact)
	}

	sort.Slice(pieces, func(i, j int) bool { return pieces[i].index < pieces[j].index })

	ordered = make([]string, 0, len(pieces))

	for i, p := range pieces {
		if p.index != i {
			return nil, "", fmt.Errorf("chunk set for %q is not contiguous: have index %d, want %d", artifact, p.index, i)
		}

		ordered = append(ordered, p.path)
	}

	return ordered, artifact, nil
}

// Join reassembles a complete chunk set into out, written atomically.
// The chunks themselves are left in place; removal is the caller's call.
func Join(chunks []string, out string) (err error) {
	ordered, _, err := Order(chunks)
	if err != nil {
		return err
	}

	tc, err := fileutil.NewTempContext(out)
	if err != nil {
		return err
	}
	defer tc.CleanupOnError(&err)

	for _, chunk := range ordered {
		if err = appendChunk(tc.TmpFile, chunk); err != nil {
			return err
		}
	}

	return tc.Finalize()
}

// appendChunk streams one chunk into the write target.
func appendChunk(out io.Writer, chunk string) error {
	in, err := os.Open(chunk) //nolint:gosec // chunk paths come from the caller's selection
	if err != nil {
		return fmt.Errorf("opening chunk %q: %w", chunk, err)
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("reading chunk %q: %w", chunk, err)
	}

	return nil
}
