package chunk_test

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/idelchi/goseal/internal/chunk"
)

// writeArtifact creates a file of the given size with position-dependent
// content, so chunk boundaries and ordering mistakes show up in compares.
func writeArtifact(t *testing.T, size int) (path string, data []byte) {
	t.Helper()

	data = make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}

	path = filepath.Join(t.TempDir(), "backup.zip.enc")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("writing artifact: %v", err)
	}

	return path, data
}

// TestSplitSizes checks the documented example: a 10,000,000 byte
// artifact with a 3,000,000 byte limit becomes exactly four chunks of
// 3,000,000 / 3,000,000 / 3,000,000 / 1,000,000 bytes.
func TestSplitSizes(t *testing.T) {
	t.Parallel()

	artifact, _ := writeArtifact(t, 10_000_000)

	chunks, err := chunk.Split(artifact, 3_000_000)
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}

	want := []string{
		artifact + ".00",
		artifact + ".01",
		artifact + ".02",
		artifact + ".03",
	}

	if !slices.Equal(chunks, want) {
		t.Fatalf("Split names = %v, want %v", chunks, want)
	}

	sizes := make([]int64, 0, len(chunks))

	for _, c := range chunks {
		info, err := os.Stat(c)
		if err != nil {
			t.Fatalf("stat %q: %v", c, err)
		}

		sizes = append(sizes, info.Size())
	}

	if wantSizes := []int64{3_000_000, 3_000_000, 3_000_000, 1_000_000}; !slices.Equal(sizes, wantSizes) {
		t.Errorf("chunk sizes = %v, want %v", sizes, wantSizes)
	}

	if _, err := os.Stat(artifact); !os.IsNotExist(err) {
		t.Error("artifact still exists after split")
	}
}

// TestSplitSmallEnough checks that an artifact within the limit is kept
// whole, without a numeric suffix.
func TestSplitSmallEnough(t *testing.T) {
	t.Parallel()

	for _, size := range []int{1, 999, 1000} {
		artifact, data := writeArtifact(t, size)

		chunks, err := chunk.Split(artifact, 1000)
		if err != nil {
			t.Fatalf("Split error: %v", err)
		}

		if len(chunks) != 1 || chunks[0] != artifact {
			t.Fatalf("Split = %v, want [%q]", chunks, artifact)
		}

		got, err := os.ReadFile(artifact) //nolint:gosec // test reads its own output
		if err != nil {
			t.Fatalf("reading artifact: %v", err)
		}

		if !bytes.Equal(got, data) {
			t.Errorf("artifact content changed for size %d", size)
		}
	}
}

// TestSplitBoundaries checks the chunk count right around the limit.
func TestSplitBoundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		size  int
		max   int64
		want  int
		sizes []int64
	}{
		{"one over", 1001, 1000, 2, []int64{1000, 1}},
		{"exact multiple", 2000, 1000, 2, []int64{1000, 1000}},
		{"uneven", 2500, 1000, 3, []int64{1000, 1000, 500}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			artifact, _ := writeArtifact(t, tc.size)

			chunks, err := chunk.Split(artifact, tc.max)
			if err != nil {
				t.Fatalf("Split error: %v", err)
			}

			if len(chunks) != tc.want {
				t.Fatalf("Split produced %d chunks, want %d", len(chunks), tc.want)
			}

			for i, c := range chunks {
				info, err := os.Stat(c)
				if err != nil {
					t.Fatalf("stat %q: %v", c, err)
				}

				if info.Size() != tc.sizes[i] {
					t.Errorf("chunk %d size = %d, want %d", i, info.Size(), tc.sizes[i])
				}
			}
		})
	}
}

// TestSplitWriteFailureCleansUp checks that a write failure mid-split
// removes every chunk written so far and leaves the artifact intact.
func TestSplitWriteFailureCleansUp(t *testing.T) {
	t.Parallel()

	artifact, data := writeArtifact(t, 2500)

	// A directory squatting on the second chunk's name makes its
	// open fail after the first chunk was written.
	if err := os.Mkdir(artifact+".01", 0o750); err != nil {
		t.Fatalf("creating blocker: %v", err)
	}

	chunks, err := chunk.Split(artifact, 1000)
	if err == nil {
		t.Fatalf("Split = %v, want error", chunks)
	}

	if len(chunks) != 0 {
		t.Errorf("failed Split returned chunks %v", chunks)
	}

	if _, err := os.Stat(artifact + ".00"); !os.IsNotExist(err) {
		t.Errorf("partial chunk %q survived the failure, stat err = %v", artifact+".00", err)
	}

	got, err := os.ReadFile(artifact)
	if err != nil {
		t.Fatalf("reading artifact after failed split: %v", err)
	}

	if !bytes.Equal(got, data) {
		t.Error("artifact content changed during failed split")
	}
}

// TestSplitRejects checks argument validation.
func TestSplitRejects(t *testing.T) {
	t.Parallel()

	artifact, _ := writeArtifact(t, 10)

	if _, err := chunk.Split(artifact, 0); err == nil {
		t.Error("Split with zero size = nil error, want error")
	}

	if _, err := chunk.Split(artifact, -1); err == nil {
		t.Error("Split with negative size = nil error, want error")
	}

	if _, err := chunk.Split(filepath.Join(t.TempDir(), "missing"), 1000); err == nil {
		t.Error("Split on missing artifact = nil error, want error")
	}
}

// TestJoinRoundtrip checks that joining a split reproduces the artifact
// byte for byte, regardless of the order chunks are named in.
func TestJoinRoundtrip(t *testing.T) {
	t.Parallel()

	artifact, data := writeArtifact(t, 25_000)

	chunks, err := chunk.Split(artifact, 4_000)
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}

	// Hand the chunks over shuffled; Join must restore index order.
	shuffled := slices.Clone(chunks)
	for i := range shuffled {
		j := (i * 5) % len(shuffled)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	out := filepath.Join(filepath.Dir(artifact), "restored.zip.enc")

	if err := chunk.Join(shuffled, out); err != nil {
		t.Fatalf("Join error: %v", err)
	}

	got, err := os.ReadFile(out) //nolint:gosec // test reads its own output
	if err != nil {
		t.Fatalf("reading joined output: %v", err)
	}

	if !bytes.Equal(got, data) {
		t.Error("joined output differs from the original artifact")
	}

	for _, c := range chunks {
		if _, err := os.Stat(c); err != nil {
			t.Errorf("chunk %q was consumed by Join", c)
		}
	}
}

// TestOrderRejects checks chunk set validation.
func TestOrderRejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		chunks []string
	}{
		{"empty", nil},
		{"not a chunk", []string{"backup.zip.enc"}},
		{"single digit index", []string{"backup.zip.enc.1"}},
		{"mixed artifacts", []string{"a.enc.00", "b.enc.01"}},
		{"gap", []string{"a.enc.00", "a.enc.02"}},
		{"duplicate", []string{"a.enc.00", "a.enc.00", "a.enc.01"}},
		{"missing first", []string{"a.enc.01", "a.enc.02"}},
		{"mixed widths", []string{"a.enc.00", "a.enc.001"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, _, err := chunk.Order(tc.chunks); err == nil {
				t.Errorf("Order(%v) = nil error, want error", tc.chunks)
			}
		})
	}
}

// TestOrder checks sorting and artifact recovery.
func TestOrder(t *testing.T) {
	t.Parallel()

	ordered, artifact, err := chunk.Order([]string{"a.enc.02", "a.enc.00", "a.enc.01"})
	if err != nil {
		t.Fatalf("Order error: %v", err)
	}

	if artifact != "a.enc" {
		t.Errorf("artifact = %q, want %q", artifact, "a.enc")
	}

	if want := []string{"a.enc.00", "a.enc.01", "a.enc.02"}; !slices.Equal(ordered, want) {
		t.Errorf("ordered = %v, want %v", ordered, want)
	}
}
