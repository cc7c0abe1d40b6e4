package chunk_test

import (
	"sort"
	"testing"

	"github.com/idelchi/goseal/internal/chunk"
)

// TestName checks zero padding.
func TestName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		index, width int
		want         string
	}{
		{0, 2, "a.enc.00"},
		{7, 2, "a.enc.07"},
		{12, 2, "a.enc.12"},
		{7, 3, "a.enc.007"},
		{120, 3, "a.enc.120"},
	}

	for _, tc := range cases {
		if got := chunk.Name("a.enc", tc.index, tc.width); got != tc.want {
			t.Errorf("Name(a.enc, %d, %d) = %q, want %q", tc.index, tc.width, got, tc.want)
		}
	}
}

// TestWidth checks the padded width as chunk counts grow.
func TestWidth(t *testing.T) {
	t.Parallel()

	cases := []struct {
		lastIndex, want int
	}{
		{0, 2},
		{3, 2},
		{9, 2},
		{99, 2},
		{100, 3},
		{999, 3},
		{1000, 4},
	}

	for _, tc := range cases {
		if got := chunk.Width(tc.lastIndex); got != tc.want {
			t.Errorf("Width(%d) = %d, want %d", tc.lastIndex, got, tc.want)
		}
	}
}

// TestParse checks chunk name recognition.
func TestParse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		artifact string
		index    int
		width    int
		ok       bool
	}{
		{"backup.zip.enc.00", "backup.zip.enc", 0, 2, true},
		{"backup.zip.enc.17", "backup.zip.enc", 17, 2, true},
		{"backup.zip.enc.003", "backup.zip.enc", 3, 3, true},
		{"backup.zip.enc", "", 0, 0, false},
		{"backup.zip.enc.1", "", 0, 0, false},
		{"backup.zip.enc.x0", "", 0, 0, false},
		{"backup.zip.enc.", "", 0, 0, false},
		{"nodot", "", 0, 0, false},
	}

	for _, tc := range cases {
		artifact, index, width, ok := chunk.Parse(tc.name)

		if ok != tc.ok {
			t.Errorf("Parse(%q) ok = %v, want %v", tc.name, ok, tc.ok)

			continue
		}

		if !ok {
			continue
		}

		if artifact != tc.artifact || index != tc.index || width != tc.width {
			t.Errorf("Parse(%q) = (%q, %d, %d), want (%q, %d, %d)",
				tc.name, artifact, index, width, tc.artifact, tc.index, tc.width)
		}
	}
}

// TestNamesSortIntoWriteOrder checks the naming invariant the whole
// scheme rests on: lexicographic order equals index order.
func TestNamesSortIntoWriteOrder(t *testing.T) {
	t.Parallel()

	for _, count := range []int{2, 4, 99, 100, 101, 250} {
		width := chunk.Width(count - 1)

		names := make([]string, 0, count)
		for i := range count {
			names = append(names, chunk.Name("backup.zip.enc", i, width))
		}

		sorted := append([]string(nil), names...)
		sort.Strings(sorted)

		for i := range names {
			if names[i] != sorted[i] {
				t.Fatalf("count %d: names do not sort into write order at %d: %q vs %q",
					count, i, names[i], sorted[i])
			}
		}
	}
}

// TestRender checks template expansion.
func TestRender(t *testing.T) {
	t.Parallel()

	cases := []struct {
		template string
		name     string
		want     string
	}{
		{"{name}", "backup.zip", "backup.zip"},
		{"vault-{name}", "backup.zip", "vault-backup.zip"},
		{"{name}-2026", "backup.zip", "backup.zip-2026"},
		{"fixed", "backup.zip", "fixed"},
	}

	for _, tc := range cases {
		if got := chunk.Render(tc.template, tc.name); got != tc.want {
			t.Errorf("Render(%q, %q) = %q, want %q", tc.template, tc.name, got, tc.want)
		}
	}
}
