package pathmatch_test

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/idelchi/goseal/pkg/pathmatch"
)

// Case is a single golden case: one pattern against one path.
type Case struct {
	Pattern     string `yaml:"pattern"`
	Path        string `yaml:"path"`
	Match       bool   `yaml:"match"`
	Description string `yaml:"description,omitempty"`
}

// Group is a named collection of golden cases.
type Group struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Cases       []Case `yaml:"cases"`
}

func loadSpecs(t *testing.T) map[string][]Group {
	t.Helper()

	files, err := filepath.Glob("testdata/*.yml")
	if err != nil {
		t.Fatalf("globbing testdata: %v", err)
	}

	if len(files) == 0 {
		t.Fatal("no testdata/*.yml files found")
	}

	specs := make(map[string][]Group)

	for _, f := range files {
		data, err := os.ReadFile(f) //nolint:gosec // test helper reads known testdata files
		if err != nil {
			t.Fatalf("reading %s: %v", f, err)
		}

		var groups []Group
		if err := yaml.Unmarshal(data, &groups); err != nil {
			t.Fatalf("parsing %s: %v", f, err)
		}

		specs[filepath.Base(f)] = groups
	}

	return specs
}

// forEachCase iterates file, group, case from the golden specs.
func forEachCase(t *testing.T, fn func(t *testing.T, tc Case)) {
	t.Helper()

	for file, groups := range loadSpecs(t) {
		t.Run(file, func(t *testing.T) {
			t.Parallel()

			for _, g := range groups {
				t.Run(g.Name, func(t *testing.T) {
					t.Parallel()

					for i, tc := range g.Cases {
						desc := tc.Description
						if desc == "" {
							desc = fmt.Sprintf("case_%d", i)
						}

						t.Run(desc, func(t *testing.T) {
							t.Parallel()
							fn(t, tc)
						})
					}
				})
			}
		})
	}
}

// TestMatch runs all golden cases against pathmatch.Match.
func TestMatch(t *testing.T) {
	t.Parallel()

	forEachCase(t, func(t *testing.T, tc Case) {
		t.Helper()

		got, err := pathmatch.Match(tc.Pattern, tc.Path)
		if err != nil {
			t.Fatalf("Match(%q, %q) error: %v", tc.Pattern, tc.Path, err)
		}

		if got != tc.Match {
			t.Errorf("Match(%q, %q) = %v, want %v", tc.Pattern, tc.Path, got, tc.Match)
		}
	})
}

// TestMatcher runs the golden cases through the pre-compiled API.
func TestMatcher(t *testing.T) {
	t.Parallel()

	forEachCase(t, func(t *testing.T, tc Case) {
		t.Helper()

		matcher, err := pathmatch.NewMatcher([]string{tc.Pattern})
		if err != nil {
			t.Fatalf("NewMatcher(%q) error: %v", tc.Pattern, err)
		}

		if got := matcher.MatchAny(tc.Path); got != tc.Match {
			t.Errorf("Matcher(%q).MatchAny(%q) = %v, want %v", tc.Pattern, tc.Path, got, tc.Match)
		}
	})
}

// TestMatcherEmpty pins that a matcher without patterns matches nothing.
func TestMatcherEmpty(t *testing.T) {
	t.Parallel()

	matcher, err := pathmatch.NewMatcher(nil)
	if err != nil {
		t.Fatalf("NewMatcher(nil) error: %v", err)
	}

	if matcher.MatchAny("anything") {
		t.Error("MatchAny on empty matcher = true, want false")
	}
}

// TestMatchRejects checks the malformed patterns that must not compile.
func TestMatchRejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		pattern string
	}{
		{"trailing backslash", `a\`},
		{"unclosed set", `[abc`},
		{"unclosed set with escape", `[a\]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := pathmatch.Match(tc.pattern, "x"); err == nil {
				t.Errorf("Match(%q) = nil error, want error", tc.pattern)
			}

			if _, err := pathmatch.NewMatcher([]string{tc.pattern}); err == nil {
				t.Errorf("NewMatcher(%q) = nil error, want error", tc.pattern)
			}
		})
	}
}

// TestSetEscapes checks backslash handling inside character sets, which
// find honors but filepath.Match does not.
func TestSetEscapes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		pattern string
		path    string
		match   bool
	}{
		{"escaped closing bracket", `[\]]x`, "]x", true},
		{"escaped letter is literal", `[\d]x`, "dx", true},
		{"escaped letter is not a class", `[\d]x`, "7x", false},
		{"escaped dash is literal", `[a\-z]x`, "-x", true},
		{"escaped dash is not a range", `[a\-z]x`, "mx", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := pathmatch.Match(tc.pattern, tc.path)
			if err != nil {
				t.Fatalf("Match(%q, %q) error: %v", tc.pattern, tc.path, err)
			}

			if got != tc.match {
				t.Errorf("Match(%q, %q) = %v, want %v", tc.pattern, tc.path, got, tc.match)
			}
		})
	}
}

// TestFindParity cross-checks the implementation against actual
// find -path behavior by materializing each golden path in a temp
// directory and running find over it.
func TestFindParity(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("find"); err != nil {
		t.Skip("find not available")
	}

	forEachCase(t, func(t *testing.T, tc Case) {
		t.Helper()

		if tc.Path == "" {
			t.Skip("empty path cannot be materialized")
		}

		findResult := runFind(t, tc.Pattern, tc.Path)

		if findResult != tc.Match {
			t.Errorf("find -path disagrees with golden data: find=%v, want=%v for pattern=%q path=%q",
				findResult, tc.Match, tc.Pattern, tc.Path)
		}

		got, err := pathmatch.Match(tc.Pattern, tc.Path)
		if err != nil {
			t.Fatalf("Match(%q, %q) error: %v", tc.Pattern, tc.Path, err)
		}

		if got != findResult {
			t.Errorf("Match(%q, %q) = %v, but find says %v", tc.Pattern, tc.Path, got, findResult)
		}
	})
}

// runFind materializes path under a temp root and reports whether
// find -path selects it.
func runFind(t *testing.T, pattern, path string) bool {
	t.Helper()

	tmpDir := t.TempDir()

	fullPath := filepath.Join(tmpDir, path)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		t.Fatalf("mkdir for %q: %v", path, err)
	}

	if err := os.WriteFile(fullPath, nil, 0o600); err != nil {
		t.Fatalf("touch %q: %v", path, err)
	}

	// find matches -path against the full path from the search root, so
	// the pattern gets the root prepended.
	findPattern := filepath.Join(tmpDir, pattern)

	cmd := exec.Command("find", tmpDir, "-type", "f", "-path", findPattern) //nolint:gosec // parity check against the system find

	out, err := cmd.Output()
	if err != nil {
		// find exits 0 even with no matches; an error means the
		// invocation itself went wrong.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			t.Logf("find stderr: %s", exitErr.Stderr)
		}

		return false
	}

	return strings.TrimSpace(string(out)) != ""
}
