// Package filter selects the files to seal: positional args are taken
// directly, directories are walked and matched by extension and exclude
// patterns.
package filter

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/idelchi/goseal/pkg/pathmatch"
)

// Filter holds the compiled selection rules for one run.
type Filter struct {
	extensions map[string]bool
	excludes   *pathmatch.Matcher
	suffix     string
}

// New builds a Filter from recognized file types (extensions, with or
// without a leading dot), exclude globs and the artifact suffix.
// Exclude globs use find -path semantics and are compiled eagerly so a
// malformed pattern fails the run instead of silently matching nothing.
func New(types, excludes []string, suffix string) (*Filter, error) {
	if len(types) == 0 {
		return nil, fmt.Errorf("no file types configured")
	}

	extensions := make(map[string]bool, len(types))

	for _, t := range types {
		ext := strings.ToLower(strings.TrimSpace(t))
		if ext == "" {
			return nil, fmt.Errorf("empty file type")
		}

		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}

		extensions[ext] = true
	}

	matcher, err := pathmatch.NewMatcher(excludes)
	if err != nil {
		return nil, fmt.Errorf("compiling exclude patterns: %w", err)
	}

	return &Filter{
		extensions: extensions,
		excludes:   matcher,
		suffix:     suffix,
	}, nil
}

// Resolve expands positional args into the files to process.
// Explicit files bypass extension and exclude filtering; directories are
// walked recursively. Files that already carry the artifact suffix or a
// chunk index are never selected, so a second run cannot seal its own
// output. Returns the selection and the total number of files considered.
func (f *Filter) Resolve(args []string) (files []string, scanned int, err error) {
	seen := make(map[string]struct{})

	for _, arg := range args {
		arg = filepath.Clean(arg)

		info, err := os.Stat(arg)
		if err != nil {
			return nil, 0, fmt.Errorf("stat %q: %w", arg, err)
		}

		if !info.IsDir() {
			scanned++

			if f.Sealed(filepath.Base(arg)) {
				continue
			}

			if _, ok := seen[arg]; ok {
				continue
			}

			seen[arg] = struct{}{}
			files = append(files, arg)

			continue
		}

		walked, total, err := f.walk(arg)
		if err != nil {
			return nil, 0, err
		}

		scanned += total

		for _, path := range walked {
			if _, ok := seen[path]; ok {
				continue
			}

			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	if len(files) == 0 {
		return nil, scanned, fmt.Errorf("no files matched in: %v", args)
	}

	return files, scanned, nil
}

// walk descends root recursively, returning the regular files that pass
// the selection rules. Exclude patterns are matched against the base
// name and against the slashed path relative to root.
func (f *Filter) walk(root string) (files []string, total int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		total++

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relativizing %q: %w", path, err)
		}

		if f.Match(filepath.Base(path), filepath.ToSlash(rel)) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("walking %q: %w", root, err)
	}

	return files, total, nil
}

// Match reports whether a walked file with the given base name and
// slashed relative path passes the selection rules.
func (f *Filter) Match(base, rel string) bool {
	if f.Sealed(base) {
		return false
	}

	if !f.extensions[strings.ToLower(filepath.Ext(base))] {
		return false
	}

	if f.excludes.MatchAny(base) || f.excludes.MatchAny(rel) {
		return false
	}

	return true
}

// Sealed reports whether name is a previous run's output: either the
// artifact suffix or the suffix followed by a numeric chunk index.
func (f *Filter) Sealed(name string) bool {
	if f.suffix == "" {
		return false
	}

	if strings.HasSuffix(name, f.suffix) {
		return true
	}

	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return false
	}

	index := name[i+1:]
	if index == "" {
		return false
	}

	for _, r := range index {
		if r < '0' || r > '9' {
			return false
		}
	}

	return strings.HasSuffix(name[:i], f.suffix)
}
