// Package pathmatch implements find -path pattern matching for exclude
// rules: fnmatch(3) without FNM_PATHNAME, where wildcards cross
// directory separators.
//
//   - * matches any run of characters, including /
//   - ? matches exactly one character, including /
//   - [...] matches one character from the set, [!...] negates
//   - \ escapes the next character, inside and outside sets
//
// Go's filepath.Match stops * at separators. Exclude rules for backup
// trees are expected to prune whole subtrees with patterns like
// "*cache*", so this package deliberately does not.
package pathmatch

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Matcher holds a set of compiled patterns applied together.
type Matcher struct {
	patterns []*regexp.Regexp
}

// NewMatcher compiles patterns into a reusable matcher. Compilation
// errors name the offending pattern.
func NewMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{patterns: make([]*regexp.Regexp, len(patterns))}

	for i, pattern := range patterns {
		re, err := compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}

		m.patterns[i] = re
	}

	return m, nil
}

// MatchAny reports whether path matches at least one pattern.
func (m *Matcher) MatchAny(path string) bool {
	for _, re := range m.patterns {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}

// Match reports whether path matches a single pattern.
func Match(pattern, path string) (bool, error) {
	re, err := compile(pattern)
	if err != nil {
		return false, err
	}

	return re.MatchString(path), nil
}

// Exclude patterns are matched against every walked file, twice: once
// for the base name and once for the relative path. Compile each
// pattern once per process.
var cache sync.Map //nolint:gochecknoglobals // shared compile cache

func compile(pattern string) (*regexp.Regexp, error) {
	if cached, ok := cache.Load(pattern); ok {
		re, _ := cached.(*regexp.Regexp)

		return re, nil
	}

	expr, err := translate(pattern)
	if err != nil {
		return nil, err
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", pattern, err)
	}

	cache.Store(pattern, re)

	return re, nil
}

// translate rewrites a find -path glob as an anchored regexp.
func translate(pattern string) (string, error) {
	var b strings.Builder

	b.WriteString("^")

	for i := 0; i < len(pattern); {
		switch c := pattern[i]; c {
		case '*':
			b.WriteString(".*")

			i++

		case '?':
			b.WriteString(".")

			i++

		case '[':
			end, err := setEnd(pattern, i)
			if err != nil {
				return "", err
			}

			b.WriteString(setExpr(pattern[i : end+1]))

			i = end + 1

		case '\\':
			if i+1 >= len(pattern) {
				return "", fmt.Errorf("trailing backslash")
			}

			b.WriteString(regexp.QuoteMeta(string(pattern[i+1])))

			i += 2

		default:
			b.WriteString(regexp.QuoteMeta(string(c)))

			i++
		}
	}

	b.WriteString("$")

	return b.String(), nil
}

// setEnd returns the index of the ] closing the set opened at open.
// A ] directly after [ or [! is a literal member, and \ escapes the
// next character.
func setEnd(pattern string, open int) (int, error) {
	i := open + 1

	if i < len(pattern) && pattern[i] == '!' {
		i++
	}

	if i < len(pattern) && pattern[i] == ']' {
		i++
	}

	for i < len(pattern) {
		switch pattern[i] {
		case '\\':
			i += 2
		case ']':
			return i, nil
		default:
			i++
		}
	}

	return 0, fmt.Errorf("unclosed character set")
}

// setExpr converts a glob character set to its regexp form. Ranges and
// literal members carry over; the negation marker differs, and escaped
// alphanumerics must not turn into regexp classes like \d.
func setExpr(set string) string {
	body := set[1 : len(set)-1]

	var b strings.Builder

	b.WriteString("[")

	if strings.HasPrefix(body, "!") {
		b.WriteString("^")

		body = body[1:]
	}

	for i := 0; i < len(body); {
		if body[i] == '\\' && i+1 < len(body) {
			if c := body[i+1]; isAlphanumeric(c) {
				b.WriteByte(c)
			} else {
				b.WriteByte('\\')
				b.WriteByte(c)
			}

			i += 2

			continue
		}

		b.WriteByte(body[i])
		i++
	}

	b.WriteString("]")

	return b.String()
}

func isAlphanumeric(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
