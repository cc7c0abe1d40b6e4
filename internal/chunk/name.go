package chunk

import (
	"fmt"
	"strconv"
	"strings"
)

// minWidth keeps indexes at least two digits so up to 100 chunks sort
// lexicographically without special-casing.
const minWidth = 2

// Name returns the chunk file name for the given index: the artifact
// path followed by a dot and the zero-padded index.
func Name(artifact string, index, width int) string {
	return fmt.Sprintf("%s.%0*d", artifact, width, index)
}

// Width returns the index width needed for a chunk set ending at lastIndex.
func Width(lastIndex int) int {
	width := len(strconv.Itoa(lastIndex))
	if width < minWidth {
		width = minWidth
	}

	return width
}

// Parse splits a chunk file name into the artifact it belongs to and
// its index. Reports ok=false for names that do not carry a zero-padded
// index of at least minWidth digits.
func Parse(name string) (artifact string, index, width int, ok bool) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return "", 0, 0, false
	}

	digits := name[i+1:]
	if len(digits) < minWidth {
		return "", 0, 0, false
	}

	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", 0, 0, false
		}
	}

	index, err := strconv.Atoi(digits)
	if err != nil {
		return "", 0, 0, false
	}

	return name[:i], index, len(digits), true
}

// Render expands the rename template for one input file name.
// `{name}` expands to the input's base name; a template without the
// placeholder renames every output to the same literal value, which
// configuration validation rejects for multi-file runs.
func Render(template, name string) string {
	return strings.ReplaceAll(template, "{name}", name)
}
