package filter

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// LoadPatterns reads exclude globs from a JSONC file (JSON with comments
// and trailing commas). Compilation is left to the filter so pattern
// errors carry the same context either way.
func LoadPatterns(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from user configuration
	if err != nil {
		return nil, fmt.Errorf("reading patterns file %q: %w", path, err)
	}

	var patterns []string
	if err := json.Unmarshal(jsonc.ToJSONInPlace(data), &patterns); err != nil {
		return nil, fmt.Errorf("parsing patterns file %q: %w", path, err)
	}

	for _, pattern := range patterns {
		if pattern == "" {
			return nil, fmt.Errorf("empty pattern in %q", path)
		}
	}

	return patterns, nil
}
