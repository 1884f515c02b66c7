package temporal

import (
	"fmt"
	"strings"
	"time"
)

const compactLayout = "t20060102T150405"

// CompactTimestamp renders a timestamp the way it is embedded in map
// and column names, e.g. "t20150601T120000".
func CompactTimestamp(t time.Time) string {
	return t.UTC().Format(compactLayout)
}

// ParseCompactTimestamp is the inverse of CompactTimestamp.
func ParseCompactTimestamp(str string) (time.Time, error) {
	t, err := time.Parse(compactLayout, str)
	if err != nil {
		return time.Time{}, fmt.Errorf("compact timestamp %q: %w", str, err)
	}
	return t, nil
}

var nameSanitizer = strings.NewReplacer(":", "_", "-", "_", ".", "_", " ", "_", "/", "_")

// MapName joins name parts with underscores and strips characters that
// are not valid in map or attribute table names.
func MapName(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, nameSanitizer.Replace(p))
		}
	}
	return strings.Join(kept, "_")
}
