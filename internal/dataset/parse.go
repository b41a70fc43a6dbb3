package dataset

import (
	"strconv"
	"strings"
)

// formatFloat renders a nullable float for a CSV cell; nil becomes the empty
// missing marker.
func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// parseFloat parses a CSV cell back to a nullable float. Empty and
// unparseable cells are missing.
func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseIntOr parses a CSV cell as an integer, returning def on empty or
// malformed input.
func parseIntOr(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
