package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	spaceRun = regexp.MustCompile(`[\s\x{00a0}]+`)
	datePat  = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`)
)

// CollapseSpace trims, collapses whitespace runs (including non-breaking
// spaces) to single spaces, and strips literal pipe characters introduced by
// markup artifacts.
func CollapseSpace(s string) string {
	s = strings.ReplaceAll(s, "|", " ")
	s = spaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// TruncateAt cuts the string at the first occurrence of marker, for fields
// with known trailing noise (embedded link labels and the like), then trims.
func TruncateAt(s, marker string) string {
	if marker == "" {
		return strings.TrimSpace(s)
	}
	if i := strings.Index(s, marker); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// CleanNumber strips every character outside [0-9.] and parses the remainder
// as a float. Empty-after-cleaning and unparseable input both resolve to
// nil, the missing marker.
func CleanNumber(s string) *float64 {
	var b strings.Builder
	for _, c := range s {
		if (c >= '0' && c <= '9') || c == '.' {
			b.WriteRune(c)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &v
}

// CleanDate finds the first M/D/YYYY date embedded in the string and
// reformats it as ISO YYYY-MM-DD. No match, or an impossible date, resolves
// to "" rather than a fault.
func CleanDate(s string) string {
	m := datePat.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return ""
	}
	return t.Format("2006-01-02")
}
