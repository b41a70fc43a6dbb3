package lookup

import "strings"

// abbreviations the upstream pages render inconsistently across datasets.
// The millage tables abbreviate "Township" while the profile pages spell it
// out; "Mt." and "Mount" both occur. Applied per word token so "BOROUGH"
// itself is never rewritten.
var nameAliases = map[string]string{
	"TWP":   "TOWNSHIP",
	"BORO":  "BOROUGH",
	"MOUNT": "MT",
}

// NormalizeName canonicalizes a municipality or district name for lookup:
// uppercase, punctuation stripped, abbreviations expanded, whitespace
// collapsed.
func NormalizeName(name string) string {
	s := strings.ToUpper(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, ".", "")
	words := strings.Fields(s)
	for i, w := range words {
		if alias, ok := nameAliases[w]; ok {
			words[i] = alias
		}
	}
	return strings.Join(words, " ")
}
