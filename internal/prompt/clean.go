package prompt

import "strings"

// labelPrefixes are labels models sometimes echo before the statement.
// Longer labels come first so "SQLITEQUERY:" is not cut to "QUERY:".
var labelPrefixes = []string{
	"SQLITEQUERY:",
	"SQLQUERY:",
	"SQLITE:",
	"QUERY:",
	"SQL:",
}

var symbolReplacer = strings.NewReplacer("≥", ">=", "≤", "<=", "≠", "!=")

// CleanStatement strips code fences, echoed labels and typographic
// comparison symbols from raw model output. It does not check that the
// result is valid SQL.
func CleanStatement(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		// Drop the info string ("sql", "sqlite") up to the first newline or space.
		if i := strings.IndexAny(s, "\n "); i >= 0 && isFenceInfo(s[:i]) {
			s = s[i:]
		} else if isFenceInfo(s) {
			s = ""
		}
		s = strings.TrimSpace(s)
	}
	s = strings.TrimSpace(strings.TrimSuffix(s, "```"))

	for stripped := true; stripped; {
		stripped = false
		upper := strings.ToUpper(s)
		for _, p := range labelPrefixes {
			if strings.HasPrefix(upper, p) {
				s = strings.TrimSpace(s[len(p):])
				stripped = true
				break
			}
		}
	}

	return strings.TrimSpace(symbolReplacer.Replace(s))
}

func isFenceInfo(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sql", "sqlite", "sqlite3":
		return true
	}
	return false
}
