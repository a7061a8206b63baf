package turn

import (
	"regexp"
	"strings"
	"unicode"

	"tasktalk/internal/executor"
)

// emailComparison finds every place user_email is compared or assigned.
var emailComparison = regexp.MustCompile(`(?i)\buser_email\s*(==|=|!=|<>|<=|>=|<|>|\bnot\b|\blike\b|\bglob\b|\bin\b|\bis\b|\bbetween\b)`)

// negatedEmail matches a NOT placed in front of a user_email test.
var negatedEmail = regexp.MustCompile(`(?i)\bnot\s*\(?\s*(?:\w+\.)?user_email\b`)

// ownerScoped reports whether stmt can only touch rows of the owner with the
// given email. Every user_email comparison must be an equality with the
// owner's quoted address, and there must be at least one (an INSERT may
// carry the address as a value instead). OR and compound selects are only
// allowed inside parentheses, so they cannot widen the owner filter.
func ownerScoped(stmt, email string) bool {
	lit := "'" + strings.ReplaceAll(email, "'", "''") + "'"
	owner := regexp.MustCompile(`(?i)^user_email\s*==?\s*` + regexp.QuoteMeta(lit))

	if negatedEmail.MatchString(stmt) || hasTopLevelWord(stmt, "OR", "UNION", "INTERSECT", "EXCEPT") {
		return false
	}

	scoped := false
	for _, loc := range emailComparison.FindAllStringIndex(stmt, -1) {
		if !owner.MatchString(stmt[loc[0]:]) {
			return false
		}
		scoped = true
	}
	if scoped {
		return true
	}

	_, verb := executor.Classify(stmt)
	return verb == executor.VerbInsert && strings.Contains(strings.ToLower(stmt), strings.ToLower(lit))
}

// hasTopLevelWord reports whether any of words (upper-case) occurs in stmt
// outside quotes, comments and parentheses.
func hasTopLevelWord(stmt string, words ...string) bool {
	var quote rune
	depth := 0
	var word strings.Builder

	flush := func() bool {
		if word.Len() == 0 {
			return false
		}
		w := strings.ToUpper(word.String())
		word.Reset()
		for _, want := range words {
			if w == want {
				return true
			}
		}
		return false
	}

	rs := []rune(stmt)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if quote != 0 {
			if r == quote {
				quote = 0
			}
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			if depth == 0 {
				word.WriteRune(r)
			}
			continue
		}
		if flush() {
			return true
		}
		switch {
		case r == '-' && i+1 < len(rs) && rs[i+1] == '-':
			for i < len(rs) && rs[i] != '\n' {
				i++
			}
		case r == '/' && i+1 < len(rs) && rs[i+1] == '*':
			i += 2
			for i+1 < len(rs) && !(rs[i] == '*' && rs[i+1] == '/') {
				i++
			}
			i++
		case r == '\'' || r == '"' || r == '`':
			quote = r
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		}
	}
	return flush()
}
