package nameclean

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// 1-3 letters separated by optional dots or spaces: "A.B.", "AB", "A B".
	initialsRe = regexp.MustCompile(`^[A-Za-z](?:[. ]?[A-Za-z]){0,2}[.]?$`)
	// A nickname between any kind of quotes: Wen Jing 'David' -> David.
	quotedRe = regexp.MustCompile(`['"` + "`" + `]([^'"` + "`" + `]+)['"` + "`" + `]`)
)

// Clean applies the first-name cleanup rules: a quoted nickname wins,
// otherwise the first token is kept and recapitalized. ok=false flags names
// that need a human look (empty, bare initials, control characters); the
// input comes back unchanged in that case so nothing is lost.
func Clean(raw string) (name string, ok bool) {
	s := strings.TrimSpace(norm.NFKC.String(raw))
	if s == "" || hasControl(s) {
		return raw, false
	}
	if initialsRe.MatchString(s) {
		return s, false
	}
	if m := quotedRe.FindStringSubmatch(s); m != nil {
		if nick := strings.TrimSpace(m[1]); nick != "" {
			return nick, true
		}
	}
	return capitalize(strings.Fields(s)[0]), true
}

func hasControl(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}

// capitalize: first rune upper, the rest lower ("mARY" -> "Mary").
func capitalize(s string) string {
	runes := []rune(s)
	out := make([]rune, 0, len(runes))
	out = append(out, unicode.ToUpper(runes[0]))
	for _, r := range runes[1:] {
		out = append(out, unicode.ToLower(r))
	}
	return string(out)
}
