package emailaddr

import "strings"

// Reason is a stable machine-readable code for why an address failed
// validation. It ends up in debug logs and run reports, never in the CSV.
type Reason string

const (
	ReasonEmpty      Reason = "empty"
	ReasonMissingAt  Reason = "missing_at"
	ReasonMultipleAt Reason = "multiple_at"
	ReasonBadLocal   Reason = "bad_local"
	ReasonBadDomain  Reason = "bad_domain"
)

// Result tags a normalized address as valid or invalid.
type Result struct {
	Valid  bool
	Reason Reason
}

// Normalize brings a raw CSV cell to canonical comparable form: surrounding
// whitespace and quote characters are stripped and the address is folded to
// lower case. The local part is folded too — RFC 5321 allows case-sensitive
// local parts, but dedup consistency wins over that here.
// Normalize never fails; garbage in, trimmed garbage out.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	s = strings.TrimSpace(s)
	return strings.ToLower(s)
}

// Validate checks the local@domain shape of an already normalized address.
// The policy is conservative: anything ambiguous (multiple '@', empty labels,
// non-ASCII, internationalized domains) is invalid. A validation failure is
// data, not an error; the row survives, tagged invalid.
func Validate(s string) Result {
	if s == "" {
		return Result{Reason: ReasonEmpty}
	}
	at := strings.IndexByte(s, '@')
	if at < 0 {
		return Result{Reason: ReasonMissingAt}
	}
	if strings.IndexByte(s[at+1:], '@') >= 0 {
		return Result{Reason: ReasonMultipleAt}
	}
	if !validLocal(s[:at]) {
		return Result{Reason: ReasonBadLocal}
	}
	if !validDomain(s[at+1:]) {
		return Result{Reason: ReasonBadDomain}
	}
	return Result{Valid: true}
}

// Domain returns the part after '@' of a normalized address, or "" when there
// is no usable domain part.
func Domain(s string) string {
	at := strings.LastIndexByte(s, '@')
	if at < 0 || at == len(s)-1 {
		return ""
	}
	return s[at+1:]
}

// RFC 5322 atext (lowercased) plus the dot separator.
const localChars = "abcdefghijklmnopqrstuvwxyz0123456789!#$%&'*+-/=?^_`{|}~."

func validLocal(local string) bool {
	if local == "" || len(local) > 64 {
		return false
	}
	if local[0] == '.' || local[len(local)-1] == '.' || strings.Contains(local, "..") {
		return false
	}
	for i := 0; i < len(local); i++ {
		if !strings.ContainsRune(localChars, rune(local[i])) {
			return false
		}
	}
	return true
}

func validDomain(domain string) bool {
	if domain == "" || len(domain) > 253 {
		return false
	}
	if !strings.Contains(domain, ".") {
		return false
	}
	for _, label := range strings.Split(domain, ".") {
		if !validLabel(label) {
			return false
		}
	}
	return true
}

func validLabel(label string) bool {
	// Leading/trailing dots in the domain produce empty labels and fail here.
	if label == "" || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' {
			continue
		}
		return false
	}
	return true
}
