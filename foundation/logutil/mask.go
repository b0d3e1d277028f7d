package logutil

import "strings"

// MaskEmail masks the local-part of an e-mail while keeping minimal
// visibility: first and last character stay, the middle becomes '*'.
// Contact CSVs are PII; raw addresses never go to the log stream.
//
//	"user@example.com" -> "u**r@example.com"
//	"ab@example.com"   -> "a*@example.com"
//	"weird"            -> "w***d"
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}

	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return maskToken(email)
	}
	return maskToken(email[:at]) + email[at:]
}

func maskToken(s string) string {
	runes := []rune(s)
	n := len(runes)
	switch n {
	case 0:
		return ""
	case 1:
		return string(runes)
	case 2:
		return string(runes[0]) + "*"
	}

	var b strings.Builder
	b.Grow(len(s))
	b.WriteRune(runes[0])
	for i := 1; i < n-1; i++ {
		b.WriteByte('*')
	}
	b.WriteRune(runes[n-1])
	return b.String()
}
