package field

import (
	"regexp"
	"strings"
)

var validIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Sanitize turns raw into an identifier matching [A-Za-z_][A-Za-z0-9_]*.
// Trailing array markers are stripped, disallowed characters removed and a
// leading digit prefixed with "_". When nothing usable remains the fallback
// is sanitized the same way, and "_" is used as a last resort.
//
//	Sanitize("Pet[]", "t")          // Pet
//	Sanitize("pet-store v2", "t")   // petstorev2
//	Sanitize("2fa", "t")            // _2fa
//	Sanitize("{}", "createPet")     // createPet
func Sanitize(raw, fallback string) string {
	if s := clean(raw); s != "" {
		return s
	}
	if s := clean(fallback); s != "" {
		return s
	}
	return "_"
}

// IsIdentifier reports whether s is already a valid identifier.
func IsIdentifier(s string) bool {
	return validIdent.MatchString(s)
}

func clean(raw string) string {
	for strings.HasSuffix(raw, "[]") {
		raw = strings.TrimSuffix(raw, "[]")
	}
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s != "" && s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	if !validIdent.MatchString(s) {
		return ""
	}
	return s
}
