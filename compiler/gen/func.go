package gen

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/specgen/schema/field"
)

var (
	rules    = ruleset()
	acronyms = make(map[string]struct{})
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	// Add common initialisms from golint and more.
	for _, w := range []string{
		"ACL", "API", "ASCII", "AWS", "CPU", "CSS", "DNS", "EOF", "GUID", "HTML", "HTTP", "HTTPS",
		"ID", "IP", "JSON", "JWT", "LHS", "QPS", "RAM", "RHS", "RPC", "SKU", "SLA", "SMTP", "SQL",
		"SSH", "SSO", "TCP", "TLS", "TTL", "UDP", "UI", "UID", "URI", "URL", "UTF8", "UUID", "VM",
		"XML", "XMPP", "XSRF", "XSS",
	} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// words splits s on every character that is not a letter or a digit.
func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func pascalWords(words []string) string {
	for i, w := range words {
		upper := strings.ToUpper(w)
		if _, ok := acronyms[upper]; ok {
			words[i] = upper
		} else {
			words[i] = rules.Capitalize(w)
		}
	}
	return strings.Join(words, "")
}

// Pascal converts a name into a Go-style PascalCase identifier, upper-casing
// known initialisms.
//
//	Pascal("user_id")   // UserID
//	Pascal("api-url")   // APIURL
//	Pascal("petName")   // PetName
func Pascal(s string) string {
	name := pascalWords(words(s))
	if name == "" || unicode.IsDigit(rune(name[0])) {
		name = "X" + name
	}
	return name
}

// FunctionName synthesizes a function name for an operation without an
// explicit identifier: the lower-cased verb followed by every non-empty path
// segment in PascalCase. Braces of path templates are dropped.
//
//	FunctionName(MethodGet, "/pets/{pet_id}/toys")   // getPetsPetIdToys
func FunctionName(m Method, path string) string {
	title := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	b.WriteString(strings.ToLower(string(m)))
	for _, seg := range strings.Split(path, "/") {
		for _, w := range words(seg) {
			b.WriteString(title.String(w))
		}
	}
	return b.String()
}

// HookName returns the name of the client hook generated for a function:
// "use" followed by the capitalized, sanitized function name.
func HookName(f *Function) string {
	return "use" + inflect.Capitalize(field.Sanitize(f.Name, "fn"))
}
