package ir

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldASCII strips diacritics so "données" becomes "donnees". Letters with
// no ASCII base form are left as they are.
func FoldASCII(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

// builtins that would be shadowed by a parameter of the same name
var shadowedBuiltins = map[string]bool{
	"list": true, "str": true, "int": true, "float": true, "dict": true,
	"sum": true, "max": true, "min": true, "len": true, "set": true,
	"type": true, "id": true, "input": true, "print": true, "sorted": true,
	"range": true, "map": true, "filter": true, "object": true,
}

// IsKeyword reports whether s is a reserved word of the target language.
func IsKeyword(s string) bool {
	return pythonKeywords[s]
}

// IsIdentifier reports whether s is a valid, non-reserved identifier.
func IsIdentifier(s string) bool {
	if s == "" || pythonKeywords[s] {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r < unicode.MaxASCII && unicode.IsLetter(r):
		case r < unicode.MaxASCII && unicode.IsDigit(r):
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Identifier joins words into a snake_case identifier: lower-cased, runs
// of other characters collapsed to one underscore, a leading digit
// prefixed with an underscore and reserved words suffixed with one.
// Accented letters are folded to ASCII first. It returns "" when nothing
// usable is left.
func Identifier(words ...string) string {
	var sb strings.Builder
	pending := false
	for _, w := range words {
		for _, r := range strings.ToLower(FoldASCII(w)) {
			if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
				if pending && sb.Len() > 0 {
					sb.WriteByte('_')
				}
				pending = false
				sb.WriteRune(r)
				continue
			}
			pending = true
		}
		pending = true
	}

	id := sb.String()
	if id == "" {
		return ""
	}
	if id[0] >= '0' && id[0] <= '9' {
		id = "_" + id
	}
	if pythonKeywords[id] {
		id += "_"
	}
	return id
}

// ParamName is Identifier that also avoids shadowing common builtins.
func ParamName(words ...string) string {
	id := Identifier(words...)
	if shadowedBuiltins[id] {
		id += "_"
	}
	return id
}

// ClassName joins words into a CapWords identifier. Capitals already
// inside a word are kept, so "BankAccount" stays as it is.
func ClassName(words ...string) string {
	var sb strings.Builder
	for _, w := range words {
		for _, part := range strings.FieldsFunc(FoldASCII(w), func(r rune) bool {
			return r >= unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r))
		}) {
			sb.WriteString(strings.ToUpper(part[:1]))
			sb.WriteString(part[1:])
		}
	}
	name := sb.String()
	if name == "" {
		return ""
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "C" + name
	}
	if pythonKeywords[name] {
		name += "_"
	}
	return name
}

// Unique renames later duplicates by appending _2, _3 and so on.
func Unique(names []string) []string {
	out := make([]string, len(names))
	seen := make(map[string]bool, len(names))
	for i, n := range names {
		candidate := n
		for k := 2; seen[candidate]; k++ {
			candidate = n + "_" + strconv.Itoa(k)
		}
		seen[candidate] = true
		out[i] = candidate
	}
	return out
}
