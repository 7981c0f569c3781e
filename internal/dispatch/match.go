package dispatch

import (
	"strings"
	"unicode"
)

// match scans keywords in the order given (longest first) and returns the
// first one claiming text. Argument-less keywords claim only the whole
// message; the others claim any message they prefix. Both comparisons accept
// a case-folded or an exact match.
func match(text string, keywords []string, argless func(string) bool) (keyword, argsText string, ok bool) {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if argless(kw) {
			if text == kw || strings.EqualFold(text, kw) {
				return kw, "", true
			}
			continue
		}
		if strings.HasPrefix(text, kw) || hasPrefixFold(text, kw) {
			return kw, strings.TrimSpace(text[len(kw):]), true
		}
	}
	return "", "", false
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// firstToken is the fallback split: first whitespace token and the rest.
func firstToken(text string) (keyword, argsText string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", ""
	}
	keyword = fields[0]
	rest := strings.TrimLeftFunc(text, unicode.IsSpace)
	return keyword, strings.TrimSpace(rest[len(keyword):])
}
