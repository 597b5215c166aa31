package extraction

import (
	"strings"
	"unicode"
)

// label splits a Java identifier into lower-case words: "getFieldName"
// becomes "get field name", "URLParser" becomes "url parser" and
// "MAX_VALUE" becomes "max value".
func label(name string) string {
	var words []string
	var word []rune
	flush := func() {
		if len(word) > 0 {
			words = append(words, strings.ToLower(string(word)))
			word = word[:0]
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		if r == '_' || r == '$' || unicode.IsSpace(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		word = append(word, r)
	}
	flush()
	if len(words) == 0 {
		return strings.ToLower(name)
	}
	return strings.Join(words, " ")
}
