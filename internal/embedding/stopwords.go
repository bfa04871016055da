package embedding

import "strings"

// englishStopwords are dropped for both languages.
var englishStopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "by": {}, "for": {}, "from": {}, "has": {}, "he": {},
	"in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {},
	"that": {}, "the": {}, "to": {}, "was": {}, "will": {}, "with": {},
	"this": {}, "but": {}, "they": {}, "have": {}, "had": {},
	"what": {}, "when": {}, "where": {}, "who": {}, "which": {},
	"why": {}, "how": {},
}

// multiStopwords covers the most frequent words of common non-English
// languages and is applied additionally under LangMulti.
var multiStopwords = map[string]struct{}{
	"un": {}, "una": {}, "el": {}, "la": {}, "los": {}, "las": {},
	"de": {}, "del": {}, "en": {},
}

func isStopword(token string, lang Language) bool {
	if _, ok := englishStopwords[token]; ok {
		return true
	}
	if lang == LangMulti {
		if _, ok := multiStopwords[token]; ok {
			return true
		}
	}
	return false
}

// stemRule is a suffix rewrite. Rules are ordered; the first match wins.
type stemRule struct {
	suffix  string
	replace string
}

var stemRules = []stemRule{
	{"ies", "y"},
	{"ves", "f"},
	{"es", "e"},
	{"s", ""},
	{"ed", ""},
	{"ing", ""},
	{"tion", "t"},
	{"ation", "ate"},
	{"ness", ""},
	{"ment", ""},
	{"ly", ""},
	{"ful", ""},
}

// stem applies the first matching suffix rule to words longer than four
// characters. Not a full Porter stemmer; just enough to collapse common
// inflections deterministically.
func stem(word string) string {
	if len(word) <= 4 {
		return word
	}
	for _, r := range stemRules {
		if strings.HasSuffix(word, r.suffix) {
			return word[:len(word)-len(r.suffix)] + r.replace
		}
	}
	return word
}
