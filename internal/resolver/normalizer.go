package resolver

import (
	"strings"
	"unicode"
)

// Token-level rewrites applied during normalization. Matching is against the
// case-folded whole token, never a substring, so "FC" disappears while
// "FCB" survives.
var tokenReplacements = map[string]string{
	"fc":     "",
	"united": "utd",
}

// Multi-word phrases dropped as a unit.
var phraseDrops = map[string]struct{}{
	"football club": {},
}

// Suffixes trimmed from the end of CJK tokens, which carry no whitespace
// token boundaries of their own.
var cjkSuffixes = []string{"足球俱乐部"}

// Normalize maps a raw team name to its canonical comparison form: trimmed,
// Latin runs case-folded, legal suffixes stripped as whole tokens, and
// whitespace collapsed. Pure and idempotent; CJK text is never case-folded.
func Normalize(raw string) string {
	folded := foldLatin(strings.TrimSpace(raw))
	tokens := strings.Fields(folded)

	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		if i+1 < len(tokens) {
			if _, ok := phraseDrops[tokens[i]+" "+tokens[i+1]]; ok {
				i++
				continue
			}
		}

		tok := tokens[i]
		for _, suffix := range cjkSuffixes {
			tok = strings.TrimSuffix(tok, suffix)
		}
		if rep, ok := tokenReplacements[tok]; ok {
			tok = rep
		}
		if tok != "" {
			out = append(out, tok)
		}
	}

	return strings.Join(out, " ")
}

// foldLatin lowercases Latin-script runes and leaves every other script
// untouched.
func foldLatin(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Latin, r) {
			return unicode.ToLower(r)
		}
		return r
	}, s)
}
