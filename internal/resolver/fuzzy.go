package resolver

import (
	"sort"
	"strings"
)

// Ratio scores the similarity of two strings on a 0-100 scale from their
// rune-level edit distance: 100*(len(a)+len(b)-dist)/(len(a)+len(b)),
// rounded half up. Two empty strings score 100.
func Ratio(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	dist := levenshtein(ra, rb)
	return ((total-dist)*100 + total/2) / total
}

// TokenSortRatio is Ratio over the whitespace tokens of each side sorted
// into a canonical order, making the score insensitive to word order
// ("Munich Bayern" vs "Bayern Munich").
func TokenSortRatio(a, b string) int {
	return Ratio(sortTokens(a), sortTokens(b))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, minInt(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func minInt(left, right int) int {
	if left < right {
		return left
	}
	return right
}
