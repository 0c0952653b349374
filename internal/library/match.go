package library

import (
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fuzzyThreshold is the minimum Jaro-Winkler similarity for a fuzzy title hit.
const fuzzyThreshold = 0.85

// MatchTitle reports whether title matches a free-text query.
// Both sides are lowercased and accent-folded. A substring hit matches, as does a
// Jaro-Winkler score at or above the threshold against the whole title or any run
// of title words as long as the query.
func MatchTitle(title, query string) bool {
	q := foldTitle(query)
	if q == "" {
		return true
	}
	t := foldTitle(title)
	if strings.Contains(t, q) {
		return true
	}
	if edlib.JaroWinklerSimilarity(q, t) >= fuzzyThreshold {
		return true
	}

	words := strings.Fields(t)
	n := len(strings.Fields(q))
	for i := 0; i+n <= len(words); i++ {
		window := strings.Join(words[i:i+n], " ")
		if edlib.JaroWinklerSimilarity(q, window) >= fuzzyThreshold {
			return true
		}
	}
	return false
}

// foldTitle lowercases, strips accents and punctuation, and collapses whitespace.
func foldTitle(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}

	var b strings.Builder
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '\'':
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
