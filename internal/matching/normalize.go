// internal/matching/normalize.go
package matching

import "strings"

// stopWords are dropped during tokenization: articles, conjunctions and
// corporate suffixes that carry no signal for overlap comparisons.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "a": {}, "an": {}, "of": {}, "to": {},
	"for": {}, "in": {}, "on": {}, "at": {}, "with": {}, "by": {},
	"llc": {}, "inc": {}, "co": {}, "company": {}, "services": {},
	"service": {}, "solutions": {}, "group": {},
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// Tokenize lowercases s, splits on runs of non-alphanumeric characters and
// drops stop-words and empty tokens. Order and duplicates are preserved so
// callers can count hits; membership checks go through a TokenSet.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !isAlphanumeric(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, t := range fields {
		if _, stop := stopWords[t]; stop {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// SplitCSV splits s on commas into trimmed, non-empty substrings.
func SplitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NormalizeNaicsList turns "237310, 238220" into digit-only codes,
// dropping entries left empty after stripping non-digits.
func NormalizeNaicsList(csv string) []string {
	items := SplitCSV(csv)
	out := make([]string, 0, len(items))
	for _, item := range items {
		digits := stripNonDigits(item)
		if digits != "" {
			out = append(out, digits)
		}
	}
	return out
}

// NormalizeKeywordsList splits a keywords CSV and tokenizes every item,
// flattening the result. "asphalt, lot striping" -> [asphalt lot striping].
func NormalizeKeywordsList(csv string) []string {
	var out []string
	for _, item := range SplitCSV(csv) {
		out = append(out, Tokenize(item)...)
	}
	return out
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeText is the canonical form used for dedupe keys.
func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizeURL lowercases, trims and strips trailing slashes so the same
// listing link always produces the same identity key.
func normalizeURL(u string) string {
	return strings.TrimRight(normalizeText(u), "/")
}

// TokenSet supports O(1) membership checks during overlap counting.
type TokenSet map[string]struct{}

// NewTokenSet builds a set from one or more token sequences.
func NewTokenSet(seqs ...[]string) TokenSet {
	set := make(TokenSet)
	for _, seq := range seqs {
		for _, t := range seq {
			set[t] = struct{}{}
		}
	}
	return set
}

// Has reports whether t is in the set.
func (s TokenSet) Has(t string) bool {
	_, ok := s[t]
	return ok
}

// CountHits returns how many tokens in seq are members of the set.
// Duplicate tokens in seq each count as a hit.
func (s TokenSet) CountHits(seq []string) int {
	hits := 0
	for _, t := range seq {
		if s.Has(t) {
			hits++
		}
	}
	return hits
}
