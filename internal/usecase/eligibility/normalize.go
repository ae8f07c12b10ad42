package eligibility

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeSpace collapses every whitespace run into a single space and trims
func NormalizeSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// NormalizedLength is the rune count of the whitespace-normalised text
func NormalizedLength(text string) int {
	return utf8.RuneCountInString(NormalizeSpace(text))
}

// NonSpaceLength counts the runes that are not whitespace
func NonSpaceLength(text string) int {
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// fold lowercases and strips diacritics so "Após" matches "apos"
func fold(text string) string {
	// transformers keep state, so a chain is built per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		out = text
	}
	return strings.ToLower(NormalizeSpace(out))
}

func foldAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		if f := fold(term); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func containsAny(folded string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(folded, term) {
			return true
		}
	}
	return false
}
