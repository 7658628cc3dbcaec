// Package analyzer normalizes raw document text into the canonical term
// stream both indexes are built from. The pipeline is fixed: delete
// punctuation and digits, lowercase, segment into words, drop stopwords and
// very short tokens, stem, then drop stemmed tokens that are stopwords.
package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/words"
	"github.com/kljensen/snowball"
)

// minTokenLen is exclusive: tokens of length <= 2 are dropped before
// stemming.
const minTokenLen = 2

// Analyzer turns raw text into normalized terms. It is immutable after
// construction and safe for concurrent use.
type Analyzer struct {
	stopwords Stopwords
}

// New returns an Analyzer filtering against the given stopword set. A nil
// set disables stopword filtering.
func New(stopwords Stopwords) *Analyzer {
	return &Analyzer{stopwords: stopwords}
}

// Analyze runs the full normalization pipeline and returns the ordered term
// sequence for text. Duplicates are retained; a term's position in the
// returned slice is its position in the positional index.
func (a *Analyzer) Analyze(text string) []string {
	cleaned := stripPunctAndDigits(text)
	cleaned = strings.ToLower(cleaned)

	var terms []string
	toks := words.FromString(cleaned)
	for toks.Next() {
		word := strings.TrimSpace(toks.Value())
		if !hasLetter(word) {
			continue
		}
		if utf8.RuneCountInString(word) <= minTokenLen {
			continue
		}
		if a.stopwords.Contains(word) {
			continue
		}
		stemmed := Stem(word)
		if stemmed == "" {
			continue
		}
		// Stemming can collapse a surviving token onto a stopword
		// ("using" -> "use"), so the set is checked a second time.
		if a.stopwords.Contains(stemmed) {
			continue
		}
		terms = append(terms, stemmed)
	}
	return terms
}

// NormalizeQueryTerm runs the full pipeline on a single query operand and
// returns its term, or ok=false when the operand does not survive filtering
// (stopword, too short, no letters). Boolean operands re-derive their stemmed
// form here instead of reusing document streams.
func (a *Analyzer) NormalizeQueryTerm(operand string) (term string, ok bool) {
	terms := a.Analyze(operand)
	if len(terms) == 0 {
		return "", false
	}
	return terms[0], true
}

// StemTerm lowercases and stems a single term without stopword or length
// filtering. Proximity operands use this form: a stopword or two-letter term
// is still queryable by position.
func (a *Analyzer) StemTerm(term string) string {
	return Stem(strings.ToLower(strings.TrimSpace(term)))
}

// Stem reduces a word to its root form with the Snowball (Porter) English
// stemmer. Deterministic: equal inputs always produce equal outputs. Words
// the stemmer rejects are returned unchanged.
func Stem(word string) string {
	stemmed, err := snowball.Stem(word, "english", true)
	if err != nil || stemmed == "" {
		return word
	}
	return stemmed
}

// stripPunctAndDigits deletes punctuation and decimal digit runes. Deletion,
// not replacement: "data2mining" becomes "datamining" with no boundary left
// behind, matching how the indexes were originally built.
func stripPunctAndDigits(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsDigit(r) {
			return -1
		}
		return r
	}, text)
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
