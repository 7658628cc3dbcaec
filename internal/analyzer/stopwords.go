package analyzer

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Stopwords is the immutable set of words removed during normalization. It is
// loaded once at startup and passed explicitly to every component that
// filters against it.
type Stopwords map[string]struct{}

// NewStopwords builds a set from the given words, lowercasing each entry.
func NewStopwords(words ...string) Stopwords {
	s := make(Stopwords, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			s[w] = struct{}{}
		}
	}
	return s
}

// Contains reports whether word is a stopword. A nil set contains nothing.
func (s Stopwords) Contains(word string) bool {
	if s == nil {
		return false
	}
	_, ok := s[word]
	return ok
}

// Words returns the set's entries in unspecified order.
func (s Stopwords) Words() []string {
	out := make([]string, 0, len(s))
	for w := range s {
		out = append(out, w)
	}
	return out
}

// LoadStopwords reads a stopword list file with one word per line, ignoring
// blank lines.
func LoadStopwords(path string) (Stopwords, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening stopword list %s: %w", path, err)
	}
	defer f.Close()

	s := make(Stopwords)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word == "" {
			continue
		}
		s[word] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading stopword list %s: %w", path, err)
	}
	return s, nil
}
