package index

import "sort"

// TokenStreams maps each document to its normalized token sequence. A token's
// position is its slice index, so positions are dense after stopword removal.
type TokenStreams map[DocID][]string

// Inverted maps each term to the set of documents that contain it. A term key
// exists only when its posting set is non-empty; looking up an absent term
// yields the empty set.
type Inverted struct {
	postings map[string]DocSet
}

// BuildInverted scans every token stream once and records, for each distinct
// term, the documents it occurs in. An empty collection yields an empty index.
func BuildInverted(streams TokenStreams) *Inverted {
	inv := &Inverted{postings: make(map[string]DocSet)}
	for docID, tokens := range streams {
		for _, term := range tokens {
			set, ok := inv.postings[term]
			if !ok {
				set = make(DocSet)
				inv.postings[term] = set
			}
			set[docID] = struct{}{}
		}
	}
	return inv
}

// Postings returns the posting set for term. Absent terms yield an empty set.
// The returned set is shared with the index and must not be mutated.
func (inv *Inverted) Postings(term string) DocSet {
	if set, ok := inv.postings[term]; ok {
		return set
	}
	return DocSet{}
}

// Has reports whether term occurs in at least one document.
func (inv *Inverted) Has(term string) bool {
	_, ok := inv.postings[term]
	return ok
}

// TermCount returns the number of distinct indexed terms.
func (inv *Inverted) TermCount() int {
	return len(inv.postings)
}

// Terms returns all indexed terms in lexicographic order.
func (inv *Inverted) Terms() []string {
	terms := make([]string, 0, len(inv.postings))
	for term := range inv.postings {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}
