package index

// Positional maps each term to the documents containing it and, per document,
// the zero-based positions of its occurrences. Position lists are strictly
// increasing because the builder scans each stream left to right, and every
// (term, doc) entry present holds at least one position.
type Positional struct {
	postings map[string]map[DocID][]int
}

// BuildPositional scans every token stream once and appends each token's
// position to its (term, doc) list. An empty collection yields an empty index.
func BuildPositional(streams TokenStreams) *Positional {
	pos := &Positional{postings: make(map[string]map[DocID][]int)}
	for docID, tokens := range streams {
		for i, term := range tokens {
			docs, ok := pos.postings[term]
			if !ok {
				docs = make(map[DocID][]int)
				pos.postings[term] = docs
			}
			docs[docID] = append(docs[docID], i)
		}
	}
	return pos
}

// Positions returns the per-document position lists for term. Absent terms
// yield an empty mapping. The returned map is shared with the index and must
// not be mutated.
func (p *Positional) Positions(term string) map[DocID][]int {
	if docs, ok := p.postings[term]; ok {
		return docs
	}
	return map[DocID][]int{}
}

// DocPositions returns the position list of term within a single document,
// or nil when the term does not occur there.
func (p *Positional) DocPositions(term string, docID DocID) []int {
	return p.postings[term][docID]
}

// TermCount returns the number of distinct indexed terms.
func (p *Positional) TermCount() int {
	return len(p.postings)
}
