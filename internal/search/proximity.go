package search

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/exactmatch-ir/exactmatch/internal/analyzer"
	"github.com/exactmatch-ir/exactmatch/internal/index"
	"github.com/exactmatch-ir/exactmatch/pkg/errors"
)

// ProximityQuery is a parsed two-term distance query: both documents'
// occurrences of Term1 and Term2 must come within K token positions.
type ProximityQuery struct {
	Term1 string
	Term2 string
	K     int
}

// ProximityMatch records one qualifying position pair per document, for the
// postings/diagnostics view. Pos1 belongs to Term1, Pos2 to Term2.
type ProximityMatch struct {
	Pos1 int
	Pos2 int
}

// ParseProximity parses either accepted surface form:
//
//	term1 term2/k   (split on the first slash)
//	term1 term2 k   (three whitespace-separated tokens)
//
// Terms are lowercased and stemmed only; stopwords and short terms stay
// queryable by position. A non-integer distance or missing term is a
// recoverable input error wrapping errors.ErrInvalidQuery.
func ParseProximity(query string, an *analyzer.Analyzer) (ProximityQuery, error) {
	var q ProximityQuery
	if left, right, found := strings.Cut(query, "/"); found {
		k, err := strconv.Atoi(strings.TrimSpace(right))
		if err != nil {
			return q, errors.Newf(errors.ErrInvalidQuery, http.StatusBadRequest,
				"proximity distance %q is not an integer", strings.TrimSpace(right))
		}
		terms := strings.Fields(left)
		if len(terms) < 2 {
			return q, errors.New(errors.ErrInvalidQuery, http.StatusBadRequest,
				"proximity query needs two terms before the slash")
		}
		q.Term1 = an.StemTerm(terms[0])
		q.Term2 = an.StemTerm(terms[1])
		q.K = k
		return q, nil
	}

	tokens := strings.Fields(query)
	if len(tokens) < 3 {
		return q, errors.New(errors.ErrInvalidQuery, http.StatusBadRequest,
			"proximity query needs two terms and a distance")
	}
	k, err := strconv.Atoi(tokens[2])
	if err != nil {
		return q, errors.Newf(errors.ErrInvalidQuery, http.StatusBadRequest,
			"proximity distance %q is not an integer", tokens[2])
	}
	q.Term1 = an.StemTerm(tokens[0])
	q.Term2 = an.StemTerm(tokens[1])
	q.K = k
	return q, nil
}

// EvaluateProximity returns every document where some occurrence pair
// (p1, p2) of the two terms satisfies p1 != p2 and |p1-p2| <= K. Distance is
// symmetric, the bound is inclusive, and identical positions never qualify
// even at K = 0. The second return value holds one qualifying pair per
// matched document.
//
// The scan is a pairwise product over the two position lists with an early
// exit on the first qualifying pair. Quadratic per shared document, which is
// fine at this engine's corpus scale.
func EvaluateProximity(q ProximityQuery, pos *index.Positional) (index.DocSet, map[index.DocID]ProximityMatch) {
	postings1 := pos.Positions(q.Term1)
	postings2 := pos.Positions(q.Term2)

	results := make(index.DocSet)
	matches := make(map[index.DocID]ProximityMatch)
	for docID, list1 := range postings1 {
		list2, shared := postings2[docID]
		if !shared {
			continue
		}
	pairs:
		for _, p1 := range list1 {
			for _, p2 := range list2 {
				if p1 == p2 {
					continue
				}
				if abs(p1-p2) <= q.K {
					results[docID] = struct{}{}
					matches[docID] = ProximityMatch{Pos1: p1, Pos2: p2}
					break pairs
				}
			}
		}
	}
	return results, matches
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
