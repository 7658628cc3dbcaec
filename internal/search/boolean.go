package search

import (
	"strings"

	"github.com/exactmatch-ir/exactmatch/internal/analyzer"
	"github.com/exactmatch-ir/exactmatch/internal/index"
)

type boolOp int

const (
	opNone boolOp = iota
	opAnd
	opOr
	opNot
)

// EvaluateBoolean runs a boolean query against the inverted index and
// returns the matching document set.
//
// The grammar is a flat stream of operands and operators with no precedence
// or parentheses: "t1 AND t2 NOT t3". Evaluation is a single left-to-right
// fold. Operators match AND/OR/NOT case-insensitively; everything else is an
// operand and is normalized through the full analyzer pipeline. Between two
// operands with no recorded operator, AND is assumed.
//
// The first operand seeds the running result and clears any pending
// operator, so an operator before the first operand is discarded: "NOT a AND
// b" evaluates as "a AND b". That is the query language's documented
// behavior, not an accident to guard against.
//
// Malformed input (doubled or trailing operators) degrades per the fold
// rules instead of erroring; a query with no operands yields the empty set.
func EvaluateBoolean(query string, inv *index.Inverted, an *analyzer.Analyzer) index.DocSet {
	var (
		result index.DocSet
		seeded bool
		op     boolOp
	)
	for _, token := range strings.Fields(query) {
		switch strings.ToUpper(token) {
		case "AND":
			op = opAnd
			continue
		case "OR":
			op = opOr
			continue
		case "NOT":
			op = opNot
			continue
		}

		// Operand that normalizes to nothing (stopword, too short)
		// still participates in the fold with an empty posting set.
		var postings index.DocSet
		if term, ok := an.NormalizeQueryTerm(token); ok {
			postings = inv.Postings(term)
		} else {
			postings = index.DocSet{}
		}

		if !seeded {
			result = postings.Clone()
			seeded = true
			op = opNone
			continue
		}
		switch op {
		case opOr:
			result = result.Union(postings)
		case opNot:
			result = result.Difference(postings)
		default:
			result = result.Intersect(postings)
		}
		op = opNone
	}
	if !seeded {
		return index.DocSet{}
	}
	return result
}
