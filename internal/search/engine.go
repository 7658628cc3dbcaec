// Package search evaluates boolean and proximity queries against the built
// indexes. Queries are routed on surface syntax, evaluated in one pass, and
// never cached as plans.
package search

import (
	"log/slog"
	"strings"

	"github.com/exactmatch-ir/exactmatch/internal/analyzer"
	"github.com/exactmatch-ir/exactmatch/internal/index"
)

// Route names the evaluator a query is dispatched to.
type Route string

const (
	RouteBoolean   Route = "boolean"
	RouteProximity Route = "proximity"
)

// Result is the outcome of one query: the matching document IDs in
// presentation order plus, for proximity queries, one qualifying position
// pair per document. It is the unit stored by the query cache.
type Result struct {
	Query   string                         `json:"query"`
	Route   Route                          `json:"route"`
	Total   int                            `json:"total"`
	DocIDs  []index.DocID                  `json:"doc_ids"`
	Matches map[index.DocID]ProximityMatch `json:"matches,omitempty"`
}

// Engine owns the two indexes and the analyzer, all read-only after
// construction, so Search is safe for concurrent callers.
type Engine struct {
	inverted   *index.Inverted
	positional *index.Positional
	analyzer   *analyzer.Analyzer
	logger     *slog.Logger
}

// NewEngine wires the evaluators to already-built indexes.
func NewEngine(inv *index.Inverted, pos *index.Positional, an *analyzer.Analyzer) *Engine {
	return &Engine{
		inverted:   inv,
		positional: pos,
		analyzer:   an,
		logger:     slog.Default().With("component", "search-engine"),
	}
}

// RouteFor dispatches on the raw query text, before any tokenization: a
// query containing a slash goes to the proximity evaluator, everything else
// to the boolean evaluator. A boolean query with a literal slash in a term is
// indistinguishable from a proximity query; that misrouting is a documented
// limitation of the syntax.
func RouteFor(query string) Route {
	if strings.Contains(query, "/") {
		return RouteProximity
	}
	return RouteBoolean
}

// Search routes the query to the right evaluator and returns its result.
// Boolean evaluation never fails; a malformed proximity query returns a
// recoverable error and the engine stays usable.
func (e *Engine) Search(query string) (*Result, error) {
	result := &Result{Query: query, Route: RouteFor(query)}

	var docs index.DocSet
	switch result.Route {
	case RouteProximity:
		pq, err := ParseProximity(query, e.analyzer)
		if err != nil {
			return nil, err
		}
		docs, result.Matches = EvaluateProximity(pq, e.positional)
	default:
		docs = EvaluateBoolean(query, e.inverted, e.analyzer)
	}

	result.DocIDs = docs.Sorted()
	result.Total = len(result.DocIDs)
	e.logger.Debug("query evaluated",
		"query", query,
		"route", result.Route,
		"hits", result.Total,
	)
	return result, nil
}

// TermPostings is the read-only projection behind the postings view: the
// stemmed form of a raw term plus its entries in both indexes.
type TermPostings struct {
	Term      string           `json:"term"`
	Stem      string           `json:"stem"`
	DocIDs    []index.DocID    `json:"doc_ids"`
	Positions map[string][]int `json:"positions,omitempty"`
}

// Postings stems a raw term and returns its posting set and per-document
// positions. Unknown terms yield empty projections, not errors.
func (e *Engine) Postings(rawTerm string) TermPostings {
	stem := e.analyzer.StemTerm(rawTerm)
	tp := TermPostings{
		Term:   rawTerm,
		Stem:   stem,
		DocIDs: e.inverted.Postings(stem).Sorted(),
	}
	positions := e.positional.Positions(stem)
	if len(positions) > 0 {
		tp.Positions = make(map[string][]int, len(positions))
		for docID, list := range positions {
			tp.Positions[docID.String()] = list
		}
	}
	return tp
}
