package search

import (
	"errors"
	"reflect"
	"testing"

	pkgerrors "github.com/exactmatch-ir/exactmatch/pkg/errors"
)

func testEngine(t testing.TB) *Engine {
	t.Helper()
	inv, pos, an := testCorpus(t)
	return NewEngine(inv, pos, an)
}

func TestRouteFor(t *testing.T) {
	tests := []struct {
		query string
		want  Route
	}{
		{"data AND mining", RouteBoolean},
		{"data mining", RouteBoolean},
		{"", RouteBoolean},
		{"data mining/1", RouteProximity},
		{"data mining / 1", RouteProximity},
		// Dispatch looks at the raw text only: any slash means proximity,
		// even in what was meant as a boolean term.
		{"tcp/ip AND networking", RouteProximity},
		{"/", RouteProximity},
	}
	for _, tt := range tests {
		if got := RouteFor(tt.query); got != tt.want {
			t.Errorf("RouteFor(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestEngineSearchBoolean(t *testing.T) {
	e := testEngine(t)

	result, err := e.Search("data AND fun")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.Route != RouteBoolean {
		t.Errorf("Route = %v, want boolean", result.Route)
	}
	if !reflect.DeepEqual(result.DocIDs, docs(1)) {
		t.Errorf("DocIDs = %v, want %v", result.DocIDs, docs(1))
	}
	if result.Total != 1 {
		t.Errorf("Total = %d, want 1", result.Total)
	}
	if result.Matches != nil {
		t.Errorf("boolean result carries matches: %v", result.Matches)
	}
}

func TestEngineSearchProximity(t *testing.T) {
	e := testEngine(t)

	result, err := e.Search("data mining/1")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.Route != RouteProximity {
		t.Errorf("Route = %v, want proximity", result.Route)
	}
	if !reflect.DeepEqual(result.DocIDs, docs(1, 2)) {
		t.Errorf("DocIDs = %v, want %v", result.DocIDs, docs(1, 2))
	}
	if len(result.Matches) != 2 {
		t.Errorf("Matches = %v, want one pair per matched doc", result.Matches)
	}
}

func TestEngineSearchMalformedProximity(t *testing.T) {
	e := testEngine(t)

	_, err := e.Search("data mining/x")
	if err == nil {
		t.Fatal("expected error for malformed distance")
	}
	if !errors.Is(err, pkgerrors.ErrInvalidQuery) {
		t.Errorf("error %v does not wrap ErrInvalidQuery", err)
	}

	// The engine stays usable after a rejected query.
	result, err := e.Search("data AND fun")
	if err != nil || result.Total != 1 {
		t.Errorf("engine unusable after malformed query: %v, %v", result, err)
	}
}

func TestEngineSearchResultsSorted(t *testing.T) {
	inv, pos, an := testCorpus(t)
	e := NewEngine(inv, pos, an)

	result, err := e.Search("data OR mining OR fun OR science")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for i := 1; i < len(result.DocIDs); i++ {
		if !result.DocIDs[i-1].Less(result.DocIDs[i]) {
			t.Errorf("DocIDs not in presentation order: %v", result.DocIDs)
		}
	}
}

func TestEnginePostings(t *testing.T) {
	e := testEngine(t)

	tp := e.Postings("Mining")
	if tp.Term != "Mining" || tp.Stem != "mine" {
		t.Errorf("projection identity = %q/%q, want Mining/mine", tp.Term, tp.Stem)
	}
	if !reflect.DeepEqual(tp.DocIDs, docs(1, 2)) {
		t.Errorf("DocIDs = %v, want %v", tp.DocIDs, docs(1, 2))
	}
	if !reflect.DeepEqual(tp.Positions["1"], []int{1}) {
		t.Errorf("Positions[1] = %v, want [1]", tp.Positions["1"])
	}
	if !reflect.DeepEqual(tp.Positions["2"], []int{0}) {
		t.Errorf("Positions[2] = %v, want [0]", tp.Positions["2"])
	}
}

func TestEnginePostingsUnknownTerm(t *testing.T) {
	e := testEngine(t)

	tp := e.Postings("zebra")
	if len(tp.DocIDs) != 0 || len(tp.Positions) != 0 {
		t.Errorf("unknown term projection not empty: %+v", tp)
	}
}
