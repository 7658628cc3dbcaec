package search

import (
	"errors"
	"reflect"
	"testing"

	"github.com/exactmatch-ir/exactmatch/internal/analyzer"
	"github.com/exactmatch-ir/exactmatch/internal/index"
	pkgerrors "github.com/exactmatch-ir/exactmatch/pkg/errors"
)

func TestParseProximity(t *testing.T) {
	an := analyzer.New(nil)

	tests := []struct {
		name  string
		query string
		want  ProximityQuery
	}{
		{"slash form", "data mining/1", ProximityQuery{Term1: "data", Term2: "mine", K: 1}},
		{"slash form with spaces", "data mining / 3", ProximityQuery{Term1: "data", Term2: "mine", K: 3}},
		{"three token form", "data mining 2", ProximityQuery{Term1: "data", Term2: "mine", K: 2}},
		{"terms lowercased and stemmed", "Data MINING/1", ProximityQuery{Term1: "data", Term2: "mine", K: 1}},
		{"stopword term stays usable", "is data/2", ProximityQuery{Term1: "is", Term2: "data", K: 2}},
		{"zero distance", "data mining/0", ProximityQuery{Term1: "data", Term2: "mine", K: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProximity(tt.query, an)
			if err != nil {
				t.Fatalf("ParseProximity(%q): %v", tt.query, err)
			}
			if got != tt.want {
				t.Errorf("ParseProximity(%q) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}
}

func TestParseProximityErrors(t *testing.T) {
	an := analyzer.New(nil)

	tests := []struct {
		name  string
		query string
	}{
		{"non-integer distance after slash", "data mining/x"},
		{"empty distance after slash", "data mining/"},
		{"one term before slash", "mining/2"},
		{"two tokens no slash", "data mining"},
		{"non-integer third token", "data mining near"},
		{"empty query", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProximity(tt.query, an)
			if err == nil {
				t.Fatalf("ParseProximity(%q) succeeded, want error", tt.query)
			}
			if !errors.Is(err, pkgerrors.ErrInvalidQuery) {
				t.Errorf("error %v does not wrap ErrInvalidQuery", err)
			}
		})
	}
}

func TestEvaluateProximity(t *testing.T) {
	// doc 1: data@0 mine@1 fun@2; doc 2: mine@0 data@1 scienc@2
	_, pos, _ := testCorpus(t)

	tests := []struct {
		name string
		q    ProximityQuery
		want []index.DocID
	}{
		{"adjacent terms at k=1", ProximityQuery{"data", "mine", 1}, docs(1, 2)},
		{"distance two at k=1", ProximityQuery{"data", "fun", 1}, nil},
		{"distance two at k=2", ProximityQuery{"data", "fun", 2}, docs(1)},
		{"inclusive bound", ProximityQuery{"mine", "fun", 1}, docs(1)},
		{"term in one doc only", ProximityQuery{"mine", "scienc", 2}, docs(2)},
		{"no shared documents", ProximityQuery{"fun", "scienc", 10}, nil},
		{"absent term", ProximityQuery{"zebra", "data", 5}, nil},
		{"k zero never matches distinct positions", ProximityQuery{"data", "mine", 0}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := EvaluateProximity(tt.q, pos)
			want := tt.want
			if want == nil {
				want = []index.DocID{}
			}
			if !reflect.DeepEqual(got.Sorted(), want) {
				t.Errorf("EvaluateProximity(%+v) = %v, want %v", tt.q, got.Sorted(), want)
			}
		})
	}
}

func TestEvaluateProximitySymmetric(t *testing.T) {
	_, pos, _ := testCorpus(t)

	for k := 0; k <= 3; k++ {
		a, _ := EvaluateProximity(ProximityQuery{"data", "mine", k}, pos)
		b, _ := EvaluateProximity(ProximityQuery{"mine", "data", k}, pos)
		if !reflect.DeepEqual(a.Sorted(), b.Sorted()) {
			t.Errorf("k=%d: term order changed the result: %v vs %v", k, a.Sorted(), b.Sorted())
		}
	}
}

func TestEvaluateProximitySamePositionNeverQualifies(t *testing.T) {
	// A term paired with itself shares every position; identical positions
	// must not qualify even with a generous k.
	streams := index.TokenStreams{
		index.NumericID(1): {"alpha", "beta"},
	}
	pos := index.BuildPositional(streams)

	got, _ := EvaluateProximity(ProximityQuery{"alpha", "alpha", 5}, pos)
	if len(got) != 0 {
		t.Errorf("same-term query over single occurrence matched: %v", got.Sorted())
	}

	// Two distinct occurrences of the same term do qualify.
	streams = index.TokenStreams{
		index.NumericID(1): {"alpha", "beta", "alpha"},
	}
	pos = index.BuildPositional(streams)
	got, _ = EvaluateProximity(ProximityQuery{"alpha", "alpha", 2}, pos)
	if !reflect.DeepEqual(got.Sorted(), docs(1)) {
		t.Errorf("distinct occurrences did not match: %v", got.Sorted())
	}
}

func TestEvaluateProximityExactBoundary(t *testing.T) {
	streams := index.TokenStreams{
		index.NumericID(1): {"alpha", "filler", "beta"},
	}
	pos := index.BuildPositional(streams)

	q := ProximityQuery{"alpha", "beta", 2}
	got, matches := EvaluateProximity(q, pos)
	if !reflect.DeepEqual(got.Sorted(), docs(1)) {
		t.Fatalf("|p1-p2| == k must be included, got %v", got.Sorted())
	}
	if m := matches[index.NumericID(1)]; m.Pos1 != 0 || m.Pos2 != 2 {
		t.Errorf("match pair = %+v, want {0 2}", m)
	}

	q.K = 1
	if got, _ := EvaluateProximity(q, pos); len(got) != 0 {
		t.Errorf("distance above k matched: %v", got.Sorted())
	}
}
