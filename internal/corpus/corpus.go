// Package corpus loads the document collection and turns it into the
// normalized token streams the indexes are built from. Loading owns all I/O
// and decoding; the indexes and evaluators only ever see already-decoded
// text.
package corpus

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/exactmatch-ir/exactmatch/internal/analyzer"
	"github.com/exactmatch-ir/exactmatch/internal/index"
)

// Collection maps each document identifier to its raw decoded text. Raw text
// is only needed during normalization; after BuildStreams it can be kept
// around solely for snippet display.
type Collection map[index.DocID]string

// BuildStreams normalizes every document and returns the per-document token
// streams. Documents are independent, so normalization fans out across
// workers; the result is deterministic regardless of scheduling.
func BuildStreams(ctx context.Context, coll Collection, an *analyzer.Analyzer, workers int) (index.TokenStreams, error) {
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	streams := make(index.TokenStreams, len(coll))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for docID, text := range coll {
		docID, text := docID, text
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tokens := an.Analyze(text)
			mu.Lock()
			streams[docID] = tokens
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return streams, nil
}
