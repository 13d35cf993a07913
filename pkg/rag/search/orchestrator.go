package search

import (
	"context"
	"fmt"

	"market-insights-be/pkg/embedding"
	"market-insights-be/pkg/vectorstore"
)

// Index is the slice of the vector store the orchestrator needs. The
// pgvector-backed index threads the context into SQL; wrap the in-memory
// store with NewMemoryIndex.
type Index interface {
	SimilaritySearch(ctx context.Context, query []float64, k int, filter vectorstore.Filter, minSimilarity float64) ([]vectorstore.RankedResult, error)
}

type memoryIndex struct {
	store *vectorstore.Store
}

// NewMemoryIndex adapts the in-memory store, which never blocks and has no
// use for the context.
func NewMemoryIndex(store *vectorstore.Store) Index {
	return memoryIndex{store: store}
}

func (m memoryIndex) SimilaritySearch(_ context.Context, query []float64, k int, filter vectorstore.Filter, minSimilarity float64) ([]vectorstore.RankedResult, error) {
	return m.store.SimilaritySearch(query, k, filter, minSimilarity)
}

// Orchestrator runs the retrieval half of the pipeline: embed the query and
// rank candidates against the index. The index lock is never held across the
// embedding call.
type Orchestrator struct {
	provider embedding.Provider
	index    Index
}

func NewOrchestrator(provider embedding.Provider, index Index) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		index:    index,
	}
}

// Params encapsulates search parameters. MinSimilarity is deliberately
// required rather than defaulted: call sites must state their threshold.
type Params struct {
	TopK          int
	MinSimilarity float64
	Filter        vectorstore.Filter
}

// Execute embeds the query and returns the ranked candidates.
func (o *Orchestrator) Execute(ctx context.Context, query string, params Params) ([]vectorstore.RankedResult, error) {
	resp, err := o.provider.Generate(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	results, err := o.index.SimilaritySearch(ctx, resp.Values, params.TopK, params.Filter, params.MinSimilarity)
	if err != nil {
		return nil, err
	}
	return results, nil
}
