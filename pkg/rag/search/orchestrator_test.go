package search

import (
	"context"
	"testing"

	"market-insights-be/pkg/embedding"
	"market-insights-be/pkg/vectorstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticEmbedder struct{}

func (staticEmbedder) Generate(context.Context, string) (*embedding.Response, error) {
	return &embedding.Response{Values: []float64{1, 0}, Model: "static"}, nil
}

type captureIndex struct {
	ctx context.Context
}

func (c *captureIndex) SimilaritySearch(ctx context.Context, _ []float64, _ int, _ vectorstore.Filter, _ float64) ([]vectorstore.RankedResult, error) {
	c.ctx = ctx
	return []vectorstore.RankedResult{}, nil
}

type ctxKey struct{}

func TestExecuteThreadsContextIntoIndex(t *testing.T) {
	index := &captureIndex{}
	o := NewOrchestrator(staticEmbedder{}, index)

	ctx := context.WithValue(context.Background(), ctxKey{}, "request-scoped")
	_, err := o.Execute(ctx, "question", Params{TopK: 3, MinSimilarity: 0.3})
	require.NoError(t, err)

	// The caller's context reaches the index so cancellation and traces
	// survive into SQL-backed implementations.
	assert.Equal(t, "request-scoped", index.ctx.Value(ctxKey{}))
}

func TestMemoryIndexDelegatesToStore(t *testing.T) {
	store := vectorstore.NewStore()
	_, err := store.Add("passage", []float64{1, 0}, nil)
	require.NoError(t, err)

	results, err := NewMemoryIndex(store).SimilaritySearch(context.Background(), []float64{1, 0}, 5, nil, 0.0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "passage", results[0].Chunk.Content)
}
