package pgstore

import (
	"context"

	"market-insights-be/pkg/vectorstore"
)

// ServingIndex adapts the repository to the retrieval orchestrator so a
// deployment can answer similarity search straight from Postgres instead of
// the in-memory index.
type ServingIndex struct {
	repo   *Repository
	client string
}

func NewServingIndex(repo *Repository, client string) *ServingIndex {
	return &ServingIndex{repo: repo, client: client}
}

// SimilaritySearch pushes equality constraints into SQL via JSONB containment
// and evaluates the remaining predicates on the hydrated rows. Post-filtering
// can return fewer than k rows.
func (s *ServingIndex) SimilaritySearch(ctx context.Context, query []float64, k int, filter vectorstore.Filter, minSimilarity float64) ([]vectorstore.RankedResult, error) {
	scored, err := s.repo.SearchSimilarWithScore(ctx, query, k, s.client, minSimilarity, equalityPushdown(filter))
	if err != nil {
		return nil, err
	}

	results := make([]vectorstore.RankedResult, 0, len(scored))
	for _, row := range scored {
		if len(filter) > 0 && !filter.Matches(row.Chunk.Metadata) {
			continue
		}
		results = append(results, vectorstore.RankedResult{Chunk: row.Chunk, Score: row.Similarity})
	}
	return results, nil
}

func equalityPushdown(filter vectorstore.Filter) map[string]any {
	if len(filter) == 0 {
		return nil
	}
	pushdown := make(map[string]any)
	for key, cond := range filter {
		if eq, ok := cond.(vectorstore.Eq); ok {
			pushdown[key] = eq.Value
		}
	}
	return pushdown
}
