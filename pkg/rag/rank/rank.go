// Package rank implements the hybrid ranking controller: it turns a raw
// ranked result list plus a configured RAG percentage into the passage set
// and blend signal handed to the generation layer.
package rank

import (
	"fmt"

	"market-insights-be/pkg/rag/mode"
	"market-insights-be/pkg/vectorstore"
)

// Selection is the controller's output. CreativityPercentage is the only
// numeric contract the generation collaborator needs; it does not influence
// ranking itself.
type Selection struct {
	Passages             []vectorstore.RankedResult
	RAGPercentage        int
	CreativityPercentage int
}

// SelectContext truncates ranked results to the mode's context budget and
// resolves the effective RAG percentage.
//
// An override is honored only in hybrid mode and only when it falls inside
// [min, max]; out-of-range overrides are rejected with
// InvalidConfigurationError rather than clamped, so the caller learns about
// the bad value. Empty results are a valid input: the selection simply
// carries no passages.
func SelectContext(results []vectorstore.RankedResult, cfg mode.Config, override *int) (Selection, error) {
	effective := cfg.DefaultRAGPercentage

	if override != nil && cfg.Name == mode.Hybrid {
		if *override < cfg.MinRAGPercentage || *override > cfg.MaxRAGPercentage {
			return Selection{}, &mode.InvalidConfigurationError{
				Mode: cfg.Name,
				Reason: fmt.Sprintf("rag_percentage override %d outside [%d, %d]",
					*override, cfg.MinRAGPercentage, cfg.MaxRAGPercentage),
			}
		}
		effective = *override
	}

	limit := len(results)
	if cfg.MaxContextChunks < limit {
		limit = cfg.MaxContextChunks
	}
	passages := make([]vectorstore.RankedResult, limit)
	copy(passages, results[:limit])

	return Selection{
		Passages:             passages,
		RAGPercentage:        effective,
		CreativityPercentage: 100 - effective,
	}, nil
}
