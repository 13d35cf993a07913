package rank

import (
	"testing"

	"market-insights-be/pkg/rag/mode"
	"market-insights-be/pkg/vectorstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankedResults(n int) []vectorstore.RankedResult {
	results := make([]vectorstore.RankedResult, n)
	for i := range results {
		results[i] = vectorstore.RankedResult{
			Chunk: &vectorstore.DocumentChunk{ID: string(rune('a' + i))},
			Score: 1.0 - float64(i)*0.1,
		}
	}
	return results
}

func hybridConfig() mode.Config {
	return mode.Config{
		Name:                 mode.Hybrid,
		DefaultRAGPercentage: 60,
		MinRAGPercentage:     30,
		MaxRAGPercentage:     80,
		MaxContextChunks:     5,
	}
}

func TestSelectContextDefaults(t *testing.T) {
	sel, err := SelectContext(rankedResults(3), hybridConfig(), nil)
	require.NoError(t, err)

	assert.Len(t, sel.Passages, 3)
	assert.Equal(t, 60, sel.RAGPercentage)
	assert.Equal(t, 40, sel.CreativityPercentage)
}

func TestSelectContextTruncatesToBudget(t *testing.T) {
	sel, err := SelectContext(rankedResults(9), hybridConfig(), nil)
	require.NoError(t, err)

	require.Len(t, sel.Passages, 5)
	// Truncation keeps the best-ranked prefix.
	assert.Equal(t, "a", sel.Passages[0].Chunk.ID)
	assert.Equal(t, "e", sel.Passages[4].Chunk.ID)
}

func TestSelectContextOverride(t *testing.T) {
	override := 50
	sel, err := SelectContext(rankedResults(2), hybridConfig(), &override)
	require.NoError(t, err)

	assert.Equal(t, 50, sel.RAGPercentage)
	assert.Equal(t, 50, sel.CreativityPercentage)
}

func TestSelectContextOverrideOutOfRange(t *testing.T) {
	override := 90
	_, err := SelectContext(rankedResults(2), hybridConfig(), &override)

	var invalid *mode.InvalidConfigurationError
	require.ErrorAs(t, err, &invalid)
}

func TestSelectContextOverrideIgnoredOutsideHybrid(t *testing.T) {
	cfg := mode.Config{
		Name:                 mode.Pure,
		DefaultRAGPercentage: 100,
		MinRAGPercentage:     90,
		MaxRAGPercentage:     100,
		MaxContextChunks:     5,
	}

	override := 50 // would be out of range, but pure mode never honors it
	sel, err := SelectContext(rankedResults(1), cfg, &override)
	require.NoError(t, err)
	assert.Equal(t, 100, sel.RAGPercentage)
	assert.Equal(t, 0, sel.CreativityPercentage)
}

func TestSelectContextEmptyResults(t *testing.T) {
	sel, err := SelectContext(nil, hybridConfig(), nil)
	require.NoError(t, err)

	assert.Empty(t, sel.Passages)
	assert.Equal(t, 60, sel.RAGPercentage)
	assert.Equal(t, 40, sel.CreativityPercentage)
}
