package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextShortInputIsSingleChunk(t *testing.T) {
	chunks := SplitText("hello", 100, 10)
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello", chunks[0])
}

func TestSplitTextOverlapPreservesContext(t *testing.T) {
	text := strings.Repeat("abcdefghij", 10) // 100 chars
	chunks := SplitText(text, 40, 10)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 40)
	}
	// tail of each chunk reappears at the head of the next
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		assert.True(t, strings.HasPrefix(chunks[i], prev[len(prev)-10:]))
	}
}

func TestSplitTextDegenerateOverlap(t *testing.T) {
	text := strings.Repeat("x", 50)
	chunks := SplitText(text, 20, 20)
	assert.NotEmpty(t, chunks)
}

func TestSplitParagraphsMergesUntilLimit(t *testing.T) {
	text := "first finding\n\nsecond finding\n\n" + strings.Repeat("z", 80)
	chunks := SplitParagraphs(text, 40)

	require.Len(t, chunks, 2)
	assert.Contains(t, chunks[0], "first finding")
	assert.Contains(t, chunks[0], "second finding")
	assert.Equal(t, strings.Repeat("z", 80), chunks[1])
}
