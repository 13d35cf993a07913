package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"market-insights-be/internal/dto"
	"market-insights-be/pkg/vectorstore"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConsumerFixture(embedder *fakeEmbedder) (*consumerService, *vectorstore.Store) {
	store := vectorstore.NewStore()
	svc := NewConsumerService(nil, "INGEST_DOCUMENT", "Tigo", store, nil, embedder, noopLogger{})
	return svc.(*consumerService), store
}

func ingestMessage(t *testing.T, name, content string) *message.Message {
	t.Helper()
	payload, err := json.Marshal(dto.PublishIngestMessage{
		DocumentName: name,
		Content:      content,
	})
	require.NoError(t, err)
	return message.NewMessage(watermill.NewUUID(), payload)
}

// Two paragraphs long enough that the paragraph splitter keeps them apart.
func twoParagraphReport() (string, string, string) {
	first := "first paragraph " + strings.Repeat("a", 900)
	second := "second paragraph " + strings.Repeat("b", 900)
	return first + "\n\n" + second, first, second
}

func TestConsumerRetryAfterEmbedOutageDoesNotDuplicate(t *testing.T) {
	embedder := &fakeEmbedder{failErr: assert.AnError, failOnCall: 2}
	svc, store := newConsumerFixture(embedder)
	content, first, second := twoParagraphReport()

	// The embedding backend drops out on the second chunk: nothing may land
	// in the serving index, the message is redelivered.
	svc.processMessage(context.Background(), ingestMessage(t, "report.pdf", content))
	assert.Equal(t, 0, store.Len())

	// Redelivery with the backend recovered indexes the whole document once.
	svc.processMessage(context.Background(), ingestMessage(t, "report.pdf", content))
	assert.Equal(t, 2, store.Len())

	seen := map[string]int{}
	for _, chunk := range store.Documents() {
		seen[chunk.Content]++
	}
	assert.Equal(t, 1, seen[first])
	assert.Equal(t, 1, seen[second])
}

func TestConsumerRollsBackPartialDocumentOnDimensionMismatch(t *testing.T) {
	content, first, second := twoParagraphReport()
	embedder := &fakeEmbedder{vectors: map[string][]float64{
		first:  {1, 0, 0},
		second: {1, 0}, // wrong width: the second insert must fail
	}}
	svc, store := newConsumerFixture(embedder)

	svc.processMessage(context.Background(), ingestMessage(t, "report.pdf", content))

	// The half-indexed document is rolled back, not left serving queries.
	assert.Equal(t, 0, store.Len())
}
