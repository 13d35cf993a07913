package service

import (
	"context"
	"path/filepath"
	"testing"

	"market-insights-be/internal/dto"
	"market-insights-be/pkg/vectorstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDocumentFixture(embedder *fakeEmbedder, publisher *fakePublisher) (IDocumentService, *vectorstore.Store) {
	store := vectorstore.NewStore()
	svc := NewDocumentService("Tigo", store, nil, embedder, publisher, nil, noopLogger{})
	return svc, store
}

func TestDocumentAddIndexesAndEnriches(t *testing.T) {
	embedder := &fakeEmbedder{}
	svc, store := newDocumentFixture(embedder, &fakePublisher{})

	res, err := svc.Add(context.Background(), &dto.AddDocumentRequest{
		Content: "Brand tracking wave results for awareness",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Id)
	assert.Equal(t, "brand_health", res.Metadata[vectorstore.MetaStudyType])
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 1, embedder.calls)
}

func TestDocumentAddPropagatesEmbeddingFailure(t *testing.T) {
	embedder := &fakeEmbedder{failErr: assert.AnError}
	svc, store := newDocumentFixture(embedder, &fakePublisher{})

	_, err := svc.Add(context.Background(), &dto.AddDocumentRequest{Content: "anything"})
	require.Error(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestDocumentBulkIngestQueuesWithDocumentName(t *testing.T) {
	publisher := &fakePublisher{}
	svc, store := newDocumentFixture(&fakeEmbedder{}, publisher)

	res, err := svc.BulkIngest(context.Background(), &dto.BulkIngestRequest{
		DocumentName: "concept_test_2025.pdf",
		Content:      "long report body",
	})
	require.NoError(t, err)
	assert.True(t, res.Queued)

	// Nothing is indexed synchronously.
	assert.Equal(t, 0, store.Len())
	require.Len(t, publisher.published, 1)
	assert.Equal(t, "concept_test_2025.pdf", publisher.published[0].Metadata[vectorstore.MetaDocumentName])
}

func TestDocumentDeleteIsIdempotent(t *testing.T) {
	svc, _ := newDocumentFixture(&fakeEmbedder{}, &fakePublisher{})

	added, err := svc.Add(context.Background(), &dto.AddDocumentRequest{Content: "pricing study"})
	require.NoError(t, err)

	res, err := svc.Delete(context.Background(), added.Id)
	require.NoError(t, err)
	assert.True(t, res.Deleted)

	res, err = svc.Delete(context.Background(), added.Id)
	require.NoError(t, err)
	assert.False(t, res.Deleted)
}

func TestDocumentClearResetsStore(t *testing.T) {
	svc, store := newDocumentFixture(&fakeEmbedder{}, &fakePublisher{})

	_, err := svc.Add(context.Background(), &dto.AddDocumentRequest{Content: "doc one"})
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), &dto.AddDocumentRequest{Content: "doc two"})
	require.NoError(t, err)

	removed, err := svc.Clear(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, store.Dimension())
}

func TestDocumentStatsAggregates(t *testing.T) {
	svc, _ := newDocumentFixture(&fakeEmbedder{}, &fakePublisher{})

	_, err := svc.Add(context.Background(), &dto.AddDocumentRequest{
		Content:  "segmentation deep dive",
		Metadata: map[string]interface{}{"content_type": "report"},
	})
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalDocuments)
	assert.Equal(t, 3, stats.Dimension)
	assert.Equal(t, 1, stats.StudyTypes["segmentation"])
	assert.Equal(t, 1, stats.ContentTypes["report"])
	assert.Nil(t, stats.PersistedChunks)
}

func TestDocumentSnapshotRoundTrip(t *testing.T) {
	svc, store := newDocumentFixture(&fakeEmbedder{}, &fakePublisher{})

	first, err := svc.Add(context.Background(), &dto.AddDocumentRequest{Content: "churn drivers wave one"})
	require.NoError(t, err)
	second, err := svc.Add(context.Background(), &dto.AddDocumentRequest{Content: "churn drivers wave two"})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "snapshot.json")
	saved, err := svc.SaveSnapshot(context.Background(), &dto.SnapshotRequest{Path: path})
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Documents)

	_, err = svc.Clear(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, store.Len())

	loaded, err := svc.LoadSnapshot(context.Background(), &dto.SnapshotRequest{Path: path})
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Documents)
	assert.Equal(t, 2, store.Len())

	// Identity and insertion order survive the round trip.
	docs := store.Documents()
	require.Len(t, docs, 2)
	assert.Equal(t, first.Id, docs[0].ID)
	assert.Equal(t, second.Id, docs[1].ID)
}

func TestDocumentLoadSnapshotMissingFile(t *testing.T) {
	svc, store := newDocumentFixture(&fakeEmbedder{}, &fakePublisher{})

	_, err := svc.Add(context.Background(), &dto.AddDocumentRequest{Content: "kept"})
	require.NoError(t, err)

	_, err = svc.LoadSnapshot(context.Background(), &dto.SnapshotRequest{
		Path: filepath.Join(t.TempDir(), "missing.json"),
	})
	require.Error(t, err)

	// A failed load leaves the serving index untouched.
	assert.Equal(t, 1, store.Len())
}
