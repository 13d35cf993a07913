package service

import (
	"context"
	"fmt"

	"market-insights-be/internal/dto"
	"market-insights-be/internal/pkg/logger"
	"market-insights-be/pkg/embedding"
	"market-insights-be/pkg/events"
	pktNats "market-insights-be/pkg/nats"
	"market-insights-be/pkg/vectorstore"
	"market-insights-be/pkg/vectorstore/pgstore"

	"github.com/gofiber/fiber/v2"
)

type IDocumentService interface {
	Add(ctx context.Context, req *dto.AddDocumentRequest) (*dto.AddDocumentResponse, error)
	BulkIngest(ctx context.Context, req *dto.BulkIngestRequest) (*dto.BulkIngestResponse, error)
	Delete(ctx context.Context, id string) (*dto.DeleteDocumentResponse, error)
	Clear(ctx context.Context) (int, error)
	Stats(ctx context.Context) (*dto.StoreStatsResponse, error)
	SaveSnapshot(ctx context.Context, req *dto.SnapshotRequest) (*dto.SnapshotResponse, error)
	LoadSnapshot(ctx context.Context, req *dto.SnapshotRequest) (*dto.SnapshotResponse, error)
	Hydrate(ctx context.Context) error
}

// documentService owns the serving index. Writes go to the in-memory store
// first (it is the source of truth for ranking), then through to postgres
// when a backing repository is configured. Hydrate replays the durable rows
// back into the index on startup.
type documentService struct {
	clientName        string
	store             *vectorstore.Store
	backing           *pgstore.Repository // nil when running memory-only
	embeddingProvider embedding.Provider
	publisherService  IPublisherService
	eventPublisher    *pktNats.Publisher
	log               logger.ILogger
}

func NewDocumentService(
	clientName string,
	store *vectorstore.Store,
	backing *pgstore.Repository,
	embeddingProvider embedding.Provider,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		clientName:        clientName,
		store:             store,
		backing:           backing,
		embeddingProvider: embeddingProvider,
		publisherService:  publisherService,
		eventPublisher:    eventPublisher,
		log:               log,
	}
}

func (s *documentService) Add(ctx context.Context, req *dto.AddDocumentRequest) (*dto.AddDocumentResponse, error) {
	res, err := s.embeddingProvider.Generate(ctx, req.Content)
	if err != nil {
		return nil, err
	}

	id, err := s.store.Add(req.Content, res.Values, vectorstore.Metadata(req.Metadata))
	if err != nil {
		return nil, err
	}

	chunk, _ := s.store.Get(id)

	if s.backing != nil {
		if err := s.backing.Create(ctx, chunk, s.clientName); err != nil {
			// The serving index stays authoritative; log and continue.
			s.log.Error("document", "failed to persist chunk", map[string]interface{}{
				"id":    id,
				"error": err.Error(),
			})
		}
	}

	s.publishEvent(ctx, events.NewDocumentAdded(s.clientName, id, studyTypeOf(chunk)))

	return &dto.AddDocumentResponse{
		Id:        id,
		Metadata:  map[string]interface{}(chunk.Metadata),
		CreatedAt: chunk.CreatedAt,
	}, nil
}

func (s *documentService) BulkIngest(ctx context.Context, req *dto.BulkIngestRequest) (*dto.BulkIngestResponse, error) {
	metadata := map[string]interface{}{}
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	metadata[vectorstore.MetaDocumentName] = req.DocumentName

	err := s.publisherService.PublishIngestDocument(dto.PublishIngestMessage{
		DocumentName: req.DocumentName,
		Content:      req.Content,
		Metadata:     metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to queue document for ingestion: %w", err)
	}

	s.log.Info("document", "queued document for ingestion", map[string]interface{}{
		"document_name": req.DocumentName,
		"content_bytes": len(req.Content),
	})

	return &dto.BulkIngestResponse{
		DocumentName: req.DocumentName,
		Queued:       true,
	}, nil
}

func (s *documentService) Delete(ctx context.Context, id string) (*dto.DeleteDocumentResponse, error) {
	deleted := s.store.Delete(id)

	if deleted && s.backing != nil {
		if err := s.backing.Delete(ctx, id); err != nil {
			s.log.Error("document", "failed to delete persisted chunk", map[string]interface{}{
				"id":    id,
				"error": err.Error(),
			})
		}
	}

	if deleted {
		s.publishEvent(ctx, events.NewDocumentDeleted(s.clientName, id))
	}

	return &dto.DeleteDocumentResponse{Id: id, Deleted: deleted}, nil
}

func (s *documentService) Clear(ctx context.Context) (int, error) {
	removed := s.store.Len()
	s.store.Clear()

	if s.backing != nil {
		if err := s.backing.DeleteByClient(ctx, s.clientName); err != nil {
			return removed, err
		}
	}

	s.publishEvent(ctx, events.NewStoreCleared(s.clientName, removed))
	return removed, nil
}

func (s *documentService) Stats(ctx context.Context) (*dto.StoreStatsResponse, error) {
	stats := s.store.Stats()
	res := &dto.StoreStatsResponse{
		TotalDocuments: stats.TotalDocuments,
		Dimension:      stats.Dimension,
		StudyTypes:     stats.StudyTypes,
		Years:          stats.Years,
		ContentTypes:   stats.ContentTypes,
		CreatedAt:      stats.CreatedAt,
	}

	if s.backing != nil {
		count, err := s.backing.Count(ctx, s.clientName)
		if err != nil {
			s.log.Warn("document", "failed to count persisted chunks", map[string]interface{}{"error": err.Error()})
		} else {
			res.PersistedChunks = &count
		}
	}

	return res, nil
}

func (s *documentService) SaveSnapshot(ctx context.Context, req *dto.SnapshotRequest) (*dto.SnapshotResponse, error) {
	if err := s.store.SaveToFile(req.Path); err != nil {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return &dto.SnapshotResponse{
		Path:      req.Path,
		Documents: s.store.Len(),
	}, nil
}

// LoadSnapshot replaces the serving index with a previously saved snapshot.
// Insertion order comes from the snapshot, so tie-breaking matches the store
// that wrote it. The durable backing is left untouched.
func (s *documentService) LoadSnapshot(ctx context.Context, req *dto.SnapshotRequest) (*dto.SnapshotResponse, error) {
	loaded, err := vectorstore.LoadFromFile(req.Path)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	s.store.Clear()
	for _, chunk := range loaded.Documents() {
		if err := s.store.Restore(chunk); err != nil {
			return nil, err
		}
	}

	s.log.Info("document", "loaded snapshot", map[string]interface{}{
		"path":      req.Path,
		"documents": s.store.Len(),
	})

	return &dto.SnapshotResponse{
		Path:      req.Path,
		Documents: s.store.Len(),
	}, nil
}

// Hydrate replays persisted chunks into the serving index. Rows come back
// ordered by creation time so tie-breaking stays equivalent to the original
// insertion order.
func (s *documentService) Hydrate(ctx context.Context) error {
	if s.backing == nil {
		return nil
	}

	chunks, err := s.backing.FindAll(ctx, s.clientName)
	if err != nil {
		return fmt.Errorf("failed to hydrate vector store: %w", err)
	}

	for _, chunk := range chunks {
		if err := s.store.Restore(chunk); err != nil {
			s.log.Warn("document", "skipping chunk during hydration", map[string]interface{}{
				"id":    chunk.ID,
				"error": err.Error(),
			})
		}
	}

	s.log.Info("document", "hydrated vector store", map[string]interface{}{
		"documents": s.store.Len(),
	})
	return nil
}

func (s *documentService) publishEvent(ctx context.Context, event events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.log.Warn("document", "failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

func studyTypeOf(chunk *vectorstore.DocumentChunk) string {
	if chunk == nil {
		return ""
	}
	st, _ := chunk.Metadata.StringValue(vectorstore.MetaStudyType)
	return st
}
