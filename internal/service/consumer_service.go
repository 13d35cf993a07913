package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"market-insights-be/internal/dto"
	"market-insights-be/internal/pkg/logger"
	"market-insights-be/pkg/embedding"
	"market-insights-be/pkg/utils"
	"market-insights-be/pkg/vectorstore"
	"market-insights-be/pkg/vectorstore/pgstore"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the ingestion topic: split the report into chunks,
// embed each one and insert it into the serving index with write-through to
// postgres.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	clientName        string
	store             *vectorstore.Store
	backing           *pgstore.Repository
	embeddingProvider embedding.Provider
	log               logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	clientName string,
	store *vectorstore.Store,
	backing *pgstore.Repository,
	embeddingProvider embedding.Provider,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		clientName:        clientName,
		store:             store,
		backing:           backing,
		embeddingProvider: embeddingProvider,
		log:               log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "failed to unmarshal ingest message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.log.Info("consumer", "processing document", map[string]interface{}{
		"document_name": payload.DocumentName,
		"content_bytes": len(payload.Content),
	})

	// ChunkSize: 1500 chars (approx 375 tokens), Overlap: 200 chars.
	// Reports with paragraph structure split on paragraph boundaries so
	// findings are not sliced mid-sentence.
	var chunks []string
	if strings.Contains(payload.Content, "\n\n") {
		chunks = utils.SplitParagraphs(payload.Content, 1500)
	} else {
		chunks = utils.SplitText(payload.Content, 1500, 200)
	}

	// Embed every chunk before touching the serving index. A Nack causes
	// redelivery, so nothing may be inserted until the whole document is
	// embeddable; partial inserts would duplicate on retry.
	vectors := make([][]float64, len(chunks))
	for i, chunkText := range chunks {
		res, err := cs.embeddingProvider.Generate(ctx, chunkText)
		if err != nil {
			cs.log.Error("consumer", "failed to embed chunk", map[string]interface{}{
				"document_name": payload.DocumentName,
				"chunk_index":   i,
				"error":         err.Error(),
			})
			msg.Nack() // Retriable: the embedding backend may recover
			return
		}
		vectors[i] = res.Values
	}

	var stored []*vectorstore.DocumentChunk
	var insertedIDs []string
	for i, chunkText := range chunks {
		metadata := vectorstore.Metadata(payload.Metadata).Clone()
		metadata["chunk_index"] = i
		metadata["total_chunks"] = len(chunks)

		id, err := cs.store.Add(chunkText, vectors[i], metadata)
		if err != nil {
			cs.log.Error("consumer", "failed to index chunk", map[string]interface{}{
				"document_name": payload.DocumentName,
				"chunk_index":   i,
				"error":         err.Error(),
			})
			// Dimension mismatch will not fix itself on retry. Roll back the
			// partial document so no orphaned chunks serve queries.
			for _, insertedID := range insertedIDs {
				cs.store.Delete(insertedID)
			}
			msg.Ack()
			return
		}
		insertedIDs = append(insertedIDs, id)

		if chunk, ok := cs.store.Get(id); ok {
			stored = append(stored, chunk)
		}
	}

	if cs.backing != nil && len(stored) > 0 {
		if err := cs.backing.CreateBulk(ctx, stored, cs.clientName); err != nil {
			cs.log.Error("consumer", "failed to persist chunks", map[string]interface{}{
				"document_name": payload.DocumentName,
				"error":         fmt.Sprintf("%v", err),
			})
			// Serving index already holds the chunks; do not retry the message.
		}
	}

	cs.log.Info("consumer", "document indexed", map[string]interface{}{
		"document_name": payload.DocumentName,
		"chunks":        len(chunks),
	})
	msg.Ack()
}
