// Package pgstore persists document chunks in Postgres with pgvector and
// serves as the durable backing for the in-memory serving index.
package pgstore

import (
	"context"
	"encoding/json"
	"fmt"

	"market-insights-be/pkg/vectorstore"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Repository wraps the gorm access to the document_chunks table.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the table (the vector extension must already exist).
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&DocumentChunkModel{})
}

// Create persists one chunk. The chunk id must already be assigned.
func (r *Repository) Create(ctx context.Context, chunk *vectorstore.DocumentChunk, client string) error {
	m, err := toModel(chunk, client)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// CreateBulk persists a batch of chunks in one insert.
func (r *Repository) CreateBulk(ctx context.Context, chunks []*vectorstore.DocumentChunk, client string) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]*DocumentChunkModel, len(chunks))
	for i, chunk := range chunks {
		m, err := toModel(chunk, client)
		if err != nil {
			return err
		}
		models[i] = m
	}
	return r.db.WithContext(ctx).Create(models).Error
}

// Delete soft-deletes a chunk by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	chunkId, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid chunk id %q: %w", id, err)
	}
	return r.db.WithContext(ctx).Delete(&DocumentChunkModel{}, chunkId).Error
}

// DeleteByClient soft-deletes every chunk belonging to a tenant.
func (r *Repository) DeleteByClient(ctx context.Context, client string) error {
	return r.db.WithContext(ctx).Where("client = ?", client).Delete(&DocumentChunkModel{}).Error
}

// Count returns the number of live chunks for a tenant.
func (r *Repository) Count(ctx context.Context, client string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&DocumentChunkModel{}).
		Where("client = ?", client).
		Count(&count).Error
	return count, err
}

// FindAll streams every live chunk for a tenant, ordered by creation time so
// the in-memory index rebuilt from it tie-breaks like the original.
func (r *Repository) FindAll(ctx context.Context, client string) ([]*vectorstore.DocumentChunk, error) {
	var models []*DocumentChunkModel
	err := r.db.WithContext(ctx).
		Where("client = ?", client).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	chunks := make([]*vectorstore.DocumentChunk, len(models))
	for i, m := range models {
		chunk, err := toChunk(m)
		if err != nil {
			return nil, err
		}
		chunks[i] = chunk
	}
	return chunks, nil
}

// ScoredChunk pairs a chunk with its cosine similarity to the query.
type ScoredChunk struct {
	Chunk      *vectorstore.DocumentChunk
	Similarity float64
}

// SearchSimilarWithScore runs cosine-similarity search in the database.
// pgvector's <=> operator is cosine distance, so similarity = 1 - distance.
// Equality constraints are pushed into SQL via JSONB containment; richer
// predicates are evaluated by the in-memory filter engine after hydration.
func (r *Repository) SearchSimilarWithScore(
	ctx context.Context,
	embedding []float64,
	limit int,
	client string,
	threshold float64,
	equalityFilter map[string]any,
) ([]*ScoredChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	type row struct {
		DocumentChunkModel
		Similarity float64
	}
	var rows []row

	queryVector := pgvector.NewVector(toFloat32(embedding))

	query := r.db.WithContext(ctx).
		Table("document_chunks").
		Select("document_chunks.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("client = ?", client).
		Where("deleted_at IS NULL").
		Where("1 - (embedding <=> ?) >= ?", queryVector, threshold)

	if len(equalityFilter) > 0 {
		containment, err := json.Marshal(equalityFilter)
		if err != nil {
			return nil, fmt.Errorf("marshal metadata filter: %w", err)
		}
		query = query.Where("metadata @> ?", datatypes.JSON(containment))
	}

	err := query.
		Order("similarity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*ScoredChunk, len(rows))
	for i, res := range rows {
		chunk, err := toChunk(&res.DocumentChunkModel)
		if err != nil {
			return nil, err
		}
		scored[i] = &ScoredChunk{Chunk: chunk, Similarity: res.Similarity}
	}
	return scored, nil
}

func toModel(chunk *vectorstore.DocumentChunk, client string) (*DocumentChunkModel, error) {
	id, err := uuid.Parse(chunk.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid chunk id %q: %w", chunk.ID, err)
	}

	metaJSON, err := json.Marshal(chunk.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal chunk metadata: %w", err)
	}

	return &DocumentChunkModel{
		Id:        id,
		Content:   chunk.Content,
		Embedding: pgvector.NewVector(toFloat32(chunk.Embedding)),
		Metadata:  datatypes.JSON(metaJSON),
		Client:    client,
		CreatedAt: chunk.CreatedAt,
	}, nil
}

func toChunk(m *DocumentChunkModel) (*vectorstore.DocumentChunk, error) {
	var meta vectorstore.Metadata
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &meta); err != nil {
			return nil, fmt.Errorf("unmarshal chunk metadata: %w", err)
		}
	}

	values := m.Embedding.Slice()
	embedding := make([]float64, len(values))
	for i, v := range values {
		embedding[i] = float64(v)
	}

	return &vectorstore.DocumentChunk{
		ID:        m.Id.String(),
		Content:   m.Content,
		Embedding: embedding,
		Metadata:  meta,
		CreatedAt: m.CreatedAt,
	}, nil
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}
