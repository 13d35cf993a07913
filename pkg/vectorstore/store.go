package vectorstore

import (
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"market-insights-be/pkg/vectormath"

	"github.com/google/uuid"
)

// ErrEmptyEmbedding is returned by Add when the embedding has length zero.
var ErrEmptyEmbedding = errors.New("embedding must not be empty")

// Store is an in-memory vector store over document chunks with metadata
// filtering and brute-force cosine similarity search.
//
// Reads may run concurrently; mutations are serialized against each other and
// against in-flight searches, so a reader never observes a half-inserted
// chunk. The first insertion establishes the store's embedding dimensionality;
// Clear resets it.
type Store struct {
	mu        sync.RWMutex
	dimension int
	createdAt time.Time
	docs      map[string]*DocumentChunk
	order     []string // insertion order, used for tie-breaking
}

// NewStore creates an empty store with no fixed dimensionality.
func NewStore() *Store {
	return &Store{
		createdAt: time.Now(),
		docs:      make(map[string]*DocumentChunk),
	}
}

// Add inserts a chunk, assigns it a fresh id and enriches its metadata with
// defaults: study_type (keyword classification over document_name or content),
// year (current year) and confidence_score (1.0). The given metadata map is
// not mutated.
func (s *Store) Add(content string, embedding []float64, metadata Metadata) (string, error) {
	if len(embedding) == 0 {
		return "", ErrEmptyEmbedding
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dimension == 0 {
		s.dimension = len(embedding)
	} else if len(embedding) != s.dimension {
		return "", &vectormath.DimensionMismatchError{Want: s.dimension, Got: len(embedding)}
	}

	enriched := enrichMetadata(content, metadata)

	id := uuid.NewString()
	s.docs[id] = &DocumentChunk{
		ID:      id,
		Content: content,
		// Copied so later caller mutations cannot reach the index.
		Embedding: append([]float64(nil), embedding...),
		Metadata:  enriched,
		CreatedAt: time.Now(),
	}
	s.order = append(s.order, id)

	return id, nil
}

// Restore inserts a chunk that already has an identity, keeping its id,
// metadata and creation time. Used when replaying durable storage into the
// serving index.
func (s *Store) Restore(chunk *DocumentChunk) error {
	if chunk == nil || len(chunk.Embedding) == 0 {
		return ErrEmptyEmbedding
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dimension == 0 {
		s.dimension = len(chunk.Embedding)
	} else if len(chunk.Embedding) != s.dimension {
		return &vectormath.DimensionMismatchError{Want: s.dimension, Got: len(chunk.Embedding)}
	}

	if _, exists := s.docs[chunk.ID]; !exists {
		s.order = append(s.order, chunk.ID)
	}
	// Detach from the caller's chunk so the index owns its embedding.
	restored := *chunk
	restored.Embedding = append([]float64(nil), chunk.Embedding...)
	restored.Metadata = chunk.Metadata.Clone()
	s.docs[chunk.ID] = &restored
	return nil
}

func enrichMetadata(content string, metadata Metadata) Metadata {
	var enriched Metadata
	if metadata == nil {
		enriched = make(Metadata)
	} else {
		enriched = metadata.Clone()
	}

	if _, ok := enriched[MetaStudyType]; !ok {
		source := content
		if name, ok := enriched.StringValue(MetaDocumentName); ok {
			source = name
		}
		enriched[MetaStudyType] = DetectStudyType(source)
	}
	if _, ok := enriched[MetaYear]; !ok {
		enriched[MetaYear] = time.Now().Year()
	}
	if _, ok := enriched[MetaConfidenceScore]; !ok {
		enriched[MetaConfidenceScore] = 1.0
	}

	return enriched
}

// Documents returns the stored chunks in insertion order.
func (s *Store) Documents() []*DocumentChunk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*DocumentChunk, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.docs[id])
	}
	return out
}

// Delete removes the chunk with the given id and reports whether a removal
// occurred. Deleting an absent id is not an error.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return false
	}
	delete(s.docs, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Clear removes every chunk and resets the store's dimensionality, so the
// next insertion may use any embedding length.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs = make(map[string]*DocumentChunk)
	s.order = nil
	s.dimension = 0
}

// Get returns the chunk with the given id.
func (s *Store) Get(id string) (*DocumentChunk, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunk, ok := s.docs[id]
	return chunk, ok
}

// Len returns the number of stored chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Dimension returns the established embedding length, or 0 for an empty store.
func (s *Store) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimension
}

// FilterByMetadata returns the chunks whose metadata satisfies the filter,
// keyed by id. A nil or empty filter matches everything.
func (s *Store) FilterByMetadata(filter Filter) map[string]*DocumentChunk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make(map[string]*DocumentChunk)
	for id, chunk := range s.docs {
		if filter.Matches(chunk.Metadata) {
			matched[id] = chunk
		}
	}
	return matched
}

// SimilaritySearch scores every chunk (optionally narrowed by filter first)
// against the query embedding, drops results below minSimilarity, and returns
// the k best ordered by descending score. Equal scores keep insertion order.
//
// A query of the wrong length fails with DimensionMismatchError. An empty
// store or an empty filtered subset yields an empty result, not an error.
func (s *Store) SimilaritySearch(query []float64, k int, filter Filter, minSimilarity float64) ([]RankedResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.docs) == 0 {
		return []RankedResult{}, nil
	}
	if len(query) != s.dimension {
		return nil, &vectormath.DimensionMismatchError{Want: s.dimension, Got: len(query)}
	}

	// Walk in insertion order so the stable sort's tie-break is the
	// documented one.
	results := make([]RankedResult, 0, len(s.order))
	for _, id := range s.order {
		chunk := s.docs[id]
		if filter != nil && !filter.Matches(chunk.Metadata) {
			continue
		}
		score, err := vectormath.CosineSimilarity(query, chunk.Embedding)
		if err != nil {
			return nil, err
		}
		if score < minSimilarity {
			continue
		}
		results = append(results, RankedResult{Chunk: chunk, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k >= 0 && k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// StoreStats aggregates document counts by the metadata dimensions the
// dashboard cares about.
type StoreStats struct {
	TotalDocuments int            `json:"total_documents"`
	Dimension      int            `json:"embedding_dimensions"`
	StudyTypes     map[string]int `json:"study_types"`
	Years          map[string]int `json:"years"`
	ContentTypes   map[string]int `json:"content_types"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Stats returns aggregate counts over the stored chunks.
func (s *Store) Stats() StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := StoreStats{
		TotalDocuments: len(s.docs),
		Dimension:      s.dimension,
		StudyTypes:     make(map[string]int),
		Years:          make(map[string]int),
		ContentTypes:   make(map[string]int),
		CreatedAt:      s.createdAt,
	}

	for _, chunk := range s.docs {
		stats.StudyTypes[metaLabel(chunk.Metadata, MetaStudyType)]++
		stats.Years[metaLabel(chunk.Metadata, MetaYear)]++
		stats.ContentTypes[metaLabel(chunk.Metadata, MetaContentType)]++
	}
	return stats
}

func metaLabel(meta Metadata, key string) string {
	if s, ok := meta.StringValue(key); ok {
		return s
	}
	if n, ok := meta.NumberValue(key); ok {
		return trimFloat(n)
	}
	return "unknown"
}

func trimFloat(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
