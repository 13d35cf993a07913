package vectorstore

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// snapshot is the persisted form of a store. DocumentIDs preserves insertion
// order so a reloaded store tie-breaks identically to the original.
type snapshot struct {
	Documents   map[string]*DocumentChunk `json:"documents"`
	DocumentIDs []string                  `json:"document_ids"`
	Metadata    snapshotMeta              `json:"metadata"`
}

type snapshotMeta struct {
	CreatedAt      time.Time `json:"created_at"`
	TotalDocuments int       `json:"total_documents"`
}

// SaveToFile serializes the store to a JSON snapshot at path.
func (s *Store) SaveToFile(path string) error {
	s.mu.RLock()
	snap := snapshot{
		Documents:   make(map[string]*DocumentChunk, len(s.docs)),
		DocumentIDs: append([]string(nil), s.order...),
		Metadata: snapshotMeta{
			CreatedAt:      time.Now(),
			TotalDocuments: len(s.docs),
		},
	}
	for id, chunk := range s.docs {
		snap.Documents[id] = chunk
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write store snapshot: %w", err)
	}
	return nil
}

// LoadFromFile reads a snapshot written by SaveToFile and reconstructs an
// equivalent store: same chunks, same dimensionality, same insertion order.
func LoadFromFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read store snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse store snapshot: %w", err)
	}

	store := NewStore()
	order := snap.DocumentIDs
	if len(order) != len(snap.Documents) {
		// Older snapshots may lack the order list; fall back to creation
		// time which is unique enough in practice.
		order = orderByCreatedAt(snap.Documents)
	}

	for _, id := range order {
		chunk, ok := snap.Documents[id]
		if !ok {
			return nil, fmt.Errorf("snapshot lists unknown document id %s", id)
		}
		if store.dimension == 0 {
			store.dimension = len(chunk.Embedding)
		} else if len(chunk.Embedding) != store.dimension {
			return nil, fmt.Errorf("snapshot document %s has embedding length %d, store uses %d",
				id, len(chunk.Embedding), store.dimension)
		}
		store.docs[id] = chunk
		store.order = append(store.order, id)
	}

	return store, nil
}

func orderByCreatedAt(docs map[string]*DocumentChunk) []string {
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	// Insertion sort by (created_at, id); snapshots are small enough that
	// simplicity beats pulling in sort machinery over two keys.
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0; j-- {
			a, b := docs[ids[j-1]], docs[ids[j]]
			if a.CreatedAt.Before(b.CreatedAt) ||
				(a.CreatedAt.Equal(b.CreatedAt) && a.ID < b.ID) {
				break
			}
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}
