package dto

import "time"

type AddDocumentRequest struct {
	Content  string                 `json:"content" validate:"required"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type AddDocumentResponse struct {
	Id        string                 `json:"id"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
}

// BulkIngestRequest queues a whole report for asynchronous chunking and
// embedding.
type BulkIngestRequest struct {
	DocumentName string                 `json:"document_name" validate:"required"`
	Content      string                 `json:"content" validate:"required"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

type BulkIngestResponse struct {
	DocumentName string `json:"document_name"`
	Queued       bool   `json:"queued"`
}

type PublishIngestMessage struct {
	DocumentName string                 `json:"document_name"`
	Content      string                 `json:"content"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

type DeleteDocumentResponse struct {
	Id      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type StoreStatsResponse struct {
	TotalDocuments int            `json:"total_documents"`
	Dimension      int            `json:"embedding_dimension"`
	StudyTypes     map[string]int `json:"study_types"`
	Years          map[string]int `json:"years"`
	ContentTypes   map[string]int `json:"content_types"`
	CreatedAt      time.Time      `json:"created_at"`
	// PersistedChunks counts durable rows; omitted when running memory-only.
	PersistedChunks *int64 `json:"persisted_chunks,omitempty"`
}

type SnapshotRequest struct {
	Path string `json:"path" validate:"required"`
}

type SnapshotResponse struct {
	Path      string `json:"path"`
	Documents int    `json:"documents"`
}
