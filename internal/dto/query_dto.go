package dto

// QueryRequest runs one retrieval-augmented question in the given mode.
// RagPercentage only applies in hybrid mode and must stay inside the mode's
// configured range.
type QueryRequest struct {
	Question      string                 `json:"question" validate:"required"`
	Mode          string                 `json:"mode,omitempty"`
	RagPercentage *int                   `json:"rag_percentage,omitempty"`
	MinSimilarity *float64               `json:"min_similarity,omitempty"`
	Filters       map[string]interface{} `json:"filters,omitempty"`
}

type QueryResponse struct {
	Answer               string        `json:"answer"`
	Mode                 string        `json:"mode"`
	RagPercentage        int           `json:"rag_percentage"`
	CreativityPercentage int           `json:"creativity_percentage"`
	Sources              []SourceChunk `json:"sources"`
}

type SourceChunk struct {
	Id           string  `json:"id"`
	Content      string  `json:"content"`
	Score        float64 `json:"similarity_score"`
	StudyType    string  `json:"study_type,omitempty"`
	DocumentName string  `json:"document_name,omitempty"`
}

// SearchRequest is retrieval only, no generation.
type SearchRequest struct {
	Query         string                 `json:"query" validate:"required"`
	TopK          int                    `json:"top_k" validate:"omitempty,min=1,max=50"`
	MinSimilarity float64                `json:"min_similarity"`
	Filters       map[string]interface{} `json:"filters,omitempty"`
}

type SearchResponse struct {
	Results []SourceChunk `json:"results"`
}
