package dto

type ModeConfigResponse struct {
	Name                   string  `json:"name"`
	Description            string  `json:"description"`
	DefaultRagPercentage   int     `json:"default_rag_percentage"`
	MinRagPercentage       int     `json:"min_rag_percentage"`
	MaxRagPercentage       int     `json:"max_rag_percentage"`
	DefaultCreativityLevel float64 `json:"default_creativity_level"`
	EnableVisualization    bool    `json:"enable_visualization"`
	MaxContextChunks       int     `json:"max_context_chunks"`
}

// UpdateModeConfigRequest carries a partial update: absent fields keep their
// current value.
type UpdateModeConfigRequest struct {
	DefaultRagPercentage *int    `json:"default_rag_percentage,omitempty"`
	MinRagPercentage     *int    `json:"min_rag_percentage,omitempty"`
	MaxRagPercentage     *int    `json:"max_rag_percentage,omitempty"`
	MaxContextChunks     *int    `json:"max_context_chunks,omitempty" validate:"omitempty,min=1"`
	Description          *string `json:"description,omitempty"`
}
