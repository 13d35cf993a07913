package embedding

import (
	"context"
	"errors"
)

// ErrUnavailable marks failures reaching the embedding backend. Callers map
// it to an upstream-failure response rather than a client error.
var ErrUnavailable = errors.New("embedding provider unavailable")

// Provider defines the interface for generating text embeddings. A provider
// failure means "cannot search": callers propagate it immediately and never
// retry at this layer.
type Provider interface {
	Generate(ctx context.Context, text string) (*Response, error)
}

// Response carries one embedding vector.
type Response struct {
	Values []float64 `json:"values"`
	Model  string    `json:"model,omitempty"`
}

// Dimension returns the vector length.
func (r *Response) Dimension() int {
	return len(r.Values)
}
