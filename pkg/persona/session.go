package persona

import (
	"context"
	"time"

	"market-insights-be/pkg/llm"
)

// Session is one running conversation with a persona. History carries the
// full exchange so the LLM keeps conversational state between turns.
type Session struct {
	ID        string        `json:"id"`
	PersonaID string        `json:"persona_id"`
	History   []llm.Message `json:"history"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// SessionRepository stores conversation sessions. Implementations may be
// process-local or shared (redis) depending on deployment.
type SessionRepository interface {
	Save(ctx context.Context, session *Session) error
	Find(ctx context.Context, id string) (*Session, bool, error)
	Delete(ctx context.Context, id string) error
}
