package memory

import (
	"context"
	"time"

	"market-insights-be/pkg/persona"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps persona conversations in-process. Sessions expire
// after an hour of inactivity, matching how long an interview realistically
// runs.
type SessionRepository struct {
	cache *cache.Cache
}

var _ persona.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository() *SessionRepository {
	// Purge expired sessions every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(_ context.Context, session *persona.Session) error {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Find(_ context.Context, id string) (*persona.Session, bool, error) {
	if x, found := r.cache.Get(id); found {
		return x.(*persona.Session), true, nil
	}
	return nil, false, nil
}

func (r *SessionRepository) Delete(_ context.Context, id string) error {
	r.cache.Delete(id)
	return nil
}
