package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"market-insights-be/pkg/persona"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "persona:session:"

// SessionRepository stores persona conversations in redis so interviews
// survive restarts and can be shared across replicas.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

var _ persona.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{client: client, ttl: ttl}
}

func (r *SessionRepository) Save(ctx context.Context, session *persona.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKeyPrefix+session.ID, data, r.ttl).Err()
}

func (r *SessionRepository) Find(ctx context.Context, id string) (*persona.Session, bool, error) {
	data, err := r.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var session persona.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, false, err
	}
	return &session, true, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKeyPrefix+id).Err()
}
