package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shop-service/src/internal/model"
)

// SessionStore holds the per-user purchase flow context. Backed by redis in
// production; the TTL bounds how long abandoned sessions survive.
type SessionStore interface {
	Get(ctx context.Context, userID string) (*model.PurchaseSession, error)
	Save(ctx context.Context, userID string, session *model.PurchaseSession) error
	Clear(ctx context.Context, userID string) error
}

type SessionRepository struct {
	Redis redis.UniversalClient
	TTL   time.Duration
}

func NewSessionRepository(client redis.UniversalClient, ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		Redis: client,
		TTL:   ttl,
	}
}

func sessionKey(userID string) string {
	return fmt.Sprintf("purchase:session:%s", userID)
}

func (r *SessionRepository) Get(ctx context.Context, userID string) (*model.PurchaseSession, error) {
	data, err := r.Redis.Get(ctx, sessionKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var session model.PurchaseSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Save(ctx context.Context, userID string, session *model.PurchaseSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.Redis.Set(ctx, sessionKey(userID), data, r.TTL).Err()
}

func (r *SessionRepository) Clear(ctx context.Context, userID string) error {
	return r.Redis.Del(ctx, sessionKey(userID)).Err()
}
