package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"alfredoptarigan/ai-interviewer/internal/models"
)

const sessionKeyPrefix = "interview:session:"

type redisSessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSessionRepository stores sessions as JSON documents. Unlike the
// memory repository, every Get returns a fresh copy.
func NewRedisSessionRepository(rdb *redis.Client, ttl time.Duration) SessionRepository {
	return &redisSessionRepository{rdb: rdb, ttl: ttl}
}

func (r *redisSessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	data, err := r.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return decodeSession(data)
}

func (r *redisSessionRepository) GetOrCreate(ctx context.Context, id string) (*models.Session, error) {
	session, err := r.Get(ctx, id)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, ErrSessionNotFound) {
		return nil, err
	}

	session = models.NewSession(id)
	data, err := encodeSession(session)
	if err != nil {
		return nil, err
	}

	created, err := r.rdb.SetNX(ctx, sessionKey(id), data, r.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if !created {
		return r.Get(ctx, id)
	}

	return session, nil
}

func (r *redisSessionRepository) Save(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = time.Now()

	data, err := encodeSession(session)
	if err != nil {
		return err
	}

	if err := r.rdb.Set(ctx, sessionKey(session.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *redisSessionRepository) Delete(ctx context.Context, id string) error {
	n, err := r.rdb.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func encodeSession(session *models.Session) ([]byte, error) {
	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	return data, nil
}

func decodeSession(data []byte) (*models.Session, error) {
	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if session.InterviewQuestions == nil {
		session.InterviewQuestions = []models.Question{}
	}
	if session.InterviewResponses == nil {
		session.InterviewResponses = []models.ResponseRecord{}
	}
	return &session, nil
}
