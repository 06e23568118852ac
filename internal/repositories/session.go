package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"alfredoptarigan/ai-interviewer/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository maps session ids to interview state. Implementations
// expire sessions a fixed time after their last write.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	GetOrCreate(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id string) error
}

type memorySessionRepository struct {
	cache *cache.Cache
}

// NewMemorySessionRepository keeps sessions in process memory. Repeated
// lookups of one id return the same *models.Session.
func NewMemorySessionRepository(ttl, cleanupInterval time.Duration) SessionRepository {
	return &memorySessionRepository{
		cache: cache.New(ttl, cleanupInterval),
	}
}

func (r *memorySessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	if x, found := r.cache.Get(id); found {
		return x.(*models.Session), nil
	}
	return nil, ErrSessionNotFound
}

func (r *memorySessionRepository) GetOrCreate(ctx context.Context, id string) (*models.Session, error) {
	if x, found := r.cache.Get(id); found {
		return x.(*models.Session), nil
	}

	session := models.NewSession(id)
	if err := r.cache.Add(id, session, cache.DefaultExpiration); err != nil {
		// another request created it first
		if x, found := r.cache.Get(id); found {
			return x.(*models.Session), nil
		}
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

func (r *memorySessionRepository) Save(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = time.Now()
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
	return nil
}

func (r *memorySessionRepository) Delete(ctx context.Context, id string) error {
	if _, found := r.cache.Get(id); !found {
		return ErrSessionNotFound
	}
	r.cache.Delete(id)
	return nil
}
