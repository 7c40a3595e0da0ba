// Package storage provides view session persistence implementations.
package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/logger"
)

// Compile-time interface check.
var _ domain.ViewStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory view session store. Safe for concurrent
// access. Sessions are stored by value so callers cannot mutate them
// without calling Save.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.ViewSession
	log      *logger.Logger
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]domain.ViewSession),
		log:      log,
	}
}

// Save persists a session. Overwrites if it already exists.
func (s *MemoryStore) Save(ctx context.Context, session *domain.ViewSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("saving view %s (recipe=%s, mode=%s)", session.ID, session.RecipeID, session.Mode)
	s.sessions[session.ID] = *session
	return nil
}

// Load retrieves a session by ID.
func (s *MemoryStore) Load(ctx context.Context, id string) (*domain.ViewSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		s.log.Debug("view not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return &sess, nil
}

// Delete removes a session by ID.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.sessions, id)
	s.log.Debug("deleted view %s", id)
	return nil
}

// PurgeClosed deletes closed sessions whose UpdatedAt is before cutoff.
func (s *MemoryStore) PurgeClosed(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sess := range s.sessions {
		if sess.Closed && sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	if n > 0 {
		s.log.Debug("purged %d closed views", n)
	}
	return n, nil
}

// ListOpen returns all sessions that have not been closed, oldest first.
func (s *MemoryStore) ListOpen(ctx context.Context) ([]*domain.ViewSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.ViewSession
	for _, sess := range s.sessions {
		if !sess.Closed {
			sess := sess
			out = append(out, &sess)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt.Before(out[j].OpenedAt) })
	s.log.Debug("listing open views, count=%d", len(out))
	return out, nil
}
