package review

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	ucerrors "github.com/johnquangdev/call-insight/internal/usecase/errors"
)

// Registry owns one ReviewState per reviewer. Sessions idle for longer than
// the TTL are dropped by Sweep.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*ReviewState
	ttl      time.Duration
	pageSize int
	onEvict  []func(reviewerID string)
	logger   *zap.Logger
}

// NewRegistry creates a registry
func NewRegistry(ttl time.Duration, defaultPageSize int, logger *zap.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*ReviewState),
		ttl:      ttl,
		pageSize: defaultPageSize,
		logger:   logger,
	}
}

// OnEvict registers fn to run after an expired session is dropped
func (r *Registry) OnEvict(fn func(reviewerID string)) {
	r.mu.Lock()
	r.onEvict = append(r.onEvict, fn)
	r.mu.Unlock()
}

// Open returns the reviewer's session, creating an empty one if needed
func (r *Registry) Open(reviewerID string) *ReviewState {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[reviewerID]; ok && !r.expired(s) {
		s.Touch()
		return s
	}
	s := NewReviewState(reviewerID, r.pageSize)
	r.sessions[reviewerID] = s
	if r.logger != nil {
		r.logger.Info("🆕 Review session opened", zap.String("reviewer_id", reviewerID))
	}
	return s
}

// Get returns an active session
func (r *Registry) Get(reviewerID string) (*ReviewState, error) {
	r.mu.RLock()
	s, ok := r.sessions[reviewerID]
	r.mu.RUnlock()

	if !ok {
		return nil, ucerrors.ErrSessionNotFound
	}
	if r.expired(s) {
		r.evict(reviewerID)
		return nil, ucerrors.ErrSessionExpired
	}
	s.Touch()
	return s, nil
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep removes expired sessions and returns how many were dropped
func (r *Registry) Sweep() int {
	r.mu.Lock()
	var evicted []string
	for id, s := range r.sessions {
		if r.expired(s) {
			delete(r.sessions, id)
			evicted = append(evicted, id)
		}
	}
	hooks := r.onEvict
	r.mu.Unlock()

	for _, id := range evicted {
		for _, fn := range hooks {
			fn(id)
		}
	}
	if len(evicted) > 0 && r.logger != nil {
		r.logger.Info("🧹 Expired review sessions removed", zap.Int("count", len(evicted)))
	}
	return len(evicted)
}

// StartJanitor sweeps periodically until ctx is done
func (r *Registry) StartJanitor(ctx context.Context, every time.Duration) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Sweep()
			}
		}
	}()
}

func (r *Registry) expired(s *ReviewState) bool {
	return r.ttl > 0 && time.Since(s.idleSince()) > r.ttl
}

func (r *Registry) evict(reviewerID string) {
	r.mu.Lock()
	delete(r.sessions, reviewerID)
	hooks := r.onEvict
	r.mu.Unlock()

	for _, fn := range hooks {
		fn(reviewerID)
	}
}
