package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bugtrail/bugtrail/internal/domain"
	"github.com/bugtrail/bugtrail/internal/repository"
)

// viewSession is one viewer's held ticket list. Only the newest reload may append.
type viewSession struct {
	mu         sync.Mutex
	generation uint64
	tickets    []domain.Ticket
	lastUsed   time.Time
}

// begin clears the list and makes gen current. A gen at or below the current
// generation belongs to a reload that has already been superseded; it is
// refused and the list is left alone.
func (s *viewSession) begin(gen uint64, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = now
	if gen <= s.generation {
		return false
	}
	s.generation = gen
	s.tickets = nil
	return true
}

// beginLocal is begin with the next local generation, used when the shared
// source cannot be reached.
func (s *viewSession) beginLocal(now time.Time) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.tickets = nil
	s.lastUsed = now
	return s.generation
}

func (s *viewSession) append(gen uint64, ticket domain.Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.tickets = append(s.tickets, ticket)
	return true
}

func (s *viewSession) snapshot() []domain.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Ticket, len(s.tickets))
	copy(out, s.tickets)
	return out
}

func (s *viewSession) idle() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// ViewSessions tracks the held list of every active viewer.
type ViewSessions struct {
	loader      *TicketLoader
	generations repository.GenerationSource
	logger      *zap.Logger
	maxSessions int
	idleTimeout time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*viewSession
}

// ViewSessionDependencies bundles collaborators for ViewSessions.
type ViewSessionDependencies struct {
	Loader      *TicketLoader
	Generations repository.GenerationSource
	Logger      *zap.Logger
	MaxSessions int
	// IdleTimeout drops a viewer's list after that long without a reload. Set it
	// to the generation counters' TTL so an expired counter starting over at 1
	// is never mistaken for a superseded reload. Zero keeps lists until evicted.
	IdleTimeout time.Duration
}

// NewViewSessions constructs the session registry.
func NewViewSessions(deps ViewSessionDependencies) *ViewSessions {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	generations := deps.Generations
	if generations == nil {
		generations = repository.NewMemoryGenerations()
	}
	maxSessions := deps.MaxSessions
	if maxSessions <= 0 {
		maxSessions = 1024
	}
	return &ViewSessions{
		loader:      deps.Loader,
		generations: generations,
		logger:      logger,
		maxSessions: maxSessions,
		idleTimeout: deps.IdleTimeout,
		now:         time.Now,
		sessions:    make(map[string]*viewSession),
	}
}

// Reload clears the viewer's list and refills it for mode. Appends from a reload
// that has since been superseded are dropped. The returned slice is the viewer's
// list when this reload finished.
func (v *ViewSessions) Reload(ctx context.Context, viewerID string, mode domain.ViewMode, user *domain.User) ([]domain.Ticket, error) {
	session := v.session(viewerID)

	gen, err := v.generations.Next(ctx, viewerID)
	switch {
	case err != nil:
		// A local bump still orders reloads within this process.
		v.logger.Warn("generation source unavailable", zap.String("viewer", viewerID), zap.Error(err))
		gen = session.beginLocal(v.now())
	case !session.begin(gen, v.now()):
		v.logger.Debug("skipped superseded reload",
			zap.String("viewer", viewerID),
			zap.Uint64("generation", gen))
		return session.snapshot(), nil
	}

	stale := 0
	loadErr := v.loader.Load(ctx, mode, user, func(ticket domain.Ticket) {
		if !session.append(gen, ticket) {
			stale++
		}
	})
	if stale > 0 {
		v.logger.Debug("discarded stale tickets",
			zap.String("viewer", viewerID),
			zap.Uint64("generation", gen),
			zap.Int("count", stale))
	}
	return session.snapshot(), loadErr
}

// held returns the viewer's list without reloading.
func (v *ViewSessions) held(viewerID string) []domain.Ticket {
	v.mu.Lock()
	session, ok := v.sessions[viewerID]
	v.mu.Unlock()
	if !ok {
		return []domain.Ticket{}
	}
	return session.snapshot()
}

// Len reports the number of tracked viewers.
func (v *ViewSessions) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.sessions)
}

func (v *ViewSessions) session(viewerID string) *viewSession {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now()
	if session, ok := v.sessions[viewerID]; ok {
		if v.idleTimeout <= 0 || now.Sub(session.idle()) <= v.idleTimeout {
			return session
		}
		delete(v.sessions, viewerID)
	}
	if len(v.sessions) >= v.maxSessions {
		v.evictOldestLocked()
	}
	session := &viewSession{lastUsed: now}
	v.sessions[viewerID] = session
	return session
}

func (v *ViewSessions) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, session := range v.sessions {
		used := session.idle()
		if oldestID == "" || used.Before(oldest) {
			oldestID, oldest = id, used
		}
	}
	if oldestID != "" {
		delete(v.sessions, oldestID)
		v.generations.Forget(oldestID)
	}
}
