package service

import (
	"context"
	"errors"
	"sync"

	"github.com/bugtrail/bugtrail/internal/domain"
	"github.com/bugtrail/bugtrail/internal/repository"
	apperrors "github.com/bugtrail/bugtrail/pkg/util"
)

// fakeTicketRepo serves tickets from memory in the order given, which tests keep
// newest first.
type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets []domain.Ticket
	err     error
	// failAfter emits that many tickets before returning err; negative fails up front.
	failAfter int
	// honorQuery filters by the TicketQuery like a real store would.
	honorQuery bool

	streams int
	queries []repository.TicketQuery
}

func newFakeRepo(tickets ...domain.Ticket) *fakeTicketRepo {
	return &fakeTicketRepo{tickets: tickets, failAfter: -1}
}

func (r *fakeTicketRepo) Stream(ctx context.Context, q repository.TicketQuery, fn func(domain.Ticket) error) error {
	r.mu.Lock()
	r.streams++
	r.queries = append(r.queries, q)
	r.mu.Unlock()

	if r.err != nil && r.failAfter < 0 {
		return r.err
	}
	for i, ticket := range r.tickets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.err != nil && i == r.failAfter {
			return r.err
		}
		if r.honorQuery && !queryMatches(q, ticket) {
			continue
		}
		if err := fn(ticket); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.tickets {
		if r.tickets[i].ID == id {
			ticket := r.tickets[i]
			return &ticket, nil
		}
	}
	return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
}

func (r *fakeTicketRepo) streamCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.streams
}

func queryMatches(q repository.TicketQuery, t domain.Ticket) bool {
	if q.Status != nil && t.Status != *q.Status {
		return false
	}
	if q.ExcludeStatus != nil && t.Status == *q.ExcludeStatus {
		return false
	}
	if q.OwnerID != nil && t.Owner.ID != *q.OwnerID {
		return false
	}
	if q.AssigneeID != nil && t.AssigneeID() != *q.AssigneeID {
		return false
	}
	return true
}

type failingGenerations struct{}

func (failingGenerations) Next(context.Context, string) (uint64, error) {
	return 0, errors.New("redis: connection refused")
}

func (failingGenerations) Forget(string) {}

// scriptedGenerations hands out a fixed sequence, letting tests reorder how
// concurrent reloads receive their numbers. It also tracks live counters.
type scriptedGenerations struct {
	mu   sync.Mutex
	next []uint64
	live map[string]bool
}

func newScriptedGenerations(next ...uint64) *scriptedGenerations {
	return &scriptedGenerations{next: next, live: make(map[string]bool)}
}

func (g *scriptedGenerations) Next(_ context.Context, viewerID string) (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.next) == 0 {
		return 0, errors.New("script exhausted")
	}
	gen := g.next[0]
	g.next = g.next[1:]
	g.live[viewerID] = true
	return gen, nil
}

func (g *scriptedGenerations) Forget(viewerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.live, viewerID)
}

func (g *scriptedGenerations) liveCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.live)
}
