package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/bugtrail/bugtrail/internal/domain"
	"github.com/bugtrail/bugtrail/internal/observability"
	"github.com/bugtrail/bugtrail/internal/repository"
	apperrors "github.com/bugtrail/bugtrail/pkg/util"
)

// ticketPredicate decides whether a ticket belongs to a view. user is non-nil for
// modes that need one.
type ticketPredicate func(ticket domain.Ticket, user *domain.User) bool

var viewPredicates = map[domain.ViewMode]ticketPredicate{
	domain.ViewAll: func(domain.Ticket, *domain.User) bool {
		return true
	},
	domain.ViewMine: func(t domain.Ticket, u *domain.User) bool {
		return t.Owner.ID == u.ID
	},
	domain.ViewAssignedToMe: func(t domain.Ticket, u *domain.User) bool {
		return t.Status != domain.TicketStatusFixed && t.AssigneeID() == u.ID
	},
	domain.ViewUnassigned: statusIs(domain.TicketStatusUnassigned),
	domain.ViewFixed:      statusIs(domain.TicketStatusFixed),
	domain.ViewFailed:     statusIs(domain.TicketStatusFailed),
}

func statusIs(status domain.TicketStatus) ticketPredicate {
	return func(t domain.Ticket, _ *domain.User) bool {
		return t.Status == status
	}
}

// matches reports whether ticket is shown in the given view for user.
func matches(mode domain.ViewMode, user *domain.User, ticket domain.Ticket) bool {
	match, ok := viewPredicates[mode]
	if !ok {
		return false
	}
	if mode.NeedsUser() && !signedIn(user) {
		return false
	}
	return match(ticket, user)
}

func signedIn(user *domain.User) bool {
	return user != nil && user.ID != ""
}

// TicketLoader fetches the ticket collection and filters it for a view.
type TicketLoader struct {
	tickets  repository.TicketRepository
	logger   *zap.Logger
	metrics  *observability.Metrics
	pushdown bool
}

// LoaderDependencies bundles collaborators for the loader.
type LoaderDependencies struct {
	TicketRepo repository.TicketRepository
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	// Pushdown asks the store to pre-filter. Results are identical either way.
	Pushdown bool
}

// NewTicketLoader constructs the loader.
func NewTicketLoader(deps LoaderDependencies) *TicketLoader {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketLoader{
		tickets:  deps.TicketRepo,
		logger:   logger,
		metrics:  deps.Metrics,
		pushdown: deps.Pushdown,
	}
}

// Load streams the tickets visible in mode to emit, newest first. Unknown modes,
// and user-scoped modes without a user, emit nothing and never touch the store.
// A store failure is logged and returned as a RETRIEVAL_FAILED error; tickets
// emitted before the failure stay emitted.
func (l *TicketLoader) Load(ctx context.Context, mode domain.ViewMode, user *domain.User, emit func(domain.Ticket)) error {
	match, ok := viewPredicates[mode]
	if !ok {
		return nil
	}
	if mode.NeedsUser() && !signedIn(user) {
		return nil
	}

	var query repository.TicketQuery
	if l.pushdown {
		query, _ = repository.QueryForMode(mode, user)
	}

	emitted := 0
	err := l.tickets.Stream(ctx, query, func(ticket domain.Ticket) error {
		if match(ticket, user) {
			emit(ticket)
			emitted++
		}
		return nil
	})
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			// The caller went away; the store did nothing wrong.
			l.logger.Debug("ticket load cancelled",
				zap.String("mode", string(mode)),
				zap.Int("emitted", emitted))
			return ctx.Err()
		}
		l.logger.Error("error getting tickets",
			zap.String("mode", string(mode)),
			zap.Int("emitted", emitted),
			zap.Error(err))
		l.metrics.RecordLoad(string(mode), emitted, true)
		return apperrors.NewRetrievalError(err, map[string]any{"mode": string(mode)})
	}

	l.metrics.RecordLoad(string(mode), emitted, false)
	return nil
}

// Collect runs Load and gathers the result. The slice is never nil.
func (l *TicketLoader) Collect(ctx context.Context, mode domain.ViewMode, user *domain.User) ([]domain.Ticket, error) {
	tickets := []domain.Ticket{}
	err := l.Load(ctx, mode, user, func(ticket domain.Ticket) {
		tickets = append(tickets, ticket)
	})
	return tickets, err
}

// Get returns a single ticket for the detail view.
func (l *TicketLoader) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := l.tickets.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return nil, err
		}
		l.logger.Error("error getting ticket", zap.String("ticket_id", id), zap.Error(err))
		return nil, apperrors.NewRetrievalError(err, map[string]any{"id": id})
	}
	return ticket, nil
}
