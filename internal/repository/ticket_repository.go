package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/bugtrail/bugtrail/internal/domain"
)

// TicketQuery narrows a ticket scan on the store side. The zero value selects
// every ticket.
type TicketQuery struct {
	Status        *domain.TicketStatus
	ExcludeStatus *domain.TicketStatus
	OwnerID       *string
	AssigneeID    *string
}

// TicketRepository reads ticket documents.
type TicketRepository interface {
	// Stream calls fn for each ticket matching q, newest first by creation time.
	// Iteration stops at the first error returned by fn.
	Stream(ctx context.Context, q TicketQuery, fn func(domain.Ticket) error) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
}

// TicketWriter stores ticket documents. Used by seeding tools only.
type TicketWriter interface {
	Insert(ctx context.Context, ticket *domain.Ticket) error
}

// TicketStore is a readable and writable ticket collection.
type TicketStore interface {
	TicketRepository
	TicketWriter
}

// QueryForMode returns the store-side equivalent of a view mode's predicate.
// Modes that need a user and get none produce ok=false: nothing can match.
func QueryForMode(mode domain.ViewMode, user *domain.User) (TicketQuery, bool) {
	var q TicketQuery
	switch mode {
	case domain.ViewAll:
	case domain.ViewMine:
		if user == nil {
			return q, false
		}
		q.OwnerID = strPtr(user.ID)
	case domain.ViewAssignedToMe:
		if user == nil {
			return q, false
		}
		q.AssigneeID = strPtr(user.ID)
		q.ExcludeStatus = statusPtr(domain.TicketStatusFixed)
	case domain.ViewUnassigned:
		q.Status = statusPtr(domain.TicketStatusUnassigned)
	case domain.ViewFixed:
		q.Status = statusPtr(domain.TicketStatusFixed)
	case domain.ViewFailed:
		q.Status = statusPtr(domain.TicketStatusFailed)
	default:
		return q, false
	}
	return q, true
}

// whereClause renders q as SQL, numbering parameters through placeholder.
func (q TicketQuery) whereClause(placeholder func(n int) string) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if q.Status != nil {
		args = append(args, string(*q.Status))
		clauses = append(clauses, fmt.Sprintf("status = %s", placeholder(len(args))))
	}
	if q.ExcludeStatus != nil {
		args = append(args, string(*q.ExcludeStatus))
		clauses = append(clauses, fmt.Sprintf("status <> %s", placeholder(len(args))))
	}
	if q.OwnerID != nil {
		args = append(args, *q.OwnerID)
		clauses = append(clauses, fmt.Sprintf("owner_id = %s", placeholder(len(args))))
	}
	if q.AssigneeID != nil {
		args = append(args, *q.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("assignee_id = %s", placeholder(len(args))))
	}

	return strings.Join(clauses, " AND "), args
}

func strPtr(s string) *string { return &s }

func statusPtr(s domain.TicketStatus) *domain.TicketStatus { return &s }
