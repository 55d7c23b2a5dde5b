package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bugtrail/bugtrail/internal/domain"
	apperrors "github.com/bugtrail/bugtrail/pkg/util"
)

const ticketColumns = `id, title, description, image_url, priority, status,
               owner_id, owner_name, assignee_id, assignee_name, created_at`

var errPostgresNotConfigured = errors.New("postgres not configured")

type postgresTicketRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketRepository returns a Postgres-backed ticket store.
func NewPostgresTicketRepository(pool *pgxpool.Pool) TicketStore {
	return &postgresTicketRepository{pool: pool}
}

func (r *postgresTicketRepository) Stream(ctx context.Context, q TicketQuery, fn func(domain.Ticket) error) error {
	if r.pool == nil {
		return errPostgresNotConfigured
	}

	where, args := q.whereClause(func(n int) string { return fmt.Sprintf("$%d", n) })
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC, id DESC`, ticketColumns, where)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return err
		}
		if err := fn(ticket); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *postgresTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if r.pool == nil {
		return nil, errPostgresNotConfigured
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *postgresTicketRepository) Insert(ctx context.Context, ticket *domain.Ticket) error {
	if r.pool == nil {
		return errPostgresNotConfigured
	}
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = time.Now().UTC()
	}

	var assigneeID, assigneeName *string
	if ticket.Assignee != nil {
		assigneeID, assigneeName = &ticket.Assignee.ID, &ticket.Assignee.Name
	}

	const query = `
        INSERT INTO tickets (id, title, description, image_url, priority, status,
                             owner_id, owner_name, assignee_id, assignee_name, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`
	_, err := r.pool.Exec(ctx, query,
		ticket.ID,
		ticket.Title,
		ticket.Description,
		ticket.ImageURL,
		ticket.Priority,
		ticket.Status,
		ticket.Owner.ID,
		ticket.Owner.Name,
		assigneeID,
		assigneeName,
		ticket.CreatedAt,
	)
	return err
}

func scanTicket(row pgx.Row) (domain.Ticket, error) {
	var (
		ticket       domain.Ticket
		assigneeID   *string
		assigneeName *string
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.ImageURL,
		&ticket.Priority,
		&ticket.Status,
		&ticket.Owner.ID,
		&ticket.Owner.Name,
		&assigneeID,
		&assigneeName,
		&ticket.CreatedAt,
	); err != nil {
		return domain.Ticket{}, err
	}
	if assigneeID != nil {
		ticket.Assignee = &domain.UserRef{ID: *assigneeID}
		if assigneeName != nil {
			ticket.Assignee.Name = *assigneeName
		}
	}
	return ticket, nil
}
