package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/bugtrail/bugtrail/internal/domain"
	apperrors "github.com/bugtrail/bugtrail/pkg/util"
)

// sqliteTicketRepository keeps each ticket as a JSON document. The indexed columns
// duplicate the fields the view modes filter on.
type sqliteTicketRepository struct {
	db *sql.DB
}

// NewSQLiteTicketRepository returns a ticket store over an embedded SQLite database.
func NewSQLiteTicketRepository(db *sql.DB) TicketStore {
	return &sqliteTicketRepository{db: db}
}

func (r *sqliteTicketRepository) Stream(ctx context.Context, q TicketQuery, fn func(domain.Ticket) error) error {
	where, args := q.whereClause(func(int) string { return "?" })
	query := fmt.Sprintf(`SELECT id, body FROM tickets WHERE %s ORDER BY created_at DESC, id DESC`, where)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return err
		}
		ticket, err := decodeTicketDocument(id, body)
		if err != nil {
			return err
		}
		if err := fn(ticket); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *sqliteTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	var body string
	err := r.db.QueryRowContext(ctx, `SELECT body FROM tickets WHERE id = ?`, id).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, err
	}
	ticket, err := decodeTicketDocument(id, body)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *sqliteTicketRepository) Insert(ctx context.Context, ticket *domain.Ticket) error {
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = time.Now().UTC()
	}

	body, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("encode ticket %s: %w", ticket.ID, err)
	}

	var assigneeID *string
	if id := ticket.AssigneeID(); id != "" {
		assigneeID = &id
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO tickets (id, created_at, status, owner_id, assignee_id, body) VALUES (?, ?, ?, ?, ?, ?)`,
		ticket.ID,
		ticket.CreatedAt.UnixNano(),
		string(ticket.Status),
		ticket.Owner.ID,
		assigneeID,
		string(body),
	)
	return err
}

func decodeTicketDocument(id, body string) (domain.Ticket, error) {
	var ticket domain.Ticket
	if err := json.Unmarshal([]byte(body), &ticket); err != nil {
		return domain.Ticket{}, fmt.Errorf("decode ticket %s: %w", id, err)
	}
	ticket.ID = id
	return ticket, nil
}
