// Package fixtures reads ticket documents from YAML files and writes them to a
// ticket store. It backs the seed command and local development data.
package fixtures

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bugtrail/bugtrail/internal/domain"
	"github.com/bugtrail/bugtrail/internal/repository"
)

type file struct {
	Tickets []record `yaml:"tickets"`
}

type record struct {
	ID          string          `yaml:"id"`
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	ImageURL    string          `yaml:"imageUrl"`
	Priority    string          `yaml:"priority"`
	Status      string          `yaml:"status"`
	Owner       domain.UserRef  `yaml:"owner"`
	Assignee    *domain.UserRef `yaml:"assignee"`
	CreatedAt   string          `yaml:"createdAt"`
}

var knownStatuses = map[domain.TicketStatus]struct{}{
	domain.TicketStatusUnassigned: {},
	domain.TicketStatusInProgress: {},
	domain.TicketStatusFixed:      {},
	domain.TicketStatusFailed:     {},
}

// Read decodes a fixture document. Unknown keys are rejected so typos surface
// instead of silently seeding empty fields.
func Read(r io.Reader) ([]domain.Ticket, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc file
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.Ticket{}, nil
		}
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}

	tickets := make([]domain.Ticket, 0, len(doc.Tickets))
	for i, rec := range doc.Tickets {
		ticket, err := rec.toTicket()
		if err != nil {
			return nil, fmt.Errorf("ticket %d: %w", i+1, err)
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

// ReadFile is Read on the named file.
func ReadFile(path string) ([]domain.Ticket, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Seed inserts tickets in order and returns how many were written before any error.
func Seed(ctx context.Context, w repository.TicketWriter, tickets []domain.Ticket) (int, error) {
	for i := range tickets {
		if err := w.Insert(ctx, &tickets[i]); err != nil {
			return i, fmt.Errorf("insert %q: %w", tickets[i].Title, err)
		}
	}
	return len(tickets), nil
}

func (r record) toTicket() (domain.Ticket, error) {
	if strings.TrimSpace(r.Title) == "" {
		return domain.Ticket{}, errors.New("title is required")
	}

	status := domain.TicketStatus(r.Status)
	if status == "" {
		status = domain.TicketStatusUnassigned
	}
	if _, ok := knownStatuses[status]; !ok {
		return domain.Ticket{}, fmt.Errorf("unknown status %q", r.Status)
	}

	ticket := domain.Ticket{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Priority:    domain.TicketPriority(r.Priority),
		Status:      status,
		Owner:       r.Owner,
		Assignee:    r.Assignee,
	}
	if r.ImageURL != "" {
		url := r.ImageURL
		ticket.ImageURL = &url
	}
	if r.CreatedAt != "" {
		createdAt, err := time.Parse(time.RFC3339, r.CreatedAt)
		if err != nil {
			return domain.Ticket{}, fmt.Errorf("createdAt: %w", err)
		}
		ticket.CreatedAt = createdAt.UTC()
	}
	return ticket, nil
}
