package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusUnassigned TicketStatus = "unassigned"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusFixed      TicketStatus = "fixed"
	TicketStatusFailed     TicketStatus = "failed"
)

// TicketPriority enumerates urgency. Values outside the known set are kept as-is.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

// UserRef is the embedded {id, name} reference stored on a ticket.
type UserRef struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Ticket is the read-only projection of a stored ticket document.
type Ticket struct {
	ID          string         `json:"id" yaml:"id"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description" yaml:"description"`
	ImageURL    *string        `json:"imageUrl" yaml:"imageUrl"`
	Priority    TicketPriority `json:"priority" yaml:"priority"`
	Status      TicketStatus   `json:"status" yaml:"status"`
	Owner       UserRef        `json:"owner" yaml:"owner"`
	Assignee    *UserRef       `json:"assignee" yaml:"assignee"`
	CreatedAt   time.Time      `json:"createdAt" yaml:"createdAt"`
}

// AssigneeID returns the assignee id, or "" when the ticket is unassigned.
func (t Ticket) AssigneeID() string {
	if t.Assignee == nil {
		return ""
	}
	return t.Assignee.ID
}
