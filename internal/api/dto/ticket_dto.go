package dto

import (
	"time"

	"github.com/bugtrail/bugtrail/internal/domain"
)

// UserRefResponse is an embedded owner or assignee reference.
type UserRefResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TicketResponse is the API shape of a ticket.
type TicketResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	ImageURL    *string               `json:"imageUrl"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus   `json:"status"`
	Owner       UserRefResponse       `json:"owner"`
	Assignee    *UserRefResponse      `json:"assignee"`
	CreatedAt   time.Time             `json:"createdAt"`
	DetailURL   string                `json:"detailUrl"`
}

// TicketListResponse wraps a filtered list.
type TicketListResponse struct {
	Mode  domain.ViewMode  `json:"mode"`
	Count int              `json:"count"`
	Data  []TicketResponse `json:"data"`
}

// NewTicketResponse maps a domain ticket. detailURL is the navigation target for it.
func NewTicketResponse(ticket domain.Ticket, detailURL string) TicketResponse {
	resp := TicketResponse{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		ImageURL:    ticket.ImageURL,
		Priority:    ticket.Priority,
		Status:      ticket.Status,
		Owner:       UserRefResponse{ID: ticket.Owner.ID, Name: ticket.Owner.Name},
		CreatedAt:   ticket.CreatedAt,
		DetailURL:   detailURL,
	}
	if ticket.Assignee != nil {
		resp.Assignee = &UserRefResponse{ID: ticket.Assignee.ID, Name: ticket.Assignee.Name}
	}
	return resp
}
