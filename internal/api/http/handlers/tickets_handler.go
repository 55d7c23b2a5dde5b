package handlers

import (
	"bufio"
	"context"
	"errors"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bugtrail/bugtrail/internal/api/dto"
	"github.com/bugtrail/bugtrail/internal/auth"
	"github.com/bugtrail/bugtrail/internal/domain"
	"github.com/bugtrail/bugtrail/internal/render"
	"github.com/bugtrail/bugtrail/internal/service"
	apperrors "github.com/bugtrail/bugtrail/pkg/util"
)

// TicketsHandler serves the JSON ticket API.
type TicketsHandler struct {
	loader        *service.TicketLoader
	html          *render.HTML
	streamTimeout time.Duration
	logger        *zap.Logger
}

// NewTicketsHandler constructs handler. streamTimeout bounds NDJSON streams, which
// outlive the request context; zero means no bound.
func NewTicketsHandler(loader *service.TicketLoader, html *render.HTML, streamTimeout time.Duration, logger *zap.Logger) *TicketsHandler {
	return &TicketsHandler{loader: loader, html: html, streamTimeout: streamTimeout, logger: logger}
}

// ListTickets GET /api/tickets?type=<mode>.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	mode, _ := domain.ParseViewMode(c.Query("type"))
	tickets, err := h.loader.Collect(c.UserContext(), mode, auth.CurrentUser(c))
	if err != nil {
		return err
	}

	items := make([]dto.TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, dto.NewTicketResponse(t, h.html.DetailHref(t.ID)))
	}
	return c.JSON(dto.TicketListResponse{Mode: mode, Count: len(items), Data: items})
}

// StreamTickets GET /api/tickets/stream?type=<mode>. Writes one JSON ticket per
// line, flushing after each. A retrieval failure ends the stream with an error line.
func (h *TicketsHandler) StreamTickets(c *fiber.Ctx) error {
	mode, _ := domain.ParseViewMode(c.Query("type"))
	user := auth.CurrentUser(c)

	c.Set(fiber.HeaderContentType, "application/x-ndjson")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ctx, cancel := h.streamContext()
		defer cancel()

		enc := json.NewEncoder(w)
		err := h.loader.Load(ctx, mode, user, func(t domain.Ticket) {
			if err := enc.Encode(dto.NewTicketResponse(t, h.html.DetailHref(t.ID))); err != nil {
				cancel()
				return
			}
			if err := w.Flush(); err != nil {
				cancel()
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			domainErr := apperrors.ToDomainError(err)
			_ = enc.Encode(fiber.Map{"error": fiber.Map{
				"code":    domainErr.Code,
				"message": domainErr.Message,
			}})
		}
		_ = w.Flush()
	})
	return nil
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.loader.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(*ticket, h.html.DetailHref(ticket.ID))})
}

func (h *TicketsHandler) streamContext() (context.Context, context.CancelFunc) {
	if h.streamTimeout > 0 {
		return context.WithTimeout(context.Background(), h.streamTimeout)
	}
	return context.WithCancel(context.Background())
}
