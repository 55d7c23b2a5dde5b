package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bugtrail/bugtrail/internal/auth"
	"github.com/bugtrail/bugtrail/internal/domain"
	"github.com/bugtrail/bugtrail/internal/render"
	"github.com/bugtrail/bugtrail/internal/service"
	apperrors "github.com/bugtrail/bugtrail/pkg/util"
)

const viewerCookieTTL = 30 * 24 * time.Hour

// ViewsHandler serves the HTML ticket pages.
type ViewsHandler struct {
	sessions     *service.ViewSessions
	loader       *service.TicketLoader
	html         *render.HTML
	viewerCookie string
	logger       *zap.Logger
}

// NewViewsHandler constructs handler.
func NewViewsHandler(sessions *service.ViewSessions, loader *service.TicketLoader, html *render.HTML, viewerCookie string, logger *zap.Logger) *ViewsHandler {
	return &ViewsHandler{
		sessions:     sessions,
		loader:       loader,
		html:         html,
		viewerCookie: viewerCookie,
		logger:       logger,
	}
}

// List GET /tickets?type=<mode>.
//
// Retrieval failures were already logged by the loader; the page shows whatever
// the viewer's list holds, which is empty unless the store failed mid-stream.
func (h *ViewsHandler) List(c *fiber.Ctx) error {
	mode, _ := domain.ParseViewMode(c.Query("type"))
	viewer := h.viewerID(c)

	tickets, err := h.sessions.Reload(c.UserContext(), viewer, mode, auth.CurrentUser(c))
	if err != nil && !apperrors.IsCode(err, apperrors.CodeRetrieval) {
		return err
	}

	c.Type("html", "utf-8")
	return h.html.ListPage(c, mode, tickets)
}

// Detail GET /ticket-details/:id.
func (h *ViewsHandler) Detail(c *fiber.Ctx) error {
	ticket, err := h.loader.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if !apperrors.IsCode(err, apperrors.CodeNotFound) {
			return err
		}
		c.Status(fiber.StatusNotFound)
		c.Type("html", "utf-8")
		return h.html.NotFoundPage(c)
	}

	c.Type("html", "utf-8")
	return h.html.DetailPage(c, *ticket)
}

// viewerID returns the browser's viewer id, issuing one on first visit.
func (h *ViewsHandler) viewerID(c *fiber.Ctx) string {
	if id, err := uuid.Parse(c.Cookies(h.viewerCookie)); err == nil {
		return id.String()
	}

	id := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     h.viewerCookie,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(viewerCookieTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	h.logger.Debug("issued viewer id", zap.String("viewer", id))
	return id
}
