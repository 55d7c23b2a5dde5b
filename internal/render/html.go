// Package render turns ticket lists into HTML pages and terminal tables.
package render

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/flosch/pongo2/v6"

	"github.com/bugtrail/bugtrail/internal/domain"
)

// EmptyMessage is shown instead of a table when no ticket matches.
const EmptyMessage = "No tickets found"

// TableRow is one rendered line of the ticket table.
type TableRow struct {
	Number int
	Title  string
	Href   string
	Status string
}

// NavLink is an entry of the view-mode menu.
type NavLink struct {
	Label  string
	Href   string
	Active bool
}

// HTML renders ticket views. It holds only parsed templates.
type HTML struct {
	appName  string
	basePath string
	table    *pongo2.Template
	page     *pongo2.Template
	detail   *pongo2.Template
	notFound *pongo2.Template
}

// NewHTML parses the templates. basePath prefixes every generated link.
func NewHTML(appName, basePath string) (*HTML, error) {
	h := &HTML{appName: appName, basePath: basePath}
	var err error
	if h.table, err = parse("table", tableSource); err != nil {
		return nil, err
	}
	if h.page, err = parse("page", pageSource); err != nil {
		return nil, err
	}
	if h.detail, err = parse("detail", detailSource); err != nil {
		return nil, err
	}
	if h.notFound, err = parse("not_found", notFoundSource); err != nil {
		return nil, err
	}
	return h, nil
}

func parse(name, src string) (*pongo2.Template, error) {
	tpl, err := pongo2.FromString(src)
	if err != nil {
		return nil, fmt.Errorf("parse %s template: %w", name, err)
	}
	return tpl, nil
}

// DetailHref is the navigation target for a ticket title.
func (h *HTML) DetailHref(id string) string {
	return h.basePath + "/ticket-details/" + url.PathEscape(id)
}

// ListHref links to the list view for mode.
func (h *HTML) ListHref(mode domain.ViewMode) string {
	return h.basePath + "/tickets?type=" + url.QueryEscape(string(mode))
}

// Rows numbers tickets from 1 in the given order.
func (h *HTML) Rows(tickets []domain.Ticket) []TableRow {
	rows := make([]TableRow, 0, len(tickets))
	for i, t := range tickets {
		rows = append(rows, TableRow{
			Number: i + 1,
			Title:  t.Title,
			Href:   h.DetailHref(t.ID),
			Status: string(t.Status),
		})
	}
	return rows
}

// Table writes the ticket table, or the empty-state message when tickets is empty.
func (h *HTML) Table(w io.Writer, tickets []domain.Ticket) error {
	return h.table.ExecuteWriter(pongo2.Context{
		"rows":  h.Rows(tickets),
		"empty": EmptyMessage,
	}, w)
}

// ListPage writes a full document around the ticket table.
func (h *HTML) ListPage(w io.Writer, mode domain.ViewMode, tickets []domain.Ticket) error {
	var content bytes.Buffer
	if err := h.Table(&content, tickets); err != nil {
		return err
	}
	return h.layout(w, "View Tickets", mode, content.String())
}

// DetailPage writes the page for a single ticket.
func (h *HTML) DetailPage(w io.Writer, ticket domain.Ticket) error {
	assignee := "Unassigned"
	if ticket.Assignee != nil {
		assignee = ticket.Assignee.Name
		if assignee == "" {
			assignee = ticket.Assignee.ID
		}
	}
	image := ""
	if ticket.ImageURL != nil {
		image = *ticket.ImageURL
	}

	var content bytes.Buffer
	err := h.detail.ExecuteWriter(pongo2.Context{
		"ticket":     ticket,
		"image":      image,
		"assignee":   assignee,
		"created":    ticket.CreatedAt.Format("Jan 2, 2006 15:04 MST"),
		"createdISO": ticket.CreatedAt.Format(time.RFC3339),
		"back":       h.ListHref(domain.ViewAll),
	}, &content)
	if err != nil {
		return err
	}
	return h.layout(w, ticket.Title, "", content.String())
}

// NotFoundPage writes the page for an unknown ticket id.
func (h *HTML) NotFoundPage(w io.Writer) error {
	var content bytes.Buffer
	if err := h.notFound.ExecuteWriter(pongo2.Context{"back": h.ListHref(domain.ViewAll)}, &content); err != nil {
		return err
	}
	return h.layout(w, "Ticket not found", "", content.String())
}

func (h *HTML) layout(w io.Writer, title string, active domain.ViewMode, content string) error {
	nav := make([]NavLink, 0, len(domain.ViewModes))
	for _, mode := range domain.ViewModes {
		nav = append(nav, NavLink{Label: modeLabel(mode), Href: h.ListHref(mode), Active: mode == active})
	}
	return h.page.ExecuteWriter(pongo2.Context{
		"title":   title,
		"app":     h.appName,
		"nav":     nav,
		"content": content,
	}, w)
}

func modeLabel(mode domain.ViewMode) string {
	switch mode {
	case domain.ViewAll:
		return "All Tickets"
	case domain.ViewMine:
		return "My Tickets"
	case domain.ViewAssignedToMe:
		return "Assigned To Me"
	case domain.ViewUnassigned:
		return "Unassigned"
	case domain.ViewFixed:
		return "Fixed"
	case domain.ViewFailed:
		return "Failed"
	}
	return strconv.Quote(string(mode))
}
