package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bugtrail/bugtrail/internal/domain"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	emptyStyle  = lipgloss.NewStyle().Italic(true)
)

// statusColors picks a foreground per status. Unknown statuses keep the default.
var statusColors = map[domain.TicketStatus]lipgloss.Color{
	domain.TicketStatusUnassigned: lipgloss.Color("11"),
	domain.TicketStatusInProgress: lipgloss.Color("12"),
	domain.TicketStatusFixed:      lipgloss.Color("10"),
	domain.TicketStatusFailed:     lipgloss.Color("9"),
}

// Terminal writes the ticket table for a terminal. The title column is followed by
// the ticket id since terminals cannot follow links.
func Terminal(w io.Writer, tickets []domain.Ticket) error {
	if len(tickets) == 0 {
		_, err := fmt.Fprintln(w, emptyStyle.Render(EmptyMessage))
		return err
	}

	rows := make([][]string, 0, len(tickets))
	for i, t := range tickets {
		rows = append(rows, []string{strconv.Itoa(i + 1), t.Title, t.ID, string(t.Status)})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("S.No.", "Issue Title", "ID", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 3 && row >= 0 && row < len(tickets) {
				if color, ok := statusColors[tickets[row].Status]; ok {
					return cellStyle.Foreground(color)
				}
			}
			return cellStyle
		})

	_, err := fmt.Fprintln(w, tbl.String())
	return err
}
