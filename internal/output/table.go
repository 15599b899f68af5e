package output

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/intakehq/intake/internal/core"
)

// TableFormatter renders feedback as an ASCII table.
type TableFormatter struct{}

// FormatFeedback renders a feedback listing as a table.
func (f *TableFormatter) FormatFeedback(items []core.Feedback) (string, error) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"ID", "Rating", "Category", "Status", "Priority", "Created", "Message"})

	for _, item := range items {
		priority := string(item.Priority)
		if priority == "" {
			priority = "-"
		}
		t.AppendRow(table.Row{
			item.ID.String(),
			item.Rating,
			string(item.Category),
			string(item.Status),
			priority,
			item.CreatedAt.Format("2006-01-02 15:04"),
			truncate(item.Message, 48),
		})
	}

	if len(items) > 0 {
		t.AppendFooter(table.Row{
			"", "", "", "", "", "",
			fmt.Sprintf("%d item(s)", len(items)),
		})
	}

	return t.Render(), nil
}
