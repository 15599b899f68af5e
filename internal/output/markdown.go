package output

import (
	"fmt"
	"strings"

	"github.com/intakehq/intake/internal/core"
)

// MarkdownFormatter renders feedback as a markdown table.
type MarkdownFormatter struct{}

// FormatFeedback renders a feedback listing as Markdown.
func (f *MarkdownFormatter) FormatFeedback(items []core.Feedback) (string, error) {
	var sb strings.Builder
	sb.WriteString("## Feedback\n\n")
	sb.WriteString("| ID | Rating | Category | Status | Priority | Created | Message |\n")
	sb.WriteString("|----|--------|----------|--------|----------|---------|--------|\n")

	for _, item := range items {
		priority := string(item.Priority)
		if priority == "" {
			priority = "-"
		}
		sb.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s | %s | %s |\n",
			item.ID.String(),
			item.Rating,
			escapeMarkdownCell(string(item.Category)),
			escapeMarkdownCell(string(item.Status)),
			escapeMarkdownCell(priority),
			item.CreatedAt.Format("2006-01-02 15:04"),
			escapeMarkdownCell(truncate(item.Message, 80)),
		))
	}

	sb.WriteString(fmt.Sprintf("\n**Total**: %d\n", len(items)))
	return sb.String(), nil
}

func escapeMarkdownCell(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}
