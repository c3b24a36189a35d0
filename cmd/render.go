package cmd

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/homestead/internal/compat"
)

const noticeWidth = 80

var noticeHeadingStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FF8787"))

// renderNotice renders a blocked gate result for the terminal. The gate only
// builds the string; all terminal concerns stay on this side of the boundary.
func renderNotice(res compat.Result) string {
	heading := noticeHeadingStyle.Render("Manifest incompatible with this homestead release")
	body := wordwrap.String(res.Message, noticeWidth)
	return heading + "\n\n" + body
}
