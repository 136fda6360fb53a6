package tui

import (
	"strings"

	"charm.land/lipgloss/v2"
)

const (
	minWidth  = 60
	minHeight = 16
)

type keyHint struct {
	Key         string
	Description string
}

func tooSmall(width, height int) bool {
	return width < minWidth || height < minHeight
}

func renderTooSmall(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(colorText).
		Width(width).
		Height(height).
		Render("Terminal too small.\n\nPlease resize the window.")
}

// renderHeader draws a bar with the app name on the left, a title in the
// middle and status text on the right.
func renderHeader(title, status string, width int) string {
	left := titleStyle.Render("  aptiz")
	center := optionStyle.Render(title)
	right := warnStyle.Render(status)

	inner := max(width-4, 0)
	leftGap := max((inner-lipgloss.Width(center))/2-lipgloss.Width(left), 1)
	rightGap := max(inner-lipgloss.Width(left)-leftGap-lipgloss.Width(center)-lipgloss.Width(right), 1)

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
	return barStyle.Width(width).Render(content)
}

func renderFooter(hints []keyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, optionStyle.Bold(true).Render(h.Key)+" "+dimStyle.Render(h.Description))
	}
	return barStyle.Width(width).Render("  " + strings.Join(parts, "   "))
}

// renderFrame stacks header, content and footer to fill height.
func renderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		Padding(1, 2).
		Render(content)
	return header + "\n" + body + "\n" + footer
}
