package tui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// renderOptions lists the options of a question. Once answered, the
// correct option is green and a wrong choice red.
func renderOptions(options []string, selected, chosen, correct int, answered bool) string {
	var b strings.Builder
	for i, opt := range options {
		prefix := "  "
		if i == selected && !answered {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%c)  %s", prefix, 'A'+i, opt)

		style := optionStyle
		switch {
		case answered && i == correct:
			style = correctStyle
		case answered && i == chosen:
			style = incorrectStyle
		case answered:
			style = dimStyle
		case i == selected:
			style = selectedStyle
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// renderTimeBar draws the fraction of time left as a bar followed by the
// remaining mm:ss.
func renderTimeBar(remaining, total, width int) string {
	if total <= 0 {
		return ""
	}
	label := fmt.Sprintf("  %d:%02d", remaining/60, remaining%60)
	barWidth := max(width-lipgloss.Width(label), 4)

	frac := float64(remaining) / float64(total)
	filled := min(max(int(float64(barWidth)*frac), 0), barWidth)

	fill := colorSecondary
	if frac < 0.2 {
		fill = colorError
	}
	return lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(colorBorder).Render(strings.Repeat(" ", barWidth-filled)) +
		dimStyle.Render(label)
}

// renderLives shows remaining wrong answers in a challenge.
func renderLives(wrong, maxWrong int) string {
	if maxWrong <= 0 {
		return ""
	}
	left := max(maxWrong-wrong, 0)
	return strings.Repeat("♥", left) + strings.Repeat("♡", maxWrong-left)
}
