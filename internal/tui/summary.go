package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/aptiz/internal/bank"
	"github.com/abhisek/aptiz/internal/progress"
)

func renderSummary(rec progress.SessionRecord, saveErr error) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Session complete"))
	b.WriteString("\n\n")

	verdict := incorrectStyle.Render("Not passed")
	if rec.Passed {
		verdict = correctStyle.Render("Passed")
	}
	fmt.Fprintf(&b, "%s  %d/%d correct (%.0f%%)\n", verdict, rec.Correct, rec.QuestionCount, rec.Accuracy()*100)
	fmt.Fprintf(&b, "%s %d:%02d", dimStyle.Render("Time"), rec.DurationSec/60, rec.DurationSec%60)
	if rec.Timed {
		b.WriteString(dimStyle.Render(fmt.Sprintf(" of %d:%02d", rec.TimeLimitSec/60, rec.TimeLimitSec%60)))
	}
	b.WriteString("\n\n")

	byTopic := progress.FoldAttributed([]progress.SessionRecord{rec}).ByTopic
	topics := make([]bank.Topic, 0, len(byTopic))
	for t := range byTopic {
		topics = append(topics, t)
	}
	slices.Sort(topics)
	for _, t := range topics {
		ta := byTopic[t]
		fmt.Fprintf(&b, "  %-20s %d/%d\n", t, ta.Correct, ta.Correct+ta.Wrong)
	}

	if saveErr != nil {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render("Could not save this session: " + saveErr.Error()))
	}
	return b.String()
}
