package tui

import (
	"time"

	"github.com/abhisek/aptiz/internal/progress"
)

// tickMsg drives the practice countdown once per second.
type tickMsg time.Time

// matchDoneMsg ends the challenge matching pause.
type matchDoneMsg struct{}

// finishedMsg carries the archived record of a finished session.
type finishedMsg struct {
	Record progress.SessionRecord
	Err    error
}

// explanationMsg carries an explanation requested for the last answer.
type explanationMsg struct {
	ItemID string
	Text   string
	Err    error
}
