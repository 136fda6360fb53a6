package session

import "testing"

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		score    int
		wrong    int
		correct  bool
		maxWrong int
		want     Outcome
	}{
		{"correct no elimination", 2, 1, true, 0, Outcome{Score: 3, Wrong: 1}},
		{"wrong no elimination", 2, 9, false, 0, Outcome{Score: 2, Wrong: 10}},
		{"wrong below budget", 0, 1, false, 3, Outcome{Score: 0, Wrong: 2}},
		{"wrong reaches budget", 4, 2, false, 3, Outcome{Score: 4, Wrong: 3, Finished: true}},
		{"correct at budget edge", 4, 2, true, 3, Outcome{Score: 5, Wrong: 2}},
		{"already over budget", 1, 5, true, 3, Outcome{Score: 2, Wrong: 5, Finished: true}},
		{"negative budget disables", 0, 7, false, -1, Outcome{Score: 0, Wrong: 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.score, tt.wrong, tt.correct, tt.maxWrong)
			if got != tt.want {
				t.Errorf("Score(%d, %d, %v, %d) = %+v, want %+v",
					tt.score, tt.wrong, tt.correct, tt.maxWrong, got, tt.want)
			}
			if again := Score(tt.score, tt.wrong, tt.correct, tt.maxWrong); again != got {
				t.Errorf("Score is not deterministic: %+v then %+v", got, again)
			}
		})
	}
}
