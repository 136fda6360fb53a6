package session

// Outcome is the scorer's verdict after one answer.
type Outcome struct {
	Score    int
	Wrong    int
	Finished bool
}

// Score folds one answer into the running totals. maxWrong <= 0 disables
// elimination; otherwise the outcome is finished once wrong reaches
// maxWrong.
func Score(score, wrong int, correct bool, maxWrong int) Outcome {
	if correct {
		score++
	} else {
		wrong++
	}
	return Outcome{
		Score:    score,
		Wrong:    wrong,
		Finished: maxWrong > 0 && wrong >= maxWrong,
	}
}
