package grading

import (
	"errors"
	"math"
)

var ErrNoQuestions = errors.New("grading: quiz has no questions")

// Q is a minimal view of a question needed for grading.
type Q struct {
	Prompt       string
	CorrectIndex int
	Explanation  string
}

// Result is the outcome for a single question. Selected is nil when the
// question was left unanswered.
type Result struct {
	Question    string `json:"question"`
	Selected    *int   `json:"selected"`
	Correct     int    `json:"correct"`
	IsCorrect   bool   `json:"isCorrect"`
	Explanation string `json:"explanation,omitempty"`
}

type Outcome struct {
	Score   float64  `json:"score"`
	Correct int      `json:"correct"`
	Total   int      `json:"total"`
	Results []Result `json:"results"`
}

// Grade compares each selected option index with the stored correct index.
// Missing answers count as wrong and surplus answers are ignored; there is
// no partial credit.
func Grade(qs []Q, answers []*int) (Outcome, error) {
	if len(qs) == 0 {
		return Outcome{}, ErrNoQuestions
	}
	out := Outcome{Total: len(qs), Results: make([]Result, len(qs))}
	for i, q := range qs {
		var sel *int
		if i < len(answers) {
			sel = answers[i]
		}
		ok := sel != nil && *sel == q.CorrectIndex
		if ok {
			out.Correct++
		}
		out.Results[i] = Result{
			Question:    q.Prompt,
			Selected:    sel,
			Correct:     q.CorrectIndex,
			IsCorrect:   ok,
			Explanation: q.Explanation,
		}
	}
	out.Score = 100 * float64(out.Correct) / float64(out.Total)
	return out, nil
}

// RunningAverage folds score into an average over n previous scores.
func RunningAverage(avg float64, n int, score float64) float64 {
	if n <= 0 {
		return score
	}
	return (avg*float64(n) + score) / float64(n+1)
}

// Mastery caps an average score at 100.
func Mastery(avg float64) float64 { return math.Min(avg, 100) }
