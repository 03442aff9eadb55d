package grading

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Q is a minimal view of a question needed for scoring.
type Q struct {
	Prompt      string
	Options     []string
	AnswerIndex int
	Explanation string
}

type Mistake struct {
	Question    string `json:"question"`
	Correct     string `json:"correct"`
	Your        string `json:"your"`
	Explanation string `json:"explanation"`
}

type Report struct {
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	Mistakes   []Mistake `json:"mistakes"`
	Weaknesses string    `json:"weaknesses"`
}

// Score compares answers positionally against the key. answers may be shorter
// than questions; missing entries count as incorrect.
func Score(questions []Q, answers []any) Report {
	rep := Report{Total: len(questions), Mistakes: []Mistake{}}
	missed := []int{}

	for i, q := range questions {
		var given any
		if i < len(answers) {
			given = answers[i]
		}
		idx, ok := looseIndex(given)
		if ok && idx == q.AnswerIndex {
			rep.Score++
			continue
		}
		missed = append(missed, i)
		rep.Mistakes = append(rep.Mistakes, Mistake{
			Question:    q.Prompt,
			Correct:     optionAt(q.Options, q.AnswerIndex, true),
			Your:        optionAt(q.Options, idx, ok),
			Explanation: q.Explanation,
		})
	}

	rep.Weaknesses = weaknesses(questions, missed)
	return rep
}

func optionAt(opts []string, i int, ok bool) string {
	if !ok || i < 0 || i >= len(opts) {
		return ""
	}
	return opts[i]
}

// weaknesses lists the missed questions in order, one review line each.
func weaknesses(questions []Q, missed []int) string {
	if len(missed) == 0 {
		return ""
	}
	lines := lo.Map(missed, func(qi int, n int) string {
		return fmt.Sprintf("%d. Review question %d: %q", n+1, qi+1, questions[qi].Prompt)
	})
	return "Topics to review:\n" + strings.Join(lines, "\n")
}
