package quiz

import (
	"time"

	"github.com/mind-engage/lecture-quiz/internal/grading"
)

type User struct {
	ID         int64  `json:"id"`
	ExternalID string `json:"external_id"` // chat id
	Name       string `json:"name"`
}

type Quiz struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"user_id"`
	LectureText string    `json:"lecture_text"`
	CreatedAt   time.Time `json:"created_at"`
}

type Question struct {
	ID          int64    `json:"id,omitempty"`
	QuizID      string   `json:"quiz_id"`
	Position    int      `json:"position"`
	Prompt      string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer"`
	Explanation string   `json:"explanation"`
}

// PublicQuestion is what a quiz taker sees: no answer key, no explanation.
type PublicQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

func (q Question) Public() PublicQuestion {
	return PublicQuestion{Question: q.Prompt, Options: q.Options}
}

func (q Question) grading() grading.Q {
	return grading.Q{Prompt: q.Prompt, Options: q.Options, AnswerIndex: q.AnswerIndex, Explanation: q.Explanation}
}

type Result struct {
	ID         int64     `json:"id"`
	QuizID     string    `json:"quiz_id"`
	Answers    []any     `json:"answers"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	Weaknesses string    `json:"weaknesses"`
	CreatedAt  time.Time `json:"created_at"`
}

type Summary struct {
	ID            string    `json:"id"`
	UserID        int64     `json:"user_id"`
	UserName      string    `json:"user_name"`
	QuestionCount int       `json:"question_count"`
	ResultCount   int       `json:"result_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type ListOpts struct {
	Limit  int
	Offset int
}
