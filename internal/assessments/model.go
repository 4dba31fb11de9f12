package assessments

import "time"

// CategoryTechnical is the only category produced today; the column exists
// so behavioral/system-design quizzes can land later without a migration.
const CategoryTechnical = "Technical"

// Question is one generated multiple-choice question.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// QuestionResult pairs a question with the caller's answer.
type QuestionResult struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	UserAnswer  string `json:"userAnswer"`
	IsCorrect   bool   `json:"isCorrect"`
	Explanation string `json:"explanation"`
}

// Assessment is a persisted record of one completed quiz attempt. Immutable
// after creation; the score is computed once and never recomputed.
type Assessment struct {
	ID             string           `json:"id"`
	UserID         string           `json:"userId"`
	QuizScore      float64          `json:"quizScore"`
	Questions      []QuestionResult `json:"questions"`
	Category       string           `json:"category"`
	ImprovementTip *string          `json:"improvementTip"`
	CreatedAt      time.Time        `json:"createdAt"`
}
