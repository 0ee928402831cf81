package models

// Question is a provider-owned quiz question. CorrectAnswer is the index into
// Options and must never reach the client; handlers serve ClientQuestion
// instead.
type Question struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty,omitempty"`
}

// ClientQuestion is the answer-key-free shape sent to quiz takers.
type ClientQuestion struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// QuizContent is a full quiz as served for one subject: metadata plus the
// question set, either AI-generated or from the static bank.
type QuizContent struct {
	Subject     string     `json:"subject"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TimeLimit   int        `json:"timeLimit"` // seconds, advisory client-side countdown
	AIGenerated bool       `json:"isAIGenerated"`
	Questions   []Question `json:"questions"`
}

// SubjectInfo is the catalog entry for GET /assessments/subjects.
type SubjectInfo struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	QuestionCount int    `json:"questionCount"`
	TimeLimit     int    `json:"timeLimit"`
}
