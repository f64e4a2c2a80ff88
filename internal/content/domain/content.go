package domain

// Option is one answer choice of a question
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type Question struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Options     []Option `json:"options"`
	Explanation string   `json:"explanation,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"` // easy, medium or hard
}

// Paper is a quiz made of questions on one subject
type Paper struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Subject   string     `json:"subject"`
	Questions []Question `json:"questions"`
	Duration  int        `json:"duration,omitempty"` // minutes
	CreatedAt string     `json:"createdAt,omitempty"`
	UpdatedAt string     `json:"updatedAt,omitempty"`
}

// Guide is a study guide article
type Guide struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Topic      string `json:"topic"`
	Content    string `json:"content"`
	Difficulty string `json:"difficulty,omitempty"` // beginner, intermediate or advanced
	CreatedAt  string `json:"createdAt,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}

// QuestionHit is a search match annotated with the paper it came from
type QuestionHit struct {
	Question
	Subject    string `json:"subject"`
	PaperTitle string `json:"paperTitle"`
	PaperID    string `json:"paperId"`
}

type SearchResult struct {
	Questions []QuestionHit `json:"questions"`
	Guides    []Guide       `json:"guides"`
}

// MaxSearchQuestions caps SearchResult.Questions
const MaxSearchQuestions = 50
