package domain

// PerformanceEntry records one finished quiz attempt
type PerformanceEntry struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Score     int    `json:"score"`
	QuizID    string `json:"quizId"`
	TimeTaken int    `json:"timeTaken"` // seconds
	Timestamp int64  `json:"timestamp"` // unix milliseconds
	Topic     string `json:"topic,omitempty"`
}

type LeaderboardEntry struct {
	ID        string `json:"id,omitempty"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Score     int    `json:"score"`
	Rank      int    `json:"rank,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// LeaderboardSize is how many entries the leaderboard keeps
const LeaderboardSize = 10

// Practice activity defaults
const (
	DefaultActivityTitle = "Practice Session"
	PracticePath         = "/practice"
	ActivityTypeQuiz     = "quiz"
)
