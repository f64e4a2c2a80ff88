package usecase

import (
	"context"

	authdomain "examprep-backend/internal/auth/domain"
	"examprep-backend/internal/practice/domain"
)

// SavePerformanceRequest is a finished quiz attempt
type SavePerformanceRequest struct {
	Score     *int   `json:"score" binding:"required,gte=0,lte=100"`
	QuizID    string `json:"quizId" binding:"required"`
	TimeTaken int    `json:"timeTaken" binding:"required,gte=1"`
	Topic     string `json:"topic"`
}

// SubmitScoreRequest is a leaderboard submission
type SubmitScoreRequest struct {
	UserID   string `json:"userId" binding:"required"`
	UserName string `json:"userName" binding:"required,min=2,max=100"`
	Score    *int   `json:"score" binding:"required,gte=0,lte=100"`
}

// PracticeUsecase defines performance tracking and leaderboard logic
type PracticeUsecase interface {
	// SavePerformance logs an attempt and advances the user's streak
	SavePerformance(ctx context.Context, identity *authdomain.TokenPayload, req *SavePerformanceRequest) (*domain.PerformanceEntry, error)

	// ListPerformance returns the caller's attempts
	ListPerformance(ctx context.Context, identity *authdomain.TokenPayload) ([]domain.PerformanceEntry, error)

	// Leaderboard returns the stored top scores
	Leaderboard(ctx context.Context) []domain.LeaderboardEntry

	// SubmitScore inserts a score and keeps the best LeaderboardSize
	SubmitScore(ctx context.Context, req *SubmitScoreRequest) ([]domain.LeaderboardEntry, error)
}

// PaperTitler resolves quiz ids to display titles
type PaperTitler interface {
	PaperTitle(ctx context.Context, paperID string) string
}
