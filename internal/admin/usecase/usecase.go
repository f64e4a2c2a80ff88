package usecase

import (
	"context"
	"encoding/json"

	authdomain "examprep-backend/internal/auth/domain"
	contentdomain "examprep-backend/internal/content/domain"
	"examprep-backend/pkg/apperror"
)

// Errors returned by AdminUsecase
var (
	ErrUserNotFound  = apperror.New(apperror.KindNotFound, "User not found", "No user with that id")
	ErrPaperNotFound = apperror.New(apperror.KindNotFound, "Paper not found", "No paper with that id")
	ErrGuideNotFound = apperror.New(apperror.KindNotFound, "Guide not found", "No guide with that id")
	ErrInvalidBody   = apperror.New(apperror.KindValidation, "Validation failed", "Request body must be a JSON object")
)

// Stats counts the stored content
type Stats struct {
	Users     int `json:"users"`
	Papers    int `json:"papers"`
	Questions int `json:"questions"`
	Guides    int `json:"guides"`
}

// AdminUsecase defines the back-office operations. Save operations take a
// partial JSON object: fields present overwrite the stored record, absent
// ones are kept. An unknown or empty id creates a new record.
type AdminUsecase interface {
	Stats(ctx context.Context) Stats

	ListUsers(ctx context.Context) []authdomain.Profile
	SaveUser(ctx context.Context, id string, patch json.RawMessage) (*authdomain.Profile, error)
	UpdateSubscription(ctx context.Context, id string, status authdomain.SubscriptionStatus) (*authdomain.Profile, error)
	DeleteUser(ctx context.Context, id string) error

	ListPapers(ctx context.Context) []contentdomain.Paper
	SavePaper(ctx context.Context, id string, patch json.RawMessage) (*contentdomain.Paper, error)
	SaveQuestion(ctx context.Context, paperID string, patch json.RawMessage) (*contentdomain.Paper, error)
	DeletePaper(ctx context.Context, id string) error

	ListGuides(ctx context.Context) []contentdomain.Guide
	SaveGuide(ctx context.Context, id string, patch json.RawMessage) (*contentdomain.Guide, error)
	DeleteGuide(ctx context.Context, id string) error
}

// PasswordHasher hashes passwords set through the back office
type PasswordHasher interface {
	Hash(password string) (string, error)
}
