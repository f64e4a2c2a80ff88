package usecase

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	authdomain "examprep-backend/internal/auth/domain"
	authrepo "examprep-backend/internal/auth/repository"
	"examprep-backend/internal/practice/domain"
	"examprep-backend/internal/practice/repository"
	"examprep-backend/internal/practice/streak"
	"examprep-backend/pkg/apperror"
	"examprep-backend/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrAuthenticationRequired = apperror.New(apperror.KindUnauthorized, "Unauthorized", "Authentication required")

// practiceUsecase implements PracticeUsecase interface
type practiceUsecase struct {
	performance repository.PerformanceRepository
	leaderboard repository.LeaderboardRepository
	users       authrepo.UserRepository
	papers      PaperTitler
	location    *time.Location
	logger      *zap.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
}

type Option func(*practiceUsecase)

func WithClock(now func() time.Time) Option {
	return func(u *practiceUsecase) { u.now = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(u *practiceUsecase) { u.metrics = m }
}

// NewPracticeUsecase creates a practiceUsecase. Streak dates are taken in loc.
func NewPracticeUsecase(
	performance repository.PerformanceRepository,
	leaderboard repository.LeaderboardRepository,
	users authrepo.UserRepository,
	papers PaperTitler,
	loc *time.Location,
	logger *zap.Logger,
	opts ...Option,
) PracticeUsecase {
	if loc == nil {
		loc = time.UTC
	}
	u := &practiceUsecase{
		performance: performance,
		leaderboard: leaderboard,
		users:       users,
		papers:      papers,
		location:    loc,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *practiceUsecase) SavePerformance(ctx context.Context, identity *authdomain.TokenPayload, req *SavePerformanceRequest) (*domain.PerformanceEntry, error) {
	if identity == nil || identity.ID == "" {
		return nil, ErrAuthenticationRequired
	}

	now := u.now()
	entry := domain.PerformanceEntry{
		ID:        uuid.NewString(),
		UserID:    identity.ID,
		QuizID:    strings.TrimSpace(req.QuizID),
		TimeTaken: req.TimeTaken,
		Timestamp: now.UnixMilli(),
		Topic:     strings.TrimSpace(req.Topic),
	}
	if req.Score != nil {
		entry.Score = *req.Score
	}

	// The entry is stored only once the user write has succeeded
	if err := u.advanceStreak(ctx, identity.ID, entry.QuizID, now); err != nil {
		return nil, err
	}

	log, err := u.performance.List(ctx)
	if err != nil {
		u.logger.Error("failed to read performance log", zap.Error(err))
		return nil, apperror.Internal("Failed to save performance data", err)
	}
	log = append(log, entry)
	if err := u.performance.ReplaceAll(ctx, log); err != nil {
		u.logger.Error("failed to write performance log", zap.Error(err))
		return nil, apperror.Internal("Failed to save performance data", err)
	}
	u.metrics.PracticeSaved()
	return &entry, nil
}

func (u *practiceUsecase) advanceStreak(ctx context.Context, userID, quizID string, now time.Time) error {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		u.logger.Error("failed to read users", zap.Error(err))
		return apperror.Internal("Failed to update practice streak", err)
	}
	if user == nil {
		// the account was removed after the token was issued
		return nil
	}

	title := u.papers.PaperTitle(ctx, quizID)
	if title == "" {
		title = domain.DefaultActivityTitle
	}
	activity := authdomain.RecentActivity{
		ID:        "practice-" + strconv.FormatInt(now.UnixMilli(), 10),
		Title:     title,
		Path:      domain.PracticePath,
		Type:      domain.ActivityTypeQuiz,
		Timestamp: now.UnixMilli(),
	}

	streak.Update(streak.FromUser(user), now.In(u.location), activity).Apply(user)

	if err := u.users.Update(ctx, user); err != nil {
		u.logger.Error("failed to save user streak", zap.String("user_id", userID), zap.Error(err))
		return apperror.Internal("Failed to update practice streak", err)
	}
	return nil
}

func (u *practiceUsecase) ListPerformance(ctx context.Context, identity *authdomain.TokenPayload) ([]domain.PerformanceEntry, error) {
	if identity == nil || identity.ID == "" {
		return nil, ErrAuthenticationRequired
	}

	all, err := u.performance.List(ctx)
	if err != nil {
		u.logger.Warn("failed to read performance log, treating as empty", zap.Error(err))
	}
	mine := []domain.PerformanceEntry{}
	for _, e := range all {
		if e.UserID == identity.ID {
			mine = append(mine, e)
		}
	}
	return mine, nil
}

func (u *practiceUsecase) Leaderboard(ctx context.Context) []domain.LeaderboardEntry {
	entries, err := u.leaderboard.List(ctx)
	if err != nil {
		u.logger.Warn("failed to read leaderboard, treating as empty", zap.Error(err))
		return []domain.LeaderboardEntry{}
	}
	return entries
}

func (u *practiceUsecase) SubmitScore(ctx context.Context, req *SubmitScoreRequest) ([]domain.LeaderboardEntry, error) {
	entries, err := u.leaderboard.List(ctx)
	if err != nil {
		u.logger.Error("failed to read leaderboard", zap.Error(err))
		return nil, apperror.Internal("Failed to update leaderboard", err)
	}

	entry := domain.LeaderboardEntry{
		ID:        uuid.NewString(),
		UserID:    strings.TrimSpace(req.UserID),
		UserName:  strings.TrimSpace(req.UserName),
		Timestamp: u.now().UnixMilli(),
	}
	if req.Score != nil {
		entry.Score = *req.Score
	}
	entries = append(entries, entry)

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })
	if len(entries) > domain.LeaderboardSize {
		entries = entries[:domain.LeaderboardSize]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}

	if err := u.leaderboard.ReplaceAll(ctx, entries); err != nil {
		u.logger.Error("failed to write leaderboard", zap.Error(err))
		return nil, apperror.Internal("Failed to update leaderboard", err)
	}
	return entries, nil
}
