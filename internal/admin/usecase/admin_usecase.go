package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	authdomain "examprep-backend/internal/auth/domain"
	authrepo "examprep-backend/internal/auth/repository"
	contentdomain "examprep-backend/internal/content/domain"
	contentrepo "examprep-backend/internal/content/repository"
	"examprep-backend/pkg/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// adminUsecase implements AdminUsecase interface
type adminUsecase struct {
	users  authrepo.UserRepository
	papers contentrepo.PaperRepository
	guides contentrepo.GuideRepository
	hasher PasswordHasher
	logger *zap.Logger
	now    func() time.Time
}

type Option func(*adminUsecase)

func WithClock(now func() time.Time) Option {
	return func(u *adminUsecase) { u.now = now }
}

func NewAdminUsecase(
	users authrepo.UserRepository,
	papers contentrepo.PaperRepository,
	guides contentrepo.GuideRepository,
	hasher PasswordHasher,
	logger *zap.Logger,
	opts ...Option,
) AdminUsecase {
	u := &adminUsecase{
		users:  users,
		papers: papers,
		guides: guides,
		hasher: hasher,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *adminUsecase) timestamp() string {
	return authdomain.FormatTimestamp(u.now())
}

// probe reads the id and password of a patch, rejecting non-objects
func probe(patch json.RawMessage) (id, password string, err error) {
	trimmed := bytes.TrimSpace(patch)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return "", "", ErrInvalidBody
	}
	var p struct {
		ID       string `json:"id"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return "", "", apperror.Wrap(apperror.KindValidation, "Validation failed", "Request body is not valid JSON", err)
	}
	return p.ID, p.Password, nil
}

func (u *adminUsecase) Stats(ctx context.Context) Stats {
	var s Stats
	if users, err := u.users.List(ctx); err == nil {
		s.Users = len(users)
	} else {
		u.logger.Warn("failed to read users, treating as empty", zap.Error(err))
	}
	papers := u.ListPapers(ctx)
	s.Papers = len(papers)
	for _, p := range papers {
		s.Questions += len(p.Questions)
	}
	s.Guides = len(u.ListGuides(ctx))
	return s
}

// Users

func (u *adminUsecase) ListUsers(ctx context.Context) []authdomain.Profile {
	users, err := u.users.List(ctx)
	if err != nil {
		u.logger.Warn("failed to read users, treating as empty", zap.Error(err))
		return []authdomain.Profile{}
	}
	out := make([]authdomain.Profile, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out
}

func (u *adminUsecase) SaveUser(ctx context.Context, id string, patch json.RawMessage) (*authdomain.Profile, error) {
	bodyID, password, err := probe(patch)
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = bodyID
	}

	users, err := u.users.List(ctx)
	if err != nil {
		u.logger.Error("failed to read users", zap.Error(err))
		return nil, apperror.Internal("Failed to save user", err)
	}

	var target *authdomain.User
	for i := range users {
		if id != "" && users[i].ID == id {
			target = &users[i]
			break
		}
	}

	created := target == nil
	if created {
		target = &authdomain.User{Profile: authdomain.Profile{
			ID:                 authdomain.NewUserID(u.now(), users),
			Role:               authdomain.RoleUser,
			SubscriptionStatus: authdomain.SubscriptionFree,
			CreatedAt:          u.timestamp(),
			RecentActivity:     []authdomain.RecentActivity{},
		}}
	}

	keepID := target.ID
	if err := json.Unmarshal(patch, &target.Profile); err != nil {
		return nil, apperror.Wrap(apperror.KindValidation, "Validation failed", "Request body does not describe a user", err)
	}
	target.ID = keepID
	target.Email = strings.ToLower(strings.TrimSpace(target.Email))

	if err := validateUser(target, users); err != nil {
		return nil, err
	}
	if password != "" {
		hashed, err := u.hasher.Hash(password)
		if err != nil {
			return nil, apperror.Internal("Failed to save user", err)
		}
		target.Password = hashed
	}

	if created {
		err = u.users.Create(ctx, target)
	} else {
		err = u.users.Update(ctx, target)
	}
	if err != nil {
		u.logger.Error("failed to write users", zap.Error(err))
		return nil, apperror.Internal("Failed to save user", err)
	}

	profile := target.Public()
	return &profile, nil
}

func validateUser(user *authdomain.User, all []authdomain.User) error {
	invalid := func(detail string) error {
		return apperror.New(apperror.KindValidation, "Validation failed", detail)
	}
	if user.Email == "" {
		return invalid("email is required")
	}
	for i := range all {
		if all[i].ID != user.ID && strings.EqualFold(all[i].Email, user.Email) {
			return apperror.New(apperror.KindConflict, "User already exists", "Email is already registered")
		}
	}
	switch user.Role {
	case authdomain.RoleUser, authdomain.RoleAdmin:
	default:
		return invalid("role must be one of: user admin")
	}
	if !validSubscription(user.SubscriptionStatus) {
		return invalid("subscriptionStatus must be one of: free premium trial")
	}
	return nil
}

func validSubscription(s authdomain.SubscriptionStatus) bool {
	switch s {
	case authdomain.SubscriptionFree, authdomain.SubscriptionPremium, authdomain.SubscriptionTrial:
		return true
	}
	return false
}

func (u *adminUsecase) UpdateSubscription(ctx context.Context, id string, status authdomain.SubscriptionStatus) (*authdomain.Profile, error) {
	if !validSubscription(status) {
		return nil, apperror.New(apperror.KindValidation, "Validation failed", "status must be one of: free premium trial")
	}

	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal("Failed to update subscription", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	user.SubscriptionStatus = status
	if err := u.users.Update(ctx, user); err != nil {
		u.logger.Error("failed to write users", zap.Error(err))
		return nil, apperror.Internal("Failed to update subscription", err)
	}
	profile := user.Public()
	return &profile, nil
}

func (u *adminUsecase) DeleteUser(ctx context.Context, id string) error {
	err := u.users.Delete(ctx, id)
	switch {
	case err == nil:
		return nil
	case authrepo.IsNotFound(err):
		return ErrUserNotFound
	default:
		u.logger.Error("failed to delete user", zap.String("user_id", id), zap.Error(err))
		return apperror.Internal("Failed to delete user", err)
	}
}

// Papers

func (u *adminUsecase) ListPapers(ctx context.Context) []contentdomain.Paper {
	papers, err := u.papers.List(ctx)
	if err != nil {
		u.logger.Warn("failed to read papers, treating as empty", zap.Error(err))
		return []contentdomain.Paper{}
	}
	return papers
}

func (u *adminUsecase) SavePaper(ctx context.Context, id string, patch json.RawMessage) (*contentdomain.Paper, error) {
	bodyID, _, err := probe(patch)
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = bodyID
	}

	papers, err := u.papers.List(ctx)
	if err != nil {
		return nil, apperror.Internal("Failed to save paper", err)
	}

	idx := -1
	for i := range papers {
		if id != "" && papers[i].ID == id {
			idx = i
			break
		}
	}

	var paper contentdomain.Paper
	if idx >= 0 {
		paper = papers[idx]
	} else {
		paper.CreatedAt = u.timestamp()
	}
	if err := json.Unmarshal(patch, &paper); err != nil {
		return nil, apperror.Wrap(apperror.KindValidation, "Validation failed", "Request body does not describe a paper", err)
	}
	switch {
	case idx >= 0:
		paper.ID = papers[idx].ID
		paper.UpdatedAt = u.timestamp()
	case id != "":
		paper.ID = id
	default:
		paper.ID = uuid.NewString()
	}
	if paper.Questions == nil {
		paper.Questions = []contentdomain.Question{}
	}

	if idx >= 0 {
		papers[idx] = paper
	} else {
		papers = append(papers, paper)
	}
	if err := u.papers.ReplaceAll(ctx, papers); err != nil {
		u.logger.Error("failed to write papers", zap.Error(err))
		return nil, apperror.Internal("Failed to save paper", err)
	}
	return &paper, nil
}

func (u *adminUsecase) SaveQuestion(ctx context.Context, paperID string, patch json.RawMessage) (*contentdomain.Paper, error) {
	questionID, _, err := probe(patch)
	if err != nil {
		return nil, err
	}

	papers, err := u.papers.List(ctx)
	if err != nil {
		return nil, apperror.Internal("Failed to save question", err)
	}

	idx := -1
	for i := range papers {
		if papers[i].ID == paperID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrPaperNotFound
	}
	paper := &papers[idx]

	qIdx := -1
	for i := range paper.Questions {
		if questionID != "" && paper.Questions[i].ID == questionID {
			qIdx = i
			break
		}
	}

	var q contentdomain.Question
	if qIdx >= 0 {
		q = paper.Questions[qIdx]
	}
	if err := json.Unmarshal(patch, &q); err != nil {
		return nil, apperror.Wrap(apperror.KindValidation, "Validation failed", "Request body does not describe a question", err)
	}
	if q.ID == "" {
		q.ID = paperID + "-q-" + strconv.FormatInt(u.now().UnixMilli(), 10)
	}
	if q.Options == nil {
		q.Options = []contentdomain.Option{}
	}

	if qIdx >= 0 {
		paper.Questions[qIdx] = q
	} else {
		paper.Questions = append(paper.Questions, q)
	}
	paper.UpdatedAt = u.timestamp()

	if err := u.papers.ReplaceAll(ctx, papers); err != nil {
		u.logger.Error("failed to write papers", zap.Error(err))
		return nil, apperror.Internal("Failed to save question", err)
	}
	return paper, nil
}

func (u *adminUsecase) DeletePaper(ctx context.Context, id string) error {
	papers, err := u.papers.List(ctx)
	if err != nil {
		return apperror.Internal("Failed to delete paper", err)
	}
	for i := range papers {
		if papers[i].ID == id {
			papers = append(papers[:i], papers[i+1:]...)
			if err := u.papers.ReplaceAll(ctx, papers); err != nil {
				u.logger.Error("failed to write papers", zap.Error(err))
				return apperror.Internal("Failed to delete paper", err)
			}
			return nil
		}
	}
	return ErrPaperNotFound
}

// Guides

func (u *adminUsecase) ListGuides(ctx context.Context) []contentdomain.Guide {
	guides, err := u.guides.List(ctx)
	if err != nil {
		u.logger.Warn("failed to read guides, treating as empty", zap.Error(err))
		return []contentdomain.Guide{}
	}
	return guides
}

func (u *adminUsecase) SaveGuide(ctx context.Context, id string, patch json.RawMessage) (*contentdomain.Guide, error) {
	bodyID, _, err := probe(patch)
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = bodyID
	}

	guides, err := u.guides.List(ctx)
	if err != nil {
		return nil, apperror.Internal("Failed to save guide", err)
	}

	idx := -1
	for i := range guides {
		if id != "" && guides[i].ID == id {
			idx = i
			break
		}
	}

	var guide contentdomain.Guide
	if idx >= 0 {
		guide = guides[idx]
	} else {
		guide.CreatedAt = u.timestamp()
	}
	if err := json.Unmarshal(patch, &guide); err != nil {
		return nil, apperror.Wrap(apperror.KindValidation, "Validation failed", "Request body does not describe a guide", err)
	}
	switch {
	case idx >= 0:
		guide.ID = guides[idx].ID
		guide.UpdatedAt = u.timestamp()
		guides[idx] = guide
	case id != "":
		guide.ID = id
		guides = append(guides, guide)
	default:
		guide.ID = uuid.NewString()
		guides = append(guides, guide)
	}

	if err := u.guides.ReplaceAll(ctx, guides); err != nil {
		u.logger.Error("failed to write guides", zap.Error(err))
		return nil, apperror.Internal("Failed to save guide", err)
	}
	return &guide, nil
}

func (u *adminUsecase) DeleteGuide(ctx context.Context, id string) error {
	guides, err := u.guides.List(ctx)
	if err != nil {
		return apperror.Internal("Failed to delete guide", err)
	}
	for i := range guides {
		if guides[i].ID == id {
			guides = append(guides[:i], guides[i+1:]...)
			if err := u.guides.ReplaceAll(ctx, guides); err != nil {
				u.logger.Error("failed to write guides", zap.Error(err))
				return apperror.Internal("Failed to delete guide", err)
			}
			return nil
		}
	}
	return ErrGuideNotFound
}
