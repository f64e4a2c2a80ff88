package usecase

import (
	"context"
	"strings"

	"examprep-backend/internal/content/domain"
	"examprep-backend/internal/content/repository"
	"examprep-backend/pkg/fuzzy"

	"go.uber.org/zap"
)

// ContentUsecase defines the read side of papers and guides
type ContentUsecase interface {
	// ListGuides returns every study guide
	ListGuides(ctx context.Context) []domain.Guide

	// Search matches query against question text, option text and guide
	// title, topic and content. Results are unranked.
	Search(ctx context.Context, query string, typoTolerant bool) *domain.SearchResult

	// PaperTitle returns the title of a paper, or "" when unknown
	PaperTitle(ctx context.Context, paperID string) string
}

// contentUsecase implements ContentUsecase. Store read failures degrade to
// empty results.
type contentUsecase struct {
	papers repository.PaperRepository
	guides repository.GuideRepository
	logger *zap.Logger
}

func NewContentUsecase(papers repository.PaperRepository, guides repository.GuideRepository, logger *zap.Logger) ContentUsecase {
	return &contentUsecase{papers: papers, guides: guides, logger: logger}
}

func (u *contentUsecase) ListGuides(ctx context.Context) []domain.Guide {
	guides, err := u.guides.List(ctx)
	if err != nil {
		u.logger.Warn("failed to read guides, treating as empty", zap.Error(err))
		return []domain.Guide{}
	}
	return guides
}

func (u *contentUsecase) Search(ctx context.Context, query string, typoTolerant bool) *domain.SearchResult {
	result := &domain.SearchResult{
		Questions: []domain.QuestionHit{},
		Guides:    []domain.Guide{},
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return result
	}

	match := func(texts ...string) bool {
		for _, t := range texts {
			if strings.Contains(strings.ToLower(t), query) {
				return true
			}
		}
		return typoTolerant && fuzzy.MatchAny(query, texts...)
	}

	papers, err := u.papers.List(ctx)
	if err != nil {
		u.logger.Warn("failed to read papers, treating as empty", zap.Error(err))
	}
	for _, paper := range papers {
		for _, q := range paper.Questions {
			if !match(questionTexts(q)...) {
				continue
			}
			result.Questions = append(result.Questions, domain.QuestionHit{
				Question:   q,
				Subject:    paper.Subject,
				PaperTitle: paper.Title,
				PaperID:    paper.ID,
			})
		}
	}
	if len(result.Questions) > domain.MaxSearchQuestions {
		result.Questions = result.Questions[:domain.MaxSearchQuestions]
	}

	for _, g := range u.ListGuides(ctx) {
		if match(g.Title, g.Topic, g.Content) {
			result.Guides = append(result.Guides, g)
		}
	}
	return result
}

func (u *contentUsecase) PaperTitle(ctx context.Context, paperID string) string {
	papers, err := u.papers.List(ctx)
	if err != nil {
		u.logger.Warn("failed to read papers, treating as empty", zap.Error(err))
		return ""
	}
	for _, p := range papers {
		if p.ID == paperID {
			return p.Title
		}
	}
	return ""
}

func questionTexts(q domain.Question) []string {
	texts := make([]string, 0, len(q.Options)+1)
	texts = append(texts, q.Text)
	for _, o := range q.Options {
		texts = append(texts, o.Text)
	}
	return texts
}
