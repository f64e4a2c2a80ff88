package repository

import (
	"context"

	"examprep-backend/internal/content/domain"
	"examprep-backend/pkg/store"
)

// PaperRepository defines the interface for paper data access
type PaperRepository interface {
	// List returns every paper in stored order
	List(ctx context.Context) ([]domain.Paper, error)

	// ReplaceAll overwrites the stored papers
	ReplaceAll(ctx context.Context, papers []domain.Paper) error
}

// GuideRepository defines the interface for guide data access
type GuideRepository interface {
	List(ctx context.Context) ([]domain.Guide, error)
	ReplaceAll(ctx context.Context, guides []domain.Guide) error
}

type paperRepository struct {
	store store.RecordStore
}

func NewPaperRepository(s store.RecordStore) PaperRepository {
	return &paperRepository{store: s}
}

func (r *paperRepository) List(ctx context.Context) ([]domain.Paper, error) {
	return store.Load[domain.Paper](ctx, r.store, store.Papers)
}

func (r *paperRepository) ReplaceAll(ctx context.Context, papers []domain.Paper) error {
	return store.Save(ctx, r.store, store.Papers, papers)
}

type guideRepository struct {
	store store.RecordStore
}

func NewGuideRepository(s store.RecordStore) GuideRepository {
	return &guideRepository{store: s}
}

func (r *guideRepository) List(ctx context.Context) ([]domain.Guide, error) {
	return store.Load[domain.Guide](ctx, r.store, store.Guides)
}

func (r *guideRepository) ReplaceAll(ctx context.Context, guides []domain.Guide) error {
	return store.Save(ctx, r.store, store.Guides, guides)
}
