package repository

import (
	"context"

	"examprep-backend/internal/practice/domain"
	"examprep-backend/pkg/store"
)

// PerformanceRepository defines the interface for performance log access
type PerformanceRepository interface {
	// List returns every entry of every user
	List(ctx context.Context) ([]domain.PerformanceEntry, error)

	// ReplaceAll overwrites the log
	ReplaceAll(ctx context.Context, entries []domain.PerformanceEntry) error
}

// LeaderboardRepository defines the interface for leaderboard access
type LeaderboardRepository interface {
	List(ctx context.Context) ([]domain.LeaderboardEntry, error)
	ReplaceAll(ctx context.Context, entries []domain.LeaderboardEntry) error
}

type performanceRepository struct {
	store store.RecordStore
}

func NewPerformanceRepository(s store.RecordStore) PerformanceRepository {
	return &performanceRepository{store: s}
}

func (r *performanceRepository) List(ctx context.Context) ([]domain.PerformanceEntry, error) {
	return store.Load[domain.PerformanceEntry](ctx, r.store, store.Performance)
}

func (r *performanceRepository) ReplaceAll(ctx context.Context, entries []domain.PerformanceEntry) error {
	return store.Save(ctx, r.store, store.Performance, entries)
}

type leaderboardRepository struct {
	store store.RecordStore
}

func NewLeaderboardRepository(s store.RecordStore) LeaderboardRepository {
	return &leaderboardRepository{store: s}
}

func (r *leaderboardRepository) List(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	return store.Load[domain.LeaderboardEntry](ctx, r.store, store.Leaderboard)
}

func (r *leaderboardRepository) ReplaceAll(ctx context.Context, entries []domain.LeaderboardEntry) error {
	return store.Save(ctx, r.store, store.Leaderboard, entries)
}
