package insights

import (
	"context"
	"database/sql"
	"sync"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	insights map[string]IndustryInsight
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{insights: make(map[string]IndustryInsight)}
}

func (r *MemoryRepo) GetByIndustry(ctx context.Context, industry string) (IndustryInsight, error) {
	if err := ctx.Err(); err != nil {
		return IndustryInsight{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	insight, ok := r.insights[industry]
	if !ok {
		return IndustryInsight{}, ErrNotFound
	}
	return insight, nil
}

func (r *MemoryRepo) GetByIndustryTx(ctx context.Context, _ *sql.Tx, industry string) (IndustryInsight, error) {
	return r.GetByIndustry(ctx, industry)
}

func (r *MemoryRepo) Create(ctx context.Context, insight IndustryInsight) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	// First writer wins, matching the ON CONFLICT DO NOTHING insert.
	if _, ok := r.insights[insight.Industry]; ok {
		return nil
	}
	r.insights[insight.Industry] = insight
	return nil
}

func (r *MemoryRepo) CreateTx(ctx context.Context, _ *sql.Tx, insight IndustryInsight) error {
	return r.Create(ctx, insight)
}
