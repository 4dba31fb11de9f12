package resumes

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo keeps resumes in memory for local development and tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	byUser map[string]Resume
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUser: make(map[string]Resume)}
}

func (r *MemoryRepo) Save(_ context.Context, userID string, content string) (Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	resume, ok := r.byUser[userID]
	if !ok {
		resume = Resume{UserID: userID, CreatedAt: now}
	}
	resume.Content = content
	resume.UpdatedAt = now
	r.byUser[userID] = resume
	return resume, nil
}

func (r *MemoryRepo) GetByUser(_ context.Context, userID string) (Resume, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resume, ok := r.byUser[userID]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return resume, nil
}
