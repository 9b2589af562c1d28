package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/gracechapel/churchsite/internal/domain/content"
)

// ContentRepo is a mutex-guarded in-memory store keyed by date. It mirrors
// the postgres repo's semantics closely enough to back the lifecycle and
// handler tests.
type ContentRepo struct {
	mu     sync.RWMutex
	byDate map[string]domain.DailyContent
}

func NewContentRepo() *ContentRepo {
	return &ContentRepo{
		byDate: make(map[string]domain.DailyContent),
	}
}

func (r *ContentRepo) GetByDate(ctx context.Context, date string) (domain.DailyContent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byDate[date]

	if !ok {
		return domain.DailyContent{}, domain.ErrNotFound
	}

	return rec, nil
}

func (r *ContentRepo) List(ctx context.Context) ([]domain.DailyContent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.DailyContent, 0, len(r.byDate))

	for _, rec := range r.byDate {
		out = append(out, rec)
	}

	// newest date first
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})

	return out, nil
}

func (r *ContentRepo) Insert(ctx context.Context, rec domain.DailyContent) (domain.DailyContent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byDate[rec.Date]; ok {
		return domain.DailyContent{}, domain.ErrDateTaken
	}

	r.byDate[rec.Date] = rec

	return rec, nil
}

func (r *ContentRepo) Upsert(ctx context.Context, rec domain.DailyContent) (domain.DailyContent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byDate[rec.Date]; ok {
		// same row semantics as ON CONFLICT (date) DO UPDATE: identity
		// and attribution of the original insert survive the update.
		rec.ID = existing.ID
		rec.CreatedBy = existing.CreatedBy
		rec.CreatedAt = existing.CreatedAt
		rec.UpdatedAt = time.Now().UTC()
	}

	r.byDate[rec.Date] = rec

	return rec, nil
}

func (r *ContentRepo) Move(ctx context.Context, fromDate string, rec domain.DailyContent) (domain.DailyContent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// occupied target aborts the whole move, old record untouched.
	if _, ok := r.byDate[rec.Date]; ok {
		return domain.DailyContent{}, domain.ErrDateTaken
	}

	delete(r.byDate, fromDate)
	r.byDate[rec.Date] = rec

	return rec, nil
}

func (r *ContentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for date, rec := range r.byDate {
		if rec.ID == id {
			delete(r.byDate, date)
			return nil
		}
	}

	return domain.ErrNotFound
}
