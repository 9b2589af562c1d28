package content

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	domain "github.com/gracechapel/churchsite/internal/domain/content"
)

// date string fails the strict YYYY-MM-DD contract.
var ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")

// Store is the persistence surface the lifecycle manager runs on. Insert
// must fail with domain.ErrDateTaken when the date is already occupied
// (the DB unique constraint is the real race protection, the manager's
// pre-check is advisory). Move must delete the old row and insert the new
// one in a single transaction.
type Store interface {
	GetByDate(ctx context.Context, date string) (domain.DailyContent, error)
	List(ctx context.Context) ([]domain.DailyContent, error)
	Insert(ctx context.Context, rec domain.DailyContent) (domain.DailyContent, error)
	Upsert(ctx context.Context, rec domain.DailyContent) (domain.DailyContent, error)
	Move(ctx context.Context, fromDate string, rec domain.DailyContent) (domain.DailyContent, error)
	Delete(ctx context.Context, id string) error
}

// Manager enforces the one-record-per-date rule across the create and
// edit flows. The raw upsert is conflict-blind, so the business rules
// live here.
type Manager struct {
	store Store
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Save handles one create-or-edit submission.
//
// Create mode rejects any date that already holds a record. Edit mode
// allows saving in place; changing the date is a delete-then-recreate
// under a transaction, rejected when the target date is occupied by a
// different record.
func (m *Manager) Save(ctx context.Context, req domain.SaveRequest, userID *string) (domain.DailyContent, error) {
	if !domain.ValidDate(req.Date) {
		return domain.DailyContent{}, ErrInvalidDate
	}

	if req.OriginalDate != "" && !domain.ValidDate(req.OriginalDate) {
		return domain.DailyContent{}, ErrInvalidDate
	}

	domain.Normalize(&req)

	rec := newFromSaveRequest(req, userID)

	if req.Mode != domain.ModeEdit {
		return m.create(ctx, rec)
	}

	return m.edit(ctx, req.OriginalDate, rec)
}

func (m *Manager) create(ctx context.Context, rec domain.DailyContent) (domain.DailyContent, error) {
	_, err := m.store.GetByDate(ctx, rec.Date)

	if err == nil {
		return domain.DailyContent{}, domain.ErrDateTaken
	}

	if !errors.Is(err, domain.ErrNotFound) {
		return domain.DailyContent{}, err
	}

	// Two creates can both pass the pre-check; the store's uniqueness
	// constraint decides the race and reports the same conflict.
	return m.store.Insert(ctx, rec)
}

func (m *Manager) edit(ctx context.Context, originalDate string, rec domain.DailyContent) (domain.DailyContent, error) {
	// Same key: upsert in place, always allowed.
	if originalDate == "" || originalDate == rec.Date {
		return m.store.Upsert(ctx, rec)
	}

	orig, err := m.store.GetByDate(ctx, originalDate)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// The record being edited is gone; land the edit at the new
			// date through the create rules.
			return m.create(ctx, rec)
		}

		return domain.DailyContent{}, err
	}

	existing, err := m.store.GetByDate(ctx, rec.Date)

	if err == nil && existing.ID != orig.ID {
		return domain.DailyContent{}, domain.ErrDateTaken
	}

	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.DailyContent{}, err
	}

	return m.store.Move(ctx, originalDate, rec)
}

// Get fetches the record for one date. The format is checked before the
// store is touched; a missing record is domain.ErrNotFound, not a fault.
func (m *Manager) Get(ctx context.Context, date string) (domain.DailyContent, error) {
	if !domain.ValidDate(date) {
		return domain.DailyContent{}, ErrInvalidDate
	}

	return m.store.GetByDate(ctx, date)
}

// List returns every record, newest date first.
func (m *Manager) List(ctx context.Context) ([]domain.DailyContent, error) {
	return m.store.List(ctx)
}

// Delete removes a record by id; a missing id reports domain.ErrNotFound.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

func newFromSaveRequest(req domain.SaveRequest, userID *string) domain.DailyContent {
	now := time.Now().UTC()

	return domain.DailyContent{
		ID:             uuid.NewString(),
		Date:           req.Date,
		Intercessor:    req.Intercessor,
		Opening:        req.Opening,
		Lessons:        req.Lessons,
		Vision:         req.Vision,
		Speaker:        req.Speaker,
		CustomSections: req.CustomSections,
		Notes:          req.Notes,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
