package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "github.com/gracechapel/churchsite/internal/domain/content"
	"github.com/gracechapel/churchsite/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContentRepo persists daily content. The verse arrays and custom
// sections live in JSONB columns and cross this boundary exactly once in
// each direction, so callers always see them as structured values.
type ContentRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewContentRepo(pool *pgxpool.Pool, prom *observability.Prom) *ContentRepo {
	return &ContentRepo{pool: pool, prom: prom}
}

func (r *ContentRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const contentColumns = `id, date, intercessor, opening, lessons, vision, speaker, custom_sections, notes, created_by, created_at, updated_at`

func (r *ContentRepo) GetByDate(ctx context.Context, date string) (domain.DailyContent, error) {
	day, err := parseDay(date)

	if err != nil {
		return domain.DailyContent{}, err
	}

	var rec domain.DailyContent

	err = r.observe("content.get_by_date", func() error {
		row := r.pool.QueryRow(ctx,
			`SELECT `+contentColumns+` FROM daily_content WHERE date = $1`, day)
		return scanContent(row, &rec)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DailyContent{}, domain.ErrNotFound
		}

		return domain.DailyContent{}, err
	}

	return rec, nil
}

func (r *ContentRepo) List(ctx context.Context) ([]domain.DailyContent, error) {
	var out []domain.DailyContent

	err := r.observe("content.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+contentColumns+` FROM daily_content ORDER BY date DESC`)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]domain.DailyContent, 0)

		for rows.Next() {
			var rec domain.DailyContent

			if err := scanContent(rows, &rec); err != nil {
				return err
			}

			out = append(out, rec)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

// Insert is the create-mode write: a plain INSERT, so two racers past the
// manager's pre-check are decided by daily_content_date_key and the loser
// gets domain.ErrDateTaken.
func (r *ContentRepo) Insert(ctx context.Context, rec domain.DailyContent) (domain.DailyContent, error) {
	args, err := encodeArgs(rec)

	if err != nil {
		return domain.DailyContent{}, err
	}

	err = r.observe("content.insert", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO daily_content (id, date, intercessor, opening, lessons, vision, speaker, custom_sections, notes, created_by, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			args...,
		)
		return e
	})

	if err != nil {
		if IsUniqueViolation(err) {
			return domain.DailyContent{}, domain.ErrDateTaken
		}

		return domain.DailyContent{}, err
	}

	return rec, nil
}

// Upsert is the edit-in-place write. On conflict the existing row keeps
// its identity and original attribution; only content and updated_at move.
func (r *ContentRepo) Upsert(ctx context.Context, rec domain.DailyContent) (domain.DailyContent, error) {
	args, err := encodeArgs(rec)

	if err != nil {
		return domain.DailyContent{}, err
	}

	var saved domain.DailyContent

	err = r.observe("content.upsert", func() error {
		row := r.pool.QueryRow(ctx,
			`INSERT INTO daily_content (id, date, intercessor, opening, lessons, vision, speaker, custom_sections, notes, created_by, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
			 ON CONFLICT (date)
			 DO UPDATE SET
			 	intercessor = EXCLUDED.intercessor,
			 	opening = EXCLUDED.opening,
			 	lessons = EXCLUDED.lessons,
			 	vision = EXCLUDED.vision,
			 	speaker = EXCLUDED.speaker,
			 	custom_sections = EXCLUDED.custom_sections,
			 	notes = EXCLUDED.notes,
			 	updated_at = NOW()
			 RETURNING `+contentColumns,
			args...,
		)
		return scanContent(row, &saved)
	})

	if err != nil {
		return domain.DailyContent{}, err
	}

	return saved, nil
}

// Move relocates a record to a new date as one transaction: delete the old
// row, insert the replacement. A unique violation on the insert rolls the
// whole move back, so a failed move never loses the original record.
func (r *ContentRepo) Move(ctx context.Context, fromDate string, rec domain.DailyContent) (saved domain.DailyContent, err error) {
	fromDay, err := parseDay(fromDate)

	if err != nil {
		return
	}

	args, err := encodeArgs(rec)

	if err != nil {
		return
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})

	if err != nil {
		return
	}

	defer func() { _ = tx.Rollback(ctx) }()

	err = r.observe("content.move.delete", func() error {
		_, e := tx.Exec(ctx, `DELETE FROM daily_content WHERE date = $1`, fromDay)
		return e
	})

	if err != nil {
		return
	}

	err = r.observe("content.move.insert", func() error {
		_, e := tx.Exec(ctx,
			`INSERT INTO daily_content (id, date, intercessor, opening, lessons, vision, speaker, custom_sections, notes, created_by, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			args...,
		)
		return e
	})

	if err != nil {
		if IsUniqueViolation(err) {
			err = domain.ErrDateTaken
		}

		return
	}

	err = tx.Commit(ctx)

	if err != nil {
		return
	}

	saved = rec
	return
}

func (r *ContentRepo) Delete(ctx context.Context, id string) error {
	var tag pgconn.CommandTag

	err := r.observe("content.delete", func() error {
		var e error
		tag, e = r.pool.Exec(ctx, `DELETE FROM daily_content WHERE id = $1`, id)
		return e
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// helpers

func parseDay(date string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", date)

	if err != nil {
		return time.Time{}, fmt.Errorf("malformed date %q: %w", date, err)
	}

	return day, nil
}

func encodeArgs(rec domain.DailyContent) ([]any, error) {
	day, err := parseDay(rec.Date)

	if err != nil {
		return nil, err
	}

	opening, err := json.Marshal(rec.Opening)
	if err != nil {
		return nil, err
	}

	lessons, err := json.Marshal(rec.Lessons)
	if err != nil {
		return nil, err
	}

	vision, err := json.Marshal(rec.Vision)
	if err != nil {
		return nil, err
	}

	speaker, err := json.Marshal(rec.Speaker)
	if err != nil {
		return nil, err
	}

	sections, err := json.Marshal(rec.CustomSections)
	if err != nil {
		return nil, err
	}

	return []any{
		rec.ID, day, rec.Intercessor, opening, lessons, vision, speaker,
		sections, rec.Notes, rec.CreatedBy, rec.CreatedAt, rec.UpdatedAt,
	}, nil
}

func scanContent(row pgx.Row, rec *domain.DailyContent) error {
	var (
		day      time.Time
		opening  []byte
		lessons  []byte
		vision   []byte
		speaker  []byte
		sections []byte
	)

	err := row.Scan(
		&rec.ID,
		&day,
		&rec.Intercessor,
		&opening,
		&lessons,
		&vision,
		&speaker,
		&sections,
		&rec.Notes,
		&rec.CreatedBy,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)

	if err != nil {
		return err
	}

	rec.Date = day.Format("2006-01-02")

	// JSONB comes back already structured; decode once, never re-encode.
	if err := json.Unmarshal(opening, &rec.Opening); err != nil {
		return err
	}
	if err := json.Unmarshal(lessons, &rec.Lessons); err != nil {
		return err
	}
	if err := json.Unmarshal(vision, &rec.Vision); err != nil {
		return err
	}
	if err := json.Unmarshal(speaker, &rec.Speaker); err != nil {
		return err
	}
	if err := json.Unmarshal(sections, &rec.CustomSections); err != nil {
		return err
	}

	return nil
}
