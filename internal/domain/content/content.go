package content

import (
	"errors"
	"regexp"
	"time"
)

// DailyContent is the dated post shown on the dashboard. The calendar
// date is the natural key: at most one record may exist per date.
type DailyContent struct {
	ID             string          `json:"id"`
	Date           string          `json:"date"`
	Intercessor    *string         `json:"intercessor,omitempty"`
	Opening        []string        `json:"opening"`
	Lessons        []string        `json:"lessons"`
	Vision         []string        `json:"vision"`
	Speaker        []string        `json:"speaker"`
	CustomSections []CustomSection `json:"customSections"`
	Notes          *string         `json:"notes,omitempty"`
	CreatedBy      *string         `json:"createdBy,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type CustomSection struct {
	Title  string   `json:"title"`
	Verses []string `json:"verses"`
}

const (
	ModeCreate = "create"
	ModeEdit   = "edit"
)

// SaveRequest carries one create-or-edit submission. Mode defaults to
// create; edit submissions include the date the record held before the
// edit so a date change can be detected.
type SaveRequest struct {
	Date           string          `json:"date" binding:"required"`
	Mode           string          `json:"mode" binding:"omitempty,oneof=create edit"`
	OriginalDate   string          `json:"originalDate" binding:"omitempty"`
	Intercessor    *string         `json:"intercessor"`
	Opening        []string        `json:"opening"`
	Lessons        []string        `json:"lessons"`
	Vision         []string        `json:"vision"`
	Speaker        []string        `json:"speaker"`
	CustomSections []CustomSection `json:"customSections"`
	Notes          *string         `json:"notes"`
}

var ErrNotFound = errors.New("daily content not found")

// another record already holds the target date.
var ErrDateTaken = errors.New("date already has a post")

var dateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidDate enforces the strict YYYY-MM-DD contract: shape first, then a
// real calendar date, so "2024-02-31" is rejected before any store call.
func ValidDate(date string) bool {
	if !dateRE.MatchString(date) {
		return false
	}

	_, err := time.Parse("2006-01-02", date)

	return err == nil
}
