package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	lifecycle "github.com/gracechapel/churchsite/internal/content"
	domain "github.com/gracechapel/churchsite/internal/domain/content"
	"github.com/gracechapel/churchsite/internal/http/middlewares"
)

type ContentService interface {
	Get(ctx context.Context, date string) (domain.DailyContent, error)
	List(ctx context.Context) ([]domain.DailyContent, error)
	Save(ctx context.Context, req domain.SaveRequest, userID *string) (domain.DailyContent, error)
	Delete(ctx context.Context, id string) error
}

type ListCache interface {
	Get(key string) ([]domain.DailyContent, bool)
	Set(key string, val []domain.DailyContent)
	Clear()
}

const listCacheKey = "daily-content:all"

type ContentHandler struct {
	svc   ContentService
	cache ListCache
	log   *slog.Logger
}

func NewContentHandler(svc ContentService, cache ListCache, log *slog.Logger) *ContentHandler {
	return &ContentHandler{svc: svc, cache: cache, log: log}
}

// Get serves one record by ?date=. A date with no record is a normal
// answer with a null payload, not a 404: the dashboard probes arbitrary
// calendar days.
func (h *ContentHandler) Get(ctx *gin.Context) {
	date := ctx.Query("date")

	if date == "" {
		RespondBadRequest(ctx, "missing_date", "Date parameter is required")
		return
	}

	rec, err := h.svc.Get(ctx.Request.Context(), date)

	if err != nil {
		if errors.Is(err, lifecycle.ErrInvalidDate) {
			RespondBadRequest(ctx, "invalid_date", "Invalid date format. Use YYYY-MM-DD")
			return
		}

		if errors.Is(err, domain.ErrNotFound) {
			ctx.JSON(http.StatusOK, gin.H{"data": nil})
			return
		}

		h.log.ErrorContext(ctx.Request.Context(), "content fetch failed", "error", err, "date", date)
		RespondInternal(ctx, "Could not load content")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": rec})
}

// List serves the whole collection, newest date first.
func (h *ContentHandler) List(ctx *gin.Context) {
	if cached, ok := h.cache.Get(listCacheKey); ok {
		ctx.JSON(http.StatusOK, gin.H{"data": cached})
		return
	}

	records, err := h.svc.List(ctx.Request.Context())

	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "content list failed", "error", err)
		RespondInternal(ctx, "Could not load content")
		return
	}

	if records == nil {
		records = []domain.DailyContent{}
	}

	h.cache.Set(listCacheKey, records)

	ctx.JSON(http.StatusOK, gin.H{"data": records})
}

// Save handles both create and edit submissions.
func (h *ContentHandler) Save(ctx *gin.Context) {
	var req domain.SaveRequest

	if !BindJSON(ctx, &req) {
		return
	}

	var userID *string

	if id, ok := middlewares.UserIDFromContext(ctx); ok && id != "" {
		userID = &id
	}

	saved, err := h.svc.Save(ctx.Request.Context(), req, userID)

	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrInvalidDate):
			RespondBadRequest(ctx, "invalid_date", "Invalid date format. Use YYYY-MM-DD")
		case errors.Is(err, domain.ErrDateTaken):
			RespondConflict(ctx, "date_taken", "Content already exists for this date")
		default:
			h.log.ErrorContext(ctx.Request.Context(), "content save failed", "error", err, "date", req.Date)
			RespondInternal(ctx, "Could not save content")
		}
		return
	}

	h.cache.Clear()

	ctx.JSON(http.StatusOK, gin.H{"data": saved})
}

// Delete removes one record by ?id=.
func (h *ContentHandler) Delete(ctx *gin.Context) {
	id := ctx.Query("id")

	if id == "" {
		RespondBadRequest(ctx, "missing_id", "Content ID is required")
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			RespondNotFound(ctx, "Content not found")
			return
		}

		h.log.ErrorContext(ctx.Request.Context(), "content delete failed", "error", err, "id", id)
		RespondInternal(ctx, "Could not delete content")
		return
	}

	h.cache.Clear()

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
