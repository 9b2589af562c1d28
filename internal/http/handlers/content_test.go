package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gracechapel/churchsite/internal/cache"
	lifecycle "github.com/gracechapel/churchsite/internal/content"
	domain "github.com/gracechapel/churchsite/internal/domain/content"
	"github.com/gracechapel/churchsite/internal/repo/memory"
)

func newContentRouter() (*gin.Engine, *memory.ContentRepo) {
	gin.SetMode(gin.TestMode)

	store := memory.NewContentRepo()
	svc := lifecycle.NewManager(store)
	h := NewContentHandler(svc, cache.New[[]domain.DailyContent](50*time.Millisecond), testLogger())

	r := gin.New()
	r.GET("/api/daily-content", h.Get)
	r.GET("/api/daily-content/all", h.List)
	r.POST("/api/daily-content", h.Save)
	r.DELETE("/api/daily-content", h.Delete)

	return r, store
}

func saveBody(date string) map[string]any {
	return map[string]any{
		"date":    date,
		"opening": []string{"John 3:16"},
		"lessons": []string{"Romans 8:28"},
	}
}

func TestGetMissingDateReturnsNullData(t *testing.T) {
	r, _ := newContentRouter()

	w := doJSON(t, r, http.MethodGet, "/api/daily-content?date=2026-04-01", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Data *domain.DailyContent `json:"data"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resp.Data != nil {
		t.Fatalf("empty date must answer null, got %+v", resp.Data)
	}
}

func TestGetWithoutDateIsBadRequest(t *testing.T) {
	r, _ := newContentRouter()

	w := doJSON(t, r, http.MethodGet, "/api/daily-content", nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resp.Error.Message != "Date parameter is required" {
		t.Fatalf("message = %q", resp.Error.Message)
	}
}

func TestGetMalformedDateIsBadRequest(t *testing.T) {
	r, _ := newContentRouter()

	for _, q := range []string{"04-01-2026", "2026-4-1", "2026-02-31", "tomorrow"} {
		w := doJSON(t, r, http.MethodGet, "/api/daily-content?date="+q, nil)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("date %q: status = %d, want 400", q, w.Code)
		}
	}
}

func TestSaveThenGetRoundTrip(t *testing.T) {
	r, _ := newContentRouter()

	w := doJSON(t, r, http.MethodPost, "/api/daily-content", saveBody("2026-04-01"))

	if w.Code != http.StatusOK {
		t.Fatalf("save status = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/daily-content?date=2026-04-01", nil)

	var resp struct {
		Data *domain.DailyContent `json:"data"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resp.Data == nil || resp.Data.Date != "2026-04-01" {
		t.Fatalf("round trip lost the record: %+v", resp.Data)
	}

	if len(resp.Data.Opening) != 1 || resp.Data.Opening[0] != "John 3:16" {
		t.Fatalf("opening = %v", resp.Data.Opening)
	}
}

func TestSaveDuplicateDateConflicts(t *testing.T) {
	r, _ := newContentRouter()

	doJSON(t, r, http.MethodPost, "/api/daily-content", saveBody("2026-04-01"))

	w := doJSON(t, r, http.MethodPost, "/api/daily-content", saveBody("2026-04-01"))

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409; body %s", w.Code, w.Body.String())
	}
}

func TestSaveEditMovesDate(t *testing.T) {
	r, _ := newContentRouter()

	doJSON(t, r, http.MethodPost, "/api/daily-content", saveBody("2026-04-01"))

	body := saveBody("2026-04-02")
	body["mode"] = "edit"
	body["originalDate"] = "2026-04-01"

	w := doJSON(t, r, http.MethodPost, "/api/daily-content", body)

	if w.Code != http.StatusOK {
		t.Fatalf("move status = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/daily-content?date=2026-04-01", nil)

	var old struct {
		Data *domain.DailyContent `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &old); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if old.Data != nil {
		t.Fatal("old date should be vacated after a move")
	}
}

func TestSaveInvalidDateIsBadRequest(t *testing.T) {
	r, _ := newContentRouter()

	w := doJSON(t, r, http.MethodPost, "/api/daily-content", saveBody("01-04-2026"))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestListReturnsNewestFirstAndUsesCache(t *testing.T) {
	r, _ := newContentRouter()

	doJSON(t, r, http.MethodPost, "/api/daily-content", saveBody("2026-04-01"))
	doJSON(t, r, http.MethodPost, "/api/daily-content", saveBody("2026-04-03"))
	doJSON(t, r, http.MethodPost, "/api/daily-content", saveBody("2026-04-02"))

	w := doJSON(t, r, http.MethodGet, "/api/daily-content/all", nil)

	var resp struct {
		Data []domain.DailyContent `json:"data"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(resp.Data) != 3 {
		t.Fatalf("want 3 records, got %d", len(resp.Data))
	}

	wantOrder := []string{"2026-04-03", "2026-04-02", "2026-04-01"}

	for i, want := range wantOrder {
		if resp.Data[i].Date != want {
			t.Fatalf("order[%d] = %s, want %s", i, resp.Data[i].Date, want)
		}
	}

	// a mutation must invalidate the cached list immediately
	doJSON(t, r, http.MethodPost, "/api/daily-content", saveBody("2026-04-04"))

	w = doJSON(t, r, http.MethodGet, "/api/daily-content/all", nil)

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(resp.Data) != 4 || resp.Data[0].Date != "2026-04-04" {
		t.Fatalf("stale list after mutation: %d records, head %s", len(resp.Data), resp.Data[0].Date)
	}
}

func TestListEmptyIsEmptyArray(t *testing.T) {
	r, _ := newContentRouter()

	w := doJSON(t, r, http.MethodGet, "/api/daily-content/all", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	// "data" must be [] rather than null for an empty collection
	var raw map[string]json.RawMessage

	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if string(raw["data"]) != "[]" {
		t.Fatalf("data = %s, want []", raw["data"])
	}
}

func TestDeleteFlow(t *testing.T) {
	r, _ := newContentRouter()

	w := doJSON(t, r, http.MethodPost, "/api/daily-content", saveBody("2026-04-01"))

	var saved struct {
		Data domain.DailyContent `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &saved); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = doJSON(t, r, http.MethodDelete, "/api/daily-content?id="+saved.Data.ID, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body %s", w.Code, w.Body.String())
	}

	// a second delete of the same id is a 404, not a silent success
	w = doJSON(t, r, http.MethodDelete, "/api/daily-content?id="+saved.Data.ID, nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("repeat delete status = %d, want 404", w.Code)
	}
}

func TestDeleteWithoutIDIsBadRequest(t *testing.T) {
	r, _ := newContentRouter()

	w := doJSON(t, r, http.MethodDelete, "/api/daily-content", nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
