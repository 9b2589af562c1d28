package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	domain "github.com/gracechapel/churchsite/internal/domain/content"
)

// fakeAPI is a minimal stand-in for the real server: full-list reads,
// create-only saves, deletes by id, and a token gate on mutations.
type fakeAPI struct {
	mu      sync.Mutex
	byDate  map[string]domain.DailyContent
	token   string
	nextID  int
	gotAuth []string
}

func newFakeAPI(token string) *fakeAPI {
	return &fakeAPI{
		byDate: make(map[string]domain.DailyContent),
		token:  token,
	}
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"user":  map[string]string{"id": "u1", "email": "p@c.org", "role": "pastor"},
			"token": f.token,
		})
	})

	mux.HandleFunc("/api/daily-content/all", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		list := make([]domain.DailyContent, 0, len(f.byDate))
		for _, rec := range f.byDate {
			list = append(list, rec)
		}
		json.NewEncoder(w).Encode(map[string]any{"data": list})
	})

	mux.HandleFunc("/api/daily-content", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		f.gotAuth = append(f.gotAuth, r.Header.Get("Authorization"))

		switch r.Method {
		case http.MethodPost:
			if r.Header.Get("Authorization") != "Bearer "+f.token {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]string{"code": "unauthorized", "message": "Authentication token required"},
				})
				return
			}

			var req domain.SaveRequest
			json.NewDecoder(r.Body).Decode(&req)

			if _, exists := f.byDate[req.Date]; exists {
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]string{"code": "date_taken", "message": "Content already exists for this date"},
				})
				return
			}

			f.nextID++
			rec := domain.DailyContent{
				ID:      string(rune('a' + f.nextID)),
				Date:    req.Date,
				Opening: req.Opening,
			}
			f.byDate[req.Date] = rec
			json.NewEncoder(w).Encode(map[string]any{"data": rec})

		case http.MethodDelete:
			id := r.URL.Query().Get("id")
			for date, rec := range f.byDate {
				if rec.ID == id {
					delete(f.byDate, date)
					json.NewEncoder(w).Encode(map[string]any{"success": true})
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{"code": "not_found", "message": "Content not found"},
			})
		}
	})

	return mux
}

func TestLoginStoresTokenForMutations(t *testing.T) {
	api := newFakeAPI("tok-123")
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c := New(srv.URL, WithHTTPClient(srv.Client()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	u, err := c.Login(ctx, "p@c.org", "Secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if u.Role != "pastor" {
		t.Fatalf("role = %q", u.Role)
	}

	if _, err := c.Save(ctx, domain.SaveRequest{Date: "2026-04-01"}); err != nil {
		t.Fatalf("save after login: %v", err)
	}
}

func TestSaveWithoutTokenIsUnauthorized(t *testing.T) {
	api := newFakeAPI("tok-123")
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c := New(srv.URL, WithHTTPClient(srv.Client()))

	_, err := c.Save(context.Background(), domain.SaveRequest{Date: "2026-04-01"})

	var apiErr *APIError

	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("want 401 APIError, got %v", err)
	}
}

func TestMirrorTracksCollection(t *testing.T) {
	api := newFakeAPI("tok-123")
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c := New(srv.URL, WithHTTPClient(srv.Client()), WithToken("tok-123"))

	ctx := context.Background()

	for _, date := range []string{"2026-04-01", "2026-04-03", "2026-04-02"} {
		if _, err := c.Save(ctx, domain.SaveRequest{Date: date}); err != nil {
			t.Fatalf("save %s: %v", date, err)
		}
	}

	dates := c.AvailableDates()
	want := []string{"2026-04-03", "2026-04-02", "2026-04-01"}

	if len(dates) != len(want) {
		t.Fatalf("dates = %v", dates)
	}

	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("dates[%d] = %s, want %s", i, dates[i], want[i])
		}
	}

	latest, ok := c.Latest()

	if !ok || latest.Date != "2026-04-03" {
		t.Fatalf("latest = %+v, ok %v", latest, ok)
	}

	if _, ok := c.Get("2026-04-02"); !ok {
		t.Fatal("mirror missing saved date")
	}
}

func TestDeleteRefreshesMirror(t *testing.T) {
	api := newFakeAPI("tok-123")
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c := New(srv.URL, WithHTTPClient(srv.Client()), WithToken("tok-123"))

	ctx := context.Background()

	saved, err := c.Save(ctx, domain.SaveRequest{Date: "2026-04-01"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := c.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, ok := c.Get("2026-04-01"); ok {
		t.Fatal("mirror still holds deleted record")
	}

	if len(c.AvailableDates()) != 0 {
		t.Fatalf("dates = %v, want empty", c.AvailableDates())
	}
}

func TestSaveConflictSurfacesAPIError(t *testing.T) {
	api := newFakeAPI("tok-123")
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c := New(srv.URL, WithHTTPClient(srv.Client()), WithToken("tok-123"))

	ctx := context.Background()

	if _, err := c.Save(ctx, domain.SaveRequest{Date: "2026-04-01"}); err != nil {
		t.Fatalf("first save: %v", err)
	}

	_, err := c.Save(ctx, domain.SaveRequest{Date: "2026-04-01"})

	var apiErr *APIError

	if !errors.As(err, &apiErr) {
		t.Fatalf("want APIError, got %v", err)
	}

	if apiErr.Status != http.StatusConflict || apiErr.Code != "date_taken" {
		t.Fatalf("got %+v", apiErr)
	}
}
