package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gracechapel/churchsite/internal/repo/memory"
)

type staticTokens struct{}

func (staticTokens) Generate(userID string) (string, error) {
	return "token-for-" + userID, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAuthRouter(users *memory.UsersRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewAuthHandler(users, staticTokens{}, testLogger())

	r := gin.New()
	r.POST("/api/auth/signup", h.Signup)
	r.POST("/api/auth/login", h.Login)

	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer

	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func signupBody() map[string]any {
	return map[string]any{
		"email":     "Pastor.John@Example.com",
		"firstName": "John",
		"lastName":  "Mark",
		"password":  "Secret123",
	}
}

func TestSignupCreatesAccountAndToken(t *testing.T) {
	users := memory.NewUsersRepo()
	r := newAuthRouter(users)

	w := doJSON(t, r, http.MethodPost, "/api/auth/signup", signupBody())

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
		Token string `json:"token"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resp.User.Email != "pastor.john@example.com" {
		t.Fatalf("email not normalized: %q", resp.User.Email)
	}

	if resp.User.Role != "member" {
		t.Fatalf("new accounts must start as member, got %q", resp.User.Role)
	}

	if resp.Token != "token-for-"+resp.User.ID {
		t.Fatalf("token not bound to user id: %q", resp.Token)
	}
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	users := memory.NewUsersRepo()
	r := newAuthRouter(users)

	if w := doJSON(t, r, http.MethodPost, "/api/auth/signup", signupBody()); w.Code != http.StatusCreated {
		t.Fatalf("first signup: %d", w.Code)
	}

	w := doJSON(t, r, http.MethodPost, "/api/auth/signup", signupBody())

	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate signup status = %d, want 409", w.Code)
	}
}

func TestSignupValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m map[string]any)
		want   string
	}{
		{
			name:   "bad email shape",
			mutate: func(m map[string]any) { m["email"] = "not-an-email" },
			want:   "Please enter a valid email address",
		},
		{
			name:   "short password",
			mutate: func(m map[string]any) { m["password"] = "Ab1" },
			want:   "Password must be at least 8 characters long",
		},
		{
			name:   "no uppercase",
			mutate: func(m map[string]any) { m["password"] = "secret123" },
			want:   "Password must contain at least one uppercase letter",
		},
		{
			name:   "no digit",
			mutate: func(m map[string]any) { m["password"] = "SecretPass" },
			want:   "Password must contain at least one number",
		},
		{
			name:   "one letter first name",
			mutate: func(m map[string]any) { m["firstName"] = " J " },
			want:   "First and last name must be at least 2 characters",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newAuthRouter(memory.NewUsersRepo())

			body := signupBody()
			tc.mutate(body)

			w := doJSON(t, r, http.MethodPost, "/api/auth/signup", body)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body %s", w.Code, w.Body.String())
			}

			var resp struct {
				Error struct {
					Message string `json:"message"`
				} `json:"error"`
			}

			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}

			if resp.Error.Message != tc.want {
				t.Fatalf("message = %q, want %q", resp.Error.Message, tc.want)
			}
		})
	}
}

func TestSignupMissingFieldsRejected(t *testing.T) {
	r := newAuthRouter(memory.NewUsersRepo())

	w := doJSON(t, r, http.MethodPost, "/api/auth/signup", map[string]any{"email": "a@b.co"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestLoginHappyPath(t *testing.T) {
	users := memory.NewUsersRepo()
	r := newAuthRouter(users)

	doJSON(t, r, http.MethodPost, "/api/auth/signup", signupBody())

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "pastor.john@example.com",
		"password": "Secret123",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resp.Token == "" {
		t.Fatal("login must issue a token")
	}

	u, err := users.GetByID(context.Background(), resp.User.ID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}

	if u.LastLogin == nil {
		t.Fatal("login must record last login time")
	}
}

func TestLoginRejectsBadCredentialsUniformly(t *testing.T) {
	users := memory.NewUsersRepo()
	r := newAuthRouter(users)

	doJSON(t, r, http.MethodPost, "/api/auth/signup", signupBody())

	attempts := []map[string]any{
		{"email": "pastor.john@example.com", "password": "WrongPass1"},
		{"email": "nobody@example.com", "password": "Secret123"},
	}

	var messages []string

	for _, body := range attempts {
		w := doJSON(t, r, http.MethodPost, "/api/auth/login", body)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401; body %s", w.Code, w.Body.String())
		}

		var resp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}

		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}

		messages = append(messages, resp.Error.Message)
	}

	// wrong password and unknown account must be indistinguishable
	if messages[0] != messages[1] || messages[0] != "Invalid email or password" {
		t.Fatalf("credential errors differ: %q vs %q", messages[0], messages[1])
	}
}

func TestLoginMalformedEmailIsBadRequest(t *testing.T) {
	r := newAuthRouter(memory.NewUsersRepo())

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "nope",
		"password": "Secret123",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
