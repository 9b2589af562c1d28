package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gracechapel/churchsite/internal/domain/user"
)

type fakeVerifier struct {
	userID string
	err    error
}

func (f fakeVerifier) Verify(token string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.userID, nil
}

type fakeLoader struct {
	users map[string]user.User
}

func (f fakeLoader) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func newGuardedRouter(verifier TokenVerifier, loader UserLoader) *gin.Engine {
	gin.SetMode(gin.TestMode)

	guard := NewAuthMiddleware(verifier, loader)

	r := gin.New()
	r.POST("/protected", guard.RequireAuth(), guard.RequirePublisher(), func(c *gin.Context) {
		role, _ := RoleFromContext(c)
		c.JSON(http.StatusOK, gin.H{"role": role})
	})

	return r
}

func doAuth(r http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/protected", nil)

	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestRequireAuthRejectsMissingOrMalformedHeader(t *testing.T) {
	r := newGuardedRouter(fakeVerifier{userID: "u1"}, fakeLoader{})

	for _, header := range []string{"", "Token abc", "Bearer", "Bearer   "} {
		if w := doAuth(r, header); w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: status = %d, want 401", header, w.Code)
		}
	}
}

func TestRequireAuthRejectsBadToken(t *testing.T) {
	r := newGuardedRouter(fakeVerifier{err: errors.New("expired")}, fakeLoader{})

	if w := doAuth(r, "Bearer whatever"); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRequirePublisherByRole(t *testing.T) {
	tests := []struct {
		role string
		want int
	}{
		{role: user.RoleAdmin, want: http.StatusOK},
		{role: user.RolePastor, want: http.StatusOK},
		{role: user.RoleMember, want: http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.role, func(t *testing.T) {
			loader := fakeLoader{users: map[string]user.User{
				"u1": {ID: "u1", Role: tc.role},
			}}

			r := newGuardedRouter(fakeVerifier{userID: "u1"}, loader)

			if w := doAuth(r, "Bearer good"); w.Code != tc.want {
				t.Fatalf("role %s: status = %d, want %d", tc.role, w.Code, tc.want)
			}
		})
	}
}

func TestRequirePublisherVanishedUserIsUnauthorized(t *testing.T) {
	// token verifies but the account no longer exists
	r := newGuardedRouter(fakeVerifier{userID: "ghost"}, fakeLoader{})

	if w := doAuth(r, "Bearer good"); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
