package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gracechapel/churchsite/internal/domain/user"
	"github.com/gracechapel/churchsite/internal/security"
)

type UsersStore interface {
	Create(ctx context.Context, email, passwordHash, firstName, lastName string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	UpdateLastLogin(ctx context.Context, id string) error
}

type TokenIssuer interface {
	Generate(userID string) (string, error)
}

type AuthHandler struct {
	users  UsersStore
	tokens TokenIssuer
	log    *slog.Logger
}

func NewAuthHandler(users UsersStore, tokens TokenIssuer, log *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, log: log}
}

// Signup registers a new member account and returns a bearer token so the
// client is logged in immediately.
func (h *AuthHandler) Signup(ctx *gin.Context) {
	var req user.SignupRequest

	if !BindJSON(ctx, &req) {
		return
	}

	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)

	if len(firstName) < 2 || len(lastName) < 2 {
		RespondBadRequest(ctx, "invalid_name", "First and last name must be at least 2 characters")
		return
	}

	email := security.NormalizeEmail(req.Email)

	if !security.ValidateEmail(email) {
		RespondBadRequest(ctx, "invalid_email", "Please enter a valid email address")
		return
	}

	if msg := security.ValidatePassword(req.Password); msg != "" {
		RespondBadRequest(ctx, "weak_password", msg)
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "password hash failed", "error", err)
		RespondInternal(ctx, "Could not create account")
		return
	}

	created, err := h.users.Create(ctx.Request.Context(), email, hash, firstName, lastName)

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			RespondConflict(ctx, "email_taken", "An account with this email already exists")
			return
		}

		h.log.ErrorContext(ctx.Request.Context(), "user create failed", "error", err)
		RespondInternal(ctx, "Could not create account")
		return
	}

	token, err := h.tokens.Generate(created.ID)

	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "token issue failed", "error", err, "user_id", created.ID)
		RespondInternal(ctx, "Could not create account")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"user":  created.Public(),
		"token": token,
	})
}

// Login verifies credentials and returns a fresh bearer token. Unknown
// email and wrong password get the same answer so the endpoint doesn't
// leak which accounts exist.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	email := security.NormalizeEmail(req.Email)

	if !security.ValidateEmail(email) {
		RespondBadRequest(ctx, "invalid_email", "Please enter a valid email address")
		return
	}

	found, err := h.users.GetByEmail(ctx.Request.Context(), email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondUnAuthorized(ctx, "invalid_credentials", "Invalid email or password")
			return
		}

		h.log.ErrorContext(ctx.Request.Context(), "user lookup failed", "error", err)
		RespondInternal(ctx, "Could not log in")
		return
	}

	if security.CheckPassword(found.PasswordHash, req.Password) != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Invalid email or password")
		return
	}

	if err := h.users.UpdateLastLogin(ctx.Request.Context(), found.ID); err != nil {
		// login still succeeds; the timestamp is best effort
		h.log.WarnContext(ctx.Request.Context(), "last login update failed", "error", err, "user_id", found.ID)
	}

	token, err := h.tokens.Generate(found.ID)

	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "token issue failed", "error", err, "user_id", found.ID)
		RespondInternal(ctx, "Could not log in")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user":  found.Public(),
		"token": token,
	})
}
