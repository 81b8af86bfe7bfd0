package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/dukerupert/shoplist/internal/apperr"
	"github.com/dukerupert/shoplist/internal/auth"
	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, email, fullName, passwordHash string, roleID int64) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetRoleByName(ctx context.Context, name string) (*model.Role, error)
}

type AuthHandler struct {
	users  UserStore
	tokens *auth.TokenIssuer
	logger *slog.Logger
}

func NewAuthHandler(users UserStore, tokens *auth.TokenIssuer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, logger: logger}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

func (req *registerRequest) validate() error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return apperr.Validation("a valid email is required")
	}
	if len(req.Password) < auth.MinPasswordLength {
		return apperr.Validation("password must be at least %d characters", auth.MinPasswordLength)
	}
	if len(req.Password) > auth.MaxPasswordLength {
		return apperr.Validation("password must be at most %d bytes", auth.MaxPasswordLength)
	}
	return nil
}

// Register creates an account with the "user" role.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, h.logger, err)
		return
	}

	ctx := r.Context()
	existing, err := h.users.GetByEmail(ctx, req.Email)
	if err != nil {
		writeError(w, h.logger, apperr.Unavailable("failed to look up user", err))
		return
	}
	if existing != nil {
		writeError(w, h.logger, apperr.Conflict("email already in use"))
		return
	}

	role, err := h.users.GetRoleByName(ctx, model.RoleUser)
	if err != nil {
		writeError(w, h.logger, apperr.Unavailable("failed to load role", err))
		return
	}
	if role == nil {
		writeError(w, h.logger, apperr.Unavailable("user role missing, run the seed command", errors.New("role not seeded")))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.users.Create(ctx, req.Email, req.FullName, hash, role.ID)
	if errors.Is(err, store.ErrDuplicate) {
		writeError(w, h.logger, apperr.Conflict("email already in use"))
		return
	}
	if err != nil {
		writeError(w, h.logger, apperr.Unavailable("failed to create user", err))
		return
	}

	h.logger.Info("user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Login exchanges credentials for a bearer token. Unknown email and wrong
// password produce the same response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, h.logger, apperr.Validation("email and password are required"))
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, h.logger, apperr.Unavailable("failed to look up user", err))
		return
	}
	if user == nil {
		writeError(w, h.logger, apperr.Unauthenticated("invalid credentials"))
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			h.logger.Error("check password", "error", err, "user_id", user.ID)
		}
		writeError(w, h.logger, apperr.Unauthenticated("invalid credentials"))
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.tokens.TTL().Seconds()),
	})
}

// Profile returns the authenticated user.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == "" {
		writeError(w, h.logger, apperr.Unauthenticated("authentication required"))
		return
	}
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, apperr.Unavailable("failed to load user", err))
		return
	}
	if user == nil {
		writeError(w, h.logger, apperr.NotFound("user not found"))
		return
	}
	writeJSON(w, http.StatusOK, user)
}
