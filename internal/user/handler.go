package user

import (
	"encoding/json"
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/scoutline/recruiting-data/internal/user/entity"
	"github.com/scoutline/recruiting-data/pkg/database"
)

// Handler exposes HTTP endpoints for account operations.
type Handler struct {
	svc    *Service
	tokens *TokenIssuer
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, tokens *TokenIssuer, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewService(db, nil), tokens: tokens, logger: logger}
}

// Service exposes the underlying service for middleware wiring.
func (h *Handler) Service() *Service { return h.svc }

// SignupRequest request body for signup endpoint.
type SignupRequest struct {
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	Name         *string `json:"name"`
	Organization *string `json:"organization"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid signup payload", "err", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	u, err := h.svc.SignUp(r.Context(), req.Email, req.Password, req.Name, req.Organization)
	if err != nil {
		if database.IsUniqueViolation(err) {
			h.writeJSON(w, http.StatusConflict, map[string]string{"error": "email already registered"})
			return
		}
		h.logger.Warnw("signup failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "signup failed"})
		return
	}
	h.writeJSON(w, http.StatusCreated, u)
}

// LoginRequest login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the session token.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid login payload", "err", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	u, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if err == ErrBadCredentials {
			h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		h.logger.Warnw("login failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "login failed"})
		return
	}
	token, err := h.tokens.Issue(u)
	if err != nil {
		h.logger.Warnw("token issue failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "login failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: u})
}

// Me returns the authenticated user with its settings.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	u, st, err := h.svc.GetWithSettings(r.Context(), userID)
	if err != nil {
		if database.IsNotFound(err) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
			return
		}
		h.logger.Warnw("get user failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "lookup failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"user": u, "settings": st})
}

// UpdateSettings upserts the caller's settings row.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var st entity.Settings
	if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	st.UserID = UserIDFromContext(r.Context())
	if st.FetchFrequency == "" {
		st.FetchFrequency = "manual"
	}
	if err := h.svc.SaveSettings(r.Context(), &st); err != nil {
		h.logger.Warnw("save settings failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "save failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, st)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Debugw("write response failed", "err", err)
	}
}
