package team

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/scoutline/recruiting-data/internal/team/entity"
	"github.com/scoutline/recruiting-data/pkg/database"
)

// Handler exposes HTTP endpoints for the team catalog.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewService(db), logger: logger}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var t entity.Team
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil || t.Name == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := h.svc.Create(r.Context(), &t); err != nil {
		if database.IsUniqueViolation(err) {
			h.writeJSON(w, http.StatusConflict, map[string]string{"error": "team name already registered"})
			return
		}
		h.logger.Warnw("create team failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "create failed"})
		return
	}
	h.writeJSON(w, http.StatusCreated, t)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	wa, err := h.svc.GetWithAliases(r.Context(), id)
	if err != nil {
		if database.IsNotFound(err) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "team not found"})
			return
		}
		h.logger.Warnw("get team failed", "id", id, "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "lookup failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, wa)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := 100, 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	if term := r.URL.Query().Get("q"); term != "" {
		teams, err := h.svc.Search(r.Context(), term, limit)
		if err != nil {
			h.logger.Warnw("search teams failed", "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "search failed"})
			return
		}
		h.writeJSON(w, http.StatusOK, teams)
		return
	}
	teams, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Warnw("list teams failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, teams)
}

// Resolve finds the team a raw name refers to.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name required"})
		return
	}
	t, err := h.svc.ResolveName(r.Context(), name)
	if err != nil {
		if database.IsNotFound(err) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "no matching team"})
			return
		}
		h.logger.Warnw("resolve team failed", "name", name, "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "resolve failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, t)
}

// AddAlias records an alternate spelling for a team.
func (h *Handler) AddAlias(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	var req struct {
		Alias  string `json:"alias"`
		Source string `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Alias == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	a, err := h.svc.AddAlias(r.Context(), id, req.Alias, req.Source)
	if err != nil {
		if database.IsUniqueViolation(err) {
			h.writeJSON(w, http.StatusConflict, map[string]string{"error": "alias already claimed"})
			return
		}
		h.logger.Warnw("add alias failed", "team_id", id, "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "add alias failed"})
		return
	}
	h.writeJSON(w, http.StatusCreated, a)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context())
	if err != nil {
		h.logger.Warnw("team stats failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "stats failed"})
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
