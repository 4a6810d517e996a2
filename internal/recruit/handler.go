package recruit

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/scoutline/recruiting-data/internal/recruit/entity"
	"github.com/scoutline/recruiting-data/internal/user"
	"github.com/scoutline/recruiting-data/pkg/database"
)

// Handler exposes HTTP endpoints for recruit operations.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewService(db), logger: logger}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var rec entity.Recruit
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	rec.UserID = user.UserIDFromContext(r.Context())
	if err := h.svc.Create(r.Context(), &rec); err != nil {
		if database.IsUniqueViolation(err) {
			h.writeJSON(w, http.StatusConflict, map[string]string{"error": "recruit email already registered"})
			return
		}
		h.logger.Warnw("create recruit failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "create failed"})
		return
	}
	h.writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	rec, schedules, err := h.svc.GetWithSchedules(r.Context(), id)
	if err != nil {
		if database.IsNotFound(err) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "recruit not found"})
			return
		}
		h.logger.Warnw("get recruit failed", "id", id, "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "lookup failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"recruit": rec, "schedules": schedules})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := user.UserIDFromContext(r.Context())
	limit, offset := pageParams(r, 50)
	if term := r.URL.Query().Get("q"); term != "" {
		recruits, err := h.svc.Search(r.Context(), userID, term, limit)
		if err != nil {
			h.logger.Warnw("search recruits failed", "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "search failed"})
			return
		}
		h.writeJSON(w, http.StatusOK, recruits)
		return
	}
	if year := r.URL.Query().Get("grad_year"); year != "" {
		recruits, err := h.svc.ListByGradYear(r.Context(), userID, year)
		if err != nil {
			h.logger.Warnw("list recruits failed", "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list failed"})
			return
		}
		h.writeJSON(w, http.StatusOK, recruits)
		return
	}
	recruits, err := h.svc.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		h.logger.Warnw("list recruits failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, recruits)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	var rec entity.Recruit
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	rec.ID = id
	if err := h.svc.Update(r.Context(), &rec); err != nil {
		if database.IsNotFound(err) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "recruit not found"})
			return
		}
		if database.IsUniqueViolation(err) {
			h.writeJSON(w, http.StatusConflict, map[string]string{"error": "recruit email already registered"})
			return
		}
		h.logger.Warnw("update recruit failed", "id", id, "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "update failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

// Evaluate records a rating and evaluation note, stamping the evaluation
// date.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	var req struct {
		Rating     string `json:"rating"`
		Evaluation string `json:"evaluation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	rec, err := h.svc.UpdateEvaluation(r.Context(), id, req.Rating, req.Evaluation)
	if err != nil {
		if database.IsNotFound(err) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "recruit not found"})
			return
		}
		h.logger.Warnw("evaluate recruit failed", "id", id, "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "update failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	delErr := h.svc.DeleteCascade(r.Context(), id)
	if delErr != nil {
		if database.IsNotFound(delErr) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "recruit not found"})
			return
		}
		h.logger.Warnw("delete recruit failed", "id", id, "err", delErr)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "delete failed"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.StatsByUser(r.Context(), user.UserIDFromContext(r.Context()))
	if err != nil {
		h.logger.Warnw("recruit stats failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "stats failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, st)
}

func pageParams(r *http.Request, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Debugw("write response failed", "err", err)
	}
}
