package email

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/scoutline/recruiting-data/internal/email/entity"
	"github.com/scoutline/recruiting-data/internal/user"
	"github.com/scoutline/recruiting-data/pkg/database"
)

// Handler exposes HTTP endpoints for mailbox and queue operations.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewService(db), logger: logger}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := user.UserIDFromContext(r.Context())
	limit, offset := pageParams(r, 50)
	if term := r.URL.Query().Get("q"); term != "" {
		emails, err := h.svc.Search(r.Context(), userID, term, limit)
		if err != nil {
			h.logger.Warnw("search emails failed", "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "search failed"})
			return
		}
		h.writeJSON(w, http.StatusOK, emails)
		return
	}
	emails, err := h.svc.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		h.logger.Warnw("list emails failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, emails)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	wf, err := h.svc.GetWithFeedback(r.Context(), id)
	if err != nil {
		if database.IsNotFound(err) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "email not found"})
			return
		}
		h.logger.Warnw("get email failed", "id", id, "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "lookup failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, wf)
}

func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	var e entity.Email
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	e.UserID = user.UserIDFromContext(r.Context())
	if err := h.svc.Ingest(r.Context(), &e); err != nil {
		if database.IsUniqueViolation(err) {
			h.writeJSON(w, http.StatusConflict, map[string]string{"error": "message already ingested"})
			return
		}
		h.logger.Warnw("ingest email failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "ingest failed"})
		return
	}
	h.writeJSON(w, http.StatusCreated, e)
}

// MarkProcessed flips the extraction flag on one message.
func (h *Handler) MarkProcessed(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	var req struct {
		Processed bool `json:"processed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	e, err := h.svc.MarkProcessed(r.Context(), id, req.Processed)
	if err != nil {
		if database.IsNotFound(err) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "email not found"})
			return
		}
		h.logger.Warnw("mark processed failed", "id", id, "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "update failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, e)
}

// Enqueue adds a fetch-and-process work item for the caller.
func (h *Handler) Enqueue(w http.ResponseWriter, r *http.Request) {
	var qe entity.QueueEntry
	if err := json.NewDecoder(r.Body).Decode(&qe); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	qe.UserID = user.UserIDFromContext(r.Context())
	if err := h.svc.Enqueue(r.Context(), &qe); err != nil {
		h.logger.Warnw("enqueue failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "enqueue failed"})
		return
	}
	h.writeJSON(w, http.StatusCreated, qe)
}

// Queue lists the caller's queue entries for one status.
func (h *Handler) Queue(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = entity.StatusQueued
	}
	limit, _ := pageParams(r, 100)
	entries, err := h.svc.QueueByUserAndStatus(r.Context(), user.UserIDFromContext(r.Context()), status, limit)
	if err != nil {
		h.logger.Warnw("list queue failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, entries)
}

// UpdateQueueStatus records a status transition on one queue entry.
func (h *Handler) UpdateQueueStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	var req struct {
		Status       string  `json:"status"`
		ErrorMessage *string `json:"error_message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	qe, err := h.svc.UpdateQueueStatus(r.Context(), id, req.Status, req.ErrorMessage)
	if err != nil {
		if database.IsNotFound(err) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "queue entry not found"})
			return
		}
		h.logger.Warnw("update queue status failed", "id", id, "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "update failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, qe)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.StatsByUser(r.Context(), user.UserIDFromContext(r.Context()))
	if err != nil {
		h.logger.Warnw("email stats failed", "err", err)
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
