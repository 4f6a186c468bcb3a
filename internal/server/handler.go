package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/runnerr0/timerlog/internal/record"
	"github.com/runnerr0/timerlog/internal/stats"
)

// DefaultUserID is used when a request names no user.
const DefaultUserID = "default"

// Handler serves the record and stats endpoints.
type Handler struct {
	store      *Store
	logger     *slog.Logger
	now        func() time.Time
	windowDays int
}

// NewHandler creates a handler over store.
func NewHandler(store *Store, logger *slog.Logger, windowDays int) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:      store,
		logger:     logger,
		now:        time.Now,
		windowDays: windowDays,
	}
}

// NewRouter wires the service routes and middleware.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(h.logger.Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes registers the record routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stats", h.handleStats)
	r.Get("/records", h.handleListRecords)
	r.Post("/records", h.handleCreateRecord)
	r.Delete("/records/{id}", h.handleDeleteRecord)
}

type createRequest struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Duration  *int64 `json:"duration"`
	UserID    string `json:"user_id"`
}

func userID(r *http.Request) string {
	if id := r.URL.Query().Get("user_id"); id != "" {
		return id
	}
	return DefaultUserID
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	recs, err := h.store.List(r.Context(), userID(r))
	if err != nil {
		h.logger.Error("list records for stats", "err", err)
		respondError(w, http.StatusInternalServerError, "failed to load records")
		return
	}
	respondJSON(w, http.StatusOK, stats.Aggregate(recs, h.windowDays, h.now().UTC()))
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	recs, err := h.store.List(r.Context(), userID(r))
	if err != nil {
		h.logger.Error("list records", "err", err)
		respondError(w, http.StatusInternalServerError, "failed to load records")
		return
	}
	respondJSON(w, http.StatusOK, recs)
}

func (h *Handler) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.StartTime == "" || req.EndTime == "" || req.Duration == nil {
		respondError(w, http.StatusBadRequest, "startTime, endTime and duration are required")
		return
	}

	start, err := record.ParseTime(req.StartTime)
	if err != nil {
		respondError(w, http.StatusBadRequest, "startTime: "+err.Error())
		return
	}
	end, err := record.ParseTime(req.EndTime)
	if err != nil {
		respondError(w, http.StatusBadRequest, "endTime: "+err.Error())
		return
	}

	user := req.UserID
	if user == "" {
		user = userID(r)
	}

	rec, err := h.store.Insert(r.Context(), user, record.Draft{
		StartTime: start,
		EndTime:   end,
		Duration:  *req.Duration,
	})
	if err != nil {
		h.logger.Error("create record", "user_id", user, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to store record")
		return
	}
	respondJSON(w, http.StatusCreated, rec)
}

func (h *Handler) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.store.Delete(r.Context(), userID(r), id)
	switch {
	case errors.Is(err, record.ErrNotFound):
		respondError(w, http.StatusNotFound, "record not found")
	case err != nil:
		h.logger.Error("delete record", "id", id, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to delete record")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encode response", "err", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
