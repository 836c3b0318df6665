package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/notiflow/notiflow/internal/calendar/application"
	"github.com/notiflow/notiflow/internal/calendar/domain"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.month)
	return r
}

func (h *Handler) StatsRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/daily", h.daily)
	return r
}

// month returns the full working set for one month: the per-day aggregates
// plus the raw collections the client re-derives week/day views from.
func (h *Handler) month(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().UTC().Format(domain.MonthLayout)
	} else if _, err := time.Parse(domain.MonthLayout, month); err != nil {
		http.Error(w, "invalid month, want YYYY-MM", http.StatusBadRequest)
		return
	}

	snap, err := h.service.MonthSnapshot(r.Context(), month)
	if err != nil {
		h.log.Error("month snapshot failed", "month", month, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	days, err := snap.Days()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"month":    month,
		"days":     days,
		"orders":   snap.Orders(),
		"messages": snap.Messages(),
	})
}

func (h *Handler) daily(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.DailyStats(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.log.Error("daily stats failed", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
