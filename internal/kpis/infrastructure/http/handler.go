package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/notiflow/notiflow/internal/kpis/application"
	"github.com/notiflow/notiflow/internal/kpis/domain"
)

type Handler struct {
	log      *slog.Logger
	svc      *application.Service
	validate *validator.Validate
	tracer   trace.Tracer
}

func NewHandler(log *slog.Logger, svc *application.Service) *Handler {
	return &Handler{
		log:      log,
		svc:      svc,
		validate: validator.New(),
		tracer:   otel.Tracer("kpis-http"),
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/pending", h.pending)
	r.Get("/overdue", h.overdue)
	r.Post("/{id}/reported", h.markReported)
	r.Post("/{id}/confirm", h.confirm)
	return r
}

func (h *Handler) pending(w http.ResponseWriter, r *http.Request) {
	reports, err := h.svc.Pending(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, listResponse{Count: len(reports), Reports: reports})
}

func (h *Handler) overdue(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	reports, err := h.svc.Overdue(r.Context(), days)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, listResponse{Count: len(reports), Reports: reports})
}

type markReportedRequest struct {
	ReferenceNumber string `json:"reference_number" validate:"required"`
	Notes           string `json:"notes"`
}

func (h *Handler) markReported(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "MarkReported")
	defer span.End()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.respond(w, http.StatusBadRequest, errorResponse{Error: "invalid report id"})
		return
	}
	var req markReportedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respond(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	rep, err := h.svc.MarkReported(ctx, id, req.ReferenceNumber, req.Notes)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, rep)
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.respond(w, http.StatusBadRequest, errorResponse{Error: "invalid report id"})
		return
	}
	rep, err := h.svc.Confirm(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, rep)
}

type listResponse struct {
	Count   int             `json:"count"`
	Reports []domain.Report `json:"reports"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.respond(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotPending),
		errors.Is(err, domain.ErrNotReported),
		errors.Is(err, domain.ErrReferenceRequired):
		h.respond(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		h.log.Error("kpis request failed", "err", err)
		h.respond(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (h *Handler) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("write response", "err", err)
	}
}
