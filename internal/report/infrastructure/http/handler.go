package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/notiflow/notiflow/internal/report/application"
	"github.com/notiflow/notiflow/internal/report/domain"
	"github.com/notiflow/notiflow/internal/report/infrastructure/xlsx"
)

type Handler struct {
	log    *slog.Logger
	svc    *application.Service
	tracer trace.Tracer
}

func NewHandler(log *slog.Logger, svc *application.Service) *Handler {
	return &Handler{log: log, svc: svc, tracer: otel.Tracer("report-http")}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/sales", h.sales)
	r.Get("/sales/export", h.export)
	return r
}

func (h *Handler) sales(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Monthly(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, report)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ExportSalesReport")
	defer span.End()

	report, err := h.svc.Monthly(ctx, r.URL.Query().Get("period"))
	if err != nil {
		h.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=sales-%s.xlsx", report.Period))
	if err := xlsx.Write(w, report); err != nil {
		h.log.Error("write spreadsheet", "period", report.Period, "err", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidPeriod) {
		h.respond(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	h.log.Error("report request failed", "err", err)
	h.respond(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func (h *Handler) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("write response", "err", err)
	}
}
