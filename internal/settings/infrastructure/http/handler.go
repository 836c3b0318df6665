package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/notiflow/notiflow/internal/settings/application"
	"github.com/notiflow/notiflow/internal/settings/domain"
)

type Handler struct {
	log      *slog.Logger
	svc      *application.Service
	validate *validator.Validate
}

func NewHandler(log *slog.Logger, svc *application.Service) *Handler {
	return &Handler{log: log, svc: svc, validate: validator.New()}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.get)
	r.Put("/", h.update)
	r.Post("/test-parse", h.testParse)
	return r
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.Get(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, settings)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var values map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		h.respond(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	settings, err := h.svc.Update(r.Context(), values)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, settings)
}

type testParseRequest struct {
	Content string `json:"content" validate:"required"`
}

func (h *Handler) testParse(w http.ResponseWriter, r *http.Request) {
	var req testParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respond(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	result, err := h.svc.TestParse(r.Context(), req.Content)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]json.RawMessage{"result": result})
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrUnknownKey) {
		h.respond(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	h.log.Error("settings request failed", "err", err)
	h.respond(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func (h *Handler) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("write response", "err", err)
	}
}
