package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/notiflow/notiflow/internal/catalog/application"
	"github.com/notiflow/notiflow/internal/catalog/domain"
)

func decimalFromFloat(v float64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromFloat(v))
}

type Handler struct {
	log      *slog.Logger
	svc      *application.Service
	validate *validator.Validate
}

func NewHandler(log *slog.Logger, svc *application.Service) *Handler {
	return &Handler{log: log, svc: svc, validate: validator.New()}
}

func (h *Handler) HospitalRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.listHospitals)
	r.Post("/", h.createHospital)
	r.Get("/{id}", h.getHospital)
	r.Put("/{id}", h.updateHospital)
	r.Delete("/{id}", h.deleteHospital)
	return r
}

func (h *Handler) ProductRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.listProducts)
	r.Post("/", h.createProduct)
	r.Get("/{id}", h.getProduct)
	r.Put("/{id}", h.updateProduct)
	r.Delete("/{id}", h.deleteProduct)
	r.Get("/{id}/aliases", h.listAliases)
	r.Post("/{id}/aliases", h.addAlias)
	r.Delete("/{id}/aliases/{aliasID}", h.deleteAlias)
	return r
}

func (h *Handler) SupplierRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.listSuppliers)
	r.Post("/", h.createSupplier)
	r.Get("/{id}", h.getSupplier)
	r.Put("/{id}", h.updateSupplier)
	r.Delete("/{id}", h.deleteSupplier)
	return r
}

func (h *Handler) listHospitals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	hospitals, total, err := h.svc.ListHospitals(r.Context(), application.HospitalFilter{
		Search: q.Get("search"),
		Type:   q.Get("type"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, pageResponse{Total: total, Items: hospitals})
}

func (h *Handler) getHospital(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	hospital, err := h.svc.GetHospital(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, hospital)
}

type hospitalRequest struct {
	Name           string  `json:"name" validate:"required"`
	ShortName      *string `json:"short_name"`
	HospitalType   string  `json:"hospital_type" validate:"required"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
	ContactPerson  *string `json:"contact_person"`
	BusinessNumber *string `json:"business_number"`
	PaymentTerms   *string `json:"payment_terms"`
	LeadTimeDays   int     `json:"lead_time_days" validate:"gte=0"`
	IsActive       *bool   `json:"is_active"`
}

func (req hospitalRequest) toDomain(id int64) domain.Hospital {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return domain.Hospital{
		ID:             id,
		Name:           req.Name,
		ShortName:      req.ShortName,
		HospitalType:   req.HospitalType,
		Phone:          req.Phone,
		Address:        req.Address,
		ContactPerson:  req.ContactPerson,
		BusinessNumber: req.BusinessNumber,
		PaymentTerms:   req.PaymentTerms,
		LeadTimeDays:   req.LeadTimeDays,
		IsActive:       active,
	}
}

func (h *Handler) createHospital(w http.ResponseWriter, r *http.Request) {
	var req hospitalRequest
	if !h.decode(w, r, &req) {
		return
	}
	hospital, err := h.svc.CreateHospital(r.Context(), req.toDomain(0))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusCreated, hospital)
}

func (h *Handler) updateHospital(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req hospitalRequest
	if !h.decode(w, r, &req) {
		return
	}
	hospital := req.toDomain(id)
	if err := h.svc.UpdateHospital(r.Context(), hospital); err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, hospital)
}

func (h *Handler) deleteHospital(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteHospital(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	products, total, err := h.svc.ListProducts(r.Context(), application.ProductFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, pageResponse{Total: total, Items: products})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	product, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, product)
}

type productRequest struct {
	Name         string   `json:"name" validate:"required"`
	OfficialName string   `json:"official_name" validate:"required"`
	ShortName    *string  `json:"short_name"`
	Category     string   `json:"category" validate:"required"`
	Manufacturer *string  `json:"manufacturer"`
	Ingredient   *string  `json:"ingredient"`
	Efficacy     *string  `json:"efficacy"`
	StandardCode *string  `json:"standard_code"`
	Unit         *string  `json:"unit"`
	UnitPrice    *float64 `json:"unit_price" validate:"omitempty,gte=0"`
	IsActive     *bool    `json:"is_active"`
}

func (req productRequest) toDomain(id int64) domain.Product {
	p := domain.Product{
		ID:           id,
		Name:         req.Name,
		OfficialName: req.OfficialName,
		ShortName:    req.ShortName,
		Category:     req.Category,
		Manufacturer: req.Manufacturer,
		Ingredient:   req.Ingredient,
		Efficacy:     req.Efficacy,
		StandardCode: req.StandardCode,
		Unit:         req.Unit,
		IsActive:     true,
	}
	if req.UnitPrice != nil {
		p.UnitPrice = decimalFromFloat(*req.UnitPrice)
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	return p
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !h.decode(w, r, &req) {
		return
	}
	product, err := h.svc.CreateProduct(r.Context(), req.toDomain(0))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusCreated, product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req productRequest
	if !h.decode(w, r, &req) {
		return
	}
	product := req.toDomain(id)
	if err := h.svc.UpdateProduct(r.Context(), product); err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, product)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listAliases(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	aliases, err := h.svc.ProductAliases(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, aliases)
}

type aliasRequest struct {
	Alias      string `json:"alias" validate:"required"`
	HospitalID *int64 `json:"hospital_id"`
	Source     string `json:"source"`
}

func (h *Handler) addAlias(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req aliasRequest
	if !h.decode(w, r, &req) {
		return
	}
	alias, err := h.svc.AddProductAlias(r.Context(), domain.ProductAlias{
		ProductID:  id,
		HospitalID: req.HospitalID,
		Alias:      req.Alias,
		Source:     req.Source,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusCreated, alias)
}

func (h *Handler) deleteAlias(w http.ResponseWriter, r *http.Request) {
	aliasID, err := strconv.ParseInt(chi.URLParam(r, "aliasID"), 10, 64)
	if err != nil {
		h.respond(w, http.StatusBadRequest, errorResponse{Error: "invalid alias id"})
		return
	}
	if err := h.svc.DeleteProductAlias(r.Context(), aliasID); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	suppliers, total, err := h.svc.ListSuppliers(r.Context(), application.SupplierFilter{
		Search: q.Get("search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, pageResponse{Total: total, Items: suppliers})
}

func (h *Handler) getSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	supplier, err := h.svc.GetSupplier(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, supplier)
}

type supplierRequest struct {
	Name        string          `json:"name" validate:"required"`
	ShortName   *string         `json:"short_name"`
	ContactInfo json.RawMessage `json:"contact_info"`
	Notes       *string         `json:"notes"`
	IsActive    *bool           `json:"is_active"`
}

func (req supplierRequest) toDomain(id int64) domain.Supplier {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return domain.Supplier{
		ID:          id,
		Name:        req.Name,
		ShortName:   req.ShortName,
		ContactInfo: req.ContactInfo,
		Notes:       req.Notes,
		IsActive:    active,
	}
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if !h.decode(w, r, &req) {
		return
	}
	supplier, err := h.svc.CreateSupplier(r.Context(), req.toDomain(0))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusCreated, supplier)
}

func (h *Handler) updateSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req supplierRequest
	if !h.decode(w, r, &req) {
		return
	}
	supplier := req.toDomain(id)
	if err := h.svc.UpdateSupplier(r.Context(), supplier); err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, supplier)
}

func (h *Handler) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteSupplier(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type pageResponse struct {
	Total int `json:"total"`
	Items any `json:"items"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		h.respond(w, http.StatusBadRequest, errorResponse{Error: "invalid " + name})
		return 0, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respond(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.respond(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		h.respond(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	h.log.Error("catalog request failed", "err", err)
	h.respond(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func (h *Handler) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("write response", "err", err)
	}
}
