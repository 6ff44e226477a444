// AngelaMos | 2026
// handler.go

package product

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/catalog-api/internal/core"
	"github.com/carterperez-dev/catalog-api/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/sku/{sku}", h.GetBySKU)
		r.Get("/category/{category}", h.ListByCategory)
		r.Get("/reports/low-stock", h.LowStock)
		r.Get("/{id}", h.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
			r.Patch("/{id}/deactivate", h.Deactivate)
			r.Patch("/{id}/stock", h.UpdateStock)
		})
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}

	p, err := h.service.CreateProduct(
		r.Context(),
		payload,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.CreatedWithMessage(w, "Product created successfully", p)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params, violations := ParseListParams(r.URL.Query())
	if len(violations) > 0 {
		core.JSONError(w, core.ValidationError(violations))
		return
	}

	result, err := h.service.GetProducts(r.Context(), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "Products fetched successfully", result)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	p, err := h.service.GetProductByID(r.Context(), id)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "Product fetched successfully", p)
}

func (h *Handler) GetBySKU(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProductBySKU(r.Context(), pathParam(r, "sku"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "Product fetched successfully", p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}

	p, err := h.service.UpdateProduct(
		r.Context(),
		id,
		payload,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "Product updated successfully", p)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "Product deleted successfully", nil)
}

func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	p, err := h.service.DeactivateProduct(
		r.Context(),
		id,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "Product deactivated successfully", p)
}

func (h *Handler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var req StockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	p, err := h.service.UpdateProductStock(
		r.Context(),
		id,
		req.Stock,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "Product stock updated successfully", p)
}

func (h *Handler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetProductsByCategory(
		r.Context(),
		pathParam(r, "category"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "Products fetched successfully", products)
}

func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetLowStockProducts(
		r.Context(),
		ParseThreshold(r.URL.Query().Get("threshold")),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "Low stock products fetched successfully", products)
}

func decodePayload(w http.ResponseWriter, r *http.Request) (Payload, bool) {
	var payload Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		core.BadRequest(w, "Invalid request body")
		return nil, false
	}
	if payload == nil {
		payload = Payload{}
	}
	return payload, true
}

// productID answers 404 for ids that cannot name a product, matching what
// a lookup of a missing row would return.
func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		core.NotFound(w, resourceName)
		return 0, false
	}
	return id, true
}

func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
