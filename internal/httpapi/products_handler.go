package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// ProductsHandler обслуживает каталог товаров: просмотр витрины и
// административное создание/обновление карточек.
type ProductsHandler struct {
	products domain.ProductRepository
	logger   *log.Entry
}

func NewProductsHandler(products domain.ProductRepository, logger *log.Entry) *ProductsHandler {
	if logger == nil {
		logger = log.New().WithField("component", "http-products")
	}
	return &ProductsHandler{products: products, logger: logger}
}

func (h *ProductsHandler) Register(r *chi.Mux) {
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
	r.Put("/products/{id}", h.putProduct)
}

type productDTO struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	PriceMinor int64     `json:"price_minor"`
	Stock      int32     `json:"stock"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

func toProductDTO(product domain.Product) productDTO {
	return productDTO{
		ID:         product.ID,
		Name:       product.Name,
		PriceMinor: product.PriceMinor,
		Stock:      product.Stock,
		CreatedAt:  product.CreatedAt,
		UpdatedAt:  product.UpdatedAt,
	}
}

func (h *ProductsHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	products, err := h.products.List(limit)
	if err != nil {
		h.logger.WithError(err).Error("failed to list products")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	resp := make([]productDTO, 0, len(products))
	for _, product := range products {
		resp = append(resp, toProductDTO(product))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ProductsHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(chi.URLParam(r, "id"))
	if err != nil {
		if domain.IsNotFound(err) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		h.logger.WithError(err).Error("failed to get product")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(product))
}

func (h *ProductsHandler) putProduct(w http.ResponseWriter, r *http.Request) {
	var req productDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	product := domain.Product{
		ID:         chi.URLParam(r, "id"),
		Name:       req.Name,
		PriceMinor: req.PriceMinor,
		Stock:      req.Stock,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	if errs := product.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errs[0].Error()})
		return
	}

	if err := h.products.Save(product); err != nil {
		h.logger.WithError(err).Error("failed to save product")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(product))
}
