package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/redisx"
	"github.com/vladislavdragonenkov/checkout/internal/service/checkout"
)

// OrdersHandler обслуживает REST-маршруты заказов поверх сервиса чекаута.
type OrdersHandler struct {
	service *checkout.Service
	idem    redisx.IdempotencyStore
	logger  *log.Entry
}

func NewOrdersHandler(service *checkout.Service, idem redisx.IdempotencyStore, logger *log.Entry) *OrdersHandler {
	if logger == nil {
		logger = log.New().WithField("component", "http-orders")
	}
	return &OrdersHandler{service: service, idem: idem, logger: logger}
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{id}", h.getOrder)
	r.Put("/orders/{id}", h.updateOrder)
	r.Delete("/orders/{id}", h.deleteOrder)
}

type customerDTO struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	ShippingAddress string `json:"shipping_address"`
}

type orderLineDTO struct {
	ProductID  string `json:"product_id"`
	Qty        int32  `json:"qty"`
	PriceMinor int64  `json:"price_minor"`
	TotalMinor int64  `json:"total_minor,omitempty"`
}

type orderRequest struct {
	CustomerID string         `json:"customer_id"`
	Customer   customerDTO    `json:"customer"`
	Lines      []orderLineDTO `json:"lines"`
}

type orderResponse struct {
	ID         string         `json:"id"`
	CustomerID string         `json:"customer_id"`
	Customer   customerDTO    `json:"customer"`
	Lines      []orderLineDTO `json:"lines"`
	TotalItems int32          `json:"total_items"`
	TotalMinor int64          `json:"total_minor"`
	Version    int64          `json:"version"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func toDomainOrder(req orderRequest) domain.Order {
	lines := make([]domain.OrderLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, domain.OrderLine{
			ProductID:  line.ProductID,
			Qty:        line.Qty,
			PriceMinor: line.PriceMinor,
		})
	}
	return domain.Order{
		CustomerID: req.CustomerID,
		Customer: domain.Customer{
			Name:            req.Customer.Name,
			Email:           req.Customer.Email,
			Phone:           req.Customer.Phone,
			ShippingAddress: req.Customer.ShippingAddress,
		},
		Lines: lines,
	}
}

func toOrderResponse(order domain.Order) orderResponse {
	lines := make([]orderLineDTO, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, orderLineDTO{
			ProductID:  line.ProductID,
			Qty:        line.Qty,
			PriceMinor: line.PriceMinor,
			TotalMinor: line.TotalMinor,
		})
	}
	return orderResponse{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		Customer: customerDTO{
			Name:            order.Customer.Name,
			Email:           order.Customer.Email,
			Phone:           order.Customer.Phone,
			ShippingAddress: order.Customer.ShippingAddress,
		},
		Lines:      lines,
		TotalItems: order.TotalItems,
		TotalMinor: order.TotalMinor,
		Version:    order.Version,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError переводит доменные ошибки в HTTP-статусы: бизнес-отказы
// чекаута — 400, отсутствующие сущности — 404, конфликт версий — 409,
// всё остальное — 500 без деталей.
func (h *OrdersHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsCheckoutError(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case domain.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case domain.IsVersionConflict(err):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		h.logger.WithError(err).Error("internal error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.CustomerID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": domain.ErrCustomerRequired.Error()})
		return
	}

	// Повтор запроса с тем же Idempotency-Key возвращает уже созданный заказ.
	idemKey := r.Header.Get("Idempotency-Key")
	if idemKey != "" && h.idem != nil {
		orderID, ok, err := h.idem.Lookup(r.Context(), idemKey)
		if err != nil {
			h.logger.WithError(err).Warn("idempotency lookup failed, proceeding without dedup")
		} else if ok {
			existing, err := h.service.Get(orderID)
			if err == nil {
				writeJSON(w, http.StatusOK, toOrderResponse(existing))
				return
			}
			if !domain.IsNotFound(err) {
				h.writeError(w, err)
				return
			}
			// Заказ исчез, а ключ ещё жив: создаём заново.
		}
	}

	created, err := h.service.Create(toDomainOrder(req))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if idemKey != "" && h.idem != nil {
		if err := h.idem.Remember(r.Context(), idemKey, created.ID); err != nil {
			h.logger.WithError(err).Warn("failed to remember idempotency key")
		}
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(created))
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "customer_id is required"})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	orders, err := h.service.ListByCustomer(customerID, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, toOrderResponse(order))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *OrdersHandler) updateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	updated, err := h.service.Update(chi.URLParam(r, "id"), toDomainOrder(req))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(updated))
}

func (h *OrdersHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
