package httpapi_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/httpapi"
	"github.com/vladislavdragonenkov/checkout/internal/redisx"
	"github.com/vladislavdragonenkov/checkout/internal/service/checkout"
	"github.com/vladislavdragonenkov/checkout/internal/storage/memory"
)

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger.WithField("component", "test")
}

func newTestServer(t *testing.T) (*httptest.Server, domain.ProductRepository) {
	t.Helper()

	orders := memory.NewOrderRepository()
	products := memory.NewProductRepository()
	logger := loggerForTests()

	require.NoError(t, products.Save(domain.Product{
		ID:         "p-1",
		Name:       "Keyboard",
		PriceMinor: 1000,
		Stock:      5,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}))

	service := checkout.NewServiceWithoutMetrics(orders, products, nil, logger)

	router := httpapi.NewRouter()
	httpapi.NewOrdersHandler(service, redisx.NewMemoryIdempotencyStore(), logger).Register(router)
	httpapi.NewProductsHandler(products, logger).Register(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, products
}

func orderBody(qty int32, priceMinor int64) []byte {
	body, _ := json.Marshal(map[string]any{
		"customer_id": "cust-1",
		"customer": map[string]string{
			"name":             "Ivan",
			"email":            "ivan@example.com",
			"shipping_address": "Tverskaya 1",
		},
		"lines": []map[string]any{
			{"product_id": "p-1", "qty": qty, "price_minor": priceMinor},
		},
	})
	return body
}

func doRequest(t *testing.T, method, url string, body []byte, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeOrder(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestCreateOrder(t *testing.T) {
	server, products := newTestServer(t)

	resp := doRequest(t, http.MethodPost, server.URL+"/orders", orderBody(2, 1000), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	order := decodeOrder(t, resp)
	require.NotEmpty(t, order["id"])
	require.EqualValues(t, 2, order["total_items"])
	require.EqualValues(t, 2000, order["total_minor"])

	product, err := products.Get("p-1")
	require.NoError(t, err)
	require.EqualValues(t, 3, product.Stock)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	server, products := newTestServer(t)

	resp := doRequest(t, http.MethodPost, server.URL+"/orders", orderBody(10, 1000), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	product, err := products.Get("p-1")
	require.NoError(t, err)
	require.EqualValues(t, 5, product.Stock)
}

func TestCreateOrderNegativeQtyRejected(t *testing.T) {
	server, products := newTestServer(t)

	resp := doRequest(t, http.MethodPost, server.URL+"/orders", orderBody(-3, 1000), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Отрицательное количество не должно увеличить сток.
	product, err := products.Get("p-1")
	require.NoError(t, err)
	require.EqualValues(t, 5, product.Stock)
}

func TestCreateOrderMissingCustomer(t *testing.T) {
	server, _ := newTestServer(t)

	body, _ := json.Marshal(map[string]any{
		"lines": []map[string]any{
			{"product_id": "p-1", "qty": 1, "price_minor": 1000},
		},
	})
	resp := doRequest(t, http.MethodPost, server.URL+"/orders", body, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateOrderPriceMismatch(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doRequest(t, http.MethodPost, server.URL+"/orders", orderBody(1, 999), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateOrderEmptyLines(t *testing.T) {
	server, _ := newTestServer(t)

	body, _ := json.Marshal(map[string]any{"customer_id": "cust-1", "lines": []any{}})
	resp := doRequest(t, http.MethodPost, server.URL+"/orders", body, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateOrderInvalidJSON(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doRequest(t, http.MethodPost, server.URL+"/orders", []byte("{not json"), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateOrderIdempotencyKeyReturnsExisting(t *testing.T) {
	server, products := newTestServer(t)
	headers := map[string]string{"Idempotency-Key": "req-42"}

	first := doRequest(t, http.MethodPost, server.URL+"/orders", orderBody(2, 1000), headers)
	require.Equal(t, http.StatusCreated, first.StatusCode)
	created := decodeOrder(t, first)

	second := doRequest(t, http.MethodPost, server.URL+"/orders", orderBody(2, 1000), headers)
	require.Equal(t, http.StatusOK, second.StatusCode)
	replayed := decodeOrder(t, second)

	require.Equal(t, created["id"], replayed["id"])

	// Сток списан один раз, не дважды.
	product, err := products.Get("p-1")
	require.NoError(t, err)
	require.EqualValues(t, 3, product.Stock)
}

func TestGetOrder(t *testing.T) {
	server, _ := newTestServer(t)

	created := decodeOrder(t, doRequest(t, http.MethodPost, server.URL+"/orders", orderBody(1, 1000), nil))

	resp := doRequest(t, http.MethodGet, fmt.Sprintf("%s/orders/%s", server.URL, created["id"]), nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decodeOrder(t, resp)
	require.Equal(t, created["id"], got["id"])
	require.EqualValues(t, 1000, got["total_minor"])
}

func TestGetOrderNotFound(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, server.URL+"/orders/missing", nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListOrdersByCustomer(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doRequest(t, http.MethodPost, server.URL+"/orders", orderBody(1, 1000), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	listResp := doRequest(t, http.MethodGet, server.URL+"/orders?customer_id=cust-1", nil, nil)
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var list []map[string]any
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
	require.Len(t, list, 1)

	missing := doRequest(t, http.MethodGet, server.URL+"/orders", nil, nil)
	require.Equal(t, http.StatusBadRequest, missing.StatusCode)
}

func TestUpdateOrder(t *testing.T) {
	server, products := newTestServer(t)

	created := decodeOrder(t, doRequest(t, http.MethodPost, server.URL+"/orders", orderBody(2, 1000), nil))

	resp := doRequest(t, http.MethodPut, fmt.Sprintf("%s/orders/%s", server.URL, created["id"]), orderBody(1, 1000), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	updated := decodeOrder(t, resp)
	require.EqualValues(t, 1, updated["total_items"])
	require.EqualValues(t, 1000, updated["total_minor"])

	// Было списано 2, после обновления списана 1: остаток 4.
	product, err := products.Get("p-1")
	require.NoError(t, err)
	require.EqualValues(t, 4, product.Stock)
}

func TestUpdateOrderNotFound(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doRequest(t, http.MethodPut, server.URL+"/orders/missing", orderBody(1, 1000), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteOrderRestoresStock(t *testing.T) {
	server, products := newTestServer(t)

	created := decodeOrder(t, doRequest(t, http.MethodPost, server.URL+"/orders", orderBody(2, 1000), nil))

	resp := doRequest(t, http.MethodDelete, fmt.Sprintf("%s/orders/%s", server.URL, created["id"]), nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	product, err := products.Get("p-1")
	require.NoError(t, err)
	require.EqualValues(t, 5, product.Stock)

	missing := doRequest(t, http.MethodGet, fmt.Sprintf("%s/orders/%s", server.URL, created["id"]), nil, nil)
	require.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestDeleteOrderNotFound(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doRequest(t, http.MethodDelete, server.URL+"/orders/missing", nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProductsEndpoints(t *testing.T) {
	server, _ := newTestServer(t)

	put := doRequest(t, http.MethodPut, server.URL+"/products/p-2", []byte(`{"name":"Mouse","price_minor":500,"stock":3}`), nil)
	require.Equal(t, http.StatusOK, put.StatusCode)

	get := doRequest(t, http.MethodGet, server.URL+"/products/p-2", nil, nil)
	require.Equal(t, http.StatusOK, get.StatusCode)
	product := decodeOrder(t, get)
	require.EqualValues(t, 500, product["price_minor"])

	list := doRequest(t, http.MethodGet, server.URL+"/products", nil, nil)
	require.Equal(t, http.StatusOK, list.StatusCode)
	var items []map[string]any
	require.NoError(t, json.NewDecoder(list.Body).Decode(&items))
	require.Len(t, items, 2)

	missing := doRequest(t, http.MethodGet, server.URL+"/products/nope", nil, nil)
	require.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestHealthz(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, server.URL+"/healthz", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
