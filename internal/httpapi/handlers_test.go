package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testworkflow/ordersvc/internal/messaging/noop"
	"github.com/testworkflow/ordersvc/internal/repository/memory"
	"github.com/testworkflow/ordersvc/internal/service"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	orders := service.NewOrderService(memory.NewOrderRepository(), noop.Publisher{}, nil, logger)
	return NewRouter(orders, logger)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeOrderResponse(t *testing.T, rec *httptest.ResponseRecorder) orderResponse {
	t.Helper()
	var resp orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func createOrder(t *testing.T, router http.Handler, customer string) orderResponse {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/orders", createOrderRequest{
		CustomerName: customer,
		Items: []orderItemRequest{
			{ProductID: "p1", ProductName: "Widget", Quantity: 2, Price: 25.00},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeOrderResponse(t, rec)
}

func TestCreateOrderEndpoint(t *testing.T) {
	router := newTestRouter(t)

	resp := createOrder(t, router, "Alice")

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Order)
	assert.Equal(t, "Alice", resp.Order.CustomerName)
	assert.Equal(t, "PENDING", resp.Order.Status)
	assert.Equal(t, 50.0, resp.Order.TotalAmount)
	require.Len(t, resp.Order.Items, 1)

	_, err := uuid.Parse(resp.Order.ID)
	assert.NoError(t, err)
	_, err = time.Parse(time.RFC3339, resp.Order.CreatedAt)
	assert.NoError(t, err)
}

func TestCreateOrderRejectsInvalidItem(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/orders", createOrderRequest{
		CustomerName: "Alice",
		Items: []orderItemRequest{
			{ProductID: "p1", ProductName: "Widget", Quantity: 0, Price: 25.00},
		},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, decodeOrderResponse(t, rec).Success)
}

func TestGetOrder(t *testing.T) {
	router := newTestRouter(t)
	created := createOrder(t, router, "Alice")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/orders/"+created.Order.ID, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeOrderResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, created.Order.ID, resp.Order.ID)
}

func TestGetOrderNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/orders/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetOrderRejectsMalformedID(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/orders/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	router := newTestRouter(t)
	created := createOrder(t, router, "Alice")

	rec := doJSON(t, router, http.MethodPut,
		fmt.Sprintf("/api/v1/orders/%s/status", created.Order.ID),
		updateStatusRequest{Status: "CONFIRMED"})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeOrderResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "CONFIRMED", resp.Order.Status)
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	router := newTestRouter(t)
	created := createOrder(t, router, "Alice")

	rec := doJSON(t, router, http.MethodPut,
		fmt.Sprintf("/api/v1/orders/%s/status", created.Order.ID),
		updateStatusRequest{Status: "MISPLACED"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateOrderStatusNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPut,
		fmt.Sprintf("/api/v1/orders/%s/status", uuid.NewString()),
		updateStatusRequest{Status: "SHIPPED"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListOrdersPagination(t *testing.T) {
	router := newTestRouter(t)
	for _, customer := range []string{"Alice", "Bob", "Carol"} {
		createOrder(t, router, customer)
		time.Sleep(2 * time.Millisecond)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/v1/orders?limit=2&offset=0", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listOrdersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.Total)
	require.Len(t, resp.Orders, 2)
	assert.Equal(t, "Carol", resp.Orders[0].CustomerName)
	assert.Equal(t, "Bob", resp.Orders[1].CustomerName)
}

// A zero or missing limit must fall back to the default page size instead of
// dividing the offset by zero.
func TestListOrdersZeroLimit(t *testing.T) {
	router := newTestRouter(t)
	createOrder(t, router, "Alice")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/orders?limit=0&offset=0", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp listOrdersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Total)
	require.Len(t, resp.Orders, 1)
}
