package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/testworkflow/ordersvc/internal/domain"
	"github.com/testworkflow/ordersvc/internal/service"
)

const defaultPageSize = 10

type handler struct {
	orders *service.OrderService
	logger *slog.Logger
}

type createOrderRequest struct {
	CustomerName string             `json:"customer_name"`
	Items        []orderItemRequest `json:"items"`
}

type orderItemRequest struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int32   `json:"quantity"`
	Price       float64 `json:"price"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type orderResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Order   *orderView `json:"order,omitempty"`
}

type listOrdersResponse struct {
	Orders []*orderView `json:"orders"`
	Total  int64        `json:"total"`
}

type orderView struct {
	ID           string     `json:"id"`
	CustomerName string     `json:"customerName"`
	Items        []itemView `json:"items"`
	TotalAmount  float64    `json:"totalAmount"`
	Status       string     `json:"status"`
	CreatedAt    string     `json:"createdAt"`
	UpdatedAt    string     `json:"updatedAt"`
}

type itemView struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int32   `json:"quantity"`
	Price       float64 `json:"price"`
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "order-service"})
}

func (h *handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, orderResponse{Message: "invalid request body"})
		return
	}

	items := make([]service.ItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.ItemInput{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       decimal.NewFromFloat(item.Price),
		})
	}

	order, err := h.orders.CreateOrder(r.Context(), req.CustomerName, items)
	if err != nil {
		h.writeError(w, "create order", err)
		return
	}
	writeJSON(w, http.StatusCreated, orderResponse{
		Success: true,
		Message: "Order created successfully",
		Order:   toOrderView(order),
	})
}

func (h *handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, orderResponse{Message: "invalid order id"})
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		h.writeError(w, "get order", err)
		return
	}
	if order == nil {
		writeJSON(w, http.StatusNotFound, orderResponse{Message: "Order not found"})
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{
		Success: true,
		Message: "Order found",
		Order:   toOrderView(order),
	})
}

func (h *handler) listOrders(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	// Convert the external (offset, limit) shape to (page, size) exactly once.
	// A non-positive limit falls back to the default instead of dividing by it.
	size := limit
	if size <= 0 {
		size = defaultPageSize
	}
	page := 0
	if offset > 0 {
		page = offset / size
	}

	orders, total, err := h.orders.ListOrders(r.Context(), page, size)
	if err != nil {
		h.writeError(w, "list orders", err)
		return
	}

	views := make([]*orderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, toOrderView(order))
	}
	writeJSON(w, http.StatusOK, listOrdersResponse{Orders: views, Total: total})
}

func (h *handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, orderResponse{Message: "invalid order id"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, orderResponse{Message: "invalid request body"})
		return
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		h.writeError(w, "update order status", err)
		return
	}

	order, err := h.orders.UpdateOrderStatus(r.Context(), id, status)
	if err != nil {
		h.writeError(w, "update order status", err)
		return
	}
	if order == nil {
		writeJSON(w, http.StatusNotFound, orderResponse{Message: "Order not found"})
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{
		Success: true,
		Message: "Order status updated",
		Order:   toOrderView(order),
	})
}

func (h *handler) writeError(w http.ResponseWriter, op string, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, orderResponse{Message: validationErr.Msg})
		return
	}
	h.logger.Error("request failed", "op", op, "error", err)
	writeJSON(w, http.StatusInternalServerError, orderResponse{Message: "Failed to " + op})
}

func toOrderView(order *domain.Order) *orderView {
	items := make([]itemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, itemView{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price.InexactFloat64(),
		})
	}
	return &orderView{
		ID:           order.ID.String(),
		CustomerName: order.CustomerName,
		Items:        items,
		TotalAmount:  order.TotalAmount.InexactFloat64(),
		Status:       order.Status.String(),
		CreatedAt:    order.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    order.UpdatedAt.Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
