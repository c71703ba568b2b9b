package handler

import (
	"net/http"
	"strconv"
	"time"

	"matching-engine/internal/domain"
	"matching-engine/internal/engine"
	"matching-engine/internal/service"

	"github.com/go-chi/chi/v5"
)

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	orderSvc *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderSvc *service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// enterOrderRequest is the JSON request body for POST /orders and
// PUT /orders. Prices and quantities are integral; prices are expressed
// in the security's smallest currency unit.
type enterOrderRequest struct {
	RequestID                uint64 `json:"request_id"`
	OrderID                  uint64 `json:"order_id"`
	SecurityISIN             string `json:"security_isin"`
	Side                     string `json:"side"`
	Quantity                 int64  `json:"quantity"`
	Price                    int64  `json:"price"`
	BrokerID                 string `json:"broker_id"`
	ShareholderID            string `json:"shareholder_id"`
	PeakSize                 int64  `json:"peak_size"`
	MinimumExecutionQuantity int64  `json:"minimum_execution_quantity"`
	StopPrice                int64  `json:"stop_price"`
}

// eventsResponse carries the notifications a request produced, in order.
type eventsResponse struct {
	Events []domain.Event `json:"events"`
}

func (r enterOrderRequest) toEngineRequest() engine.EnterOrderRequest {
	return engine.EnterOrderRequest{
		RequestID:                r.RequestID,
		OrderID:                  r.OrderID,
		SecurityISIN:             r.SecurityISIN,
		Side:                     domain.Side(r.Side),
		Quantity:                 r.Quantity,
		Price:                    r.Price,
		BrokerID:                 r.BrokerID,
		ShareholderID:            r.ShareholderID,
		PeakSize:                 r.PeakSize,
		MinimumExecutionQuantity: r.MinimumExecutionQuantity,
		StopPrice:                r.StopPrice,
		EntryTime:                time.Now(),
	}
}

// SubmitOrder handles POST /orders.
func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req enterOrderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	events := h.orderSvc.NewOrder(req.toEngineRequest())
	WriteJSON(w, http.StatusOK, eventsResponse{Events: events})
}

// UpdateOrder handles PUT /orders.
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	var req enterOrderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	events := h.orderSvc.UpdateOrder(req.toEngineRequest())
	WriteJSON(w, http.StatusOK, eventsResponse{Events: events})
}

// DeleteOrder handles DELETE /orders/{order_id}. The owning security and
// side come from query parameters since DELETE carries no body.
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseUint(chi.URLParam(r, "order_id"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", "order_id must be a positive integer")
		return
	}
	requestID, _ := strconv.ParseUint(r.URL.Query().Get("request_id"), 10, 64)

	events := h.orderSvc.DeleteOrder(engine.DeleteOrderRequest{
		RequestID:    requestID,
		OrderID:      orderID,
		SecurityISIN: r.URL.Query().Get("security_isin"),
		Side:         domain.Side(r.URL.Query().Get("side")),
	})
	WriteJSON(w, http.StatusOK, eventsResponse{Events: events})
}
