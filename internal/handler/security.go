package handler

import (
	"errors"
	"net/http"
	"strconv"

	"matching-engine/internal/domain"
	"matching-engine/internal/engine"
	"matching-engine/internal/service"

	"github.com/go-chi/chi/v5"
)

// SecurityHandler handles HTTP requests for security endpoints.
type SecurityHandler struct {
	securitySvc *service.SecurityService
	bookDepth   int
}

// NewSecurityHandler creates a new SecurityHandler. bookDepth caps the
// number of price levels returned per side of the book view.
func NewSecurityHandler(securitySvc *service.SecurityService, bookDepth int) *SecurityHandler {
	return &SecurityHandler{securitySvc: securitySvc, bookDepth: bookDepth}
}

// createSecurityRequest is the JSON request body for POST /securities.
type createSecurityRequest struct {
	ISIN     string `json:"isin"`
	TickSize int64  `json:"tick_size"`
	LotSize  int64  `json:"lot_size"`
}

// securityResponse is the JSON response for security endpoints.
type securityResponse struct {
	ISIN            string `json:"isin"`
	TickSize        int64  `json:"tick_size"`
	LotSize         int64  `json:"lot_size"`
	State           string `json:"state"`
	LastTradedPrice int64  `json:"last_traded_price"`
	CreatedAt       string `json:"created_at"`
}

// changeStateRequest is the JSON request body for PUT /securities/{isin}/state.
type changeStateRequest struct {
	State string `json:"state"`
}

// openingPriceResponse is the JSON response for the opening-price view.
type openingPriceResponse struct {
	ISIN             string `json:"isin"`
	OpeningPrice     int64  `json:"opening_price"`
	TradableQuantity int64  `json:"tradable_quantity"`
}

func buildSecurityResponse(sec *engine.Security) securityResponse {
	return securityResponse{
		ISIN:            sec.ISIN,
		TickSize:        sec.TickSize,
		LotSize:         sec.LotSize,
		State:           string(sec.State),
		LastTradedPrice: sec.LastTradedPrice,
		CreatedAt:       sec.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// Create handles POST /securities.
func (h *SecurityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSecurityRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	sec, err := h.securitySvc.Create(req.ISIN, req.TickSize, req.LotSize)
	if err != nil {
		mapSecurityError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, buildSecurityResponse(sec))
}

// Get handles GET /securities/{isin}.
func (h *SecurityHandler) Get(w http.ResponseWriter, r *http.Request) {
	sec, err := h.securitySvc.Get(chi.URLParam(r, "isin"))
	if err != nil {
		mapSecurityError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildSecurityResponse(sec))
}

// GetBook handles GET /securities/{isin}/book.
func (h *SecurityHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	depth := h.bookDepth
	if s := r.URL.Query().Get("depth"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			WriteError(w, http.StatusBadRequest, "validation_error", "depth must be a positive integer")
			return
		}
		if n < depth {
			depth = n
		}
	}

	view, err := h.securitySvc.Depth(chi.URLParam(r, "isin"), depth)
	if err != nil {
		mapSecurityError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, view)
}

// GetOpeningPrice handles GET /securities/{isin}/opening-price.
func (h *SecurityHandler) GetOpeningPrice(w http.ResponseWriter, r *http.Request) {
	isin := chi.URLParam(r, "isin")

	price, quantity, err := h.securitySvc.OpeningPrice(isin)
	if err != nil {
		mapSecurityError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, openingPriceResponse{
		ISIN:             isin,
		OpeningPrice:     price,
		TradableQuantity: quantity,
	})
}

// ChangeState handles PUT /securities/{isin}/state.
func (h *SecurityHandler) ChangeState(w http.ResponseWriter, r *http.Request) {
	var req changeStateRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	events, err := h.securitySvc.ChangeState(engine.ChangeStateRequest{
		SecurityISIN: chi.URLParam(r, "isin"),
		TargetState:  domain.MatchingState(req.State),
	})
	if err != nil {
		mapSecurityError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, eventsResponse{Events: events})
}

// mapSecurityError maps domain errors to HTTP responses for security endpoints.
func mapSecurityError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrSecurityNotFound):
		WriteError(w, http.StatusNotFound, "security_not_found", err.Error())
	case errors.Is(err, domain.ErrSecurityAlreadyExists):
		WriteError(w, http.StatusConflict, "security_already_exists", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
