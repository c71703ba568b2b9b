package handler

import (
	"errors"
	"net/http"

	"matching-engine/internal/domain"
	"matching-engine/internal/service"

	"github.com/go-chi/chi/v5"
)

// ParticipantHandler handles HTTP requests for broker and shareholder
// endpoints.
type ParticipantHandler struct {
	participantSvc *service.ParticipantService
}

// NewParticipantHandler creates a new ParticipantHandler.
func NewParticipantHandler(participantSvc *service.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participantSvc: participantSvc}
}

// createBrokerRequest is the JSON request body for POST /brokers.
type createBrokerRequest struct {
	BrokerID string `json:"broker_id"`
	Credit   int64  `json:"credit"`
}

// brokerResponse is the JSON response for broker endpoints.
type brokerResponse struct {
	BrokerID string `json:"broker_id"`
	Credit   int64  `json:"credit"`
}

// createShareholderRequest is the JSON request body for POST /shareholders.
type createShareholderRequest struct {
	ShareholderID string           `json:"shareholder_id"`
	Positions     map[string]int64 `json:"positions"`
}

// shareholderResponse is the JSON response for shareholder endpoints.
type shareholderResponse struct {
	ShareholderID string           `json:"shareholder_id"`
	Positions     map[string]int64 `json:"positions"`
}

// CreateBroker handles POST /brokers.
func (h *ParticipantHandler) CreateBroker(w http.ResponseWriter, r *http.Request) {
	var req createBrokerRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	b, err := h.participantSvc.CreateBroker(req.BrokerID, req.Credit)
	if err != nil {
		mapParticipantError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, brokerResponse{BrokerID: b.BrokerID, Credit: b.Credit})
}

// GetBroker handles GET /brokers/{broker_id}.
func (h *ParticipantHandler) GetBroker(w http.ResponseWriter, r *http.Request) {
	b, err := h.participantSvc.GetBroker(chi.URLParam(r, "broker_id"))
	if err != nil {
		mapParticipantError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, brokerResponse{BrokerID: b.BrokerID, Credit: b.Credit})
}

// CreateShareholder handles POST /shareholders.
func (h *ParticipantHandler) CreateShareholder(w http.ResponseWriter, r *http.Request) {
	var req createShareholderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	sh, err := h.participantSvc.CreateShareholder(req.ShareholderID, req.Positions)
	if err != nil {
		mapParticipantError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, shareholderResponse{
		ShareholderID: sh.ShareholderID,
		Positions:     sh.Positions,
	})
}

// GetShareholder handles GET /shareholders/{shareholder_id}.
func (h *ParticipantHandler) GetShareholder(w http.ResponseWriter, r *http.Request) {
	sh, err := h.participantSvc.GetShareholder(chi.URLParam(r, "shareholder_id"))
	if err != nil {
		mapParticipantError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, shareholderResponse{
		ShareholderID: sh.ShareholderID,
		Positions:     sh.Positions,
	})
}

// mapParticipantError maps domain errors to HTTP responses for broker and
// shareholder endpoints.
func mapParticipantError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrBrokerNotFound):
		WriteError(w, http.StatusNotFound, "broker_not_found", err.Error())
	case errors.Is(err, domain.ErrBrokerAlreadyExists):
		WriteError(w, http.StatusConflict, "broker_already_exists", err.Error())
	case errors.Is(err, domain.ErrShareholderNotFound):
		WriteError(w, http.StatusNotFound, "shareholder_not_found", err.Error())
	case errors.Is(err, domain.ErrShareholderAlreadyExists):
		WriteError(w, http.StatusConflict, "shareholder_already_exists", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
