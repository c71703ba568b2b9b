package domain

import (
	"errors"
	"strings"
)

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes; the service layer
// maps them to rejection events.
var (
	ErrSecurityAlreadyExists    = errors.New("security_already_exists")
	ErrSecurityNotFound         = errors.New("security_not_found")
	ErrBrokerAlreadyExists      = errors.New("broker_already_exists")
	ErrBrokerNotFound           = errors.New("broker_not_found")
	ErrShareholderAlreadyExists = errors.New("shareholder_already_exists")
	ErrShareholderNotFound      = errors.New("shareholder_not_found")
	ErrOrderNotFound            = errors.New("order_not_found")

	// Immutable-attribute violations on order update.
	ErrIcebergAttributeChange = errors.New("cannot_change_iceberg_attribute")
	ErrStopAttributeChange    = errors.New("cannot_change_stop_attribute")

	// Conditional orders are frozen while price discovery is pending.
	ErrNewStopOrderInAuction    = errors.New("cannot_add_stop_limit_order_in_auction_state")
	ErrUpdateStopOrderInAuction = errors.New("cannot_update_stop_limit_order_in_auction_state")
	ErrDeleteStopOrderInAuction = errors.New("cannot_delete_stop_limit_order_in_auction_state")
)

// Rejection reason messages reported back to request originators.
const (
	ReasonInvalidOrderID             = "Invalid order ID"
	ReasonQuantityNotPositive        = "Order quantity is not positive"
	ReasonPriceNotPositive           = "Order price is not positive"
	ReasonUnknownSecurity            = "Unknown security ISIN"
	ReasonUnknownBroker              = "Unknown broker ID"
	ReasonUnknownShareholder         = "Unknown shareholder ID"
	ReasonInvalidPeakSize            = "Iceberg order peak size is out of range"
	ReasonInvalidMinimumQuantity     = "Minimum execution quantity is out of range"
	ReasonInvalidStopPrice           = "Stop price cannot be negative"
	ReasonStopOrderWithMinQuantity   = "Stop-limit order cannot have a minimum execution quantity"
	ReasonStopOrderWithPeakSize      = "An order cannot be both iceberg and stop-limit"
	ReasonQuantityNotMultipleOfLot   = "Quantity is not a multiple of the security lot size"
	ReasonPriceNotMultipleOfTick     = "Price is not a multiple of the security tick size"
	ReasonMinQuantityInAuction       = "Orders with a minimum execution quantity are not accepted in auction state"
	ReasonBuyerNotEnoughCredit       = "Buyer has not enough credit"
	ReasonSellerNotEnoughPositions   = "Seller has not enough positions"
	ReasonMinimumQuantityNotMet      = "Minimum execution quantity is insufficient"
	ReasonMinimumQuantityImmutable   = "Minimum execution quantity cannot be changed"
	ReasonOrderNotFound              = "Order ID not found in the order book"
	ReasonIcebergAttributeImmutable  = "Iceberg attribute cannot be changed"
	ReasonStopAttributeImmutable     = "Stop-limit attribute cannot be changed"
	ReasonNewStopOrderInAuction      = "Cannot add a stop-limit order in auction state"
	ReasonUpdateStopOrderInAuction   = "Cannot update a stop-limit order in auction state"
	ReasonDeleteStopOrderInAuction   = "Cannot delete a stop-limit order in auction state"
	ReasonInvalidTargetState         = "Unknown target matching state"
	ReasonInvalidSide                = "Unknown order side"
)

// RejectionError carries the full list of reasons a request was rejected.
// It is an expected business outcome, not a fault.
type RejectionError struct {
	Reasons []string
}

func (e *RejectionError) Error() string {
	return strings.Join(e.Reasons, "; ")
}

// ValidationError represents a malformed request surfaced at the HTTP layer.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
