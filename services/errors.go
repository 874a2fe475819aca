package services

import "errors"

// Sentinel errors surfaced to controllers, which map them onto HTTP codes:
// ErrValidation -> 400, not-found -> 404, conflicts -> 409.
var (
	ErrValidation           = errors.New("validation failed")
	ErrUnknownLocation      = errors.New("unknown location")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrTableNotFound        = errors.New("table not found")
	ErrDuplicateTableNumber = errors.New("table number already exists for this location")
	ErrTableUnavailable     = errors.New("table no longer available")
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderFinalized       = errors.New("order already in a terminal status")
)
