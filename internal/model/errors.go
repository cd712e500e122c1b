// Package model contains the domain types of the ledger.
package model

import "errors"

// Validation errors.
var (
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDay      = errors.New("invalid day of month")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrMissingField    = errors.New("missing required field")
)
