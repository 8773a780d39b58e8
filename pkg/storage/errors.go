package storage

import "errors"

// ErrLoanNotFound is returned when no loan exists with the requested ID.
var ErrLoanNotFound = errors.New("loan not found")

// ErrPaymentNotFound is returned when no payment exists with the requested ID.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrVersionConflict is returned when a loan was modified after it was read.
// The caller should reload the loan and re-validate before writing again.
var ErrVersionConflict = errors.New("loan was modified concurrently")

// ErrPaymentAlreadySettled is returned when a payment is no longer pending.
var ErrPaymentAlreadySettled = errors.New("payment already settled")
