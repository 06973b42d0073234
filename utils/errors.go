// utils/errors.go
package utils

import "errors"

var (
	ErrIllegalTransition = errors.New("illegal booking status transition")
	ErrAmountMismatch    = errors.New("payment amount does not match service price")
	ErrCardUnavailable   = errors.New("card payments are currently unavailable")
	ErrEmptyCart         = errors.New("cart is empty")
)
