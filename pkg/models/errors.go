package models

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrItemUnavailable = errors.New("menu item is not available")
	ErrNoPendingOrder  = errors.New("no pending order found")
)
