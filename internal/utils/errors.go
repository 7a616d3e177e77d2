package utils

import "errors"

// Common application errors used across services.
var (
	ErrStorage           = errors.New("STORAGE_ERROR")
	ErrCorruptRegistry   = errors.New("CORRUPT_REGISTRY")
	ErrShopNotFound      = errors.New("SHOP_NOT_FOUND")
	ErrProductNotFound   = errors.New("PRODUCT_NOT_FOUND")
	ErrOrderNotFound     = errors.New("ORDER_NOT_FOUND")
	ErrInvalidShopStatus = errors.New("INVALID_SHOP_STATUS")
	ErrInvalidQuantity   = errors.New("INVALID_QUANTITY")
	ErrEmptyCart         = errors.New("EMPTY_CART")
	ErrTooManyAttempts   = errors.New("TOO_MANY_ATTEMPTS")
	ErrImageStorageOff   = errors.New("IMAGE_STORAGE_DISABLED")
)
