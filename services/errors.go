package services

import "errors"

// Error yang disurface ke client (bukan kesalahan internal)
var (
	ErrTableNotFound     = errors.New("table not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidStatus     = errors.New("invalid status")
)
