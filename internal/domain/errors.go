package domain

import "errors"

var (
	// ErrNotFound is returned when a SKU is absent from the catalog or from an upstream response.
	ErrNotFound = errors.New("not found")
	// ErrUpstream is returned when a data source call or its payload fails.
	ErrUpstream = errors.New("upstream failure")
	// ErrInvalidInput is returned when a request is missing required fields.
	ErrInvalidInput = errors.New("invalid input")
)
