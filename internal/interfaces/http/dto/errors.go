package dto

import (
	"net/http"
	"strings"
)

// Error codes produced by the HTTP layer itself. Domain errors keep the code
// they were raised with.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeTooLarge     = "REQUEST_TOO_LARGE"
	ErrCodeUnavailable  = "SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	// 400
	ErrCodeValidation:        http.StatusBadRequest,
	ErrCodeBadRequest:        http.StatusBadRequest,
	ErrCodeInvalidJSON:       http.StatusBadRequest,
	"INVALID_INPUT":          http.StatusBadRequest,
	"INVALID_QUANTITY":       http.StatusBadRequest,
	"INVALID_PAYMENT_METHOD": http.StatusBadRequest,

	// 401 / 403
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	// 404
	ErrCodeNotFound:            http.StatusNotFound,
	"ARTICLE_NOT_FOUND":        http.StatusNotFound,
	"CART_NOT_FOUND":           http.StatusNotFound,
	"CART_ITEM_NOT_FOUND":      http.StatusNotFound,
	"ORDER_NOT_FOUND":          http.StatusNotFound,
	"PRODUCER_ORDER_NOT_FOUND": http.StatusNotFound,
	"CUSTOMER_NOT_FOUND":       http.StatusNotFound,
	"PRODUCER_NOT_FOUND":       http.StatusNotFound,

	// 409
	"INSUFFICIENT_STOCK":   http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"DUPLICATE_REQUEST":    http.StatusConflict,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CART_FINALIZED":       http.StatusConflict,

	// 413
	ErrCodeTooLarge: http.StatusRequestEntityTooLarge,

	// 422
	"INCOMPLETE_PROFILE":       http.StatusUnprocessableEntity,
	"NO_ACTIVE_CART":           http.StatusUnprocessableEntity,
	"EMPTY_CART":               http.StatusUnprocessableEntity,
	"INVALID_STATE_TRANSITION": http.StatusUnprocessableEntity,
	"INVALID_STATE":            http.StatusUnprocessableEntity,
	"UNASSIGNED_PRODUCER":      http.StatusUnprocessableEntity,
	"ALREADY_SPLIT":            http.StatusUnprocessableEntity,

	// 503
	ErrCodeUnavailable:        http.StatusServiceUnavailable,
	"PRINTING_UNAVAILABLE":    http.StatusServiceUnavailable,
	"ORDER_NUMBERS_EXHAUSTED": http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status for an error code. Codes missing from
// the table fall back on their naming convention (INVALID_* is 400, *_NOT_FOUND
// is 404) and then on 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
