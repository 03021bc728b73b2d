package dto

import (
	"net/http"
	"strings"
)

// General error codes
const (
	ErrCodeInternal   = "ERR_INTERNAL"
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
)

// statusByDomainCode maps domain error codes to HTTP status codes.
// Unknown codes default to 422: the request was well-formed but the
// operation is not allowed in the current state.
var statusByDomainCode = map[string]int{
	"NOT_FOUND":                http.StatusNotFound,
	"ALREADY_EXISTS":           http.StatusConflict,
	"CONCURRENCY_CONFLICT":     http.StatusConflict,
	"INVALID_INPUT":            http.StatusBadRequest,
	"INSUFFICIENT_STOCK":       http.StatusUnprocessableEntity,
	"INVALID_STATE_TRANSITION": http.StatusUnprocessableEntity,
	"TRANSPORT_FAILURE":        http.StatusBadGateway,
	"APPLY_FAILURE":            http.StatusUnprocessableEntity,
	"DATA_ERROR":               http.StatusBadRequest,
}

// GetHTTPStatus derives the HTTP status for a domain error code
func GetHTTPStatus(code string) int {
	if strings.HasPrefix(code, "INVARIANT_VIOLATION:") {
		return http.StatusUnprocessableEntity
	}
	if status, ok := statusByDomainCode[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
