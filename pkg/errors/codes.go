package errors

import "net/http"

// ErrorCode identifies a failure category.  Codes are grouped by module
// prefix: COMMON for cross-cutting conditions, SRC for raw data sources,
// GEO for the boundary catalog, AGG for aggregation, ALERT for downstream
// alert delivery.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_005"
	ErrCodeTimeout            ErrorCode = "COMMON_006"
	ErrCodeValidation         ErrorCode = "COMMON_007"
	ErrCodeSerialization      ErrorCode = "COMMON_008"
	ErrCodeDatabaseError      ErrorCode = "COMMON_009"
	ErrCodeCacheError         ErrorCode = "COMMON_010"
	ErrCodeNotImplemented     ErrorCode = "COMMON_011"
)

// Data-source error codes.  These are load errors in the sense of the
// pipeline contract: a malformed primary input halts the run, no partial
// pipeline proceeds on top of it.
const (
	// ErrCodeSourceParse marks a source that could not be read at all:
	// unreadable CSV, invalid JSON, a boundary file that is not a
	// feature collection.
	ErrCodeSourceParse ErrorCode = "SRC_001"

	// ErrCodeSourceSchema marks a readable source with a broken schema,
	// e.g. a screening CSV missing a required column.
	ErrCodeSourceSchema ErrorCode = "SRC_002"

	// ErrCodeSourceUnavailable marks a source that could not be fetched
	// (missing file, unreachable bucket).
	ErrCodeSourceUnavailable ErrorCode = "SRC_003"
)

// Boundary-catalog error codes.
const (
	ErrCodeCatalogEmpty   ErrorCode = "GEO_001"
	ErrCodeRegionNotFound ErrorCode = "GEO_002"
)

// Aggregation error codes.
const (
	ErrCodeAggregationFailed ErrorCode = "AGG_001"
)

// Alert-delivery error codes.
const (
	ErrCodeAlertPublishFailed ErrorCode = "ALERT_001"
)

// Aliases used by generic layers.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeUnknown      = ErrorCode("")
	CodeOK           = ErrorCode("OK")
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeSourceParse:       http.StatusUnprocessableEntity,
	ErrCodeSourceSchema:      http.StatusUnprocessableEntity,
	ErrCodeSourceUnavailable: http.StatusServiceUnavailable,

	ErrCodeCatalogEmpty:   http.StatusUnprocessableEntity,
	ErrCodeRegionNotFound: http.StatusNotFound,

	ErrCodeAggregationFailed: http.StatusInternalServerError,

	ErrCodeAlertPublishFailed: http.StatusInternalServerError,
}

// HTTPStatusForCode returns the HTTP status for code, defaulting to 500.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsClientError reports whether code maps to a 4xx status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError reports whether code maps to a 5xx status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}
