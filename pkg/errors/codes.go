package errors

import "net/http"

// ErrorCode is a string identifier for a specific error condition. Codes are
// namespaced per module: COMMON_* for cross-cutting failures, REV_* for the
// review ingestion module, INS_* for the insight engine.
type ErrorCode string

func (c ErrorCode) String() string { return string(c) }

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
	ErrCodeMessageQueueError  ErrorCode = "COMMON_011"
	ErrCodeConfigError        ErrorCode = "COMMON_012"

	// CodeOK is the sentinel returned by GetCode for nil errors.
	CodeOK ErrorCode = "OK"
)

// Review module error codes.
const (
	ErrCodeReviewNotFound  ErrorCode = "REV_001"
	ErrCodeReviewMalformed ErrorCode = "REV_002"
	ErrCodeDatasetEmpty    ErrorCode = "REV_003"
	ErrCodeDatasetParse    ErrorCode = "REV_004"
	ErrCodeEntityNotFound  ErrorCode = "REV_005"
)

// Insight module error codes.
const (
	ErrCodeRunNotFound      ErrorCode = "INS_001"
	ErrCodeAnalysisFailed   ErrorCode = "INS_002"
	ErrCodeNoReviews        ErrorCode = "INS_003"
	ErrCodeThemeRulesEmpty  ErrorCode = "INS_004"
	ErrCodeDocumentEncoding ErrorCode = "INS_005"
)

// errorCodeHTTPStatus maps ErrorCodes to HTTP status codes for the API layer.
var errorCodeHTTPStatus = map[ErrorCode]int{
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
	ErrCodeMessageQueueError:  http.StatusInternalServerError,
	ErrCodeConfigError:        http.StatusInternalServerError,

	ErrCodeReviewNotFound:  http.StatusNotFound,
	ErrCodeReviewMalformed: http.StatusBadRequest,
	ErrCodeDatasetEmpty:    http.StatusUnprocessableEntity,
	ErrCodeDatasetParse:    http.StatusBadRequest,
	ErrCodeEntityNotFound:  http.StatusNotFound,

	ErrCodeRunNotFound:      http.StatusNotFound,
	ErrCodeAnalysisFailed:   http.StatusInternalServerError,
	ErrCodeNoReviews:        http.StatusUnprocessableEntity,
	ErrCodeThemeRulesEmpty:  http.StatusInternalServerError,
	ErrCodeDocumentEncoding: http.StatusInternalServerError,
}

// HTTPStatusForCode returns the HTTP status for an ErrorCode; 500 for codes
// with no explicit mapping.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsClientError reports whether the code maps to a 4xx status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError reports whether the code maps to a 5xx status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}
