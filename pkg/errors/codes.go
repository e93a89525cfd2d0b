package errors

import "net/http"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes shared by every layer.
const (
	ErrCodeInternal        ErrorCode = "COMMON_001"
	ErrCodeBadRequest      ErrorCode = "COMMON_002"
	ErrCodeNotFound        ErrorCode = "COMMON_003"
	ErrCodeConflict        ErrorCode = "COMMON_004"
	ErrCodeTooManyRequests ErrorCode = "COMMON_005"
	ErrCodeTimeout         ErrorCode = "COMMON_006"
	ErrCodeValidation      ErrorCode = "COMMON_007"
	ErrCodeExternalService ErrorCode = "COMMON_008"
)

// Record-pipeline error codes.
const (
	ErrCodeRuleTableInvalid ErrorCode = "REC_002"
)

// Dataset-store error codes.
const (
	ErrCodeStoreOpenFailed  ErrorCode = "STORE_001"
	ErrCodeStoreReadFailed  ErrorCode = "STORE_002"
	ErrCodeStoreWriteFailed ErrorCode = "STORE_003"
	ErrCodeStateCorrupt     ErrorCode = "STORE_004"
)

// External-extractor error codes.
const (
	ErrCodeExtractorAuthFailed   ErrorCode = "EXT_001"
	ErrCodeExtractorRequestError ErrorCode = "EXT_002"
	ErrCodeExtractorParseError   ErrorCode = "EXT_003"
	ErrCodeExtractorRateLimited  ErrorCode = "EXT_004"
)

// httpStatusByCode maps error codes to the HTTP status the API layer should
// respond with. Codes not listed map to 500.
var httpStatusByCode = map[ErrorCode]int{
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeConflict:        http.StatusConflict,
	ErrCodeTooManyRequests: http.StatusTooManyRequests,
	ErrCodeTimeout:         http.StatusGatewayTimeout,
	ErrCodeExternalService: http.StatusBadGateway,

	ErrCodeRuleTableInvalid: http.StatusBadRequest,

	ErrCodeExtractorAuthFailed:  http.StatusBadGateway,
	ErrCodeExtractorRateLimited: http.StatusTooManyRequests,
}

// HTTPStatus returns the HTTP status code associated with c.
func (c ErrorCode) HTTPStatus() int {
	if s, ok := httpStatusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}
