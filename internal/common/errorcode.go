package common

import "net/http"

// ErrorCode pairs an HTTP status with a stable machine-readable code.
type ErrorCode struct {
	Status  int
	Code    string
	Message string
}

// Common
var (
	CommonInvalidRequest   = ErrorCode{http.StatusBadRequest, "COMMON_001", "invalid request"}
	CommonInternalError    = ErrorCode{http.StatusInternalServerError, "COMMON_002", "internal server error"}
	CommonNotFound         = ErrorCode{http.StatusNotFound, "COMMON_003", "requested resource not found"}
	CommonMethodNotAllowed = ErrorCode{http.StatusMethodNotAllowed, "COMMON_004", "HTTP method not allowed"}
	CommonTooManyRequests  = ErrorCode{http.StatusTooManyRequests, "COMMON_005", "too many requests"}
)

// Authentication
var (
	AuthInvalidCredentials  = ErrorCode{http.StatusUnauthorized, "AUTH_001", "invalid email or password"}
	AuthTokenExpired        = ErrorCode{http.StatusUnauthorized, "AUTH_002", "authentication token has expired"}
	AuthTokenInvalid        = ErrorCode{http.StatusUnauthorized, "AUTH_003", "invalid authentication token"}
	AuthTokenMissing        = ErrorCode{http.StatusUnauthorized, "AUTH_004", "authentication token is required"}
	AuthRefreshTokenExpired = ErrorCode{http.StatusUnauthorized, "AUTH_005", "refresh token has expired"}
	AuthRefreshTokenInvalid = ErrorCode{http.StatusUnauthorized, "AUTH_006", "invalid refresh token"}
	AuthUnauthorized        = ErrorCode{http.StatusUnauthorized, "AUTH_007", "authentication is required"}
	AuthAccessDenied        = ErrorCode{http.StatusForbidden, "AUTH_008", "access denied"}
)

// Users
var (
	UserNotFound        = ErrorCode{http.StatusNotFound, "USER_001", "user not found"}
	UserEmailDuplicate  = ErrorCode{http.StatusConflict, "USER_002", "email is already in use"}
	UserAlreadyExists   = ErrorCode{http.StatusConflict, "USER_003", "user already exists"}
	UserInvalidPassword = ErrorCode{http.StatusBadRequest, "USER_004", "invalid password format"}
)

// Validation
var (
	ValidationError          = ErrorCode{http.StatusBadRequest, "VALIDATION_001", "input validation failed"}
	ValidationEmailFormat    = ErrorCode{http.StatusBadRequest, "VALIDATION_002", "invalid email format"}
	ValidationPasswordLength = ErrorCode{http.StatusBadRequest, "VALIDATION_003", "password must be at least 8 characters"}
)
