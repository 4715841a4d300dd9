package errors

import (
	"fmt"
	"net/http"
	"strings"

	"erpcore/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// User-related errors
	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"找不到該使用者",
		"",
	)

	ErrPhoneAlreadyExists = NewBaseError(
		http.StatusConflict,
		"PHONE_ALREADY_EXISTS",
		"此手機號碼已被註冊",
		"",
	)

	ErrUserCreationFailed = NewBaseError(
		http.StatusInternalServerError,
		"USER_CREATION_FAILED",
		"建立使用者失敗",
		"",
	)

	ErrUserUpdateFailed = NewBaseError(
		http.StatusInternalServerError,
		"USER_UPDATE_FAILED",
		"更新使用者失敗",
		"",
	)

	// Authentication-related errors
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"手機號碼或密碼錯誤",
		"",
	)

	ErrAccountDeactivated = NewBaseError(
		http.StatusForbidden,
		"ACCOUNT_DEACTIVATED",
		"此帳號已被停用",
		"",
	)

	ErrTokenExpired = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_EXPIRED",
		"權杖已過期",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"密碼處理錯誤",
		"",
	)

	// Company-related errors
	ErrCompanyNotFound = NewBaseError(
		http.StatusNotFound,
		"COMPANY_NOT_FOUND",
		"找不到該公司",
		"",
	)

	ErrCompanyAlreadyExists = NewBaseError(
		http.StatusConflict,
		"COMPANY_ALREADY_EXISTS",
		"此公司名稱已被使用",
		"",
	)

	ErrTenantConfiguration = NewBaseError(
		http.StatusInternalServerError,
		"TENANT_CONFIGURATION_ERROR",
		"使用者的公司設定不完整",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"輸入資料驗證失敗",
		"",
	)

	// Transaction-related errors
	ErrTransactionFailed = NewBaseError(
		http.StatusInternalServerError,
		"TRANSACTION_FAILED",
		"資料庫交易失敗",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"系統內部錯誤",
		"",
	)

	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"存取被拒絕",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"找不到該資源",
		"",
	)

	ErrConflict = NewBaseError(
		http.StatusConflict,
		"CONFLICT",
		"資源衝突",
		"",
	)
)

// NewInvalidTokenError creates a token rejection error carrying the machine
// readable reason (malformed, bad signature, wrong type, revoked).
func NewInvalidTokenError(reason string) AppError {
	return NewBaseError(
		http.StatusUnauthorized,
		"INVALID_TOKEN",
		"無效的權杖",
		reason,
	)
}

// NewPasswordTooWeakError creates a password policy error listing the
// unsatisfied requirements.
func NewPasswordTooWeakError(reasons ...string) AppError {
	return NewBaseError(
		http.StatusBadRequest,
		"PASSWORD_TOO_WEAK",
		"密碼強度不足",
		strings.Join(reasons, "; "),
	)
}

// RateLimitExceededError is returned when too many failed login attempts
// occur within the configured window. It carries the number of seconds the
// caller must wait before the oldest attempt falls out of the window.
type RateLimitExceededError struct {
	retryAfterSeconds int
}

// NewRateLimitExceededError creates a rate limit error with the given retry delay
func NewRateLimitExceededError(retryAfterSeconds int) *RateLimitExceededError {
	return &RateLimitExceededError{retryAfterSeconds: retryAfterSeconds}
}

// Error implements the error interface
func (e *RateLimitExceededError) Error() string {
	return e.Message()
}

// HTTPCode returns the HTTP status code
func (e *RateLimitExceededError) HTTPCode() int {
	return http.StatusTooManyRequests
}

// ErrorCode returns the business error code
func (e *RateLimitExceededError) ErrorCode() string {
	return "RATE_LIMIT_EXCEEDED"
}

// Message returns the user-friendly error message
func (e *RateLimitExceededError) Message() string {
	return fmt.Sprintf("嘗試次數過多，請於 %d 秒後再試", e.retryAfterSeconds)
}

// Details returns detailed error information
func (e *RateLimitExceededError) Details() string {
	return fmt.Sprintf("retry_after_seconds=%d", e.retryAfterSeconds)
}

// RetryAfterSeconds returns the wait time before another attempt is allowed
func (e *RateLimitExceededError) RetryAfterSeconds() int {
	return e.retryAfterSeconds
}

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "資料庫操作失敗"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}

// Unwrap returns the underlying error
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}
