package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternal     ErrorType = "EXTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeTokenRevoked       ErrorCode = "TOKEN_REVOKED"

	ErrCodeUserNotFound   ErrorCode = "USER_NOT_FOUND"
	ErrCodeUserDeleted    ErrorCode = "USER_DELETED"
	ErrCodeDuplicateEmail ErrorCode = "DUPLICATE_EMAIL"
	ErrCodeRoleNotFound   ErrorCode = "ROLE_NOT_FOUND"

	ErrCodeCompanyNotFound  ErrorCode = "COMPANY_NOT_FOUND"
	ErrCodeDuplicateCompany ErrorCode = "DUPLICATE_COMPANY"
	ErrCodeDuplicatePhone   ErrorCode = "DUPLICATE_PHONE"

	ErrCodeCurrencyNotFound  ErrorCode = "CURRENCY_NOT_FOUND"
	ErrCodeGroupNotFound     ErrorCode = "CURRENCY_GROUP_NOT_FOUND"
	ErrCodeRateNotFound      ErrorCode = "CONVERSION_RATE_NOT_FOUND"
	ErrCodeDuplicateCurrency ErrorCode = "DUPLICATE_CURRENCY"
	ErrCodeDuplicateGroup    ErrorCode = "DUPLICATE_CURRENCY_GROUP"
	ErrCodeGroupNotEmpty     ErrorCode = "CURRENCY_GROUP_NOT_EMPTY"
	ErrCodeDuplicateRate     ErrorCode = "DUPLICATE_RATE"

	ErrCodeEventTypeNotFound  ErrorCode = "EVENT_TYPE_NOT_FOUND"
	ErrCodeTemplateNotFound   ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrCodeRuleNotFound       ErrorCode = "PROCESSING_RULE_NOT_FOUND"
	ErrCodeDuplicateTemplate  ErrorCode = "DUPLICATE_TEMPLATE"
	ErrCodeDuplicateEventType ErrorCode = "DUPLICATE_EVENT_TYPE"

	ErrCodeProviderFailed ErrorCode = "PROVIDER_REQUEST_FAILED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause returns a copy carrying the underlying error, so the shared
// sentinel values above stay immutable.
func (e *AppError) WithCause(cause error) *AppError {
	return &AppError{
		Type:       e.Type,
		Code:       e.Code,
		Message:    e.Message,
		Details:    e.Details,
		StatusCode: e.StatusCode,
		Cause:      cause,
	}
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Join() string {
	messages := make([]string, len(v.Errors))
	for i, err := range v.Errors {
		messages[i] = err.Message
	}
	return strings.Join(messages, "; ")
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewExternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeExternal,
		Code:       ErrCodeProviderFailed,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

var (
	ErrInvalidCredentials = NewUnauthorizedError("invalid email or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("user account is inactive", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("token has expired", ErrCodeTokenExpired)
	ErrTokenRevoked       = NewUnauthorizedError("refresh token is not recognized", ErrCodeTokenRevoked)

	ErrUserNotFound   = NewNotFoundError("user not found", ErrCodeUserNotFound)
	ErrDuplicateEmail = NewConflictError("a user with this email already exists", ErrCodeDuplicateEmail)
	ErrRoleNotFound   = NewNotFoundError("role not found", ErrCodeRoleNotFound)

	ErrCompanyNotFound  = NewNotFoundError("company not found", ErrCodeCompanyNotFound)
	ErrDuplicateCompany = NewConflictError("a company with this name already exists", ErrCodeDuplicateCompany)
	ErrDuplicatePhone   = NewConflictError("a company with this phone number already exists", ErrCodeDuplicatePhone)

	ErrCurrencyNotFound  = NewNotFoundError("currency not found", ErrCodeCurrencyNotFound)
	ErrGroupNotFound     = NewNotFoundError("currency group not found", ErrCodeGroupNotFound)
	ErrRateNotFound      = NewNotFoundError("no conversion rate configured for this group", ErrCodeRateNotFound)
	ErrDuplicateCurrency = NewConflictError("a currency with this code already exists", ErrCodeDuplicateCurrency)
	ErrDuplicateGroup    = NewConflictError("a currency group with this name already exists", ErrCodeDuplicateGroup)
	ErrGroupNotEmpty     = NewConflictError("currency group still has currencies assigned", ErrCodeGroupNotEmpty)
	ErrDuplicateRate     = NewConflictError("a rate for this company and group already exists", ErrCodeDuplicateRate)

	ErrEventTypeNotFound = NewNotFoundError("webhook event type not found", ErrCodeEventTypeNotFound)
	ErrTemplateNotFound  = NewNotFoundError("webhook template not found", ErrCodeTemplateNotFound)
	ErrRuleNotFound      = NewNotFoundError("processing rule not found", ErrCodeRuleNotFound)
	ErrDuplicateTemplate = NewConflictError("a template for this event type, channel and locale already exists", ErrCodeDuplicateTemplate)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
