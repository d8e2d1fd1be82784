package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeRateLimit    ErrorType = "rate_limit"
	ErrorTypeDatabase     ErrorType = "database"
	ErrorTypeInternal     ErrorType = "internal"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables

var (
	// Not Found Errors
	ErrProfileNotFound    = NewDomainError(ErrorTypeNotFound, "profile not found", nil)
	ErrReviewerNotFound   = NewDomainError(ErrorTypeNotFound, "reviewer not found", nil)
	ErrResumeNotFound     = NewDomainError(ErrorTypeNotFound, "resume not found", nil)
	ErrReviewNotFound     = NewDomainError(ErrorTypeNotFound, "review not found", nil)
	ErrExperienceNotFound = NewDomainError(ErrorTypeNotFound, "experience not found", nil)

	// Validation Errors
	ErrInvalidInput       = NewDomainError(ErrorTypeValidation, "invalid input", nil)
	ErrInvalidSlug        = NewDomainError(ErrorTypeValidation, "invalid slug format", nil)
	ErrInvalidSocialLink  = NewDomainError(ErrorTypeValidation, "invalid social link", nil)
	ErrHeadlineTooLong    = NewDomainError(ErrorTypeValidation, "headline exceeds 50 words", nil)
	ErrScoreOutOfRange    = NewDomainError(ErrorTypeValidation, "score must be between 1 and 10", nil)
	ErrInvalidStatus      = NewDomainError(ErrorTypeValidation, "invalid resume status", nil)

	// Authentication Errors
	ErrUnauthenticated = NewDomainError(ErrorTypeUnauthorized, "authentication required", nil)
	ErrInvalidToken    = NewDomainError(ErrorTypeUnauthorized, "invalid authentication token", nil)

	// Authorization Errors
	ErrForbidden         = NewDomainError(ErrorTypeForbidden, "access forbidden", nil)
	ErrNotResourceOwner  = NewDomainError(ErrorTypeForbidden, "not the resource owner", nil)
	ErrRoleInsufficient  = NewDomainError(ErrorTypeForbidden, "insufficient role", nil)

	// Conflict Errors
	ErrSlugExhausted      = NewDomainError(ErrorTypeConflict, "could not assign a unique slug", nil)
	ErrSocialLinkTaken    = NewDomainError(ErrorTypeConflict, "social link already backs a reviewer account", nil)
	ErrAlreadyReviewer    = NewDomainError(ErrorTypeConflict, "identity already has a reviewer record", nil)
	ErrResumeNotClaimable = NewDomainError(ErrorTypeConflict, "resume is not claimable for review", nil)

	// Rate Limit Errors
	ErrRateLimitExceeded = NewDomainError(ErrorTypeRateLimit, "rate limit exceeded", nil)

	// Internal Errors
	ErrDatabase = NewDomainError(ErrorTypeDatabase, "database error", nil)
	ErrInternal = NewDomainError(ErrorTypeInternal, "internal server error", nil)
)

// Error type checking helper functions

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return GetErrorType(err) == ErrorTypeNotFound
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return GetErrorType(err) == ErrorTypeValidation
}

// IsUnauthorizedError checks if an error is an authentication error
func IsUnauthorizedError(err error) bool {
	return GetErrorType(err) == ErrorTypeUnauthorized
}

// IsForbiddenError checks if an error is an authorization error
func IsForbiddenError(err error) bool {
	return GetErrorType(err) == ErrorTypeForbidden
}

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool {
	return GetErrorType(err) == ErrorTypeConflict
}

// IsRateLimitError checks if an error is a rate limit error
func IsRateLimitError(err error) bool {
	return GetErrorType(err) == ErrorTypeRateLimit
}

// IsDatabaseError checks if an error is a data-layer error
func IsDatabaseError(err error) bool {
	return GetErrorType(err) == ErrorTypeDatabase
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	return GetErrorType(err) == ErrorTypeInternal
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapError wraps an error with additional context
func WrapError(errType ErrorType, message string, err error) error {
	return NewDomainError(errType, message, err)
}

// WrapDatabase wraps a data-layer error. The original error is preserved for
// logging; the message is what callers are allowed to see.
func WrapDatabase(message string, err error) error {
	return NewDomainError(ErrorTypeDatabase, message, err)
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}
