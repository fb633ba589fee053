package curp

import (
	"errors"
	"fmt"
)

// Category classifies a failed lookup.
type Category string

const (
	CategoryTimeout           Category = "timeout"
	CategoryUnavailable       Category = "unavailable"
	CategoryBadStatus         Category = "bad_status"
	CategoryNotFound          Category = "not_found"
	CategoryMalformedResponse Category = "malformed_response"
	CategoryInvalidRequest    Category = "invalid_request"
)

// LookupError is every failure the CURP client returns.
type LookupError struct {
	Category   Category
	Message    string
	Underlying error
}

func (e *LookupError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("curp lookup [%s]: %s: %v", e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("curp lookup [%s]: %s", e.Category, e.Message)
}

func (e *LookupError) Unwrap() error {
	return e.Underlying
}

// IsProviderSide reports failures caused by the provider being slow, down or
// rejecting the call, as opposed to it answering with an unusable payload.
func (e *LookupError) IsProviderSide() bool {
	switch e.Category {
	case CategoryTimeout, CategoryUnavailable, CategoryBadStatus:
		return true
	}
	return false
}

func newError(category Category, msg string, underlying error) *LookupError {
	return &LookupError{Category: category, Message: msg, Underlying: underlying}
}

// CategoryOf extracts the category of a lookup failure.
func CategoryOf(err error) (Category, bool) {
	var le *LookupError
	if errors.As(err, &le) {
		return le.Category, true
	}
	return "", false
}
