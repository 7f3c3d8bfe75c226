package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNodeNotFound           = errors.New("node not found")
	ErrDuplicateNode          = errors.New("node already registered")
	ErrUnknownResource        = errors.New("unknown resource")
	ErrUnknownOperation       = errors.New("unknown operation")
	ErrMissingRoutingRequest  = errors.New("operation has no request routing")
	ErrRequiredField          = errors.New("required field is empty")
	ErrInvalidOptionValue     = errors.New("value is not one of the allowed options")
	ErrInvalidBooleanValue    = errors.New("value is not a boolean")
	ErrCredentialRequired     = errors.New("credential is required")
	ErrCredentialTypeMismatch = errors.New("credential type does not match node")

	ErrCredentialTypeNotFound     = errors.New("credential type not found")
	ErrCredentialNotFound         = errors.New("credential not found")
	ErrDuplicateCredential        = errors.New("credential already exists")
	ErrInvalidCredentialRecord    = errors.New("invalid credential")
	ErrInvalidCredentials         = errors.New("invalid credentials")
	ErrCredentialTestNotSupported = errors.New("credential type has no test request")
)

// FieldValidationError is a form level error raised before any request is
// sent
type FieldValidationError struct {
	Field       string
	DisplayName string
	Err         error
}

func (e *FieldValidationError) Error() string {
	name := e.DisplayName
	if name == "" {
		name = e.Field
	}
	return fmt.Sprintf("%s (%s): %v", name, e.Field, e.Err)
}

func (e *FieldValidationError) Unwrap() error {
	return e.Err
}

// HTTPError carries a non-2xx API response back to the caller verbatim
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("API returned status %d: %s", e.StatusCode, e.Body)
}
