package models

import (
	"errors"
	"fmt"
)

// Signup conflicts. Detected both by pre-insert lookups and by mapping
// unique-constraint violations, so concurrent duplicate signups still
// surface as the same error.
var (
	ErrUsernameTaken = errors.New("Error: Username is already taken!")
	ErrEmailInUse    = errors.New("Error: Email is already in use!")
)

// ErrBadCredentials is returned on signin with an unknown username or a
// wrong password; the two cases are deliberately indistinguishable.
var ErrBadCredentials = errors.New("invalid username or password")

// NotFoundError reports a missing entity. Services never suppress it;
// the HTTP layer translates it to a 404.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %s", e.Resource, e.ID)
}

func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ValidationError carries a field -> message map for a 400 response.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

// Validator accumulates per-field failures.
type Validator struct {
	fields map[string]string
}

func (v *Validator) Fail(field, msg string) {
	if v.fields == nil {
		v.fields = make(map[string]string)
	}
	v.fields[field] = msg
}

// Err returns a ValidationError if any field failed, nil otherwise.
func (v *Validator) Err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}
