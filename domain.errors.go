package main

import (
	"errors"
	"fmt"
)

// Kinds of failures the service layer reports. Callers match them with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrStillReferenced = errors.New("still referenced")
	ErrStoreFailure    = errors.New("store failure")
)

// Reasons carried by a VetoError.
var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrReferenced   = errors.New("referenced by dependents")
)

// ErrDocumentNotFound is returned by the document store when no document
// matches the requested collection and id.
var ErrDocumentNotFound = errors.New("document not found")

// DomainError is the single failure type handed out by the services. Message
// is meant for end users, Cause keeps the underlying error for the logs.
type DomainError struct {
	Kind    error
	Message string
	Cause   error
}

// NewDomainError builds a DomainError of the given kind.
func NewDomainError(kind error, message string) *DomainError {
	return &DomainError{Kind: kind, Message: message}
}

// WrapDomainError builds a DomainError of the given kind and keeps the cause.
func WrapDomainError(kind error, message string, cause error) *DomainError {
	return &DomainError{Kind: kind, Message: message, Cause: cause}
}

func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap exposes the kind only so that store-level errors do not leak.
func (e *DomainError) Unwrap() error {
	return e.Kind
}

// VetoError is raised by an integrity guard to refuse a pending save or delete.
// It never crosses the service layer.
type VetoError struct {
	Collection string
	ID         string
	Reason     error
	Message    string
}

func (v *VetoError) Error() string {
	return fmt.Sprintf("%s %s: %s", v.Collection, v.ID, v.Message)
}

func (v *VetoError) Unwrap() error {
	return v.Reason
}
