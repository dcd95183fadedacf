package domain

import (
	"errors"
	"fmt"
)

// Failure taxonomy for the paste pipeline. Every failure is surfaced to
// the caller and never retried automatically; recovery always requires a
// new user action.
var (
	// ErrClipboardUnavailable: the platform denied clipboard access.
	ErrClipboardUnavailable = errors.New("clipboard unavailable")

	// ErrNoReadableContent: the clipboard exposed no recognized type.
	ErrNoReadableContent = errors.New("no readable content")

	// ErrNotAuthenticated: a store mutation was attempted with no active user.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// MetadataFetchError reports a failed metadata scrape for a pasted URL.
// The paste that triggered it is abandoned.
type MetadataFetchError struct {
	URL   string
	Cause error
}

func (e MetadataFetchError) Error() string {
	return fmt.Sprintf("metadata fetch failed for %s: %v", e.URL, e.Cause)
}

func (e MetadataFetchError) Unwrap() error { return e.Cause }

// Is enables errors.Is matching on MetadataFetchError.
func (e MetadataFetchError) Is(target error) bool {
	_, ok := target.(MetadataFetchError)
	if ok {
		return true
	}
	_, ok = target.(*MetadataFetchError)
	return ok
}

// ErrMetadataFetch is the sentinel error for failed metadata scrapes.
var ErrMetadataFetch = MetadataFetchError{}

// PersistenceError reports a failed write or delete against the item store.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Cause)
}

func (e PersistenceError) Unwrap() error { return e.Cause }

// Is enables errors.Is matching on PersistenceError.
func (e PersistenceError) Is(target error) bool {
	_, ok := target.(PersistenceError)
	if ok {
		return true
	}
	_, ok = target.(*PersistenceError)
	return ok
}

// ErrPersistence is the sentinel error for failed store mutations.
var ErrPersistence = PersistenceError{}
