package domain

import (
	"errors"
	"fmt"
)

// FetchErrorKind classifies a failed provider fetch.
type FetchErrorKind string

const (
	NetworkFailure      FetchErrorKind = "network_failure"
	NotFound            FetchErrorKind = "not_found"
	QuotaExceeded       FetchErrorKind = "quota_exceeded"
	ParseFailure        FetchErrorKind = "parse_failure"
	UnsupportedPlatform FetchErrorKind = "unsupported_platform"
)

var (
	ErrNetworkFailure      = errors.New("network failure")
	ErrNotFound            = errors.New("content not found")
	ErrQuotaExceeded       = errors.New("quota exceeded")
	ErrParseFailure        = errors.New("parse failure")
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	ErrWriteFailure = errors.New("write failure")

	// ErrRefreshInFlight is returned when another fetch for the same content
	// item holds the advisory lock.
	ErrRefreshInFlight = errors.New("refresh already in flight")

	ErrContentNotFound = errors.New("content not registered")
)

var fetchSentinels = map[FetchErrorKind]error{
	NetworkFailure:      ErrNetworkFailure,
	NotFound:            ErrNotFound,
	QuotaExceeded:       ErrQuotaExceeded,
	ParseFailure:        ErrParseFailure,
	UnsupportedPlatform: ErrUnsupportedPlatform,
}

// FetchError is returned by provider adapters.
type FetchError struct {
	Kind      FetchErrorKind
	Platform  string
	ContentID string
	Err       error
}

func NewFetchError(kind FetchErrorKind, platform, contentID string, err error) *FetchError {
	return &FetchError{Kind: kind, Platform: platform, ContentID: contentID, Err: err}
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s/%s", e.Kind, e.Platform, e.ContentID)
	}
	return fmt.Sprintf("%s %s/%s: %v", e.Kind, e.Platform, e.ContentID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind, so errors.Is(err, ErrNotFound) works.
func (e *FetchError) Is(target error) bool {
	return fetchSentinels[e.Kind] == target
}

// StoreError wraps a metrics store failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrWriteFailure
}

// ErrorKind returns a short classification of err for logs and sweep failure detail.
func ErrorKind(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) {
		return string(fe.Kind)
	}
	var se *StoreError
	if errors.As(err, &se) {
		return "write_failure"
	}
	if errors.Is(err, ErrRefreshInFlight) {
		return "in_flight"
	}
	return "unknown"
}
