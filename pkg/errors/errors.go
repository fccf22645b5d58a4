package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeFeed represents network or fetch errors on a feed source
	ErrorTypeFeed ErrorType = "feed"
	// ErrorTypeParsing represents feed parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeSeenStore represents seen-set store errors
	ErrorTypeSeenStore ErrorType = "seen_store"
	// ErrorTypeNotify represents notification dispatch errors
	ErrorTypeNotify ErrorType = "notify"
	// ErrorTypeValidation represents rule or input validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// NotifierError represents a pipeline error with its failure class
type NotifierError struct {
	Type    ErrorType
	Source  string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *NotifierError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Source, e.Message)
}

// Unwrap returns the underlying error
func (e *NotifierError) Unwrap() error {
	return e.Err
}

// Fatal reports whether the error must abort the run. Only errors found
// before any post is processed qualify; everything per-post degrades to
// a skip-and-continue.
func (e *NotifierError) Fatal() bool {
	switch e.Type {
	case ErrorTypeConfiguration, ErrorTypeValidation:
		return true
	default:
		return false
	}
}

// New creates a new NotifierError
func New(errType ErrorType, source, message string, err error) *NotifierError {
	return &NotifierError{
		Type:    errType,
		Source:  source,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewFeed creates a new feed fetch error
func NewFeed(source, message string, err error) *NotifierError {
	return New(ErrorTypeFeed, source, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(source, message string, err error) *NotifierError {
	return New(ErrorTypeParsing, source, message, err)
}

// NewSeenStore creates a new seen-set store error
func NewSeenStore(source, message string, err error) *NotifierError {
	return New(ErrorTypeSeenStore, source, message, err)
}

// NewNotify creates a new notification dispatch error
func NewNotify(source, message string, err error) *NotifierError {
	return New(ErrorTypeNotify, source, message, err)
}

// NewValidation creates a new validation error
func NewValidation(source, message string) *NotifierError {
	return New(ErrorTypeValidation, source, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *NotifierError {
	return New(ErrorTypeConfiguration, "", message, err)
}
