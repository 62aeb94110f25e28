package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports input the ticket API (or the client, before
// sending) refused. Fields maps a field name to its messages.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], " ")))
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
}

// NewValidationError builds a client-side ValidationError.
func NewValidationError(message string, fields map[string][]string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// NetworkError wraps any failed round trip to the ticket API: transport
// failures, non-success statuses and undecodable bodies.
type NetworkError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: ticket API returned status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ClassifierUnavailable is returned when a category/priority suggestion
// could not be obtained.
type ClassifierUnavailable struct {
	Err error
}

func (e *ClassifierUnavailable) Error() string {
	return fmt.Sprintf("classifier unavailable: %v", e.Err)
}

func (e *ClassifierUnavailable) Unwrap() error {
	return e.Err
}

const (
	AdvisoryClassifier = "LLM suggestion unavailable. You can still submit manually."
	AdvisoryValidation = "Title and description are required."
)

// Advisory converts an error into the message shown to the user.
func Advisory(err error) string {
	if err == nil {
		return ""
	}

	var classifierErr *ClassifierUnavailable
	if errors.As(err, &classifierErr) {
		return AdvisoryClassifier
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Error()
	}

	var networkErr *NetworkError
	if errors.As(err, &networkErr) {
		switch networkErr.Op {
		case OpCreateTicket:
			return fmt.Sprintf("Could not submit ticket: %v", networkErr.Err)
		case OpUpdateTicket:
			return "Could not update ticket status."
		case OpFetchTickets:
			return "Could not load tickets."
		case OpFetchStats:
			return "Could not load stats."
		}
	}
	return err.Error()
}
