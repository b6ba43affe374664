// Package errors provides typed outcomes for WordPress content lookups.
// Accessors return one of these instead of a bare nil so callers can tell
// "nothing there" apart from "upstream broke".
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError indicates a lookup by slug matched no items.
type NotFoundError struct {
	Resource string // "page", "post"
	Slug     string
}

func (e *NotFoundError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.Slug)
	}
	return fmt.Sprintf("not found: %s", e.Slug)
}

// NewNotFoundError creates a NotFoundError for a slug lookup.
func NewNotFoundError(resource, slug string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Slug:     slug,
	}
}

// EmptyResultError indicates a listing endpoint answered with zero items.
type EmptyResultError struct {
	Endpoint string // e.g. "/posts", "/categories"
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no items returned from %s", e.Endpoint)
}

// NewEmptyResultError creates an EmptyResultError.
func NewEmptyResultError(endpoint string) *EmptyResultError {
	return &EmptyResultError{Endpoint: endpoint}
}

// UpstreamError indicates the WordPress API answered with a non-2xx status.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Code       string // WordPress error code from the body, if any
	Message    string
}

func (e *UpstreamError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "upstream error %d from %s", e.StatusCode, e.Endpoint)
	if e.Code != "" {
		fmt.Fprintf(&b, " [%s]", e.Code)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// NewUpstreamError creates an UpstreamError.
func NewUpstreamError(endpoint string, statusCode int) *UpstreamError {
	return &UpstreamError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
	}
}

// MissingEmbedError indicates a response lacked embedded data the caller
// requires, such as the author or taxonomy groups of a post.
type MissingEmbedError struct {
	Slug  string
	Group string // "author", "wp:term[0]", "wp:term[1]"
}

func (e *MissingEmbedError) Error() string {
	return fmt.Sprintf("post %s: missing embedded %s", e.Slug, e.Group)
}

// NewMissingEmbedError creates a MissingEmbedError.
func NewMissingEmbedError(slug, group string) *MissingEmbedError {
	return &MissingEmbedError{
		Slug:  slug,
		Group: group,
	}
}

// ValidationError indicates invalid input parameters.
type ValidationError struct {
	Field   string // field name that failed validation
	Value   string // the invalid value
	Message string // human-readable error message
}

func (e *ValidationError) Error() string {
	if e.Field != "" && e.Value != "" {
		return fmt.Sprintf("validation failed for %s=%q: %s", e.Field, e.Value, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, value, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsEmpty reports whether err wraps an EmptyResultError.
func IsEmpty(err error) bool {
	var target *EmptyResultError
	return errors.As(err, &target)
}

// IsUpstream reports whether err wraps an UpstreamError.
func IsUpstream(err error) bool {
	var target *UpstreamError
	return errors.As(err, &target)
}

// IsMissingEmbed reports whether err wraps a MissingEmbedError.
func IsMissingEmbed(err error) bool {
	var target *MissingEmbedError
	return errors.As(err, &target)
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// Kind returns a short label for err, used as a metrics label and in logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsNotFound(err):
		return "not_found"
	case IsEmpty(err):
		return "empty"
	case IsUpstream(err):
		return "upstream"
	case IsMissingEmbed(err):
		return "missing_embed"
	case IsValidation(err):
		return "validation"
	default:
		return "transport"
	}
}
