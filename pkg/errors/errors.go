// Package errors defines the coded error type shared by all pipeline stages.
//
// Every failure surfaced by the application is wrapped in an *AnalyticsError
// carrying a category, a specific code, optional context values and a
// user-facing suggestion. The pipeline absorbs these at component boundaries;
// the CLI layer maps categories to exit codes when a command cannot proceed
// at all (bad flags, unreadable input).
package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCategory groups errors by the pipeline concern that produced them.
type ErrorCategory string

const (
	CategoryFile          ErrorCategory = "file"
	CategoryParse         ErrorCategory = "parse"
	CategoryValidation    ErrorCategory = "validation"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryEnrichment    ErrorCategory = "enrichment"
	CategoryReport        ErrorCategory = "report"
	CategoryInternal      ErrorCategory = "internal"
)

// ErrorCode identifies a specific failure within a category.
type ErrorCode string

const (
	// File errors
	CodeFileNotFound   ErrorCode = "file_not_found"
	CodeFilePermission ErrorCode = "file_permission"
	CodeEncodingError  ErrorCode = "encoding_error"
	CodeWriteFailed    ErrorCode = "write_failed"

	// Parse errors
	CodeInvalidFormat ErrorCode = "invalid_format"
	CodeInvalidData   ErrorCode = "invalid_data"

	// Validation errors
	CodeInvalidAmount ErrorCode = "invalid_amount"
	CodeMissingField  ErrorCode = "missing_field"
	CodeOutOfRange    ErrorCode = "out_of_range"

	// Configuration errors
	CodeInvalidConfig ErrorCode = "invalid_config"
	CodeMissingConfig ErrorCode = "missing_config"

	// Enrichment errors
	CodeConnectionFailed ErrorCode = "connection_failed"
	CodeTimeout          ErrorCode = "timeout"
	CodeBadStatus        ErrorCode = "bad_status"
	CodeBadPayload       ErrorCode = "bad_payload"

	// Internal errors
	CodeUnexpectedError ErrorCode = "unexpected_error"
)

// AnalyticsError is the base error type for all application errors.
type AnalyticsError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional information about the error.
type Context map[string]interface{}

// Error implements the error interface.
func (e *AnalyticsError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error.
func (e *AnalyticsError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns an appropriate process exit code for the error.
func (e *AnalyticsError) GetExitCode() int {
	switch e.Category {
	case CategoryFile, CategoryReport:
		return 2
	case CategoryParse, CategoryValidation:
		return 3
	case CategoryConfiguration:
		return 4
	case CategoryInternal:
		return 5
	case CategoryEnrichment:
		return 6
	default:
		return 1
	}
}

// WithContext adds a context value to the error.
func (e *AnalyticsError) WithContext(key string, value interface{}) *AnalyticsError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error.
func (e *AnalyticsError) WithSuggestion(suggestion string) *AnalyticsError {
	e.Suggestion = suggestion
	return e
}

// New creates a new AnalyticsError.
func New(category ErrorCategory, code ErrorCode, message string) *AnalyticsError {
	return &AnalyticsError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with AnalyticsError context.
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *AnalyticsError {
	if err == nil {
		return nil
	}

	return &AnalyticsError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// AsAnalyticsError extracts an *AnalyticsError from an error chain.
func AsAnalyticsError(err error) (*AnalyticsError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AnalyticsError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsCategory reports whether err belongs to the given category.
func IsCategory(err error, category ErrorCategory) bool {
	ae, ok := AsAnalyticsError(err)
	return ok && ae.Category == category
}

// stackTracer interface for extracting stack traces.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Specific error constructors

// FileError creates a file-related error.
func FileError(code ErrorCode, path string, err error) *AnalyticsError {
	var message string
	var suggestion string

	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
		suggestion = "check if the file path is correct and the file exists"
	case CodeFilePermission:
		message = fmt.Sprintf("permission denied accessing file: %s", path)
		suggestion = "check file permissions and ensure you have read access"
	case CodeEncodingError:
		message = fmt.Sprintf("unable to decode file with supported encodings: %s", path)
		suggestion = "save the file in UTF-8, Latin-1 or Windows-1252 encoding"
	case CodeWriteFailed:
		message = fmt.Sprintf("failed to write file: %s", path)
		suggestion = "check the output directory exists and is writable"
	default:
		message = fmt.Sprintf("file error: %s", path)
		suggestion = "check the file and try again"
	}

	var result *AnalyticsError
	if err != nil {
		result = Wrap(err, CategoryFile, code, message)
	} else {
		result = New(CategoryFile, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("file_path", path)
}

// ParseError creates a parsing-related error.
func ParseError(code ErrorCode, line int, value string, err error) *AnalyticsError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidFormat:
		message = fmt.Sprintf("invalid record format at line %d: '%s'", line, value)
		suggestion = "records must contain exactly 8 pipe-delimited fields"
	case CodeInvalidData:
		message = fmt.Sprintf("invalid data at line %d: '%s'", line, value)
		suggestion = "quantity must be an integer and unit price a decimal number"
	default:
		message = fmt.Sprintf("parse error at line %d", line)
		suggestion = "check the record format and data integrity"
	}

	var result *AnalyticsError
	if err != nil {
		result = Wrap(err, CategoryParse, code, message)
	} else {
		result = New(CategoryParse, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("line", line).
		WithContext("value", value)
}

// ValidationError creates a validation-related error.
func ValidationError(code ErrorCode, field string, value interface{}, err error) *AnalyticsError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidAmount:
		message = fmt.Sprintf("invalid amount in field '%s': %v", field, value)
		suggestion = "quantity and unit price must both be greater than zero"
	case CodeMissingField:
		message = fmt.Sprintf("required field '%s' is missing or empty", field)
		suggestion = "provide a value for this required field"
	case CodeOutOfRange:
		message = fmt.Sprintf("value out of range in field '%s': %v", field, value)
		suggestion = "ensure the value is within the acceptable range"
	default:
		message = fmt.Sprintf("validation error in field '%s': %v", field, value)
		suggestion = "check the field value and format"
	}

	var result *AnalyticsError
	if err != nil {
		result = Wrap(err, CategoryValidation, code, message)
	} else {
		result = New(CategoryValidation, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("field", field).
		WithContext("value", value)
}

// ConfigurationError creates a configuration-related error.
func ConfigurationError(code ErrorCode, setting string, value interface{}, err error) *AnalyticsError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidConfig:
		message = fmt.Sprintf("invalid configuration for '%s': %v", setting, value)
		suggestion = "check the configuration documentation for valid values"
	case CodeMissingConfig:
		message = fmt.Sprintf("missing required configuration: %s", setting)
		suggestion = "provide this configuration setting or use a config file"
	default:
		message = fmt.Sprintf("configuration error: %s", setting)
		suggestion = "check your configuration and try again"
	}

	var result *AnalyticsError
	if err != nil {
		result = Wrap(err, CategoryConfiguration, code, message)
	} else {
		result = New(CategoryConfiguration, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("setting", setting).
		WithContext("value", value)
}

// EnrichmentError creates an error for catalog fetch failures.
func EnrichmentError(code ErrorCode, endpoint string, err error) *AnalyticsError {
	var message string
	var suggestion string

	switch code {
	case CodeConnectionFailed:
		message = fmt.Sprintf("connection failed to catalog endpoint %s", endpoint)
		suggestion = "check network connectivity and endpoint availability"
	case CodeTimeout:
		message = fmt.Sprintf("timeout fetching product catalog from %s", endpoint)
		suggestion = "increase the catalog timeout or check network speed"
	case CodeBadStatus:
		message = fmt.Sprintf("catalog endpoint %s returned a non-200 status", endpoint)
		suggestion = "verify the catalog URL and try again later"
	case CodeBadPayload:
		message = fmt.Sprintf("catalog endpoint %s returned an unreadable payload", endpoint)
		suggestion = "verify the endpoint serves the expected product JSON"
	default:
		message = fmt.Sprintf("enrichment error: %s", endpoint)
		suggestion = "check the catalog endpoint and try again"
	}

	var result *AnalyticsError
	if err != nil {
		result = Wrap(err, CategoryEnrichment, code, message)
	} else {
		result = New(CategoryEnrichment, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("endpoint", endpoint)
}

// ReportError creates an error for report rendering or writing failures.
func ReportError(code ErrorCode, path string, err error) *AnalyticsError {
	message := fmt.Sprintf("failed to write report: %s", path)
	suggestion := "check the output directory exists and has free space"

	var result *AnalyticsError
	if err != nil {
		result = Wrap(err, CategoryReport, code, message)
	} else {
		result = New(CategoryReport, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("output_path", path)
}

// InternalError creates an internal error.
func InternalError(code ErrorCode, operation string, err error) *AnalyticsError {
	message := fmt.Sprintf("unexpected error during %s", operation)
	suggestion := "this is likely a bug - please report it with the error details"

	var result *AnalyticsError
	if err != nil {
		result = Wrap(err, CategoryInternal, code, message)
	} else {
		result = New(CategoryInternal, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("operation", operation)
}
