package parser

import (
	"fmt"
	"strings"

	"github.com/manav03panchal/dailytracker/internal/errors"
)

// TimeParseError represents a time parsing error with helpful suggestions.
type TimeParseError struct {
	Input      string
	Field      string
	Message    string
	Examples   []string
	Suggestion string
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("invalid %s '%s': %s", e.Field, e.Input, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidTimestamp.
func (e *TimeParseError) Unwrap() error {
	return errors.ErrInvalidTimestamp
}

// FormatWithExamples returns the error message with example suggestions.
func (e *TimeParseError) FormatWithExamples() string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	if len(e.Examples) > 0 {
		sb.WriteString("\n\nValid examples:\n")
		for _, ex := range e.Examples {
			sb.WriteString("  - ")
			sb.WriteString(ex)
			sb.WriteString("\n")
		}
	}

	if e.Suggestion != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Suggestion)
	}

	return sb.String()
}

// TimestampExamples provides example timestamp formats.
var TimestampExamples = []string{
	"9am",
	"5:30pm",
	"14:30",
	"yesterday at 3pm",
	"2 hours ago",
	"now",
}

// DateExamples provides example day formats.
var DateExamples = []string{
	"today",
	"yesterday",
	"2024-03-01",
	"last friday",
}

// NewTimestampError creates a timestamp parse error with standard examples.
func NewTimestampError(input string) *TimeParseError {
	return &TimeParseError{
		Input:      input,
		Field:      "timestamp",
		Message:    "could not parse time",
		Examples:   TimestampExamples,
		Suggestion: "Try using natural language like '9am', '2 hours ago', or '14:30'.",
	}
}

// NewDateError creates a day parse error with standard examples.
func NewDateError(input string) *TimeParseError {
	return &TimeParseError{
		Input:      input,
		Field:      "date",
		Message:    "could not parse date",
		Examples:   DateExamples,
		Suggestion: "Use YYYY-MM-DD or a relative day like 'yesterday'.",
	}
}

// ToUserError converts a TimeParseError to a UserError for consistent handling.
func (e *TimeParseError) ToUserError() *errors.UserError {
	suggestion := e.Suggestion
	if len(e.Examples) > 0 && suggestion == "" {
		suggestion = fmt.Sprintf("Try: %s", strings.Join(e.Examples[:min(3, len(e.Examples))], ", "))
	}

	ue := errors.NewUserErrorWithField(e.Field, e.Input, e.Message, suggestion)
	ue.Cause = errors.ErrInvalidTimestamp
	return ue
}
