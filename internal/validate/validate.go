// Package validate provides input validation helpers for tasks and logs.
package validate

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/manav03panchal/dailytracker/internal/errors"
	"github.com/manav03panchal/dailytracker/internal/model"
)

const (
	// MaxNameLength is the maximum length for a task name.
	MaxNameLength = 128
	// MaxUnitLength is the maximum length for a unit label.
	MaxUnitLength = 32
	// MaxDescriptionLength is the maximum length for a task description.
	MaxDescriptionLength = 4096
)

// TaskName validates a task name. Names must contain a non-space character.
func TaskName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &errors.UserError{
			Message:    errors.ErrBlankName.Error(),
			Suggestion: "Provide a name like 'Push-ups' or 'Water'",
			Field:      "name",
			Cause:      errors.ErrBlankName,
		}
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return errors.NewUserErrorWithField("name", name,
			"Task name too long",
			"Task names must be 128 characters or fewer")
	}
	return nil
}

// Unit validates a unit label. Empty units are allowed.
func Unit(unit string) error {
	if utf8.RuneCountInString(unit) > MaxUnitLength {
		return errors.NewUserErrorWithField("unit", unit,
			"Unit too long",
			"Units must be 32 characters or fewer")
	}
	return nil
}

// Description validates a task description.
func Description(desc string) error {
	if utf8.RuneCountInString(desc) > MaxDescriptionLength {
		return errors.NewUserError(
			"Description too long",
			"Descriptions must be 4096 characters or fewer")
	}
	return nil
}

// Step validates a task's per-check-in increment.
func Step(step int) error {
	return positive(step, "step", errors.ErrInvalidStep, "Use a step of at least 1")
}

// Target validates a task's daily target.
func Target(target int) error {
	return positive(target, "target", errors.ErrInvalidTarget, "Use a daily target of at least 1")
}

// Amount validates a check-in amount.
func Amount(amount int) error {
	if err := positive(amount, "amount", errors.ErrInvalidAmount, "Check in at least 1"); err != nil {
		return err
	}
	if amount > model.MaxAmount {
		return errors.NewUserErrorWithField("amount", strconv.Itoa(amount),
			"Amount too large",
			"Amounts must fit in a 32-bit integer")
	}
	return nil
}

// Timestamp validates epoch milliseconds for a log.
func Timestamp(ms int64) error {
	if ms <= 0 {
		return &errors.UserError{
			Message:    errors.ErrInvalidTimestamp.Error(),
			Suggestion: "Timestamps must be after 1970-01-01",
			Field:      "timestamp",
			Value:      strconv.FormatInt(ms, 10),
			Cause:      errors.ErrInvalidTimestamp,
		}
	}
	return nil
}

// ID validates a record identifier.
func ID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.NewUserErrorWithField(field, id,
			field+" cannot be empty",
			"Run 'tracker task list' to see ids")
	}
	return nil
}

// Task validates every user-editable field of a task.
func Task(t model.Task) error {
	for _, err := range []error{
		ID("id", t.ID),
		TaskName(t.Name),
		Unit(t.Unit),
		Step(t.Step),
		Target(t.Target),
		Description(t.Description),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

func positive(v int, field string, sentinel error, suggestion string) error {
	if v > 0 {
		return nil
	}
	return &errors.UserError{
		Message:    sentinel.Error(),
		Suggestion: suggestion,
		Field:      field,
		Value:      strconv.Itoa(v),
		Cause:      sentinel,
	}
}
