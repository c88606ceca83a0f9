package errors

import (
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// UserError Tests
// =============================================================================

func TestNewUserError(t *testing.T) {
	err := NewUserError("invalid input", "try again")
	assert.Equal(t, "invalid input", err.Message)
	assert.Equal(t, "try again", err.Suggestion)
}

func TestUserErrorError(t *testing.T) {
	t.Run("without_field", func(t *testing.T) {
		err := NewUserError("invalid input", "")
		assert.Equal(t, "invalid input", err.Error())
	})

	t.Run("with_field", func(t *testing.T) {
		err := NewUserErrorWithField("step", "0", "invalid step", "")
		assert.Equal(t, "invalid step: '0'", err.Error())
	})
}

func TestInvalidKeepsSentinel(t *testing.T) {
	err := Invalid(ErrInvalidStep, "step", "0")

	assert.True(t, errors.Is(err, ErrInvalidStep))
	assert.True(t, IsUserError(err))
	assert.Equal(t, "step must be greater than 0: '0'", err.Error())
}

func TestIsUserError(t *testing.T) {
	t.Run("wrapped", func(t *testing.T) {
		wrapped := fmt.Errorf("context: %w", NewUserError("test", ""))
		assert.True(t, IsUserError(wrapped))
	})

	t.Run("plain", func(t *testing.T) {
		assert.False(t, IsUserError(errors.New("plain error")))
	})

	t.Run("nil", func(t *testing.T) {
		assert.False(t, IsUserError(nil))
	})
}

// =============================================================================
// SystemError Tests
// =============================================================================

func TestSystemError(t *testing.T) {
	cause := errors.New("disk gone")
	err := NewSystemErrorWithOp("insert log", "store write failed", cause)

	assert.Equal(t, "store write failed during insert log", err.Error())
	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsSystemError(err))

	se, ok := AsSystemError(fmt.Errorf("outer: %w", err))
	require.True(t, ok)
	assert.Equal(t, "insert log", se.Op)
}

// =============================================================================
// Classification Tests
// =============================================================================

func TestClassify(t *testing.T) {
	assert.Equal(t, CategoryUnknown, Classify(nil))
	assert.Equal(t, CategoryUser, Classify(NewUserError("x", "")))
	assert.Equal(t, CategorySystem, Classify(NewSystemError("x", nil)))
	assert.Equal(t, CategorySystem, Classify(fmt.Errorf("write: %w", syscall.ENOSPC)))
	assert.Equal(t, CategorySystem, Classify(ErrDatabaseLocked))
	assert.Equal(t, CategoryUnknown, Classify(errors.New("boom")))
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "user", CategoryUser.String())
	assert.Equal(t, "system", CategorySystem.String())
	assert.Equal(t, "unknown", CategoryUnknown.String())
}

func TestFormatByCategory(t *testing.T) {
	msg := FormatByCategory(Invalid(ErrBlankName, "", ""))
	assert.Contains(t, msg, "task name cannot be blank")
	assert.Contains(t, msg, "Try:")

	msg = FormatByCategory(NewSystemError("store closed", nil))
	assert.Contains(t, msg, "System error: store closed")
}

func TestGetSuggestion(t *testing.T) {
	assert.Equal(t, "", GetSuggestion(nil))
	assert.Equal(t, Suggestions[ErrTaskNotFound], GetSuggestion(fmt.Errorf("get: %w", ErrTaskNotFound)))

	custom := NewUserError("nope", "do this instead")
	assert.Equal(t, "do this instead", GetSuggestion(custom))
}

// =============================================================================
// Wrap / Stack Tests
// =============================================================================

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ctx"))
	err := Wrapf(ErrLogNotFound, "log %s", "abc")
	assert.Equal(t, "log abc: log not found", err.Error())
	assert.True(t, errors.Is(err, ErrLogNotFound))
}

func TestSystemErrorRecordsStack(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewSystemErrorWithOp("export", "failed to read tasks", nil))

	stack := StackOf(err)
	require.NotEmpty(t, stack)
	assert.Contains(t, stack[0].Function, "TestSystemErrorRecordsStack")
	assert.Contains(t, FormatStack(stack), "TestSystemErrorRecordsStack")

	assert.Nil(t, StackOf(NewUserError("bad", "")))
	assert.Equal(t, "", FormatStack(nil))
}
