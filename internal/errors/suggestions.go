package errors

import "errors"

// Suggestions maps common errors to helpful suggestions.
var Suggestions = map[error]string{
	ErrTaskNotFound:     "Use 'tracker task list' to see task ids.",
	ErrLogNotFound:      "Use 'tracker log list --task <id>' to see log ids.",
	ErrBlankName:        "Give the task a name, e.g. tracker task create \"Drink water\".",
	ErrInvalidStep:      "Use --step with a positive whole number.",
	ErrInvalidTarget:    "Use --target with a positive whole number.",
	ErrInvalidAmount:    "Use --amount with a positive whole number.",
	ErrInvalidTimestamp: "Try formats like '2 hours ago', 'yesterday at 3pm', or '2026-01-02 09:30'.",
	ErrInvalidBackup:    "Only import files produced by 'tracker export', and do not edit them by hand.",
	ErrInvalidConfig:    "Run 'tracker config show' to inspect the effective configuration.",
	ErrDatabaseLocked:   "Another tracker process is using the database. Close it and try again.",
	ErrPermissionDenied: "Check file permissions in your data directory (~/.local/share/dailytracker/).",
}

// GetSuggestion returns a suggestion for an error, if available.
// It walks the error chain to find matching suggestions.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	if ue, ok := AsUserError(err); ok && ue.Suggestion != "" {
		return ue.Suggestion
	}

	for knownErr, suggestion := range Suggestions {
		if errors.Is(err, knownErr) {
			return suggestion
		}
	}

	return ""
}
