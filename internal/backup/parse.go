package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/manav03panchal/dailytracker/internal/errors"
	"github.com/manav03panchal/dailytracker/internal/model"
)

// Record kinds reported by ValidationError.
const (
	RecordTask = "task"
	RecordLog  = "log"
)

const restoreSuggestion = "Export a fresh backup and import it without editing the file"

// ValidationError describes the first invalid record in a backup.
type ValidationError struct {
	Record string // "task" or "log"
	Index  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s at index %d %s", e.Record, e.Index, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidBackup.
func (e *ValidationError) Unwrap() error {
	return errors.ErrInvalidBackup
}

// record is one JSON object with its fields left undecoded.
type record map[string]json.RawMessage

// Parse reads and validates a backup document. The first problem aborts
// parsing with a *errors.UserError; record-level problems also carry a
// *ValidationError in the chain. now supplies the default task createdAt.
func Parse(r io.Reader, now time.Time) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewSystemError("read backup", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, invalidFile("file is empty")
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, invalidFile("invalid JSON format: " + err.Error())
	}
	rawTasks, hasTasks := top["tasks"]
	rawLogs, hasLogs := top["logs"]
	if !hasTasks || !hasLogs || isNull(rawTasks) || isNull(rawLogs) {
		return nil, invalidFile("missing required fields: 'tasks' or 'logs'")
	}

	var taskRecords, logRecords []record
	if err := json.Unmarshal(rawTasks, &taskRecords); err != nil {
		return nil, invalidFile("invalid JSON format: 'tasks' must be an array of objects")
	}
	if err := json.Unmarshal(rawLogs, &logRecords); err != nil {
		return nil, invalidFile("invalid JSON format: 'logs' must be an array of objects")
	}

	doc := &Document{
		Tasks: make([]model.Task, 0, len(taskRecords)),
		Logs:  make([]model.Log, 0, len(logRecords)),
	}

	taskIDs := make(map[string]struct{}, len(taskRecords))
	for i, rec := range taskRecords {
		task, verr := parseTask(i, rec, now)
		if verr != nil {
			return nil, wrap(verr)
		}
		if _, dup := taskIDs[task.ID]; dup {
			return nil, wrap(&ValidationError{Record: RecordTask, Index: i, Field: "id",
				Reason: "has duplicate id: " + task.ID})
		}
		taskIDs[task.ID] = struct{}{}
		doc.Tasks = append(doc.Tasks, task)
	}

	logIDs := make(map[string]struct{}, len(logRecords))
	for i, rec := range logRecords {
		log, verr := parseLog(i, rec, taskIDs)
		if verr != nil {
			return nil, wrap(verr)
		}
		if _, dup := logIDs[log.ID]; dup {
			return nil, wrap(&ValidationError{Record: RecordLog, Index: i, Field: "id",
				Reason: "has duplicate id: " + log.ID})
		}
		logIDs[log.ID] = struct{}{}
		doc.Logs = append(doc.Logs, log)
	}

	return doc, nil
}

func parseTask(i int, rec record, now time.Time) (model.Task, *ValidationError) {
	fail := func(field, reason string) (model.Task, *ValidationError) {
		return model.Task{}, &ValidationError{Record: RecordTask, Index: i, Field: field, Reason: reason}
	}

	if rec == nil {
		return fail("", "is not an object")
	}
	for _, field := range []string{"id", "name", "unit", "step", "target"} {
		if _, ok := rec[field]; !ok {
			return fail(field, "is missing required field: "+field)
		}
	}

	var t model.Task
	var bad string
	if t.ID, bad = rec.str("id"); bad != "" {
		return fail("id", bad)
	}
	if t.Name, bad = rec.str("name"); bad != "" {
		return fail("name", bad)
	}
	if t.Unit, bad = rec.str("unit"); bad != "" {
		return fail("unit", bad)
	}
	if t.Step, bad = rec.int32("step"); bad != "" {
		return fail("step", bad)
	}
	if t.Target, bad = rec.int32("target"); bad != "" {
		return fail("target", bad)
	}
	if t.Step <= 0 {
		return fail("step", fmt.Sprintf("has invalid step: %d (must be > 0)", t.Step))
	}
	if t.Target <= 0 {
		return fail("target", fmt.Sprintf("has invalid target: %d (must be > 0)", t.Target))
	}

	if rec.present("description") {
		if t.Description, bad = rec.str("description"); bad != "" {
			return fail("description", bad)
		}
	}
	if rec.present("colorIndex") {
		if t.ColorIndex, bad = rec.int32("colorIndex"); bad != "" {
			return fail("colorIndex", bad)
		}
	}
	t.ColorIndex = max(t.ColorIndex, 0)

	t.CreatedAt = model.Millis(now)
	if rec.present("createdAt") {
		if t.CreatedAt, bad = rec.int64("createdAt"); bad != "" {
			return fail("createdAt", bad)
		}
	}
	t.CreatedAt = max(t.CreatedAt, 0)

	return t, nil
}

func parseLog(i int, rec record, taskIDs map[string]struct{}) (model.Log, *ValidationError) {
	fail := func(field, reason string) (model.Log, *ValidationError) {
		return model.Log{}, &ValidationError{Record: RecordLog, Index: i, Field: field, Reason: reason}
	}

	if rec == nil {
		return fail("", "is not an object")
	}
	for _, field := range []string{"id", "taskId", "amount", "timestamp"} {
		if _, ok := rec[field]; !ok {
			return fail(field, "is missing required field: "+field)
		}
	}

	var l model.Log
	var bad string
	if l.ID, bad = rec.str("id"); bad != "" {
		return fail("id", bad)
	}
	if l.TaskID, bad = rec.str("taskId"); bad != "" {
		return fail("taskId", bad)
	}
	if _, ok := taskIDs[l.TaskID]; !ok {
		return fail("taskId", "references non-existent task: "+l.TaskID)
	}
	if l.Amount, bad = rec.int32("amount"); bad != "" {
		return fail("amount", bad)
	}
	if l.Amount <= 0 {
		return fail("amount", fmt.Sprintf("has invalid amount: %d (must be > 0)", l.Amount))
	}
	if l.Timestamp, bad = rec.int64("timestamp"); bad != "" {
		return fail("timestamp", bad)
	}
	if l.Timestamp <= 0 {
		return fail("timestamp", fmt.Sprintf("has invalid timestamp: %d (must be > 0)", l.Timestamp))
	}

	return l, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// present reports whether field exists with a non-null value.
func (r record) present(field string) bool {
	raw, ok := r[field]
	return ok && !isNull(raw)
}

// str decodes a string field. The second result is a failure reason.
func (r record) str(field string) (string, string) {
	var s string
	if err := json.Unmarshal(r[field], &s); err != nil {
		return "", fmt.Sprintf("has invalid %s: expected a string", field)
	}
	return s, ""
}

func (r record) int64(field string) (int64, string) {
	var n json.Number
	if err := json.Unmarshal(r[field], &n); err != nil {
		return 0, fmt.Sprintf("has invalid %s: expected an integer", field)
	}
	v, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return 0, fmt.Sprintf("has invalid %s: %s (expected an integer)", field, n.String())
	}
	return v, ""
}

func (r record) int32(field string) (int, string) {
	v, bad := r.int64(field)
	if bad != "" {
		return 0, bad
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Sprintf("has invalid %s: %d (out of range)", field, v)
	}
	return int(v), ""
}

func invalidFile(message string) error {
	return &errors.UserError{
		Message:    message,
		Suggestion: restoreSuggestion,
		Cause:      errors.ErrInvalidBackup,
	}
}

func wrap(verr *ValidationError) error {
	return &errors.UserError{
		Message:    verr.Error(),
		Suggestion: restoreSuggestion,
		Field:      verr.Field,
		Cause:      verr,
	}
}
