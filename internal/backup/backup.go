// Package backup reads and writes the JSON backup format shared with the
// mobile app: a top-level object with "tasks" and "logs" arrays.
package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/manav03panchal/dailytracker/internal/model"
)

// Document is a complete snapshot of tasks and logs.
type Document struct {
	Tasks []model.Task `json:"tasks"`
	Logs  []model.Log  `json:"logs"`
}

// FileName returns the suggested backup file name for the day of now.
func FileName(now time.Time) string {
	return fmt.Sprintf("backup-%s-do-not-modify.json", now.Format(time.DateOnly))
}

// Encode writes doc as indented JSON. Nil slices are written as empty arrays.
func Encode(w io.Writer, doc *Document) error {
	out := Document{Tasks: doc.Tasks, Logs: doc.Logs}
	if out.Tasks == nil {
		out.Tasks = []model.Task{}
	}
	if out.Logs == nil {
		out.Logs = []model.Log{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// Write encodes doc to path. The file is written to a temporary sibling and
// renamed into place, so readers never observe a partial backup.
func Write(path string, doc *Document) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".backup-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := Encode(tmp, doc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Read opens and parses the backup at path.
func Read(path string, now time.Time) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, now)
}
