package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fentz26/tempus/internal/models"
)

// FileBackend keeps the collection in a single JSON document and rewrites
// the whole file on every save.
type FileBackend struct {
	path string
}

// NewFileBackend creates a JSON file backend, creating its directory.
func NewFileBackend(path string) (*FileBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileBackend{path: path}, nil
}

// Path returns the JSON file location.
func (b *FileBackend) Path() string {
	return b.path
}

// Load reads all tasks. A missing or empty file yields no tasks.
func (b *FileBackend) Load() ([]models.Task, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", b.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var tasks []models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("decode %s: %w", b.path, err)
	}
	return tasks, nil
}

// Save writes all tasks through a temp file so a crash mid-write leaves the
// previous document in place.
func (b *FileBackend) Save(tasks []models.Task) error {
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "    ")
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}

	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", b.path, err)
	}
	return nil
}

// Close is a no-op; the file is not held open between saves.
func (b *FileBackend) Close() error {
	return nil
}
