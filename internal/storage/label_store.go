package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// ErrCorruptLabels is returned when persisted labels cannot be decoded
var ErrCorruptLabels = errors.New("label store is corrupt")

// LabelStore maps wallet addresses to user supplied labels
type LabelStore interface {
	// Load returns every stored label
	Load() (map[string]string, error)
	// Save replaces the stored labels with labels
	Save(labels map[string]string) error
	// Update runs a load, mutate, save cycle as one critical section
	Update(fn func(labels map[string]string) error) error
}

// FileLabelStore keeps labels in a single JSON object file. Writers are
// serialized by a mutex within the process and an advisory lock file
// across processes.
type FileLabelStore struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

// NewFileLabelStore creates a label store backed by the JSON file at path.
// The file does not need to exist yet.
func NewFileLabelStore(path string) *FileLabelStore {
	return &FileLabelStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the backing file path
func (s *FileLabelStore) Path() string {
	return s.path
}

// Load reads the label file. A missing file means no labels yet; any
// content that is not a JSON object, including an empty file, is an error.
func (s *FileLabelStore) Load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read label file: %w", err)
	}

	var labels map[string]string
	if err := json.Unmarshal(data, &labels); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptLabels, s.path, err)
	}
	if labels == nil {
		return nil, fmt.Errorf("%w: %s: expected a JSON object", ErrCorruptLabels, s.path)
	}
	return labels, nil
}

// Save overwrites the label file with labels. The content is written to a
// temporary file first and renamed into place, so readers only ever see a
// complete file.
func (s *FileLabelStore) Save(labels map[string]string) error {
	if labels == nil {
		labels = map[string]string{}
	}
	data, err := json.MarshalIndent(labels, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal labels: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create label directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary label file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write labels: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write labels: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace label file: %w", err)
	}
	return nil
}

// Update loads the labels, applies fn and saves the result while holding
// both the in-process mutex and the file lock. Nothing is saved if fn fails.
func (s *FileLabelStore) Update(fn func(labels map[string]string) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create label directory: %w", err)
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock label file: %w", err)
	}
	defer s.lock.Unlock()

	labels, err := s.Load()
	if err != nil {
		return err
	}
	if err := fn(labels); err != nil {
		return err
	}
	return s.Save(labels)
}
