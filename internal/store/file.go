package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/inovacc/git-pr-mcp/internal/model"
)

// File stores the record as a JSON document
type File struct {
	path string
}

// NewFile returns a File store at path. Nothing is created until Save.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the document location
func (f *File) Path() string {
	return f.path
}

func (f *File) Load() (*model.ActiveRepository, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to read state file %s: %w", f.path, err)
	}

	var repo model.ActiveRepository
	if err := json.Unmarshal(data, &repo); err != nil {
		return nil, fmt.Errorf("failed to decode state file %s: %w", f.path, err)
	}

	return &repo, nil
}

func (f *File) Save(repo *model.ActiveRepository) error {
	if repo == nil {
		repo = &model.ActiveRepository{}
	}

	data, err := json.MarshalIndent(repo, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", f.path, err)
	}

	return nil
}

func (f *File) Close() error {
	return nil
}
