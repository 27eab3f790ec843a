package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"publish/internal/editor"

	"gopkg.in/yaml.v3"
)

type stateFile struct {
	Draft  editor.Draft `yaml:"draft"`
	Social bool         `yaml:"social,omitempty"`
}

// readState returns an empty state when path does not exist yet.
func readState(path string) (stateFile, error) {
	var st stateFile
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("read state: %w", err)
	}
	if err := yaml.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("parse state %s: %w", path, err)
	}
	return st, nil
}

func writeState(path string, st stateFile) error {
	data, err := yaml.Marshal(st)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}
	// the file holds the edit key
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
