// Package remote connects the bar to the bubble-state authority through
// two directories: an inbox of delta files the authority writes and an
// outbox of command files the bar writes back.
package remote

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const tmpPrefix = ".tmp-"

// Depth summarizes a message directory.
type Depth struct {
	Pending   int `json:"pending"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// Dir is a directory of JSON message files. File names sort in write
// order.
type Dir struct {
	path string
}

// NewDir returns a Dir for path, creating it and its processed/ and failed/
// subdirectories.
func NewDir(path string) (*Dir, error) {
	for _, d := range []string{path, filepath.Join(path, "processed"), filepath.Join(path, "failed")} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", d, err)
		}
	}
	return &Dir{path: path}, nil
}

// Path returns the directory path.
func (d *Dir) Path() string { return d.path }

// Write stores v atomically by writing to a temp file then renaming. The
// file name starts with the write time so listing order is write order.
func (d *Dir) Write(v any, now time.Time) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal message: %w", err)
	}

	tmpFile, err := os.CreateTemp(d.path, tmpPrefix+"*.json")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close temp file: %w", err)
	}

	name := fmt.Sprintf("%020d-%s.json", now.UnixNano(), uuid.NewString())
	if err := os.Rename(tmpPath, filepath.Join(d.path, name)); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("rename to final path: %w", err)
	}
	return name, nil
}

// Pending lists message file names in order, skipping temp files.
func (d *Dir) Pending() ([]string, error) {
	return listJSON(d.path)
}

// Read decodes the named message into v.
func (d *Dir) Read(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(d.path, name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// Move files the named message under sub ("processed" or "failed").
func (d *Dir) Move(name, sub string) error {
	if err := os.Rename(filepath.Join(d.path, name), filepath.Join(d.path, sub, name)); err != nil {
		return fmt.Errorf("move %s to %s: %w", name, sub, err)
	}
	return nil
}

// Depth counts pending, processed and failed messages.
func (d *Dir) Depth() (Depth, error) {
	var depth Depth
	for _, c := range []struct {
		dir string
		n   *int
	}{
		{d.path, &depth.Pending},
		{filepath.Join(d.path, "processed"), &depth.Processed},
		{filepath.Join(d.path, "failed"), &depth.Failed},
	} {
		names, err := listJSON(c.dir)
		if err != nil {
			return depth, err
		}
		*c.n = len(names)
	}
	return depth, nil
}

func listJSON(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, tmpPrefix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
