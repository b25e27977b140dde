// Package cache keeps parsed values in a flat JSON file. An entry stays valid
// while the stamp it was stored with (a blob SHA or Last-Modified value)
// matches the current one.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type entry struct {
	Stamp    string          `json:"stamp"`
	StoredAt time.Time       `json:"stored_at"`
	Value    json.RawMessage `json:"value"`
}

// File is a JSON file backed cache. A File with an empty path is disabled:
// lookups miss and stores are dropped.
type File struct {
	path string

	mu      sync.Mutex
	entries map[string]entry
}

// Open loads the cache file. A missing or empty file starts an empty cache.
func Open(path string) (*File, error) {
	f := &File{path: path, entries: make(map[string]entry)}
	if path == "" {
		return f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, fmt.Errorf("reading cache file: %w", err)
	}

	if len(data) == 0 {
		return f, nil
	}

	if err := json.Unmarshal(data, &f.entries); err != nil {
		return nil, fmt.Errorf("decoding cache file %q: %w", path, err)
	}

	return f, nil
}

func (f *File) Enabled() bool {
	return f != nil && f.path != ""
}

func (f *File) Path() string {
	if f == nil {
		return ""
	}
	return f.path
}

// Lookup decodes the value stored under key into v when its stamp matches.
func (f *File) Lookup(key, stamp string, v any) (bool, error) {
	if !f.Enabled() || stamp == "" {
		return false, nil
	}

	f.mu.Lock()
	e, ok := f.entries[key]
	f.mu.Unlock()

	if !ok || e.Stamp != stamp {
		return false, nil
	}

	if err := json.Unmarshal(e.Value, v); err != nil {
		return false, fmt.Errorf("decoding cached %q: %w", key, err)
	}

	return true, nil
}

// Store saves v under key and writes the file.
func (f *File) Store(key, stamp string, v any) error {
	if !f.Enabled() || stamp == "" {
		return nil
	}

	value, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries[key] = entry{
		Stamp:    stamp,
		StoredAt: time.Now().UTC(),
		Value:    value,
	}

	return f.save()
}

// save writes to a temporary file and renames it over the cache file.
func (f *File) save() error {
	data, err := json.MarshalIndent(f.entries, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating cache file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing cache file: %w", err)
	}

	return nil
}
