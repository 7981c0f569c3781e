// Package features persists the set of administratively disabled skill
// keywords.
//
// File format (YAML):
//
//	disabled_features:
//	  - kfc
//	  - 天气
//
// Every mutation rewrites the whole file before returning. Read or write
// failures are logged and degrade to "nothing disabled"; they never stop
// dispatch.
package features

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the state file inside the config directory.
const FileName = "disabled_features.yaml"

// ErrPersistence classifies failures reading or writing the state file.
var ErrPersistence = errors.New("feature state persistence failed")

type stateFile struct {
	DisabledFeatures []string `yaml:"disabled_features"`
}

// Store is the process-wide set of disabled keywords.
type Store struct {
	path string

	mu       sync.RWMutex
	disabled map[string]struct{}
}

// Open loads the store from path, creating the file (and its directory)
// with an empty set when absent. It never fails: a broken file yields an
// empty set and a logged warning.
func Open(path string) *Store {
	s := &Store{path: path, disabled: map[string]struct{}{}}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.saveLocked(); err != nil {
			slog.Warn("features: create state file failed", "path", path, "err", err)
		}
		return s
	}

	set, err := load(path)
	if err != nil {
		slog.Warn("features: load failed, nothing disabled", "path", path, "err", err)
		return s
	}
	s.disabled = set
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// IsDisabled reports whether keyword is currently disabled.
func (s *Store) IsDisabled(keyword string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.disabled[keyword]
	return ok
}

// Disable adds keyword to the set. It returns false if it was already
// disabled.
func (s *Store) Disable(keyword string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.disabled[keyword]; ok {
		return false
	}
	s.disabled[keyword] = struct{}{}
	s.persistLocked()
	return true
}

// Enable removes keyword from the set. It returns false if it was not
// disabled.
func (s *Store) Enable(keyword string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.disabled[keyword]; !ok {
		return false
	}
	delete(s.disabled, keyword)
	s.persistLocked()
	return true
}

// ListDisabled returns the disabled keywords, sorted.
func (s *Store) ListDisabled() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.disabled)
}

// Reload re-reads the file, replacing the in-memory set. A failed read
// leaves an empty set.
func (s *Store) Reload() {
	set, err := load(s.path)
	if err != nil {
		slog.Warn("features: reload failed, nothing disabled", "path", s.path, "err", err)
		set = map[string]struct{}{}
	}
	s.mu.Lock()
	s.disabled = set
	s.mu.Unlock()
}

// Watch reloads the store whenever the state file is written by another
// process. Blocks until ctx is cancelled.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("features: create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: atomic replacement swaps the file's inode.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("features: watch %s: %w", filepath.Dir(s.path), err)
	}
	slog.Info("features: watching state file", "path", s.path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				slog.Debug("features: state file changed", "op", event.Op.String())
				s.Reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("features: watcher error", "err", err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// persistLocked writes the set through. On failure the in-memory set is
// cleared so it never holds state the file does not.
func (s *Store) persistLocked() {
	if err := s.saveLocked(); err != nil {
		slog.Error("features: save failed, nothing disabled", "path", s.path, "err", err)
		s.disabled = map[string]struct{}{}
	}
}

// saveLocked writes the full set to a temp file and renames it into place.
func (s *Store) saveLocked() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create dir %s: %v", ErrPersistence, dir, err)
	}

	data, err := yaml.Marshal(stateFile{DisabledFeatures: sortedKeys(s.disabled)})
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrPersistence, err)
	}

	tmp, err := os.CreateTemp(dir, "."+FileName+".*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", ErrPersistence, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: rename: %v", ErrPersistence, err)
	}
	return nil
}

func load(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrPersistence, path, err)
	}
	var f stateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrPersistence, path, err)
	}
	set := make(map[string]struct{}, len(f.DisabledFeatures))
	for _, k := range f.DisabledFeatures {
		if k != "" {
			set[k] = struct{}{}
		}
	}
	return set, nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
