// ABOUTME: File-backed Storage in the user's state directory
// ABOUTME: Atomic JSON writes plus an fsnotify watch for changes by other processes

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
)

const fileName = "storage.json"

// FileStorage stores all items in <dir>/storage.json. Every read goes to
// disk so writes from other processes are always visible.
type FileStorage struct {
	dir string

	mu sync.Mutex
	// seen is the last state this process wrote or was told about.
	// Watch diffs the file against it.
	seen map[string]string
}

func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{dir: dir, seen: map[string]string{}}
}

// Path returns the backing file path.
func (s *FileStorage) Path() string {
	return filepath.Join(s.dir, fileName)
}

func (s *FileStorage) GetItem(key string) (string, bool, error) {
	items, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := items[key]
	return v, ok, nil
}

func (s *FileStorage) SetItem(key, value string) error {
	return s.update(key, func(items map[string]string) {
		items[key] = value
	})
}

func (s *FileStorage) RemoveItem(key string) error {
	return s.update(key, func(items map[string]string) {
		delete(items, key)
	})
}

func (s *FileStorage) update(key string, mutate func(map[string]string)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.read()
	if err != nil {
		return err
	}
	mutate(items)

	// Record our own change first so Watch never reports it back.
	if v, ok := items[key]; ok {
		s.seen[key] = v
	} else {
		delete(s.seen, key)
	}

	return s.write(items)
}

func (s *FileStorage) read() (map[string]string, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	items := map[string]string{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		// A corrupt file reads as empty; the next write replaces it.
		slog.Debug("Ignoring corrupt storage file", "path", s.Path(), "error", err)
		return map[string]string{}, nil
	}
	return items, nil
}

func (s *FileStorage) write(items map[string]string) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, fileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Watch reports changes to the storage file made by other processes, one
// Event per changed key. Changes made through this FileStorage are never
// reported. The channel closes when ctx is done.
func (s *FileStorage) Watch(ctx context.Context) (<-chan Event, error) {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	// Watch the directory: atomic renames replace the file's inode.
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", s.dir, err)
	}

	current, err := s.read()
	if err != nil {
		watcher.Close()
		return nil, err
	}
	s.mu.Lock()
	s.seen = current
	s.mu.Unlock()

	events := make(chan Event)
	go func() {
		defer close(events)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != fileName {
					continue
				}
				for _, change := range s.diff() {
					select {
					case events <- change:
					case <-ctx.Done():
						return
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Debug("Storage watcher error", "error", err)
			}
		}
	}()

	return events, nil
}

// diff compares the file with the last seen state and advances it.
func (s *FileStorage) diff() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read()
	if err != nil {
		slog.Debug("Storage re-read failed", "error", err)
		return nil
	}

	var changes []Event
	for key, v := range current {
		if old, ok := s.seen[key]; !ok || old != v {
			changes = append(changes, Event{Key: key, OldValue: old, NewValue: v})
		}
	}
	for key, old := range s.seen {
		if _, ok := current[key]; !ok {
			changes = append(changes, Event{Key: key, OldValue: old})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Key < changes[j].Key })

	s.seen = current
	return changes
}
