package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Sink appends log entries to a file, one per line.
type Sink struct {
	path string

	mu     sync.Mutex
	file   *os.File
	closed bool
}

// OpenSink opens path for appending, creating it if needed.
func OpenSink(path string) (*Sink, error) {
	s := &Sink{path: path}
	if err := s.open(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sink) open() error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	s.file = f
	return nil
}

// Path returns the file the sink writes to.
func (s *Sink) Path() string {
	return s.path
}

// Write appends e followed by a newline.
func (s *Sink) Write(e LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return fmt.Errorf("write %s: sink closed", s.path)
	}
	if _, err := s.file.WriteString(e.String() + "\n"); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// Reopen closes the current file and opens path again. Used after the
// log has been rotated away. It does nothing once the sink is closed.
func (s *Sink) Reopen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	if s.file != nil {
		s.file.Close()
		s.file = nil
	}
	return s.open()
}

// Close closes the underlying file.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// Watch reopens the log whenever it is removed or renamed, until ctx is
// done. It watches the parent directory so the new file is picked up.
func (s *Sink) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(s.path)
	if err != nil {
		return fmt.Errorf("resolve log path: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			dbg("log file %s rotated (%s), reopening", s.path, ev.Op)
			if err := s.Reopen(); err != nil {
				return err
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch log file: %w", err)
		}
	}
}
