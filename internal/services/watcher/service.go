// Package watcher reports filesystem changes under the watched log
// locations so scans can be rerun automatically.
package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/webtally/internal/logger"
)

// EventType defines the type of watcher event.
type EventType int

const (
	EventChanged EventType = iota
	EventError
)

// Event represents a filesystem change under a watched location.
type Event struct {
	Type EventType
	Err  error
	Path string
}

// Service watches log locations and emits a debounced change event
// when files are written, created, renamed, or removed.
type Service struct {
	mu            sync.Mutex
	watcher       *fsnotify.Watcher
	debounce      time.Duration
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
	pending       string
}

// New creates a watcher over the given paths. A directory path is
// watched directly; a file path is watched through its parent
// directory so rotation and recreation are caught.
func New(debounce time.Duration, paths ...string) (*Service, error) {
	if debounce <= 0 {
		debounce = 400 * time.Millisecond
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	s := &Service{
		watcher:   fsw,
		debounce:  debounce,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	seen := make(map[string]bool)
	for _, path := range paths {
		dir := path
		if info, err := os.Stat(path); err != nil || !info.IsDir() {
			dir = filepath.Dir(path)
		}
		if seen[dir] {
			continue
		}
		seen[dir] = true

		if err := fsw.Add(dir); err != nil {
			if closeErr := fsw.Close(); closeErr != nil {
				logger.Error("failed to close watcher", "error", closeErr)
			}
			return nil, err
		}
	}

	go s.watchLoop()
	return s, nil
}

// Events returns the event channel for subscribing to change events.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			// Editors and log rotation produce dot-file noise
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				s.scheduleChange(event.Name)
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Err: err})

		case <-s.stopChan:
			return
		}
	}
}

// scheduleChange debounces rapid change bursts into a single event.
func (s *Service) scheduleChange(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = path
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.debounce, s.fireChanged)
}

func (s *Service) fireChanged() {
	s.mu.Lock()
	path := s.pending
	s.pending = ""
	s.mu.Unlock()

	s.sendEvent(Event{Type: EventChanged, Path: path})
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the watcher and cleans up resources.
func (s *Service) Close() error {
	close(s.stopChan)

	s.mu.Lock()
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.mu.Unlock()

	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
