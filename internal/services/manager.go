// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/webtally/internal/config"
	"github.com/j-veylop/webtally/internal/logger"
	"github.com/j-veylop/webtally/internal/models"
	"github.com/j-veylop/webtally/internal/services/scanner"
	"github.com/j-veylop/webtally/internal/services/watcher"
)

type (
	// ScanStartedEvent is emitted when a scan run begins.
	ScanStartedEvent struct {
		Files int
	}

	// FileTalliedEvent is emitted each time a log file finishes aggregating.
	FileTalliedEvent struct {
		Stat models.FileStat
	}

	// ScanCompletedEvent is emitted when a scan run finishes.
	ScanCompletedEvent struct {
		Result *scanner.Result
	}

	// LogsChangedEvent is emitted when a watched log location changes on disk.
	LogsChangedEvent struct {
		Path string
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (ScanStartedEvent) isServiceEvent()   {}
func (FileTalliedEvent) isServiceEvent()   {}
func (ScanCompletedEvent) isServiceEvent() {}
func (LogsChangedEvent) isServiceEvent()   {}
func (ErrorEvent) isServiceEvent()         {}

// Manager orchestrates the scanner and watcher services and routes
// their events to subscribers.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	scanner     *scanner.Service
	watcher     *watcher.Service
	eventChan   chan ServiceEvent
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent
	lastResult  *scanner.Result
	scanning    bool
	paths       []string
}

// NewManager creates a new service manager over the given log paths.
// When watch is true, changes under the paths trigger automatic rescans.
func NewManager(cfg *config.Config, watch bool, paths ...string) (*Manager, error) {
	if len(paths) == 0 {
		paths = []string{cfg.LogDir}
	}

	m := &Manager{
		cfg:       cfg,
		scanner:   scanner.New(cfg),
		eventChan: make(chan ServiceEvent, 100),
		stopChan:  make(chan struct{}),
		paths:     paths,
	}

	if watch {
		var err error
		m.watcher, err = watcher.New(cfg.WatchDebounce, paths...)
		if err != nil {
			return nil, fmt.Errorf("failed to start log watcher: %w", err)
		}
	}

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	// A nil watch channel never fires, so the select degrades cleanly
	// when watching is disabled.
	var watchCh <-chan watcher.Event
	if m.watcher != nil {
		watchCh = m.watcher.Events()
	}

	for {
		select {
		case event := <-m.scanner.Events():
			m.handleScanEvent(event)

		case event := <-watchCh:
			m.handleWatchEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

// handleScanEvent converts and broadcasts scanner events.
func (m *Manager) handleScanEvent(event scanner.Event) {
	switch event.Type {
	case scanner.EventScanStarted:
		m.broadcast(ScanStartedEvent{Files: event.Files})

	case scanner.EventFileTallied:
		m.broadcast(FileTalliedEvent{Stat: event.Stat})

	case scanner.EventScanCompleted:
		m.broadcast(ScanCompletedEvent{Result: event.Result})

	case scanner.EventScanFailed:
		m.broadcast(ErrorEvent{
			Service: "scanner",
			Error:   event.Err,
		})
	}
}

// handleWatchEvent broadcasts the change and schedules a rescan.
func (m *Manager) handleWatchEvent(event watcher.Event) {
	switch event.Type {
	case watcher.EventChanged:
		m.broadcast(LogsChangedEvent{Path: event.Path})

		go func() {
			if _, err := m.Scan(context.Background()); err != nil {
				logger.Error("rescan after log change failed", "error", err)
			}
		}()

	case watcher.EventError:
		m.broadcast(ErrorEvent{
			Service: "watcher",
			Error:   event.Err,
		})
	}
}

// Scan runs one aggregation pass over the configured log paths.
// Concurrent calls collapse into the in-flight run and return the
// last completed result.
func (m *Manager) Scan(ctx context.Context) (*scanner.Result, error) {
	m.mu.Lock()
	if m.scanning {
		res := m.lastResult
		m.mu.Unlock()
		return res, nil
	}
	m.scanning = true
	m.mu.Unlock()

	res, err := m.scanner.Scan(ctx, m.paths...)

	m.mu.Lock()
	m.scanning = false
	if err == nil {
		m.lastResult = res
	}
	m.mu.Unlock()

	if err != nil {
		m.notifyScanFailed(err)
		return nil, err
	}

	m.notifyScanDone(res)
	return res, nil
}

// LastResult returns the most recent completed scan result, or nil.
func (m *Manager) LastResult() *scanner.Result {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastResult
}

// Stats summarizes the most recent completed scan.
func (m *Manager) Stats() models.ScanStats {
	return m.LastResult().Stats()
}

// Scanning reports whether a scan is currently in flight.
func (m *Manager) Scanning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scanning
}

// Watching reports whether filesystem watching is active.
func (m *Manager) Watching() bool {
	return m.watcher != nil
}

// Paths returns the log paths this manager scans.
func (m *Manager) Paths() []string {
	paths := make([]string, len(m.paths))
	copy(paths, m.paths)
	return paths
}

// Config returns the active configuration.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

func (m *Manager) notifyScanDone(res *scanner.Result) {
	if !m.cfg.Notify {
		return
	}

	stats := res.Stats()
	body := fmt.Sprintf("%d records from %d files, %.2f %% off-site",
		stats.Records, stats.Files, res.Tally.OffsitePercent())
	_ = beeep.Notify("webtally: scan completed", body, "")
}

func (m *Manager) notifyScanFailed(err error) {
	if !m.cfg.Notify {
		return
	}
	_ = beeep.Notify("webtally: scan failed", err.Error(), "")
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	// Send to main event channel
	select {
	case m.eventChan <- event:
	default:
	}

	// Send to subscribers
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

// waitForEvent returns a tea.Cmd that waits for the next event.
func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return waitForEvent(ch)
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	if m.watcher != nil {
		return m.watcher.Close()
	}
	return nil
}
