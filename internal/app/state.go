// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/j-veylop/webtally/internal/models"
	"github.com/j-veylop/webtally/internal/services/scanner"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	// maxHistoryPoints bounds the in-session chart history.
	maxHistoryPoints = 120
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial bool
	Scan    bool
}

// State is the shared application state all tabs read from.
type State struct {
	mu sync.RWMutex

	Result  *scanner.Result
	ScanErr error

	// Progress of the in-flight scan.
	ScanTotal   int
	ScanTallied int

	// Per-scan series for the dashboard charts, session only.
	totalHistory   []float64
	offsiteHistory []float64

	Loading LoadingState

	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates the shared state with initial loading active.
func NewState() *State {
	return &State{
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "scan":
		s.Loading.Scan = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial || s.Loading.Scan
}

// IsInitialLoading returns true if the first scan has not completed yet.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// SetResult stores a completed scan result and extends the chart
// history. Delivering the same result twice is a no-op, the result can
// arrive both from the scan command and from the manager's broadcast.
func (s *State) SetResult(res *scanner.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res == nil || res == s.Result {
		return
	}

	s.Result = res
	s.ScanErr = nil
	s.LastUpdated = time.Now()

	s.totalHistory = append(s.totalHistory, float64(res.Tally.Total))
	s.offsiteHistory = append(s.offsiteHistory, float64(res.Tally.Offsite))
	if len(s.totalHistory) > maxHistoryPoints {
		s.totalHistory = s.totalHistory[len(s.totalHistory)-maxHistoryPoints:]
		s.offsiteHistory = s.offsiteHistory[len(s.offsiteHistory)-maxHistoryPoints:]
	}
}

// GetResult returns the most recent completed scan result, or nil.
func (s *State) GetResult() *scanner.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Result
}

// SetScanError records a failed scan.
func (s *State) SetScanError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ScanErr = err
}

// GetScanError returns the error of the last failed scan, or nil.
func (s *State) GetScanError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ScanErr
}

// Stats summarizes the current result for dashboards.
func (s *State) Stats() models.ScanStats {
	return s.GetResult().Stats()
}

// BeginScan records the file count of a starting scan.
func (s *State) BeginScan(files int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ScanTotal = files
	s.ScanTallied = 0
}

// FileDone advances the scan progress by one file.
func (s *State) FileDone() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ScanTallied++
}

// ScanProgress returns tallied and total file counts for the in-flight scan.
func (s *State) ScanProgress() (done, total int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ScanTallied, s.ScanTotal
}

// History returns copies of the per-scan total and off-site series.
func (s *State) History() (total, offsite []float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total = make([]float64, len(s.totalHistory))
	copy(total, s.totalHistory)
	offsite = make([]float64, len(s.offsiteHistory))
	copy(offsite, s.offsiteHistory)
	return total, offsite
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	notification := Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	// Keep only the last 10 notifications
	if len(s.notifications) > 10 {
		s.notifications = s.notifications[len(s.notifications)-10:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Clear expired inline when reading
	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}

	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  0,
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// GetLastUpdated returns the last time a result was stored.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}
