package app

import (
	"time"

	"github.com/j-veylop/webtally/internal/services"
	"github.com/j-veylop/webtally/internal/services/scanner"
)

// TickMsg is sent on regular intervals for periodic updates.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is loading.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource finished loading.
type StopLoadingMsg struct {
	Resource string
}

// ScanFinishedMsg carries the outcome of a scan command.
type ScanFinishedMsg struct {
	Result *scanner.Result
	Err    error
}

// RefreshMsg requests a fresh scan of the log files.
type RefreshMsg struct{}

// AddNotificationMsg adds a notification to the state.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg removes a notification by ID.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers cleanup of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps events from the service layer.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg carries the event channel from a new subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg carries an error with optional context.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help overlay.
type ToggleHelpMsg struct{}
