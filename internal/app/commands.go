package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/webtally/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a tick command with the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// scanCmd runs a scan through the manager and reports the outcome.
func scanCmd(manager *services.Manager) tea.Cmd {
	return func() tea.Msg {
		result, err := manager.Scan(context.Background())
		return ScanFinishedMsg{Result: result, Err: err}
	}
}

// subscribeToServicesCmd subscribes to service events.
func subscribeToServicesCmd(manager *services.Manager) tea.Cmd {
	if manager == nil {
		return nil
	}

	eventChan, _ := manager.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: eventChan}
	}
}

// waitForServiceEventCmd waits for the next service event on the channel.
func waitForServiceEventCmd(eventChan chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-eventChan
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// WaitForServiceEvent returns a command that waits for service events.
func WaitForServiceEvent(eventChan chan services.ServiceEvent) tea.Cmd {
	return waitForServiceEventCmd(eventChan)
}

// clearNotificationCmd removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

// notifySuccessCmd creates a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationSuccess,
			Message:  message,
			Duration: QuickNotificationDuration,
		}
	}
}

// notifyErrorCmd creates an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationError,
			Message:  message,
			Duration: LongNotificationDuration,
		}
	}
}

// notifyWarningCmd creates a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationWarning,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// notifyInfoCmd creates an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationInfo,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// delayedCmd runs a command after a delay.
func delayedCmd(delay time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return msg
	})
}

// batchCmds combines multiple commands into one.
func batchCmds(cmds ...tea.Cmd) tea.Cmd {
	validCmds := make([]tea.Cmd, 0, len(cmds))
	for _, cmd := range cmds {
		if cmd != nil {
			validCmds = append(validCmds, cmd)
		}
	}

	if len(validCmds) == 0 {
		return nil
	}
	if len(validCmds) == 1 {
		return validCmds[0]
	}
	return tea.Batch(validCmds...)
}

// quitCmd returns the quit command.
func quitCmd() tea.Cmd {
	return tea.Quit
}

// Commands wraps command constructors with the service manager baked in.
type Commands struct {
	manager *services.Manager
}

// NewCommands creates a Commands instance.
func NewCommands(manager *services.Manager) *Commands {
	return &Commands{manager: manager}
}

// Tick returns a tick command with a custom interval.
func (c *Commands) Tick(interval time.Duration) tea.Cmd {
	return tickCmd(interval)
}

// DefaultTick returns the default tick command.
func (c *Commands) DefaultTick() tea.Cmd {
	return defaultTickCmd()
}

// Scan runs a scan and reports the outcome.
func (c *Commands) Scan() tea.Cmd {
	return scanCmd(c.manager)
}

// SubscribeToServices subscribes to service events.
func (c *Commands) SubscribeToServices() tea.Cmd {
	return subscribeToServicesCmd(c.manager)
}

// NotifySuccess creates a success notification.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError creates an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyWarning creates a warning notification.
func (c *Commands) NotifyWarning(message string) tea.Cmd {
	return notifyWarningCmd(message)
}

// NotifyInfo creates an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}

// ClearNotification removes a notification after a delay.
func (c *Commands) ClearNotification(id string, delay time.Duration) tea.Cmd {
	return clearNotificationCmd(id, delay)
}

// Delayed runs a message after a delay.
func (c *Commands) Delayed(delay time.Duration, msg tea.Msg) tea.Cmd {
	return delayedCmd(delay, msg)
}

// Batch combines commands.
func (c *Commands) Batch(cmds ...tea.Cmd) tea.Cmd {
	return batchCmds(cmds...)
}

// Quit returns the quit command.
func (c *Commands) Quit() tea.Cmd {
	return quitCmd()
}
