// Package styles defines the visual styling for the application.
package styles

import "github.com/charmbracelet/lipgloss"

// Color definitions for the webtally theme.
var (
	// Primary colors
	Primary   = lipgloss.Color("205") // Pink
	Secondary = lipgloss.Color("63")  // Purple
	Subtle    = lipgloss.Color("240") // Gray

	// Status colors
	Success = lipgloss.Color("42")  // Green
	Error   = lipgloss.Color("196") // Red
	Warning = lipgloss.Color("220") // Yellow
	Info    = lipgloss.Color("39")  // Blue

	// Background colors
	BgDark   = lipgloss.Color("235")
	BgLight  = lipgloss.Color("237")
	BgAccent = lipgloss.Color("236")

	// Text colors
	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")

	// ToastStyle for floating notifications.
	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1).
			MarginBottom(1)
)

// TitleStyle is used for main headings.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// SubTitleStyle is used for section headings.
var SubTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Secondary).
	MarginBottom(1)

// DocStyle provides consistent document margins.
var DocStyle = lipgloss.NewStyle().
	Margin(1, 2).
	Padding(0, 1)

// ActiveTabStyle styles the currently selected tab.
var ActiveTabStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("229")).
	Background(Primary).
	Padding(0, 2).
	MarginRight(1)

// InactiveTabStyle styles non-selected tabs.
var InactiveTabStyle = lipgloss.NewStyle().
	Foreground(TextSecondary).
	Background(BgLight).
	Padding(0, 2).
	MarginRight(1)

// TabNumberStyle styles the tab number indicator.
var TabNumberStyle = lipgloss.NewStyle().
	Foreground(Subtle).
	MarginRight(0)

// CardStyle creates a bordered card container.
var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(1, 2).
	MarginBottom(1)

// CardTitleStyle styles card headers.
var CardTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// FocusedStyle is used for focused input elements.
var FocusedStyle = lipgloss.NewStyle().
	Foreground(Primary).
	Bold(true)

// BlurredStyle is used for unfocused input elements.
var BlurredStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// NotificationBaseStyle is the base for all notification types.
var NotificationBaseStyle = lipgloss.NewStyle().
	Padding(0, 2).
	MarginBottom(1).
	Border(lipgloss.RoundedBorder())

// NotificationSuccessStyle for success notifications.
var NotificationSuccessStyle = NotificationBaseStyle.
	BorderForeground(Success).
	Foreground(Success)

// NotificationErrorStyle for error notifications.
var NotificationErrorStyle = NotificationBaseStyle.
	BorderForeground(Error).
	Foreground(Error)

// NotificationWarningStyle for warning notifications.
var NotificationWarningStyle = NotificationBaseStyle.
	BorderForeground(Warning).
	Foreground(Warning)

// NotificationInfoStyle for info notifications.
var NotificationInfoStyle = NotificationBaseStyle.
	BorderForeground(Info).
	Foreground(Info)

// ProgressBarStyle styles the progress bar container.
var ProgressBarStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	PaddingRight(1)

// ProgressLabelStyle styles progress bar labels.
var ProgressLabelStyle = lipgloss.NewStyle().
	Foreground(TextSecondary).
	Width(20)

// ProgressPercentStyle styles the percentage display.
var ProgressPercentStyle = lipgloss.NewStyle().
	Foreground(TextPrimary).
	Width(6).
	Align(lipgloss.Right)

// HelpStyle is the base style for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// HelpKeyStyle styles keyboard shortcut keys.
var HelpKeyStyle = lipgloss.NewStyle().
	Foreground(Primary).
	Bold(true)

// HelpDescStyle styles help descriptions.
var HelpDescStyle = lipgloss.NewStyle().
	Foreground(TextSecondary)

// HelpSeparatorStyle styles separators in help text.
var HelpSeparatorStyle = lipgloss.NewStyle().
	Foreground(Subtle)

// HelpPanelStyle creates the help overlay panel.
var HelpPanelStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(Primary).
	Padding(1, 3).
	Background(BgDark)

// ListItemStyle styles list items.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedListItemStyle styles selected list items.
var SelectedListItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Foreground(Primary).
	Bold(true).
	SetString("> ")

// TableHeaderStyle styles table headers.
var TableHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	BorderStyle(lipgloss.NormalBorder()).
	BorderBottom(true).
	BorderForeground(Subtle)

// TableCellStyle styles table cells.
var TableCellStyle = lipgloss.NewStyle().
	Padding(0, 1)

// TableSelectedStyle styles selected table rows.
var TableSelectedStyle = lipgloss.NewStyle().
	Background(BgAccent).
	Foreground(TextPrimary).
	Bold(true)

// RateLowStyle for low off-site shares (<20%).
var RateLowStyle = lipgloss.NewStyle().
	Foreground(Success)

// RateMediumStyle for medium off-site shares (20-50%).
var RateMediumStyle = lipgloss.NewStyle().
	Foreground(Warning)

// RateHighStyle for high off-site shares (>50%).
var RateHighStyle = lipgloss.NewStyle().
	Foreground(Error)

// ErrorTextStyle for error messages.
var ErrorTextStyle = lipgloss.NewStyle().
	Foreground(Error)

// SuccessTextStyle for success messages.
var SuccessTextStyle = lipgloss.NewStyle().
	Foreground(Success)

// WarningTextStyle for warning messages.
var WarningTextStyle = lipgloss.NewStyle().
	Foreground(Warning)

// InfoTextStyle for info messages.
var InfoTextStyle = lipgloss.NewStyle().
	Foreground(Info)

// GetRateStyle returns the appropriate style for an off-site share.
func GetRateStyle(percent float64) lipgloss.Style {
	switch {
	case percent > 50:
		return RateHighStyle
	case percent > 20:
		return RateMediumStyle
	default:
		return RateLowStyle
	}
}

// CenterHorizontal centers content horizontally within a given width.
func CenterHorizontal(content string, width int) string {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(content)
}

// CenterBoth centers content both horizontally and vertically.
func CenterBoth(content string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Render(content)
}
