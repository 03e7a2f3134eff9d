package info

import (
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/webtally/internal/ui/styles"
)

// Version info - can be set at build time
var (
	Version   = "0.1.0"
	BuildDate = "dev"
	GitCommit = "unknown"
)

func init() {
	if BuildDate == "dev" {
		BuildDate = time.Now().Format("2006-01-02") + "-dev"
	}
}

// View renders the info tab.
func (m *Model) View() string {
	var sections []string

	// Title
	sections = append(sections, m.renderTitle())

	// Configuration card
	sections = append(sections, m.renderConfigCard())

	// Log format card
	sections = append(sections, m.renderFormatCard())

	// About card
	sections = append(sections, m.renderAboutCard())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderTitle renders the info tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// renderConfigCard renders the scan configuration card.
func (m *Model) renderConfigCard() string {
	cardWidth := m.cardWidth()

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"))
	rows = append(rows, "")

	if m.config != nil {
		notify := "disabled"
		if m.config.Notify {
			notify = "enabled"
		}

		rows = append(rows, m.renderConfigRow("Log Directory", m.config.LogDir))
		rows = append(rows, m.renderConfigRow("On-site Marker", m.config.OnsiteMarker))
		rows = append(rows, m.renderConfigRow("Success Prefix", m.config.SuccessPrefix))
		rows = append(rows, m.renderConfigRow("On Malformed", m.config.OnMalformed))
		rows = append(rows, m.renderConfigRow("Top Limit", strconv.Itoa(m.config.TopLimit)))
		rows = append(rows, m.renderConfigRow("Workers", strconv.Itoa(m.config.Workers)))
		rows = append(rows, m.renderConfigRow("Watch Debounce", m.config.WatchDebounce.String()))
		rows = append(rows, m.renderConfigRow("Notifications", notify))
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	rows = append(rows, "")
	rows = append(rows, styles.HelpStyle.Render("Override with WEBTALLY_* environment variables"))

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderFormatCard renders the access log field layout card.
func (m *Model) renderFormatCard() string {
	cardWidth := m.cardWidth()

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Log Format"))
	rows = append(rows, "")

	if m.config != nil {
		rows = append(rows, m.renderConfigRow("Request Field", strconv.Itoa(m.config.RequestIndex)))
		rows = append(rows, m.renderConfigRow("Status Field", strconv.Itoa(m.config.StatusIndex)))
		rows = append(rows, m.renderConfigRow("Bytes Field", strconv.Itoa(m.config.BytesIndex)))
		rows = append(rows, m.renderConfigRow("Referrer Field", strconv.Itoa(m.config.ReferrerIndex)))
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	rows = append(rows, "")
	rows = append(rows, styles.HelpStyle.Render("Zero-based positions in the whitespace-split line"))

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderConfigRow renders a configuration key-value row.
func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// renderAboutCard renders the about/version information card.
func (m *Model) renderAboutCard() string {
	cardWidth := m.cardWidth()

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About webtally"))
	rows = append(rows, "")

	rows = append(rows, m.renderConfigRow("Version", Version))
	rows = append(rows, m.renderConfigRow("Build Date", BuildDate))
	rows = append(rows, m.renderConfigRow("Git Commit", GitCommit))
	rows = append(rows, m.renderConfigRow("Go Version", runtime.Version()))
	rows = append(rows, m.renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)))
	rows = append(rows, "")

	stats := m.state.Stats()
	rows = append(rows, fmt.Sprintf("Files scanned: %s", styles.InfoTextStyle.Render(fmt.Sprintf("%d", stats.Files))))

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) cardWidth() int {
	cardWidth := m.width - 6
	if cardWidth < 50 {
		cardWidth = 50
	}
	if cardWidth > 80 {
		cardWidth = 80
	}
	return cardWidth
}
