package customers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/webtally/internal/aggregate"
	"github.com/j-veylop/webtally/internal/report"
	"github.com/j-veylop/webtally/internal/ui/components"
	"github.com/j-veylop/webtally/internal/ui/styles"
)

// View renders the customers component.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return m.renderLoading()
	}

	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderUsageList())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderLoading renders the loading state.
func (m *Model) renderLoading() string {
	return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
}

// renderTitle renders the customers title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Customers")

	subtitle := "No scan data yet"
	if res := m.state.GetResult(); res != nil {
		subtitle = fmt.Sprintf("%d customers, %s served",
			len(res.Customers), humanize.Bytes(uint64(res.Tally.TotalBytes())))
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, styles.HelpStyle.Render(subtitle), "")
}

// renderUsageList renders the per-customer byte usage, heaviest first.
func (m *Model) renderUsageList() string {
	customers := m.customers()

	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Customer Usage")))

	if len(customers) == 0 {
		rows = append(rows, "")
		emptyIcon := lipgloss.NewStyle().Foreground(styles.Subtle).Render("○")
		rows = append(rows, fmt.Sprintf("  %s %s", emptyIcon, styles.HelpStyle.Render("No customer data yet")))
		rows = append(rows, "")
		rows = append(rows, styles.InfoTextStyle.Render("  ╰─▶ Press 'r' to scan the configured log directory"))

		return styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	totalBytes := m.state.GetResult().Tally.TotalBytes()

	dividerWidth := max(cardWidth-8, 20)
	divider := lipgloss.NewStyle().Foreground(styles.Subtle).Render(
		"  ├" + strings.Repeat("─", dividerWidth) + "┤",
	)

	rows = append(rows, "")

	for i, c := range customers {
		rows = append(rows, m.renderCustomerRow(c, totalBytes, i == m.selectedIndex, cardWidth-4))
		if i < len(customers)-1 {
			rows = append(rows, "")
			rows = append(rows, divider)
			rows = append(rows, "")
		}
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderCustomerRow(c aggregate.CustomerUsage, totalBytes int64, selected bool, width int) string {
	var lines []string

	lines = append(lines, m.renderCustomerHeader(c, selected))
	lines = append(lines, "")

	share := 0.0
	if totalBytes > 0 {
		share = float64(c.Bytes) / float64(totalBytes) * 100
	}

	contentWidth := max(width-4, 20)
	lines = append(lines, m.renderShareBar(share, contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderCustomerHeader(c aggregate.CustomerUsage, selected bool) string {
	selectionPrefix := "  "
	if selected {
		selectionPrefix = styles.FocusedStyle.Render("▸ ")
	}

	name := c.Customer
	if len(name) > 35 {
		name = name[:32] + "..."
	}

	return fmt.Sprintf("%s%s %s",
		selectionPrefix,
		lipgloss.NewStyle().Bold(true).Render(name),
		styles.HelpStyle.Render(report.FormatGB(c.Bytes, m.cfg.GigabyteDivisor)),
	)
}

// renderShareBar renders this customer's slice of the total byte volume.
func (m *Model) renderShareBar(share float64, width int) string {
	const (
		indentWidth  = 4
		percentWidth = 7
	)

	barWidth := max(width-indentWidth-percentWidth-4, 10)

	percentStr := styles.GetRateStyle(share).
		Width(percentWidth).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.2f%%", share))

	bar := components.RenderGradientBar(share, barWidth)

	return lipgloss.JoinHorizontal(lipgloss.Left,
		"    ",
		bar,
		" ",
		percentStr,
	)
}
