package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/webtally/internal/ui/components"
	"github.com/j-veylop/webtally/internal/ui/styles"
)

// View renders the dashboard component.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return m.renderLoading()
	}

	var sections []string

	sections = append(sections, m.renderTitle())

	if err := m.state.GetScanError(); err != nil {
		sections = append(sections, m.renderScanError(err))
	}

	sections = append(sections,
		m.renderSummaryCard(),
		m.renderOffsiteCard(),
		m.renderTopURLsCard(),
		m.renderTrendCard(),
	)

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

// renderTitle renders the dashboard title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("webtally")
	subtitle := styles.HelpStyle.Render("Web server access log analytics")

	if m.state.Loading.Scan {
		done, total := m.state.ScanProgress()
		progress := fmt.Sprintf("%s Scanning... %d/%d files", m.spinner.View(), done, total)
		return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, styles.InfoTextStyle.Render(progress), "")
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderScanError(err error) string {
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, styles.ErrorTextStyle.Bold(true).Render("Last scan failed"))
	rows = append(rows, "")
	rows = append(rows, styles.ErrorTextStyle.Render("  "+err.Error()))
	rows = append(rows, "")
	rows = append(rows, styles.HelpStyle.Render("  Press 'r' to retry"))

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderSummaryCard renders the headline numbers of the latest scan.
func (m *Model) renderSummaryCard() string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Scan Summary")))
	rows = append(rows, "")

	res := m.state.GetResult()
	if res == nil {
		emptyIcon := lipgloss.NewStyle().Foreground(styles.Subtle).Render("○")
		rows = append(rows, fmt.Sprintf("  %s %s", emptyIcon, styles.HelpStyle.Render("No scan data yet")))
		rows = append(rows, "")
		rows = append(rows, styles.InfoTextStyle.Render("  ╰─▶ Press 'r' to scan the configured log directory"))

		return styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	stats := m.state.Stats()

	rows = append(rows, m.renderStatRow("Requests", humanize.Comma(stats.Records)))
	rows = append(rows, m.renderStatRow("Off-site", fmt.Sprintf("%s (%.2f %%)", humanize.Comma(stats.Offsite), stats.OffsitePercent())))
	rows = append(rows, m.renderStatRow("Data volume", humanize.Bytes(uint64(stats.Bytes))))
	rows = append(rows, m.renderStatRow("Files", fmt.Sprintf("%d", stats.Files)))
	if stats.Skipped > 0 {
		rows = append(rows, m.renderStatRow("Skipped lines", humanize.Comma(stats.Skipped)))
	}
	rows = append(rows, m.renderStatRow("Scan time", stats.Elapsed.Round(time.Millisecond).String()))
	rows = append(rows, m.renderStatRow("Last scan", humanize.Time(m.state.GetLastUpdated())))
	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderStatRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(16).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return "  " + labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// renderOffsiteCard renders the animated off-site share bar.
func (m *Model) renderOffsiteCard() string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◉")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Off-site Share")))
	rows = append(rows, "")

	stats := m.state.Stats()
	if stats.Records == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No requests tallied yet"))
		rows = append(rows, "")

		return styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	percent := stats.OffsitePercent()
	displayPercent := m.offsiteAnim.CurrentPercent

	barWidth := max(cardWidth-20, 10)
	bar := components.RenderGradientBar(displayPercent, barWidth)
	percentStr := styles.GetRateStyle(percent).
		Width(8).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.2f%%", displayPercent))

	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Left, "    ", bar, " ", percentStr))
	rows = append(rows, "")
	rows = append(rows, styles.HelpStyle.Render(fmt.Sprintf(
		"  %s of %s requests came from an off-site referrer",
		humanize.Comma(stats.Offsite), humanize.Comma(stats.Records),
	)))
	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderTopURLsCard renders a short preview of the URL ranking.
func (m *Model) renderTopURLsCard() string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◇")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Top URLs")))
	rows = append(rows, "")

	res := m.state.GetResult()
	if res == nil || len(res.TopURLs) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No successful requests yet"))
		rows = append(rows, "")

		return styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	top := res.TopURLs
	if len(top) > 5 {
		top = top[:5]
	}

	rankStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	hitsStyle := lipgloss.NewStyle().Width(8).Align(lipgloss.Right).Foreground(styles.TextPrimary)
	urlStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)

	for i, u := range top {
		rows = append(rows, fmt.Sprintf("  %s %s  %s",
			rankStyle.Render(fmt.Sprintf("%d.", i+1)),
			hitsStyle.Render(humanize.Comma(u.Hits)),
			urlStyle.Render(u.URL),
		))
	}

	rows = append(rows, "")
	rows = append(rows, styles.HelpStyle.Render("  Press '2' for the full ranking"))
	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderTrendCard renders the per-scan request trend chart.
func (m *Model) renderTrendCard() string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◍")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Request Trend")), "")

	total, offsite := m.state.History()
	if len(total) < 2 {
		rows = append(rows, styles.HelpStyle.Render("  Trend appears after a couple of scans"))
	} else {
		chartWidth := max(cardWidth-12, 30)
		chartHeight := 8

		chart := components.RenderDualLineChart(total, offsite, chartWidth, chartHeight,
			fmt.Sprintf("Last %d scans - total (blue) vs off-site (red)", len(total)))

		for _, line := range strings.Split(chart, "\n") {
			rows = append(rows, "  "+line)
		}

		rows = append(rows, "")
		legend := components.RenderLegend([]components.LegendItem{
			{Label: "Total", Color: components.ChartTotalColor},
			{Label: "Off-site", Color: components.ChartOffsiteColor},
		})
		rows = append(rows, "  "+legend)
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
