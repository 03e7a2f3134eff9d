package urls

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/webtally/internal/ui/components"
	"github.com/j-veylop/webtally/internal/ui/styles"
)

// View renders the URLs tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	var sections []string

	sections = append(sections, m.renderTitle())

	if m.filtering || m.filterInput.Value() != "" {
		sections = append(sections, m.renderFilter())
	}

	sections = append(sections, m.renderTable())
	sections = append(sections, m.renderHitsChart())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

// renderTitle renders the URLs tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Top URLs")

	subtitle := styles.HelpStyle.Render("No scan data yet")
	if res := m.state.GetResult(); res != nil {
		subtitle = styles.HelpStyle.Render(
			fmt.Sprintf("%d URLs ranked by successful hits", len(res.TopURLs)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// renderFilter renders the filter input row.
func (m *Model) renderFilter() string {
	prompt := lipgloss.NewStyle().Foreground(styles.Primary).Render("/")
	return "  " + prompt + " " + m.filterInput.View()
}

// renderTable renders the ranked URL table.
func (m *Model) renderTable() string {
	res := m.state.GetResult()

	if res == nil || len(res.TopURLs) == 0 {
		return m.renderEmptyState()
	}

	m.updateTableData()

	cardWidth := m.width - 6
	if cardWidth < 60 {
		cardWidth = 60
	}

	return styles.CardStyle.Width(cardWidth).Render(m.table.View())
}

// renderEmptyState renders the empty state when no URLs were tallied.
func (m *Model) renderEmptyState() string {
	cardWidth := m.width - 6
	if cardWidth < 40 {
		cardWidth = 40
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		styles.SubTitleStyle.Render("No URL Data"),
		"",
		styles.HelpStyle.Render("Successful page requests will be ranked here."),
		"",
		styles.InfoTextStyle.Render("Press 'r' to scan the configured log directory"),
		"",
	)

	return styles.CardStyle.Width(cardWidth).Render(content)
}

// renderHitsChart renders a bar chart of the leading URLs.
func (m *Model) renderHitsChart() string {
	res := m.state.GetResult()
	if res == nil || len(res.TopURLs) == 0 {
		return ""
	}

	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("▤")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Hit Distribution")), "")

	limit := min(len(res.TopURLs), 8)
	values := make([]float64, limit)
	labels := make([]string, limit)
	for i := 0; i < limit; i++ {
		values[i] = float64(res.TopURLs[i].Hits)
		labels[i] = shortURL(res.TopURLs[i].URL, 24)
	}

	chart := components.RenderBarChart(values, labels, max(cardWidth-8, 30))
	for _, line := range strings.Split(chart, "\n") {
		rows = append(rows, "  "+line)
	}
	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// shortURL trims long URLs from the left, keeping the distinctive tail.
func shortURL(url string, limit int) string {
	if len(url) <= limit {
		return url
	}
	return "…" + url[len(url)-limit+1:]
}
