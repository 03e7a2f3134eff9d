// Package urls provides the top URLs tab with a filterable ranking table.
package urls

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/webtally/internal/app"
	"github.com/j-veylop/webtally/internal/ui/components"
	"github.com/j-veylop/webtally/internal/ui/styles"
)

// keyMap defines the key bindings specific to the URLs tab.
type keyMap struct {
	Filter key.Binding
	Escape key.Binding
	Up     key.Binding
	Down   key.Binding
}

// defaultKeyMap returns the default key bindings for the URLs tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// Model represents the URLs tab state.
type Model struct {
	state       *app.State
	table       table.Model
	filterInput textinput.Model
	spinner     components.LoadingSpinner
	keys        keyMap
	width       int
	height      int
	filtering   bool
}

// New creates a new URLs model.
func New(state *app.State) *Model {
	filterInput := textinput.New()
	filterInput.Placeholder = "Filter URLs..."
	filterInput.CharLimit = 100
	filterInput.Width = 30

	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "URL", Width: 40},
		{Title: "Hits", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Subtle).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.TextPrimary).
		Background(styles.BgAccent).
		Bold(true)
	t.SetStyles(s)

	return &Model{
		state:       state,
		table:       t,
		filterInput: filterInput,
		spinner:     components.NewSpinner("Scanning log files..."),
		keys:        defaultKeyMap(),
	}
}

// Init initializes the URLs tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the URLs tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	if m.filtering {
		return m.updateFilter(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Filter):
			m.filtering = true
			m.filterInput.Focus()
			return m, textinput.Blink

		case key.Matches(msg, m.keys.Escape):
			if m.filterInput.Value() != "" {
				m.filterInput.SetValue("")
				m.updateTableData()
			}

		default:
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			cmds = append(cmds, cmd)
		}

	case app.ScanFinishedMsg, app.ServiceEventMsg:
		m.updateTableData()
	}

	return m, tea.Batch(cmds...)
}

// updateFilter handles input while the filter field is focused.
func (m *Model) updateFilter(msg tea.Msg) (app.Tab, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.filtering = false
			m.filterInput.Blur()
			m.filterInput.SetValue("")
			m.updateTableData()
			return m, nil

		case "enter":
			m.filtering = false
			m.filterInput.Blur()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.updateTableData()
	return m, cmd
}

// updateTableData rebuilds the table rows from the latest result.
func (m *Model) updateTableData() {
	res := m.state.GetResult()
	if res == nil {
		m.table.SetRows(nil)
		return
	}

	filter := strings.ToLower(m.filterInput.Value())

	rows := make([]table.Row, 0, len(res.TopURLs))
	for i, uc := range res.TopURLs {
		if filter != "" && !strings.Contains(strings.ToLower(uc.URL), filter) {
			continue
		}
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			uc.URL,
			humanize.Comma(uc.Hits),
		})
	}

	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
}

// SetSize sets the available size for the URLs tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(height-14, 5))

	urlWidth := width - 30
	if urlWidth < 20 {
		urlWidth = 20
	}
	if urlWidth > 80 {
		urlWidth = 80
	}

	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "URL", Width: urlWidth},
		{Title: "Hits", Width: 10},
	}
	m.table.SetColumns(columns)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.filtering {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
			m.keys.Escape,
		}
	}
	return []key.Binding{
		m.keys.Filter,
		m.keys.Escape,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Filter, m.keys.Escape},
		{m.keys.Up, m.keys.Down},
	}
}
