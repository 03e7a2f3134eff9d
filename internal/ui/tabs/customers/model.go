// Package customers provides the per-customer traffic tab with byte usage bars.
package customers

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/webtally/internal/aggregate"
	"github.com/j-veylop/webtally/internal/app"
	"github.com/j-veylop/webtally/internal/config"
	"github.com/j-veylop/webtally/internal/ui/components"
)

// keyMap defines the key bindings specific to the customers tab.
type keyMap struct {
	NextCustomer  key.Binding
	PrevCustomer  key.Binding
	FirstCustomer key.Binding
	LastCustomer  key.Binding
	Refresh       key.Binding
}

// defaultKeyMap returns the default key bindings for the customers tab.
func defaultKeyMap() keyMap {
	return keyMap{
		NextCustomer: key.NewBinding(
			key.WithKeys("n", "j", "down"),
			key.WithHelp("j/n", "next customer"),
		),
		PrevCustomer: key.NewBinding(
			key.WithKeys("p", "k", "up"),
			key.WithHelp("k/p", "prev customer"),
		),
		FirstCustomer: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first customer"),
		),
		LastCustomer: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last customer"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
	}
}

// Model represents the customers tab state.
type Model struct {
	state         *app.State
	cfg           *config.Config
	spinner       components.LoadingSpinner
	keys          keyMap
	viewport      viewport.Model
	width         int
	height        int
	selectedIndex int
}

// New creates a new customers model.
func New(state *app.State, cfg *config.Config) *Model {
	return &Model{
		state:    state,
		cfg:      cfg,
		spinner:  components.NewSpinner("Scanning log files..."),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))

	case app.ScanFinishedMsg, app.ServiceEventMsg:
		m.clampSelection()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	count := len(m.customers())

	switch {
	case key.Matches(msg, m.keys.NextCustomer):
		if count > 0 {
			m.selectedIndex = (m.selectedIndex + 1) % count
		}
	case key.Matches(msg, m.keys.PrevCustomer):
		if count > 0 {
			m.selectedIndex = (m.selectedIndex - 1 + count) % count
		}
	case key.Matches(msg, m.keys.FirstCustomer):
		if count > 0 {
			m.selectedIndex = 0
		}
	case key.Matches(msg, m.keys.LastCustomer):
		if count > 0 {
			m.selectedIndex = count - 1
		}
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

// customers returns the ranked usage list from the latest scan.
func (m *Model) customers() []aggregate.CustomerUsage {
	res := m.state.GetResult()
	if res == nil {
		return nil
	}
	return res.Customers
}

// clampSelection keeps the selection in range after a rescan shrinks the list.
func (m *Model) clampSelection() {
	count := len(m.customers())
	if count == 0 {
		m.selectedIndex = 0
		return
	}
	if m.selectedIndex >= count {
		m.selectedIndex = count - 1
	}
}

// SetSize sets the available size for the customers tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.NextCustomer,
		m.keys.PrevCustomer,
		m.keys.Refresh,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.NextCustomer, m.keys.PrevCustomer},
		{m.keys.FirstCustomer, m.keys.LastCustomer},
		{m.keys.Refresh},
	}
}
