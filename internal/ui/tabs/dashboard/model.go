// Package dashboard provides the overview tab with scan totals and trends.
package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/webtally/internal/app"
	"github.com/j-veylop/webtally/internal/ui/components"
)

type animationTickMsg time.Time

func animationTickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*40, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// keyMap defines the key bindings specific to the dashboard tab.
type keyMap struct {
	Refresh key.Binding
	Up      key.Binding
	Down    key.Binding
}

// defaultKeyMap returns the default key bindings for the dashboard tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// AnimationState tracks the eased progress of the off-site bar.
type AnimationState struct {
	StartTime      time.Time
	CurrentPercent float64
	TargetPercent  float64
	StartPercent   float64
}

// Model represents the dashboard tab state.
type Model struct {
	state          *app.State
	offsiteAnim    AnimationState
	spinner        components.LoadingSpinner
	keys           keyMap
	viewport       viewport.Model
	width          int
	height         int
	animationFrame int
}

// New creates a new dashboard model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		spinner:  components.NewSpinner("Scanning log files..."),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Init(), animationTickCmd())
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case animationTickMsg:
		cmds = append(cmds, m.handleAnimationTick(msg))

	case app.StartLoadingMsg:
		cmds = append(cmds, animationTickCmd())

	case app.ScanFinishedMsg, app.ServiceEventMsg, app.RefreshMsg:
		m.syncAnimationTarget(time.Now())
		cmds = append(cmds, animationTickCmd())

	case tea.KeyMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleAnimationTick(msg animationTickMsg) tea.Cmd {
	m.animationFrame++
	now := time.Time(msg)

	animating := m.syncAnimationTarget(now)
	m.stepAnimation(now)

	if animating || m.state.AnyLoading() {
		return animationTickCmd()
	}
	return nil
}

func (m *Model) syncAnimationTarget(now time.Time) bool {
	target := m.state.Stats().OffsitePercent()

	if target != m.offsiteAnim.TargetPercent {
		m.offsiteAnim.StartPercent = m.offsiteAnim.CurrentPercent
		m.offsiteAnim.TargetPercent = target
		m.offsiteAnim.StartTime = now
	}

	return m.offsiteAnim.CurrentPercent != m.offsiteAnim.TargetPercent
}

func (m *Model) stepAnimation(now time.Time) {
	anim := &m.offsiteAnim
	if anim.CurrentPercent == anim.TargetPercent {
		return
	}

	elapsed := now.Sub(anim.StartTime).Seconds()
	duration := 1.5

	if elapsed >= duration {
		anim.CurrentPercent = anim.TargetPercent
		return
	}

	progress := elapsed / duration
	ease := 1.0 - (1.0-progress)*(1.0-progress)
	anim.CurrentPercent = anim.StartPercent + (anim.TargetPercent-anim.StartPercent)*ease
}

// SetSize sets the available size for the dashboard.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Refresh,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down},
		{m.keys.Refresh},
	}
}
