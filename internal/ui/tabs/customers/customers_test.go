package customers

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/webtally/internal/aggregate"
	"github.com/j-veylop/webtally/internal/app"
	"github.com/j-veylop/webtally/internal/config"
	"github.com/j-veylop/webtally/internal/services/scanner"
)

func sampleResult() *scanner.Result {
	return &scanner.Result{
		Tally: aggregate.Tally{
			CustomerBytes: map[string]int64{
				"alice": 3221225472,
				"bob":   1073741824,
				"carol": 536870912,
			},
			Total:   100,
			Offsite: 10,
		},
		Customers: []aggregate.CustomerUsage{
			{Customer: "alice", Bytes: 3221225472},
			{Customer: "bob", Bytes: 1073741824},
			{Customer: "carol", Bytes: 536870912},
		},
		Started: time.Now(),
	}
}

func newTestModel() (*Model, *app.State) {
	state := app.NewState()
	state.SetLoading("initial", false)
	cfg := &config.Config{GigabyteDivisor: config.DefaultGigabyteDivisor}
	m := New(state, cfg)
	m.SetSize(100, 60)
	return m, state
}

func TestNew(t *testing.T) {
	m, _ := newTestModel()
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.selectedIndex != 0 {
		t.Error("selection should start at the top")
	}
}

func TestModel_Init(t *testing.T) {
	m, _ := newTestModel()
	if cmd := m.Init(); cmd == nil {
		t.Error("Init should return the spinner command")
	}
}

func TestModel_View_Empty(t *testing.T) {
	m, _ := newTestModel()

	view := m.View()
	if !strings.Contains(view, "No customer data yet") {
		t.Error("View should show the empty state")
	}
}

func TestModel_View_WithData(t *testing.T) {
	m, state := newTestModel()
	state.SetResult(sampleResult())

	view := m.View()
	if !strings.Contains(view, "Customer Usage") {
		t.Error("View should contain the usage card")
	}
	if !strings.Contains(view, "alice") {
		t.Error("View should list the heaviest customer")
	}
	if !strings.Contains(view, "3.00 GB") {
		t.Error("View should show the usage in gigabytes")
	}
	if !strings.Contains(view, "3 customers") {
		t.Error("View should show the customer count")
	}
}

func TestModel_Navigation(t *testing.T) {
	m, state := newTestModel()
	state.SetResult(sampleResult())

	press := func(r rune) {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	press('j')
	if m.selectedIndex != 1 {
		t.Errorf("selectedIndex = %d after j, want 1", m.selectedIndex)
	}

	press('j')
	press('j')
	if m.selectedIndex != 0 {
		t.Errorf("selectedIndex = %d, want 0 after wrapping", m.selectedIndex)
	}

	press('k')
	if m.selectedIndex != 2 {
		t.Errorf("selectedIndex = %d after k, want 2 (wrap)", m.selectedIndex)
	}

	press('g')
	if m.selectedIndex != 0 {
		t.Errorf("selectedIndex = %d after g, want 0", m.selectedIndex)
	}

	press('G')
	if m.selectedIndex != 2 {
		t.Errorf("selectedIndex = %d after G, want 2", m.selectedIndex)
	}
}

func TestModel_Navigation_Empty(t *testing.T) {
	m, _ := newTestModel()

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if m.selectedIndex != 0 {
		t.Error("navigation with no customers should not move the selection")
	}
}

func TestModel_ClampSelection(t *testing.T) {
	m, state := newTestModel()
	state.SetResult(sampleResult())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	if m.selectedIndex != 2 {
		t.Fatalf("selectedIndex = %d, want 2", m.selectedIndex)
	}

	smaller := sampleResult()
	smaller.Customers = smaller.Customers[:1]
	state.SetResult(smaller)
	m.Update(app.ScanFinishedMsg{Result: smaller})

	if m.selectedIndex != 0 {
		t.Errorf("selectedIndex = %d after shrink, want 0", m.selectedIndex)
	}
}

func TestModel_SetSize(t *testing.T) {
	m, _ := newTestModel()
	m.SetSize(120, 40)
	if m.width != 120 || m.height != 40 {
		t.Error("SetSize should store dimensions")
	}
}

func TestModel_Help(t *testing.T) {
	m, _ := newTestModel()
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}
