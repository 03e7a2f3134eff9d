package info

import (
	"strings"
	"testing"

	"github.com/j-veylop/webtally/internal/app"
	"github.com/j-veylop/webtally/internal/config"
)

func TestNew(t *testing.T) {
	state := app.NewState()
	cfg := &config.Config{}
	m := New(state, cfg)
	if m == nil {
		t.Fatal("New returned nil")
	}
}

func TestModel_Init(t *testing.T) {
	state := app.NewState()
	cfg := &config.Config{}
	m := New(state, cfg)
	if m.Init() != nil {
		t.Error("Init should return nil")
	}
}

func TestModel_Update(t *testing.T) {
	state := app.NewState()
	cfg := &config.Config{}
	m := New(state, cfg)

	updated, _ := m.Update(nil)
	if updated == nil {
		t.Error("Update returned nil model")
	}
}

func TestModel_View(t *testing.T) {
	state := app.NewState()
	cfg := &config.Config{
		LogDir:        "/var/log/apache",
		OnsiteMarker:  "example.com",
		SuccessPrefix: "2",
		OnMalformed:   "fail",
		TopLimit:      config.DefaultTopLimit,
		Workers:       4,
		RequestIndex:  config.DefaultRequestIndex,
		StatusIndex:   config.DefaultStatusIndex,
		BytesIndex:    config.DefaultBytesIndex,
		ReferrerIndex: config.DefaultReferrerIndex,
	}
	m := New(state, cfg)
	m.SetSize(80, 24)

	view := m.View()
	if view == "" {
		t.Error("View returned empty string")
	}
	if !strings.Contains(view, "Configuration") {
		t.Error("View should contain the configuration card")
	}
	if !strings.Contains(view, "/var/log/apache") {
		t.Error("View should show the log directory")
	}
}

func TestModel_View_NilConfig(t *testing.T) {
	state := app.NewState()
	m := New(state, nil)
	m.SetSize(80, 24)

	if m.View() == "" {
		t.Error("View returned empty string")
	}
}

func TestModel_SetSize(t *testing.T) {
	state := app.NewState()
	cfg := &config.Config{}
	m := New(state, cfg)
	m.SetSize(100, 50)
}

func TestModel_Help(t *testing.T) {
	state := app.NewState()
	cfg := &config.Config{}
	m := New(state, cfg)
	if m.ShortHelp() == nil {
		t.Error("ShortHelp returned nil")
	}
	if m.FullHelp() == nil {
		t.Error("FullHelp returned nil")
	}
}
