// Package main is the entry point for the webtally access log analyzer.
// It parses flags, then either prints a one-shot report or runs the
// Bubble Tea dashboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/webtally/internal/app"
	"github.com/j-veylop/webtally/internal/config"
	"github.com/j-veylop/webtally/internal/report"
	"github.com/j-veylop/webtally/internal/services"
	"github.com/j-veylop/webtally/internal/services/scanner"
	"github.com/j-veylop/webtally/internal/ui/tabs/customers"
	"github.com/j-veylop/webtally/internal/ui/tabs/dashboard"
	"github.com/j-veylop/webtally/internal/ui/tabs/info"
	"github.com/j-veylop/webtally/internal/ui/tabs/urls"
	"github.com/j-veylop/webtally/internal/version"
)

// options collects the command-line flags.
type options struct {
	tui         bool
	watch       bool
	top         int
	workers     int
	skip        bool
	files       bool
	showVersion bool
}

func main() {
	opts, paths := parseFlags()

	if opts.showVersion {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	if err := run(opts, paths); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags parses the command line. Remaining arguments are log files
// or directories; an empty list falls back to the configured LogDir.
func parseFlags() (options, []string) {
	var opts options

	flag.BoolVar(&opts.tui, "tui", false, "start the interactive dashboard")
	flag.BoolVar(&opts.watch, "watch", false, "rescan when log files change (with -tui)")
	flag.IntVar(&opts.top, "top", 0, "number of URLs to rank (default from config)")
	flag.IntVar(&opts.workers, "workers", 0, "concurrent file scanners (default from config)")
	flag.BoolVar(&opts.skip, "skip", false, "skip and count malformed lines instead of failing")
	flag.BoolVar(&opts.files, "files", false, "print the per-file breakdown")
	flag.BoolVar(&opts.showVersion, "version", false, "print version information and exit")
	flag.Usage = printUsage
	flag.Parse()

	return opts, flag.Args()
}

// run contains the main application logic, separated for cleaner error handling.
func run(opts options, paths []string) error {
	// 1. Load configuration from .env files and environment variables
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Flags override the configured defaults
	applyOverrides(cfg, opts)

	if opts.tui {
		return runTUI(cfg, opts.watch, paths)
	}

	return runOnce(cfg, opts.files, paths)
}

func applyOverrides(cfg *config.Config, opts options) {
	if opts.top > 0 {
		cfg.TopLimit = opts.top
	}
	if opts.workers > 0 {
		cfg.Workers = opts.workers
	}
	if opts.skip {
		cfg.OnMalformed = "skip"
	}
}

// runOnce scans the given paths once and prints the report. A scan
// failure surfaces as an error naming the offending file.
func runOnce(cfg *config.Config, perFile bool, paths []string) error {
	svc := scanner.New(cfg)

	res, err := svc.Scan(context.Background(), paths...)
	if err != nil {
		return err
	}

	report.Render(os.Stdout, res, cfg)
	if perFile {
		report.RenderFiles(os.Stdout, res)
	}

	return nil
}

// runTUI starts the interactive dashboard.
func runTUI(cfg *config.Config, watch bool, paths []string) error {
	// 1. Initialize the service manager
	// This owns the scanner and, when enabled, the log directory watcher
	svcManager, err := services.NewManager(cfg, watch, paths...)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	// Ensure cleanup on exit
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	// 2. Create the root Bubble Tea model
	model := app.NewModel(svcManager)

	// 3. Initialize tabs with shared state and services
	// Each tab receives the shared application state for consistent data access
	state := model.GetState()
	tabs := []app.Tab{
		dashboard.New(state),      // Tab 0: Dashboard - scan overview
		urls.New(state),           // Tab 1: URLs - top requested pages
		customers.New(state, cfg), // Tab 2: Customers - byte usage breakdown
		info.New(state, cfg),      // Tab 3: Info - configuration and app info
	}
	model.SetTabs(tabs)

	// 4. Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// 5. Create and configure the Bubble Tea program
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer (full terminal)
		tea.WithMouseCellMotion(), // Enable mouse support for selection
	)

	// 6. Handle signals in a separate goroutine
	go func() {
		<-sigChan
		// Send quit message to the program
		p.Send(tea.Quit())
	}()

	// 7. Run the TUI program
	// This blocks until the user quits or an error occurs
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`webtally - Web server access log analytics

Usage:
  webtally [flags] [path ...]

Paths are log files or directories of log files. With no paths, the
configured log directory is scanned.

Flags:
  -tui            Start the interactive dashboard
  -watch          Rescan when log files change (with -tui)
  -top N          Number of URLs to rank
  -workers N      Concurrent file scanners
  -skip           Skip and count malformed lines instead of failing
  -files          Print the per-file breakdown
  -version        Show version information
  -h, --help      Show this help message

Keyboard Shortcuts (dashboard):
  1-4             Switch between tabs (Dashboard, URLs, Customers, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Navigate lists
  /               Filter the URL table
  r               Rescan log files
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  WEBTALLY_LOG_DIR          Log directory to scan (default: .)
  WEBTALLY_ONSITE_MARKER    Substring marking a referrer host as on-site
  WEBTALLY_SUCCESS_PREFIX   Status prefix counted as a successful hit
  WEBTALLY_ON_MALFORMED     fail | skip (default: fail)
  WEBTALLY_TOP_LIMIT        Number of URLs to rank (default: 10)
  WEBTALLY_WORKERS          Concurrent file scanners (default: CPU count)
  WEBTALLY_WATCH_DEBOUNCE   Watcher debounce interval (default: 400ms)
  WEBTALLY_NOTIFY           Desktop notification on scan completion
  WEBTALLY_DEBUG            Enable debug logging

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/webtally/.env
  - Parent directory

For more information, visit: https://github.com/j-veylop/webtally`)
}
