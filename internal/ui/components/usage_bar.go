// Package components provides reusable UI components.
package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/webtally/internal/logger"
	"github.com/j-veylop/webtally/internal/ui/styles"
)

type AnimationTickMsg time.Time

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*50, func(t time.Time) tea.Msg {
		return AnimationTickMsg(t)
	})
}

// UsageBar renders a share progress bar with label and percentage.
// The gradient runs green to red, a bar mostly filled reads as a high
// off-site share.
type UsageBar struct {
	progress       progress.Model
	label          string
	percent        float64
	animationFrame int
	isAnimating    bool
	targetPercent  float64
	currentPercent float64
}

// NewUsageBar creates a new usage bar with gradient colors.
func NewUsageBar() UsageBar {
	return NewUsageBarWithWidth(30)
}

// NewUsageBarWithWidth creates a usage bar with a specific width.
func NewUsageBarWithWidth(width int) UsageBar {
	p := progress.New(
		progress.WithScaledGradient("#51cf66", "#ff6b6b"),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)

	return UsageBar{
		progress:       p,
		label:          "",
		percent:        0,
		animationFrame: 0,
		isAnimating:    false,
		targetPercent:  0,
		currentPercent: 0,
	}
}

// Init initializes the progress bar model.
func (u UsageBar) Init() tea.Cmd {
	return nil
}

// Update handles progress bar animation messages.
func (u UsageBar) Update(msg tea.Msg) (UsageBar, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg.(type) {
	case AnimationTickMsg:
		if u.isAnimating {
			u.animationFrame++

			if u.currentPercent < u.targetPercent {
				step := (u.targetPercent - u.currentPercent) / 10
				if step < 0.5 {
					step = 0.5
				}
				u.currentPercent += step
				if u.currentPercent > u.targetPercent {
					u.currentPercent = u.targetPercent
				}
				cmds = append(cmds, animationTick())
			} else if u.currentPercent > u.targetPercent {
				step := (u.currentPercent - u.targetPercent) / 10
				if step < 0.5 {
					step = 0.5
				}
				u.currentPercent -= step
				if u.currentPercent < u.targetPercent {
					u.currentPercent = u.targetPercent
				}
				cmds = append(cmds, animationTick())
			} else {
				u.isAnimating = false
			}
		}
	}

	var cmd tea.Cmd
	model, cmd := u.progress.Update(msg)
	u.progress = model.(progress.Model)
	cmds = append(cmds, cmd)

	return u, tea.Batch(cmds...)
}

// SetPercent sets the current percentage.
func (u *UsageBar) SetPercent(percent float64) tea.Cmd {
	u.percent = percent
	u.targetPercent = percent

	if !u.isAnimating {
		u.isAnimating = true
		u.animationFrame = 0
		return tea.Batch(
			u.progress.SetPercent(percent/100),
			animationTick(),
		)
	}

	return u.progress.SetPercent(percent / 100)
}

// SetLabel sets the bar label.
func (u *UsageBar) SetLabel(label string) {
	u.label = label
}

// SetWidth sets the progress bar width.
func (u *UsageBar) SetWidth(width int) {
	u.progress.Width = width
}

// View renders the usage bar with percentage and label.
func (u UsageBar) View(percent float64, label string, width int) string {
	// Update the progress bar width
	barWidth := width - 30 // Reserve space for label and percentage
	if barWidth < 10 {
		barWidth = 10
	}
	u.progress.Width = barWidth

	// Render the progress bar
	bar := u.progress.ViewAs(percent / 100)

	// Format percentage with color
	percentStyle := styles.GetRateStyle(percent)
	percentStr := percentStyle.Width(7).Align(lipgloss.Right).Render(fmt.Sprintf("%.2f%%", percent))

	// Render label
	labelStr := styles.ProgressLabelStyle.Width(15).Render(label)

	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		labelStr,
		bar,
		" ",
		percentStr,
	)
}

// ViewCompact renders a compact version without label.
func (u UsageBar) ViewCompact(percent float64, width int) string {
	barWidth := width - 8
	if barWidth < 5 {
		barWidth = 5
	}
	u.progress.Width = barWidth

	bar := u.progress.ViewAs(percent / 100)
	percentStyle := styles.GetRateStyle(percent)
	percentStr := percentStyle.Render(fmt.Sprintf("%.2f%%", percent))

	return lipgloss.JoinHorizontal(lipgloss.Center, bar, " ", percentStr)
}

// RenderGradientBar renders just the bar part with gradient colors.
func RenderGradientBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := int(float64(width) * percent / 100)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	var barChars []string
	for i := 0; i < width; i++ {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor("#51cf66", "#ff6b6b", t)
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			barChars = append(barChars, style.Render("█"))
		} else {
			style := lipgloss.NewStyle().Foreground(styles.Subtle)
			barChars = append(barChars, style.Render("░"))
		}
	}

	return strings.Join(barChars, "")
}

// SimpleUsageBar renders a simple ASCII progress bar with gradient colors.
func SimpleUsageBar(percent float64, label string, width int) string {
	labelWidth := len(label) + 1
	percentWidth := 7
	barWidth := width - labelWidth - percentWidth - 4

	if barWidth < 5 {
		barWidth = 5
	}

	bar := RenderGradientBar(percent, barWidth)

	labelStr := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Render(label)

	percentStr := styles.GetRateStyle(percent).
		Width(percentWidth).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.2f%%", percent))

	return fmt.Sprintf("%s [%s] %s", labelStr, bar, percentStr)
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}
