package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const progressBarWidth = 32

var (
	barFilledStyle = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

// Messages delivered to the progress model.
type (
	batchStartMsg struct{ total int }
	frameStartMsg struct{ name string }
	frameDoneMsg  struct {
		name  string
		cells int
		err   error
	}
	batchDoneMsg struct{}
	tickMsg      time.Time
)

// =============================================================================
// progressModel - bubbletea model for batch runs
// =============================================================================

type progressModel struct {
	total     int
	done      int
	failed    int
	cells     int
	current   string
	lastErr   string
	start     time.Time
	now       time.Time
	cancel    context.CancelFunc
	cancelled bool
}

func newProgressModel(cancel context.CancelFunc) progressModel {
	now := time.Now()
	return progressModel{start: now, now: now, cancel: cancel}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m progressModel) Init() tea.Cmd {
	return tick()
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			m.cancelled = true
			return m, tea.Quit
		}
	case batchStartMsg:
		m.total = msg.total
	case frameStartMsg:
		m.current = msg.name
	case frameDoneMsg:
		m.done++
		m.cells += msg.cells
		if msg.err != nil {
			m.failed++
			m.lastErr = fmt.Sprintf("%s: %v", msg.name, msg.err)
		}
	case batchDoneMsg:
		return m, tea.Quit
	case tickMsg:
		m.now = time.Time(msg)
		return m, tick()
	}
	return m, nil
}

func (m progressModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Compositing frames"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("q quit"))
	b.WriteString("\n\n")

	b.WriteString(renderBar(m.done, m.total, progressBarWidth))
	b.WriteString(" ")
	b.WriteString(StyleNumber.Render(fmt.Sprintf("%d/%d", m.done, m.total)))
	b.WriteString("\n")

	stats := []string{
		fmt.Sprintf("%d cells", m.cells),
		m.now.Sub(m.start).Round(100 * time.Millisecond).String(),
	}
	if m.failed > 0 {
		stats = append(stats, StyleWarning.Render(fmt.Sprintf("%d failed", m.failed)))
	}
	b.WriteString(StyleDim.Render(strings.Join(stats, " · ")))
	b.WriteString("\n")

	if m.current != "" && m.done < m.total {
		b.WriteString(StyleDim.Render(iconArrow+" ") + StyleValue.Render(m.current) + "\n")
	}
	if m.lastErr != "" {
		b.WriteString(styleIconError.Render(iconError) + " " + StyleDim.Render(m.lastErr) + "\n")
	}
	if m.cancelled {
		b.WriteString(StyleWarning.Render("cancelling...") + "\n")
	}
	return b.String()
}

// renderBar draws a width-cell bar filled in proportion to done/total.
func renderBar(done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = min(done*width/total, width)
	}
	return barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// =============================================================================
// progressView - batch hooks feeding the model
// =============================================================================

// progressView runs a progressModel and implements observability.BatchHooks
// by forwarding events to it.
type progressView struct {
	program *tea.Program
}

func newProgressView(cancel context.CancelFunc) *progressView {
	return &progressView{
		program: tea.NewProgram(newProgressModel(cancel), tea.WithOutput(os.Stderr)),
	}
}

// Start runs the view in the background. The returned channel closes once
// the view has exited.
func (v *progressView) Start() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = v.program.Run()
	}()
	return done
}

// Finish asks the view to exit.
func (v *progressView) Finish() {
	v.program.Send(batchDoneMsg{})
}

func (v *progressView) OnBatchStart(_ context.Context, _ string, total int) {
	v.program.Send(batchStartMsg{total: total})
}

func (v *progressView) OnFrameStart(_ context.Context, _ string, name string) {
	v.program.Send(frameStartMsg{name: name})
}

func (v *progressView) OnFrameComplete(_ context.Context, _ string, name string, cells int, _ time.Duration, err error) {
	v.program.Send(frameDoneMsg{name: name, cells: cells, err: err})
}

func (v *progressView) OnBatchComplete(context.Context, string, int, int, int, time.Duration) {}
