package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/adbscan/internal/scanner"
)

// Messages for async scan updates
type scanEventMsg struct{ event scanner.Event }
type scanDoneMsg struct{}

// ScanModel renders a live network scan: a spinner and progress bar
// while probes are in flight, and found devices as they arrive.
type ScanModel struct {
	// Scan parameters, for the header
	Range string
	Port  int

	// Progress state
	total   int
	probed  int
	found   []scanner.Outcome
	done    bool
	started time.Time

	cancel context.CancelFunc
	events <-chan scanner.Event

	width       int
	spinner     spinner.Model
	progressBar progress.Model
}

// NewScanModel creates a scan screen fed by the given event channel.
// total is the number of addresses that will be probed; cancel is
// invoked when the user quits mid-scan.
func NewScanModel(rangeLabel string, port, total int, events <-chan scanner.Event, cancel context.CancelFunc) ScanModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
	)

	return ScanModel{
		Range:       rangeLabel,
		Port:        port,
		total:       total,
		events:      events,
		cancel:      cancel,
		started:     time.Now(),
		width:       GetTerminalWidth(),
		spinner:     s,
		progressBar: bar,
	}
}

// Found returns the reachable outcomes collected so far.
func (m ScanModel) Found() []scanner.Outcome {
	return m.found
}

// waitForEvent returns a command that delivers the next scanner event.
func waitForEvent(events <-chan scanner.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return scanDoneMsg{}
		}
		return scanEventMsg{event: event}
	}
}

// Init starts the spinner and begins consuming scan events
func (m ScanModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

// Update handles messages and updates the model
func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancel()
			if m.done {
				return m, tea.Quit
			}
			// Keep draining events so the scan can wind down
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if m.width > MaxContentWidth {
			m.width = MaxContentWidth
		}

	case scanEventMsg:
		switch event := msg.event.(type) {
		case scanner.Progress:
			// connect-phase progress only; outcomes drive the counter
		case scanner.Outcome:
			m.probed++
			if event.Reachable {
				m.found = append(m.found, event)
			}
		}
		return m, waitForEvent(m.events)

	case scanDoneMsg:
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the scan screen
func (m ScanModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Scanning for devices"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("%s port %d", m.Range, m.Port)))
	b.WriteString("\n\n")

	// Progress bar with counter
	percent := 0.0
	if m.total > 0 {
		percent = float64(m.probed) / float64(m.total)
	}
	counter := CounterStyle.Render(fmt.Sprintf("%d/%d", m.probed, m.total))
	if m.done {
		b.WriteString(fmt.Sprintf("  %s  %s\n\n", m.progressBar.ViewAs(percent), counter))
	} else {
		b.WriteString(fmt.Sprintf("  %s %s  %s\n\n", m.spinner.View(), m.progressBar.ViewAs(percent), counter))
	}

	// Found devices
	for _, outcome := range m.found {
		line := renderOutcome(outcome)
		b.WriteString("  " + line + "\n")
	}

	if m.done {
		elapsed := time.Since(m.started).Round(time.Millisecond)
		b.WriteString("\n")
		b.WriteString(SubtitleStyle.Render(fmt.Sprintf("Done: %d device(s) in %s", len(m.found), elapsed)))
		b.WriteString("\n")
	} else {
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("q quit"))
		b.WriteString("\n")
	}

	return b.String()
}

// renderOutcome formats one reachable device line
func renderOutcome(outcome scanner.Outcome) string {
	if outcome.Identity != nil && outcome.Identity.AuthRequired {
		return UnauthorizedStyle.Render(
			fmt.Sprintf("%s %s  (unauthorized)", UnauthorizedMarker, outcome.Addr))
	}

	label := ""
	if outcome.Identity != nil {
		label = outcome.Identity.String()
	}
	if label != "" {
		return DeviceStyle.Render(fmt.Sprintf("%s %s  %s", FoundMarker, outcome.Addr, label))
	}
	return DeviceStyle.Render(fmt.Sprintf("%s %s", FoundMarker, outcome.Addr))
}

// RunScan drives a scan through the interactive screen and returns
// the reachable outcomes once the scan completes or the user quits.
func RunScan(rangeLabel string, port, total int, events <-chan scanner.Event, cancel context.CancelFunc) ([]scanner.Outcome, error) {
	model := NewScanModel(rangeLabel, port, total, events, cancel)

	program := tea.NewProgram(model)
	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("scan display failed: %w", err)
	}

	if m, ok := final.(ScanModel); ok {
		return m.Found(), nil
	}
	return nil, nil
}
