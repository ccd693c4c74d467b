// Package ui provides terminal UI components for the adbscan CLI.
//
// This package uses Bubble Tea and Lipgloss to render a live view of a
// network scan: a spinner and progress bar while probes are in flight,
// and found devices as they arrive. The screen follows a "run once and
// exit" pattern - it exits on its own when the scan completes, and a
// quit key cancels the scan early.
//
// # Usage Pattern
//
//	ctx, cancel := context.WithCancel(context.Background())
//	events, err := scanner.New().Scan(ctx, rng, cfg)
//	if err != nil {
//	    return err
//	}
//	found, err := ui.RunScan(rng.String(), cfg.Port, rng.Size(), events, cancel)
//
// The model consumes the scanner's event channel through Bubble Tea
// commands, so rendering stays on the program goroutine.
//
// Use IsInteractive() to gate the screen on stdout being a terminal;
// non-interactive callers should consume the event channel directly.
package ui
