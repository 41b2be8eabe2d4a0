package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kelsos/nft-snapshot/internal/census"
)

// CensusMonitor bridges the scheduler's progress callback into the running
// bubbletea program.
type CensusMonitor struct {
	program *tea.Program
}

func NewCensusMonitor(total uint64) *CensusMonitor {
	model := NewModel(total)
	return &CensusMonitor{
		program: tea.NewProgram(model, tea.WithAltScreen()),
	}
}

// HandleProgress forwards one terminal outcome to the TUI. Safe to call from
// concurrent fetcher goroutines.
func (cm *CensusMonitor) HandleProgress(p census.Progress) {
	if cm.program != nil {
		cm.program.Send(ProgressMsg(p))
	}
}

// AddLog appends a line to the rolling log pane.
func (cm *CensusMonitor) AddLog(message string) {
	if cm.program != nil {
		cm.program.Send(LogMsg{
			Message: message,
		})
	}
}

// Run starts the census in the background and blocks on the TUI until the
// run finishes or the user quits.
func (cm *CensusMonitor) Run(run func() error) error {
	go func() {
		err := run()
		if err != nil {
			cm.AddLog(fmt.Sprintf("❌ Run failed: %v", err))
		} else {
			cm.AddLog("🎉 Snapshot completed")
		}
		cm.program.Send(DoneMsg{Err: err})
	}()

	if _, err := cm.program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return nil
}
