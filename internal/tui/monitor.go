package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kelsos/nft-snapshot/internal/census"
)

type ProgressMsg census.Progress

type LogMsg struct {
	Message string
}

type DoneMsg struct {
	Err error
}

type Model struct {
	total     uint64
	completed uint64
	owned     uint64
	absent    uint64
	failed    uint64
	batch     uint64
	batches   uint64
	logs      []string
	spinner   spinner.Model
	progress  progress.Model
	width     int
	height    int
	startTime time.Time
	quit      bool
	done      bool
	runErr    error
}

func NewModel(total uint64) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	pr := progress.New(progress.WithDefaultGradient())

	return Model{
		total:     total,
		logs:      []string{},
		spinner:   sp,
		progress:  pr,
		width:     80,
		height:    24,
		startTime: time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.handleKeyMsg(msg) {
			m.quit = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m = m.handleWindowSizeMsg(msg)

	case ProgressMsg:
		m = m.handleProgressMsg(msg)

	case LogMsg:
		m = m.handleLogMsg(msg)

	case DoneMsg:
		m.done = true
		m.runErr = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		if progressModel, ok := progressModel.(progress.Model); ok {
			m.progress = progressModel
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "ctrl+c":
		return true
	}
	return false
}

func (m Model) handleWindowSizeMsg(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.progress.Width = msg.Width - 40
	return m
}

func (m Model) handleProgressMsg(msg ProgressMsg) Model {
	m.completed = msg.Completed
	m.batch = msg.Batch
	m.batches = msg.Batches

	switch msg.Outcome.Status {
	case census.StatusOwned:
		m.owned++
	case census.StatusAbsent:
		m.absent++
	case census.StatusFailed:
		m.failed++
		m.logs = appendLog(m.logs, fmt.Sprintf("❌ Token %d failed: %s",
			msg.Outcome.TokenID, msg.Outcome.Reason))
	}
	return m
}

func (m Model) handleLogMsg(msg LogMsg) Model {
	m.logs = appendLog(m.logs, msg.Message)
	return m
}

func appendLog(logs []string, message string) []string {
	logs = append(logs, fmt.Sprintf("[%s] %s",
		time.Now().Format("15:04:05"), message))
	if len(logs) > 10 {
		logs = logs[len(logs)-10:]
	}
	return logs
}

func (m Model) View() string {
	if m.quit {
		return "Shutting down...\n"
	}

	var s strings.Builder

	// Header
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginBottom(1)

	s.WriteString(headerStyle.Render("🔎 NFT Owner Snapshot"))
	s.WriteString("\n\n")

	// Summary
	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("244"))

	summary := fmt.Sprintf("Tokens: %d/%d | 👤 Owned: %d | ⬜ Absent: %d | ❌ Failed: %d | Batch %d/%d",
		m.completed, m.total, m.owned, m.absent, m.failed, m.batch, m.batches)
	s.WriteString(summaryStyle.Render(summary))
	s.WriteString("\n\n")

	// Progress section
	progressSectionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1).
		Width(m.width - 2)

	var progressSection strings.Builder
	frac := 0.0
	if m.total > 0 {
		frac = float64(m.completed) / float64(m.total)
	}
	progressSection.WriteString("📊 Fetch Progress\n")
	progressSection.WriteString(strings.Repeat("─", 60) + "\n")
	if m.done {
		progressSection.WriteString(fmt.Sprintf("✅ %s done in %s",
			m.progress.ViewAs(frac), time.Since(m.startTime).Round(time.Second)))
	} else {
		progressSection.WriteString(fmt.Sprintf("%s %s elapsed %s",
			m.spinner.View(), m.progress.ViewAs(frac),
			time.Since(m.startTime).Round(time.Second)))
	}

	s.WriteString(progressSectionStyle.Render(progressSection.String()))
	s.WriteString("\n\n")

	// Logs section
	logSectionStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Width(m.width - 2).
		Height(8)

	var logSection strings.Builder
	logSection.WriteString("📝 Recent Logs\n")
	for _, log := range m.logs {
		logSection.WriteString(log + "\n")
	}

	s.WriteString(logSectionStyle.Render(logSection.String()))
	s.WriteString("\n\n")

	// Footer
	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	footer := "Press 'q' to quit | Logs: logs/nft-snapshot_*.log"
	s.WriteString(footerStyle.Render(footer))

	return s.String()
}
