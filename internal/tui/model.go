// Package tui provides the Bubble Tea session interface.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"grindstone/internal/engine"
	"grindstone/internal/model"
)

type screen int

const (
	screenMenu screen = iota
	screenDaily
	screenBossSetup
	screenBoss
	screenArenaSetup
	screenArena
)

// tickMsg carries the tick generation it was scheduled under; ticks from
// a session that already ended are dropped instead of mutating its
// successor.
type tickMsg struct {
	gen int
}

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	dangerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the Bubble Tea session UI.
type Model struct {
	mgr *engine.Manager
	cfg model.Config

	screen screen
	width  int
	height int

	taskInput textinput.Model
	bossBar   progress.Model
	arenaBar  progress.Model
	inputErr  string

	bossMinutes  int
	arenaMinutes int
}

const (
	minSessionMinutes  = 5
	maxSessionMinutes  = 180
	sessionMinutesStep = 5
)

// NewModel constructs the session UI over an engine manager.
func NewModel(mgr *engine.Manager, cfg model.Config) *Model {
	input := textinput.New()
	input.Placeholder = "what are you fighting?"
	input.CharLimit = 80
	input.Width = 40
	return &Model{
		mgr:          mgr,
		cfg:          cfg,
		taskInput:    input,
		bossBar:      progress.New(progress.WithDefaultGradient()),
		arenaBar:     progress.New(progress.WithDefaultGradient()),
		bossMinutes:  cfg.BossMinutes,
		arenaMinutes: cfg.ArenaMinutes,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	// A daily challenge persisted as in_progress resumes across reloads.
	if m.mgr.Running() {
		return m.tickCmd()
	}
	return nil
}

func (m *Model) tickCmd() tea.Cmd {
	gen := m.mgr.TickGeneration()
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		barWidth := msg.Width - 8
		if barWidth > 60 {
			barWidth = 60
		}
		if barWidth > 0 {
			m.bossBar.Width = barWidth
			m.arenaBar.Width = barWidth
		}
		return m, nil
	case tea.BlurMsg:
		m.mgr.Attention(true)
		return m, nil
	case tea.FocusMsg:
		m.mgr.Attention(false)
		return m, nil
	case tea.SuspendMsg:
		m.mgr.Attention(true)
		return m, nil
	case tea.ResumeMsg:
		m.mgr.Attention(false)
		return m, nil
	case tickMsg:
		if msg.gen != m.mgr.TickGeneration() {
			// Stale tick from a session that already ended.
			return m, nil
		}
		m.mgr.Tick()
		if msg.gen != m.mgr.TickGeneration() || !m.mgr.Running() {
			return m, nil
		}
		return m, m.tickCmd()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch m.screen {
	case screenMenu:
		return m.handleMenuKey(msg)
	case screenDaily:
		return m.handleDailyKey(msg)
	case screenBossSetup:
		return m.handleBossSetupKey(msg)
	case screenBoss:
		return m.handleBossKey(msg)
	case screenArenaSetup:
		return m.handleArenaSetupKey(msg)
	case screenArena:
		return m.handleArenaKey(msg)
	}
	return m, nil
}

func (m *Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1", "d":
		m.screen = screenDaily
	case "2", "b":
		if m.mgr.Boss().State() == engine.StateRunning {
			m.screen = screenBoss
		} else {
			m.inputErr = ""
			m.taskInput.SetValue("")
			m.taskInput.Focus()
			m.screen = screenBossSetup
		}
	case "3", "a":
		if m.mgr.Arena().State() == engine.StateRunning {
			m.screen = screenArena
		} else {
			m.screen = screenArenaSetup
		}
	}
	return m, nil
}

func (m *Model) handleDailyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Leaving the screen never stops a running daily challenge;
		// only a real tab-leave or an explicit action ends it.
		m.screen = screenMenu
		return m, nil
	case "s", "enter":
		wasRunning := m.mgr.Running()
		m.mgr.StartDaily()
		if !wasRunning && m.mgr.Running() {
			return m, m.tickCmd()
		}
		return m, nil
	case "c":
		m.mgr.CompleteDaily()
		return m, nil
	case "f":
		m.mgr.FailDaily("gave up")
		return m, nil
	}
	return m, nil
}

func (m *Model) handleBossSetupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenMenu
		return m, nil
	case "left":
		m.bossMinutes = stepMinutes(m.bossMinutes, -sessionMinutesStep)
		return m, nil
	case "right":
		m.bossMinutes = stepMinutes(m.bossMinutes, sessionMinutesStep)
		return m, nil
	case "enter":
		label := strings.TrimSpace(m.taskInput.Value())
		total := time.Duration(m.bossMinutes) * time.Minute
		if err := m.mgr.StartBoss(label, total); err != nil {
			m.inputErr = err.Error()
			return m, nil
		}
		m.inputErr = ""
		m.screen = screenBoss
		return m, m.tickCmd()
	}
	var cmd tea.Cmd
	m.taskInput, cmd = m.taskInput.Update(msg)
	return m, cmd
}

func (m *Model) handleBossKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "x", "esc":
		if m.mgr.Boss().State() == engine.StateRunning {
			m.mgr.StopActive()
		}
		m.screen = screenMenu
	case "enter":
		if m.mgr.Boss().State() != engine.StateRunning {
			m.screen = screenMenu
		}
	}
	return m, nil
}

func (m *Model) handleArenaSetupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenMenu
		return m, nil
	case "left":
		m.arenaMinutes = stepMinutes(m.arenaMinutes, -sessionMinutesStep)
		return m, nil
	case "right":
		m.arenaMinutes = stepMinutes(m.arenaMinutes, sessionMinutesStep)
		return m, nil
	case "s", "enter":
		m.mgr.StartArena(time.Duration(m.arenaMinutes) * time.Minute)
		m.screen = screenArena
		return m, m.tickCmd()
	}
	return m, nil
}

func (m *Model) handleArenaKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "x", "esc":
		if m.mgr.Arena().State() == engine.StateRunning {
			m.mgr.StopActive()
		}
		m.screen = screenMenu
	case "enter":
		if m.mgr.Arena().State() != engine.StateRunning {
			m.screen = screenMenu
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.screen {
	case screenMenu:
		body = m.viewMenu()
	case screenDaily:
		body = m.viewDaily()
	case screenBossSetup:
		body = m.viewBossSetup()
	case screenBoss:
		body = m.viewBoss()
	case screenArenaSetup:
		body = m.viewArenaSetup()
	case screenArena:
		body = m.viewArena()
	}
	if m.width == 0 || m.height == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m *Model) viewMenu() string {
	lines := []string{
		titleStyle.Render("grindstone"),
		"",
		fmt.Sprintf("streak: %s", accentStyle.Render(fmt.Sprintf("%d day(s)", m.mgr.StreakCount()))),
		"",
		"[1] daily challenge",
		"[2] boss fight",
		"[3] focus arena",
		"",
		footerStyle.Render("1/2/3 select · q quit"),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewDaily() string {
	run := m.mgr.DailyState()
	ch := m.mgr.DailyChallenge()

	descWidth := m.contentWidth()
	lines := []string{
		titleStyle.Render("Daily Challenge · " + run.DayKey),
		"",
		accentStyle.Render(ch.Title),
		subtleStyle.Render(wrapText(ch.Description, descWidth)),
		"",
	}
	switch run.Status {
	case model.StatusNotStarted:
		lines = append(lines, "Not started.", "", footerStyle.Render("s start · esc back"))
	case model.StatusInProgress:
		remaining := m.mgr.DailyDeadline().Sub(m.mgr.Clock().Now())
		lines = append(lines,
			fmt.Sprintf("Running. %s until the day ends.", formatClock(remaining)),
			dangerStyle.Render("Leave this terminal for 15s and you fail."),
			"",
			footerStyle.Render("c complete · f give up · esc back (keeps running)"),
		)
	case model.StatusCompleted:
		lines = append(lines, successStyle.Render("Completed. See you tomorrow."), "", footerStyle.Render("esc back"))
	case model.StatusFailed:
		reason := run.Reason
		if reason == "" {
			reason = "failed"
		}
		lines = append(lines, dangerStyle.Render("Failed: "+reason), "", footerStyle.Render("esc back"))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewBossSetup() string {
	lines := []string{
		titleStyle.Render("Boss Fight"),
		"",
		fmt.Sprintf("Commit to %s minutes.", accentStyle.Render(fmt.Sprintf("%d", m.bossMinutes))),
		subtleStyle.Render("Leave for 15s and the boss heals."),
		"",
		m.taskInput.View(),
	}
	if m.inputErr != "" {
		lines = append(lines, dangerStyle.Render(m.inputErr))
	}
	lines = append(lines, "", footerStyle.Render("←/→ duration · enter start · esc back"))
	return strings.Join(lines, "\n")
}

func stepMinutes(minutes, delta int) int {
	minutes += delta
	if minutes < minSessionMinutes {
		return minSessionMinutes
	}
	if minutes > maxSessionMinutes {
		return maxSessionMinutes
	}
	return minutes
}

func (m *Model) viewBoss() string {
	boss := m.mgr.Boss()
	lines := []string{
		titleStyle.Render("Boss Fight"),
		"",
		accentStyle.Render(boss.Label()),
		"",
	}
	switch boss.State() {
	case engine.StateRunning:
		frac := 0.0
		if boss.Total() > 0 {
			frac = float64(boss.Remaining()) / float64(boss.Total())
		}
		lines = append(lines,
			fmt.Sprintf("Boss HP %s", formatClock(boss.Remaining())),
			m.bossBar.ViewAs(frac),
			"",
			footerStyle.Render("x stop · stay focused"),
		)
	case engine.StateCompleted:
		lines = append(lines, successStyle.Render("Boss down."), "", footerStyle.Render("enter back"))
	default:
		lines = append(lines, subtleStyle.Render("No fight in progress."), "", footerStyle.Render("enter back"))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewArenaSetup() string {
	lines := []string{
		titleStyle.Render("Focus Arena"),
		"",
		fmt.Sprintf("%s silent minutes.", accentStyle.Render(fmt.Sprintf("%d", m.arenaMinutes))),
		subtleStyle.Render("Leave for 15s and you are out."),
		fmt.Sprintf("%d others grinding right now.", m.mgr.CrowdSize()),
		"",
		footerStyle.Render("←/→ duration · s start · esc back"),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewArena() string {
	arena := m.mgr.Arena()
	lines := []string{
		titleStyle.Render("Focus Arena"),
		"",
	}
	switch arena.State() {
	case engine.StateRunning:
		frac := 0.0
		if arena.Total() > 0 {
			frac = float64(arena.Remaining()) / float64(arena.Total())
		}
		lines = append(lines,
			fmt.Sprintf("%s remaining", formatClock(arena.Remaining())),
			m.arenaBar.ViewAs(frac),
			subtleStyle.Render(fmt.Sprintf("%d others in the arena.", m.mgr.CrowdSize())),
			"",
			footerStyle.Render("x leave the arena"),
		)
	case engine.StateCompleted:
		lines = append(lines, successStyle.Render("You held the arena."), "", footerStyle.Render("enter back"))
	case engine.StateFailed:
		lines = append(lines, dangerStyle.Render("Out: "+arena.Reason()), "", footerStyle.Render("enter back"))
	default:
		lines = append(lines, subtleStyle.Render("Arena is empty."), "", footerStyle.Render("enter back"))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 60
	}
	width := int(float64(m.width) * 0.70)
	if width < 20 {
		width = 20
	}
	return width
}

func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
