// Package tui renders the running timer as a fullscreen countdown.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pomodo/internal/core"
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Session counts a timer down to zero. Done reports whether the
// countdown ran to completion rather than being quit early; the caller
// decides what completion means either way.
type Session struct {
	repo  core.Repository
	timer core.Timer
	task  *core.Task // nil for breaks

	width  int
	height int

	remaining     time.Duration
	interruptions int
	status        string

	Done bool

	help     help.Model
	showHelp bool
}

// NewSession builds the countdown for the current timer. cur.Task may
// be nil for break timers.
func NewSession(repo core.Repository, cur *core.CurrentTimer) Session {
	return Session{
		repo:      repo,
		timer:     cur.Timer,
		task:      cur.Task,
		remaining: time.Until(cur.End()),
		help:      help.New(),
	}
}

func (s Session) Init() tea.Cmd {
	return tickCmd()
}

func (s Session) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.help.Width = msg.Width
		return s, nil

	case tickMsg:
		s.remaining = time.Until(s.timer.End())
		if s.remaining <= 0 {
			s.Done = true
			return s, tea.Quit
		}
		return s, tickCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return s, tea.Quit
		case key.Matches(msg, keys.Interrupt):
			return s.recordInterruption()
		case key.Matches(msg, keys.Help):
			s.showHelp = !s.showHelp
			s.help.ShowAll = s.showHelp
			return s, nil
		}
	}
	return s, nil
}

func (s Session) recordInterruption() (tea.Model, tea.Cmd) {
	if s.task == nil {
		s.status = "no task to interrupt"
		return s, nil
	}
	if err := core.RecordInterruption(s.repo, s.task.ID); err != nil {
		s.status = errorStyle.Render(fmt.Sprintf("error: %v", err))
		return s, nil
	}
	s.interruptions++
	s.status = fmt.Sprintf("interruption recorded (%d)", s.interruptions)
	return s, nil
}

func (s Session) View() string {
	w := s.width
	if w <= 0 {
		w = 60
	}
	w -= 4

	var label string
	var clock string
	switch s.timer.Kind {
	case core.KindPomodoro:
		label = accentStyle.Bold(true).Render(s.timer.Label)
		clock = accentStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatRemaining(s.remaining))
	default:
		label = successStyle.Bold(true).Render(s.timer.Label)
		clock = successStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatRemaining(s.remaining))
	}

	title := titleStyle.Render(s.timer.Kind.String())

	status := s.status
	if status == "" {
		status = mutedStyle.Render(fmt.Sprintf("until %s", s.timer.End().Local().Format("15:04")))
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		clock,
		label,
		"",
		status,
	)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", s.help.View(keys)),
	)
}

func formatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	sec := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, sec)
}
