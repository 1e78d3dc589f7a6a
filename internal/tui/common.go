package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/focusflow/internal/pomodoro"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewTasks
	viewStats
	viewSettings
)

var viewNames = []string{"Dashboard", "Tasks", "Stats", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// suggestionMsg carries the result of a break-suggestion request.
type suggestionMsg struct {
	id   uint64
	text string
}

// settingsChangedMsg is sent after the settings store was updated.
type settingsChangedMsg struct {
	settings pomodoro.Settings
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isError: isError} }
}

// --- Helpers ---

// formatClock renders a countdown as MM:SS. Negative values clamp to zero.
func formatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// formatMinutes renders focus time such as "1h 05m" or "25m".
func formatMinutes(mins int) string {
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %02dm", mins/60, mins%60)
}

func modeName(m pomodoro.Mode) string {
	switch m {
	case pomodoro.ModeShortBreak:
		return "SHORT BREAK"
	case pomodoro.ModeLongBreak:
		return "LONG BREAK"
	default:
		return "FOCUS"
	}
}
