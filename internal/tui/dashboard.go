package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusflow/internal/pomodoro"
	"github.com/sadopc/focusflow/internal/suggest"
)

const (
	formVoid = "void"
	formNext = "next"
)

type dashboardModel struct {
	timer   *pomodoro.Timer
	tasks   *pomodoro.TaskStore
	fetcher *suggest.Fetcher
	width   int
	height  int

	// Today queue cursor
	cursor int

	progress progress.Model
	spinner  spinner.Model

	suggestion string
	suggestID  uint64
	loading    bool

	formActive bool
	form       *huh.Form
	formType   string

	// Form values as pointers (survive value copies)
	voidReason *string
	acceptNext *bool
}

func newDashboardModel(tm *pomodoro.Timer, tasks *pomodoro.TaskStore, f *suggest.Fetcher) dashboardModel {
	reason, accept := "", true

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorSecondary)

	return dashboardModel{
		timer:      tm,
		tasks:      tasks,
		fetcher:    f,
		progress:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		spinner:    sp,
		voidReason: &reason,
		acceptNext: &accept,
	}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
	d.progress.Width = max(w-12, 10)
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	// The countdown and async results keep flowing while a form is open.
	switch msg := msg.(type) {
	case tickMsg:
		return d.onTick()

	case suggestionMsg:
		if !d.fetcher.Current(msg.id) {
			return d, nil
		}
		d.suggestion = msg.text
		d.loading = false
		return d, nil

	case spinner.TickMsg:
		if !d.loading {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd
	}

	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return d.updateKeys(msg)
	}
	return d, nil
}

func (d dashboardModel) onTick() (dashboardModel, tea.Cmd) {
	res := d.timer.Tick()
	if !res.Completed {
		return d, nil
	}

	cmds := []tea.Cmd{statusCmd(completionText(res), false)}

	// A void prompt is moot once the phase is over.
	if d.formActive && d.formType == formVoid {
		d.closeForm()
	}

	if res.Next.IsBreak() {
		var cmd tea.Cmd
		d, cmd = d.requestSuggestion()
		cmds = append(cmds, cmd)
	} else {
		d.fetcher.Cancel()
		d.suggestion = ""
		d.loading = false
	}

	if res.PromptNext {
		var cmd tea.Cmd
		d, cmd = d.showNextForm()
		cmds = append(cmds, cmd)
	}
	return d, tea.Batch(cmds...)
}

func completionText(res pomodoro.TickResult) string {
	if res.Finished.IsBreak() {
		return "Break over. Back to focus."
	}
	next := "short break"
	if res.Next == pomodoro.ModeLongBreak {
		next = "long break"
	}
	if res.CompletedTask != nil {
		return fmt.Sprintf("Task %q complete! Time for a %s.", res.CompletedTask.Title, next)
	}
	return fmt.Sprintf("Pomodoro complete! Time for a %s.", next)
}

func (d dashboardModel) updateKeys(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Toggle):
		d.timer.Toggle()
		return d, nil

	case key.Matches(msg, keys.Reset):
		d.timer.Reset()
		return d, nil

	case key.Matches(msg, keys.Extend):
		if err := d.timer.Extend(); err != nil {
			return d, statusCmd("Extending is only possible while focusing", true)
		}
		return d, statusCmd("Extended by 5 minutes", false)

	case key.Matches(msg, keys.Void):
		st := d.timer.State()
		if st.Mode != pomodoro.ModeWork || st.Status != pomodoro.StatusRunning {
			return d, statusCmd("Only a running focus session can be voided", true)
		}
		return d.showVoidForm()

	case key.Matches(msg, keys.Idea):
		if d.timer.State().Mode.IsBreak() {
			return d.requestSuggestion()
		}

	case key.Matches(msg, keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(msg, keys.Down):
		if d.cursor < len(d.tasks.TodayQueue())-1 {
			d.cursor++
		}
	case key.Matches(msg, keys.Enter):
		queue := d.tasks.TodayQueue()
		if d.cursor < len(queue) {
			t := queue[d.cursor]
			d.timer.SelectTask(t.ID)
			return d, statusCmd("Now working on "+t.Title, false)
		}
	}
	return d, nil
}

func (d dashboardModel) requestSuggestion() (dashboardModel, tea.Cmd) {
	id, run := d.fetcher.Request(context.Background())
	d.suggestID = id
	d.loading = true
	return d, tea.Batch(d.spinner.Tick, func() tea.Msg {
		return suggestionMsg{id: id, text: run()}
	})
}

func (d dashboardModel) showVoidForm() (dashboardModel, tea.Cmd) {
	*d.voidReason = ""
	d.formType = formVoid

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Why are you voiding this pomodoro?").
				Placeholder("No reason provided").
				Value(d.voidReason),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) showNextForm() (dashboardModel, tea.Cmd) {
	next, ok := d.timer.PendingNext()
	if !ok {
		return d, nil
	}
	*d.acceptNext = true
	d.formType = formNext

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Task complete!").
				Description(fmt.Sprintf("Start the next task, %q?", next.Title)).
				Affirmative("Yes").
				Negative("No").
				Value(d.acceptNext),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) updateForm(msg tea.Msg) (dashboardModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			if d.formType == formNext {
				d.timer.ConfirmNext(false)
				d.timer.SyncActiveTask()
			}
			d.closeForm()
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State == huh.StateCompleted {
		return d.submitForm()
	}
	return d, cmd
}

func (d *dashboardModel) closeForm() {
	d.formActive = false
	d.form = nil
	d.formType = ""
}

func (d dashboardModel) submitForm() (dashboardModel, tea.Cmd) {
	formType := d.formType
	d.closeForm()

	switch formType {
	case formVoid:
		if err := d.timer.Void(strings.TrimSpace(*d.voidReason)); err != nil {
			return d, statusCmd("Nothing to void: the focus session already ended", true)
		}
		return d, statusCmd("Pomodoro voided", false)

	case formNext:
		d.timer.ConfirmNext(*d.acceptNext)
		d.timer.SyncActiveTask()
		if t, ok := d.timer.ActiveTask(); ok {
			return d, statusCmd("Now working on "+t.Title, false)
		}
		return d, statusCmd("No active task. Pick one from today's queue.", false)
	}
	return d, nil
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	if d.formActive && d.form != nil {
		title := titleStyle.Render("Void Pomodoro")
		if d.formType == formNext {
			title = titleStyle.Render("Next Task")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", d.form.View())
		return activePanelStyle.Width(contentWidth).Render(content)
	}

	panels := []string{d.renderTimerPanel(contentWidth)}
	if d.timer.State().Mode.IsBreak() {
		panels = append(panels, d.renderSuggestionPanel(contentWidth))
	}
	panels = append(panels, d.renderTaskPanel(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

func (d dashboardModel) renderTimerPanel(w int) string {
	st := d.timer.State()
	accent := lipgloss.NewStyle().Bold(true).Foreground(modeColor(st.Mode))

	label := accent.Render(modeName(st.Mode)) + "  " + subtitleStyle.Render(d.timer.Label())
	timeDisplay := clockStyle(st).Width(w - 6).Render(formatClock(st.SecondsLeft))

	var indicator string
	switch st.Status {
	case pomodoro.StatusRunning:
		indicator = successStyle.Render("●  RUNNING")
	case pomodoro.StatusPaused:
		indicator = warningStyle.Render("⏸  PAUSED")
	default:
		indicator = mutedStyle.Render("■  STOPPED")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		label,
		"",
		timeDisplay,
		indicator,
		"",
		d.progress.ViewAs(d.timer.Progress()),
		d.renderSetProgress(st),
		"",
		mutedStyle.Render(controlsHint(st)),
	)

	if st.Status == pomodoro.StatusRunning {
		return activePanelStyle.Width(w).Render(content)
	}
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderSetProgress(st pomodoro.State) string {
	perSet := d.timer.Settings().PomodorosPerSet
	if perSet <= 0 {
		return ""
	}
	done := st.PomodorosInSet % perSet
	if done == 0 && st.PomodorosInSet > 0 && st.Mode == pomodoro.ModeLongBreak {
		done = perSet
	}

	var parts []string
	for i := 0; i < perSet; i++ {
		switch {
		case i < done:
			parts = append(parts, successStyle.Render("●"))
		case i == done && st.Mode == pomodoro.ModeWork:
			parts = append(parts, accentStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	counter := mutedStyle.Render(fmt.Sprintf("  %d/%d", done, perSet))
	return strings.Join(parts, " ") + counter
}

func controlsHint(st pomodoro.State) string {
	switch {
	case st.Mode.IsBreak():
		return "space: start/pause  r: reset  n: another idea"
	case st.Status == pomodoro.StatusRunning:
		return "space: pause  r: reset  f: +5 min  v: void"
	default:
		return "space: start  r: reset"
	}
}

func (d dashboardModel) renderSuggestionPanel(w int) string {
	title := titleStyle.Render("Active Break Idea")

	var body string
	switch {
	case d.loading:
		body = d.spinner.View() + mutedStyle.Render(" Thinking...")
	case d.suggestion == "":
		body = mutedStyle.Render("Press n for a break idea")
	default:
		body = suggestionStyle.Render(`"` + d.suggestion + `"`)
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}

func (d dashboardModel) renderTaskPanel(w int) string {
	active, hasActive := d.timer.ActiveTask()

	current := mutedStyle.Render("No active task")
	if hasActive {
		current = highlightStyle.Render(active.Title) +
			mutedStyle.Render(fmt.Sprintf("  %d/%d", active.PomodorosCompleted, active.Pomodoros))
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Today"))
	rows = append(rows, "Current: "+current)
	rows = append(rows, "")

	queue := d.tasks.TodayQueue()
	if len(queue) == 0 {
		rows = append(rows, mutedStyle.Render("No tasks planned for today. Press 2 to plan some."))
		return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	cursor := min(d.cursor, len(queue)-1)
	for i, t := range queue {
		prefix := "  "
		style := normalItemStyle
		if i == cursor {
			prefix = "> "
			style = selectedItemStyle
		}
		marker := " "
		if hasActive && t.ID == active.ID {
			marker = "▶"
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %-32s %d/%d",
			prefix, marker, t.Title, t.PomodorosCompleted, t.Pomodoros)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ↑/↓: move  enter: make active"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
