package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusflow/internal/pomodoro"
)

type settingsModel struct {
	store  *pomodoro.SettingsStore
	width  int
	height int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	workDuration       *string
	shortBreakDuration *string
	longBreakDuration  *string
	pomodorosPerSet    *string
	soundOnComplete    *bool
}

func newSettingsModel(s *pomodoro.SettingsStore) settingsModel {
	wd, sb, lb, ps := "", "", "", ""
	sound := true
	return settingsModel{
		store:              s,
		workDuration:       &wd,
		shortBreakDuration: &sb,
		longBreakDuration:  &lb,
		pomodorosPerSet:    &ps,
		soundOnComplete:    &sound,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Enter):
			return s.showForm()
		case key.Matches(msg, keys.Reset):
			return s, settingsChanged(s.store.Reset(), "Settings reset to defaults")
		}
	}
	return s, nil
}

func settingsChanged(next pomodoro.Settings, status string) tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return settingsChangedMsg{settings: next} },
		statusCmd(status, false),
	)
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	// Load current values
	cur := s.store.Get()
	*s.workDuration = strconv.Itoa(cur.WorkDuration)
	*s.shortBreakDuration = strconv.Itoa(cur.ShortBreakDuration)
	*s.longBreakDuration = strconv.Itoa(cur.LongBreakDuration)
	*s.pomodorosPerSet = strconv.Itoa(cur.PomodorosPerSet)
	*s.soundOnComplete = cur.SoundOnComplete

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Focus (min)").Value(s.workDuration).Validate(validatePositive),
			huh.NewInput().Title("Short break (min)").Value(s.shortBreakDuration).Validate(validatePositive),
			huh.NewInput().Title("Long break (min)").Value(s.longBreakDuration).Validate(validatePositive),
			huh.NewInput().Title("Pomodoros before long break").Value(s.pomodorosPerSet).Validate(validatePositive),
		).Title("Timer"),
		huh.NewGroup(
			huh.NewConfirm().Title("Play a sound when a phase ends?").Value(s.soundOnComplete),
		).Title("Sound"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		return s.submitForm()
	}

	return s, cmd
}

// formSettings parses the form fields. Any field below 1 is rejected.
func (s settingsModel) formSettings() (pomodoro.Settings, error) {
	var next pomodoro.Settings
	fields := []struct {
		name string
		raw  string
		dst  *int
	}{
		{"Focus", *s.workDuration, &next.WorkDuration},
		{"Short break", *s.shortBreakDuration, &next.ShortBreakDuration},
		{"Long break", *s.longBreakDuration, &next.LongBreakDuration},
		{"Pomodoros per set", *s.pomodorosPerSet, &next.PomodorosPerSet},
	}
	for _, f := range fields {
		n, err := parsePositive(f.raw)
		if err != nil {
			return pomodoro.Settings{}, fmt.Errorf("%s %w", f.name, err)
		}
		*f.dst = n
	}
	next.SoundOnComplete = *s.soundOnComplete
	return next, nil
}

func (s settingsModel) submitForm() (settingsModel, tea.Cmd) {
	s.formActive = false
	s.form = nil

	next, err := s.formSettings()
	if err != nil {
		return s, statusCmd(err.Error(), true)
	}
	if err := s.store.Update(next); err != nil {
		return s, statusCmd(fmt.Sprintf("Error: %v", err), true)
	}
	return s, settingsChanged(next, "Settings saved")
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	cur := s.store.Get()
	sound := "off"
	if cur.SoundOnComplete {
		sound = "on"
	}
	items := []struct{ label, value string }{
		{"Focus", fmt.Sprintf("%d min", cur.WorkDuration)},
		{"Short break", fmt.Sprintf("%d min", cur.ShortBreakDuration)},
		{"Long break", fmt.Sprintf("%d min", cur.LongBreakDuration)},
		{"Pomodoros per set", strconv.Itoa(cur.PomodorosPerSet)},
		{"Sound on complete", sound},
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Settings"))
	rows = append(rows, "")
	for _, it := range items {
		label := lipgloss.NewStyle().Width(24).Render(it.label)
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(it.value)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("enter: edit  r: reset to defaults"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
