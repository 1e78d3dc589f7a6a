package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusflow/internal/pomodoro"
)

type taskSection int

const (
	sectionToday taskSection = iota
	sectionInventory
	sectionCompleted
)

var sectionNames = []string{"Today", "Inventory", "Completed"}

const (
	formNewTask  = "new"
	formEditTask = "edit"
)

// maxDots caps the per-task pomodoro indicator before falling back to numbers.
const maxDots = 8

type tasksModel struct {
	tasks  *pomodoro.TaskStore
	timer  *pomodoro.Timer
	width  int
	height int

	section taskSection
	cursor  int

	formActive bool
	form       *huh.Form
	formType   string
	editingID  string

	// Form field pointers (survive value copies)
	formTitle     *string
	formPomodoros *string
	formToday     *bool
}

func newTasksModel(tasks *pomodoro.TaskStore, tm *pomodoro.Timer) tasksModel {
	title, pomodoros, today := "", "1", true
	return tasksModel{
		tasks:         tasks,
		timer:         tm,
		formTitle:     &title,
		formPomodoros: &pomodoros,
		formToday:     &today,
	}
}

func (p *tasksModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

// list returns the tasks of the current section in priority order.
func (p tasksModel) list() []pomodoro.Task {
	switch p.section {
	case sectionInventory:
		return p.tasks.Inventory()
	case sectionCompleted:
		return p.tasks.CompletedTasks()
	default:
		return p.tasks.TodayQueue()
	}
}

func (p tasksModel) selected() (pomodoro.Task, bool) {
	list := p.list()
	if p.cursor < 0 || p.cursor >= len(list) {
		return pomodoro.Task{}, false
	}
	return list[p.cursor], true
}

func (p *tasksModel) clampCursor() {
	n := len(p.list())
	if p.cursor >= n {
		p.cursor = max(0, n-1)
	}
}

func (p tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return p.updateList(msg)
	}
	return p, nil
}

func (p tasksModel) updateList(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Left):
		if p.section > sectionToday {
			p.section--
			p.cursor = 0
		}
	case key.Matches(msg, keys.Right):
		if p.section < sectionCompleted {
			p.section++
			p.cursor = 0
		}
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.list())-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.New):
		return p.showNewForm()
	case key.Matches(msg, keys.Enter):
		if t, ok := p.selected(); ok {
			return p.showEditForm(t)
		}
	case key.Matches(msg, keys.Today):
		if t, ok := p.selected(); ok && !t.Completed {
			return p.mutate(p.tasks.ToggleToday(t.ID))
		}
	case key.Matches(msg, keys.Complete):
		if t, ok := p.selected(); ok && !t.Completed {
			var cmd tea.Cmd
			p, cmd = p.mutate(p.tasks.CompleteManually(t.ID))
			if cmd != nil {
				return p, cmd
			}
			return p, statusCmd(fmt.Sprintf("Completed %q", t.Title), false)
		}
	case key.Matches(msg, keys.Delete):
		if t, ok := p.selected(); ok {
			p.tasks.Delete(t.ID)
			p, _ = p.mutate(nil)
			return p, statusCmd(fmt.Sprintf("Deleted %q", t.Title), false)
		}
	case key.Matches(msg, keys.MoveUp):
		return p.swap(-1)
	case key.Matches(msg, keys.MoveDown):
		return p.swap(1)
	}
	return p, nil
}

// swap exchanges priority with the neighbour at offset within the section.
func (p tasksModel) swap(offset int) (tasksModel, tea.Cmd) {
	list := p.list()
	other := p.cursor + offset
	if p.cursor >= len(list) || other < 0 || other >= len(list) {
		return p, nil
	}
	if err := p.tasks.SwapPriority(list[p.cursor].ID, list[other].ID); err != nil {
		return p, statusCmd(fmt.Sprintf("Error: %v", err), true)
	}
	p.cursor = other
	return p.mutate(nil)
}

// mutate finishes a task-store change: the timer re-checks its active task
// and the cursor is kept in range.
func (p tasksModel) mutate(err error) (tasksModel, tea.Cmd) {
	if err != nil {
		return p, statusCmd(fmt.Sprintf("Error: %v", err), true)
	}
	p.timer.SyncActiveTask()
	p.clampCursor()
	return p, nil
}

func validateTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("title cannot be empty")
	}
	return nil
}

func validatePositive(s string) error {
	_, err := parsePositive(s)
	return err
}

func parsePositive(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, errors.New("must be a whole number of at least 1")
	}
	return n, nil
}

func (p tasksModel) showNewForm() (tasksModel, tea.Cmd) {
	*p.formTitle = ""
	*p.formPomodoros = "1"
	*p.formToday = p.section == sectionToday
	p.formType = formNewTask
	p.editingID = ""

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task").Value(p.formTitle).Validate(validateTitle),
			huh.NewInput().Title("Pomodoros").Value(p.formPomodoros).Validate(validatePositive),
			huh.NewConfirm().Title("Plan for today?").Value(p.formToday),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p tasksModel) showEditForm(t pomodoro.Task) (tasksModel, tea.Cmd) {
	*p.formTitle = t.Title
	*p.formPomodoros = strconv.Itoa(t.Pomodoros)
	p.formType = formEditTask
	p.editingID = t.ID

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task").Value(p.formTitle).Validate(validateTitle),
			huh.NewInput().Title("Pomodoros").Value(p.formPomodoros).Validate(validatePositive),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		return p.submitForm()
	}

	return p, cmd
}

func (p tasksModel) submitForm() (tasksModel, tea.Cmd) {
	p.formActive = false
	p.form = nil

	n, err := parsePositive(*p.formPomodoros)
	if err != nil {
		return p, statusCmd("Pomodoros "+err.Error(), true)
	}

	switch p.formType {
	case formNewTask:
		t, err := p.tasks.Add(*p.formTitle, n)
		if err != nil {
			return p, statusCmd(fmt.Sprintf("Error: %v", err), true)
		}
		if *p.formToday {
			p.tasks.ToggleToday(t.ID)
		}
		p, _ = p.mutate(nil)
		return p, statusCmd(fmt.Sprintf("Added %q", t.Title), false)

	case formEditTask:
		return p.mutate(p.tasks.Edit(p.editingID, *p.formTitle, n))
	}
	return p, nil
}

func (p tasksModel) view() string {
	w := p.width - 4

	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Task")
		if p.formType == formEditTask {
			title = titleStyle.Render("Edit Task")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View())
		return panelStyle.Width(w).Render(content)
	}

	// Section tabs
	counts := []int{len(p.tasks.TodayQueue()), len(p.tasks.Inventory()), len(p.tasks.CompletedTasks())}
	var tabs []string
	for i, name := range sectionNames {
		label := fmt.Sprintf("%s (%d)", name, counts[i])
		if taskSection(i) == p.section {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Tasks"), "  ", lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...),
	)

	var rows []string
	rows = append(rows, header)
	rows = append(rows, "")

	list := p.list()
	if len(list) == 0 {
		rows = append(rows, mutedStyle.Render(emptySectionText(p.section)))
	}

	active, hasActive := p.timer.ActiveTask()
	for i, t := range list {
		cursor := "  "
		style := normalItemStyle
		if t.Completed {
			style = doneItemStyle
		}
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		marker := " "
		if hasActive && t.ID == active.ID {
			marker = "▶"
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %-32s", cursor, marker, t.Title))+" "+pomodoroDots(t))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter: edit  t: today  c: complete  d: delete  K/J: priority  ←/→: section"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func emptySectionText(s taskSection) string {
	switch s {
	case sectionInventory:
		return "Inventory is empty. Press n to add a task."
	case sectionCompleted:
		return "Nothing completed yet."
	default:
		return "Nothing planned for today. Press n to add a task, or t on an inventory task."
	}
}

// pomodoroDots renders progress like ●●○ (2 of 3 done).
func pomodoroDots(t pomodoro.Task) string {
	if t.Pomodoros > maxDots {
		return mutedStyle.Render(fmt.Sprintf("%d/%d", t.PomodorosCompleted, t.Pomodoros))
	}
	done := min(t.PomodorosCompleted, t.Pomodoros)
	return successStyle.Render(strings.Repeat("●", done)) +
		mutedStyle.Render(strings.Repeat("○", t.Pomodoros-done))
}
