package pomodoro

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Task is one item of work measured in pomodoros. Lower Priority sorts first.
type Task struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	IsToday            bool   `json:"isToday"`
	Completed          bool   `json:"completed"`
	Pomodoros          int    `json:"pomodoros"`
	PomodorosCompleted int    `json:"pomodorosCompleted"`
	Priority           int    `json:"priority"`
}

// TaskSaver persists the full task list.
type TaskSaver interface {
	SaveTasks([]Task) error
}

// TaskStore is the ordered task collection. Every mutation is written through
// to the saver.
type TaskStore struct {
	tasks []Task
	saver TaskSaver
	newID func() string
}

// NewTaskStore takes ownership of initial. Tasks without a priority (older
// data) are numbered after the highest existing priority in stored order.
// saver may be nil.
func NewTaskStore(initial []Task, saver TaskSaver) *TaskStore {
	ts := &TaskStore{
		tasks: append([]Task(nil), initial...),
		saver: saver,
		newID: uuid.NewString,
	}
	next := ts.maxPriority() + 1
	for i := range ts.tasks {
		if ts.tasks[i].Priority <= 0 {
			ts.tasks[i].Priority = next
			next++
		}
	}
	return ts
}

func (ts *TaskStore) maxPriority() int {
	highest := 0
	for _, t := range ts.tasks {
		if t.Priority > highest {
			highest = t.Priority
		}
	}
	return highest
}

func (ts *TaskStore) index(id string) int {
	for i := range ts.tasks {
		if ts.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func validateTask(title string, pomodoros int) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if pomodoros < 1 {
		return "", ValidationError{Field: "pomodoros", Reason: "must be at least 1"}
	}
	return title, nil
}

// Add creates an inventory task at the lowest priority.
func (ts *TaskStore) Add(title string, pomodoros int) (Task, error) {
	title, err := validateTask(title, pomodoros)
	if err != nil {
		return Task{}, err
	}
	t := Task{
		ID:        ts.newID(),
		Title:     title,
		Pomodoros: pomodoros,
		Priority:  ts.maxPriority() + 1,
	}
	ts.tasks = append(ts.tasks, t)
	ts.persist()
	return t, nil
}

// Get looks up a task by id.
func (ts *TaskStore) Get(id string) (Task, bool) {
	i := ts.index(id)
	if i < 0 {
		return Task{}, false
	}
	return ts.tasks[i], true
}

// All returns a copy of every task in stored order.
func (ts *TaskStore) All() []Task {
	return append([]Task(nil), ts.tasks...)
}

func (ts *TaskStore) ToggleToday(id string) error {
	i := ts.index(id)
	if i < 0 {
		return TaskNotFoundError{ID: id}
	}
	ts.tasks[i].IsToday = !ts.tasks[i].IsToday
	ts.persist()
	return nil
}

// Edit changes title and target, recomputing completion from the progress
// already made.
func (ts *TaskStore) Edit(id, title string, pomodoros int) error {
	title, err := validateTask(title, pomodoros)
	if err != nil {
		return err
	}
	i := ts.index(id)
	if i < 0 {
		return TaskNotFoundError{ID: id}
	}
	t := &ts.tasks[i]
	t.Title = title
	t.Pomodoros = pomodoros
	t.Completed = t.PomodorosCompleted >= t.Pomodoros
	ts.persist()
	return nil
}

// Delete removes the task if present.
func (ts *TaskStore) Delete(id string) {
	i := ts.index(id)
	if i < 0 {
		return
	}
	ts.tasks = append(ts.tasks[:i], ts.tasks[i+1:]...)
	ts.persist()
}

// SwapPriority exchanges the priority values of two tasks.
func (ts *TaskStore) SwapPriority(id1, id2 string) error {
	i, j := ts.index(id1), ts.index(id2)
	if i < 0 {
		return TaskNotFoundError{ID: id1}
	}
	if j < 0 {
		return TaskNotFoundError{ID: id2}
	}
	ts.tasks[i].Priority, ts.tasks[j].Priority = ts.tasks[j].Priority, ts.tasks[i].Priority
	ts.persist()
	return nil
}

// CompleteManually marks the task done regardless of progress.
func (ts *TaskStore) CompleteManually(id string) error {
	i := ts.index(id)
	if i < 0 {
		return TaskNotFoundError{ID: id}
	}
	ts.tasks[i].Completed = true
	ts.tasks[i].PomodorosCompleted = ts.tasks[i].Pomodoros
	ts.persist()
	return nil
}

// RecordPomodoro credits one finished pomodoro to the task and reports
// whether that completed it.
func (ts *TaskStore) RecordPomodoro(id string) (Task, bool, error) {
	i := ts.index(id)
	if i < 0 {
		return Task{}, false, TaskNotFoundError{ID: id}
	}
	t := &ts.tasks[i]
	wasCompleted := t.Completed
	t.PomodorosCompleted++
	t.Completed = t.PomodorosCompleted >= t.Pomodoros
	ts.persist()
	return *t, t.Completed && !wasCompleted, nil
}

// TodayQueue returns today's unfinished tasks by ascending priority.
func (ts *TaskStore) TodayQueue() []Task {
	return ts.filter(func(t Task) bool { return t.IsToday && !t.Completed })
}

// Inventory returns unfinished tasks not planned for today.
func (ts *TaskStore) Inventory() []Task {
	return ts.filter(func(t Task) bool { return !t.IsToday && !t.Completed })
}

func (ts *TaskStore) CompletedTasks() []Task {
	return ts.filter(func(t Task) bool { return t.Completed })
}

func (ts *TaskStore) filter(keep func(Task) bool) []Task {
	var out []Task
	for _, t := range ts.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

func (ts *TaskStore) persist() {
	if ts.saver == nil {
		return
	}
	if err := ts.saver.SaveTasks(ts.All()); err != nil {
		slog.Error("save tasks", "err", err)
	}
}
