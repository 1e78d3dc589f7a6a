package pomodoro

import (
	"fmt"
	"log/slog"
	"time"
)

// ExtendSeconds is how much an "in flow" extension adds to a work phase.
const ExtendSeconds = 5 * 60

// Sound names passed to Player.
const (
	SoundWorkComplete  = "work-complete"
	SoundBreakComplete = "break-complete"
	SoundFallback      = "bell"
)

// Player plays a named completion sound.
type Player interface {
	Play(name string) error
}

// State is a read-only snapshot of the timer.
type State struct {
	Mode           Mode
	Status         Status
	TotalSeconds   int
	SecondsLeft    int
	PomodorosInSet int
	ActiveTaskID   string
}

// TickResult describes what a tick did. Completed is false for ordinary
// countdown ticks.
type TickResult struct {
	Completed     bool
	Finished      Mode
	Next          Mode
	Session       Session
	CompletedTask *Task
	PromptNext    bool
}

// Timer is the work/break state machine. It is not safe for concurrent use;
// the host drives it from a single event loop.
type Timer struct {
	settings Settings
	tasks    *TaskStore
	sessions *SessionLog
	player   Player
	now      func() time.Time

	mode           Mode
	status         Status
	totalSeconds   int
	secondsLeft    int
	pomodorosInSet int
	activeTaskID   string

	pendingNext bool
}

// TimerOption configures optional collaborators.
type TimerOption func(*Timer)

// WithPlayer sets the completion sound player.
func WithPlayer(p Player) TimerOption {
	return func(t *Timer) { t.player = p }
}

// WithClock replaces time.Now for session dating.
func WithClock(now func() time.Time) TimerOption {
	return func(t *Timer) { t.now = now }
}

// NewTimer returns a stopped timer in work mode.
func NewTimer(settings Settings, tasks *TaskStore, sessions *SessionLog, opts ...TimerOption) *Timer {
	t := &Timer{
		settings: settings,
		tasks:    tasks,
		sessions: sessions,
		now:      time.Now,
		mode:     ModeWork,
		status:   StatusStopped,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.resolve()
	t.SyncActiveTask()
	return t
}

// resolve recomputes the phase length for the current mode.
func (t *Timer) resolve() {
	t.totalSeconds = Resolve(t.mode, t.settings)
	t.secondsLeft = t.totalSeconds
}

func (t *Timer) State() State {
	return State{
		Mode:           t.mode,
		Status:         t.status,
		TotalSeconds:   t.totalSeconds,
		SecondsLeft:    t.secondsLeft,
		PomodorosInSet: t.pomodorosInSet,
		ActiveTaskID:   t.activeTaskID,
	}
}

func (t *Timer) Settings() Settings {
	return t.settings
}

// Progress is the elapsed fraction of the current phase in [0, 1].
func (t *Timer) Progress() float64 {
	if t.totalSeconds <= 0 {
		return 0
	}
	p := float64(t.totalSeconds-t.secondsLeft) / float64(t.totalSeconds)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Label names the current phase for display.
func (t *Timer) Label() string {
	switch t.mode {
	case ModeShortBreak:
		return "Short Break"
	case ModeLongBreak:
		return "Long Break"
	default:
		return fmt.Sprintf("Focus #%d", t.pomodorosInSet+1)
	}
}

// Start begins or resumes the countdown.
func (t *Timer) Start() {
	t.status = StatusRunning
}

func (t *Timer) Pause() {
	if t.status == StatusRunning {
		t.status = StatusPaused
	}
}

func (t *Timer) Toggle() {
	if t.status == StatusRunning {
		t.Pause()
		return
	}
	t.Start()
}

// Reset stops the timer and discards progress in the current phase.
func (t *Timer) Reset() {
	t.status = StatusStopped
	t.resolve()
}

// ApplySettings re-resolves the current phase length when the change affects
// the current mode. The status is kept, so a running timer keeps running with
// the new length.
func (t *Timer) ApplySettings(s Settings) {
	changed := Resolve(t.mode, s) != Resolve(t.mode, t.settings)
	t.settings = s
	if changed {
		t.resolve()
	}
}

// Extend adds ExtendSeconds to a work phase and makes sure it runs.
func (t *Timer) Extend() error {
	if t.mode != ModeWork {
		return TransitionError{Op: "extend", Mode: t.mode, Status: t.status}
	}
	t.secondsLeft += ExtendSeconds
	t.totalSeconds += ExtendSeconds
	t.status = StatusRunning
	return nil
}

// Void abandons a running work phase. The session is logged as not
// completed with the nominal phase length, and the phase restarts stopped.
func (t *Timer) Void(reason string) error {
	if t.mode != ModeWork || t.status != StatusRunning {
		return TransitionError{Op: "void", Mode: t.mode, Status: t.status}
	}
	if reason == "" {
		reason = "No reason provided"
	}
	slog.Info("pomodoro voided", "reason", reason, "elapsed_seconds", t.totalSeconds-t.secondsLeft)
	t.sessions.Append(t.now(), t.sessionMinutes(), false)
	t.Reset()
	return nil
}

func (t *Timer) sessionMinutes() int {
	return max(t.totalSeconds/60, 1)
}

// Tick advances a running countdown by one second. When the phase runs out
// the completion procedure runs and the next phase starts immediately.
func (t *Timer) Tick() TickResult {
	if t.status != StatusRunning {
		return TickResult{}
	}
	t.secondsLeft--
	if t.secondsLeft > 0 {
		return TickResult{}
	}

	t.status = StatusStopped
	res := t.complete()

	// The new mode's length is resolved before the countdown resumes.
	t.mode = res.Next
	t.resolve()
	t.status = StatusRunning
	return res
}

func (t *Timer) complete() TickResult {
	res := TickResult{Completed: true, Finished: t.mode}
	res.Session = t.sessions.Append(t.now(), t.sessionMinutes(), true)

	if t.mode != ModeWork {
		res.Next = ModeWork
		t.playCompletion(SoundBreakComplete)
		return res
	}

	if task, ok := t.ActiveTask(); ok {
		updated, justCompleted, err := t.tasks.RecordPomodoro(task.ID)
		if err != nil {
			slog.Warn("credit pomodoro", "task", task.ID, "err", err)
		} else if justCompleted {
			res.CompletedTask = &updated
			res.PromptNext = t.afterTaskCompleted()
		}
	}

	t.pomodorosInSet++
	if t.pomodorosInSet%t.settings.PomodorosPerSet == 0 {
		res.Next = ModeLongBreak
	} else {
		res.Next = ModeShortBreak
	}
	t.playCompletion(SoundWorkComplete)
	return res
}

// afterTaskCompleted clears the active task and, when other tasks remain
// today, leaves a pending prompt for ConfirmNext.
func (t *Timer) afterTaskCompleted() bool {
	t.activeTaskID = ""
	if len(t.tasks.TodayQueue()) == 0 {
		return false
	}
	t.pendingNext = true
	return true
}

// PendingNext returns the task that would become active if the pending
// prompt is accepted.
func (t *Timer) PendingNext() (Task, bool) {
	if !t.pendingNext {
		return Task{}, false
	}
	return t.topOfQueue()
}

// ConfirmNext answers the pending prompt. Accepting activates the top of the
// today queue. Declining clears the active task and releases auto-selection,
// so the next SyncActiveTask picks from the today queue again.
func (t *Timer) ConfirmNext(accept bool) {
	if !t.pendingNext {
		return
	}
	t.pendingNext = false
	if !accept {
		t.activeTaskID = ""
		return
	}
	if next, ok := t.topOfQueue(); ok {
		t.activeTaskID = next.ID
	}
}

func (t *Timer) topOfQueue() (Task, bool) {
	queue := t.tasks.TodayQueue()
	if len(queue) == 0 {
		return Task{}, false
	}
	return queue[0], true
}

// SelectTask makes id the active task. An empty id clears it.
func (t *Timer) SelectTask(id string) {
	t.activeTaskID = id
	t.pendingNext = false
}

// ActiveTask resolves the active task id against the task store. A deleted
// task resolves to none.
func (t *Timer) ActiveTask() (Task, bool) {
	if t.activeTaskID == "" {
		return Task{}, false
	}
	return t.tasks.Get(t.activeTaskID)
}

// SyncActiveTask picks the top of the today queue when nothing unfinished is
// active. It waits while a next-task prompt is unanswered. Call it after the
// task store changes.
func (t *Timer) SyncActiveTask() {
	if t.pendingNext {
		return
	}
	if task, ok := t.ActiveTask(); ok && !task.Completed {
		return
	}
	t.activeTaskID = ""
	if next, ok := t.topOfQueue(); ok {
		t.activeTaskID = next.ID
	}
}

func (t *Timer) playCompletion(name string) {
	if !t.settings.SoundOnComplete || t.player == nil {
		return
	}
	err := t.player.Play(name)
	if err == nil {
		return
	}
	slog.Warn("play completion sound", "sound", name, "err", err)
	if err := t.player.Play(SoundFallback); err != nil {
		slog.Debug("play fallback sound", "err", err)
	}
}
