package pomodoro

// Mode is the kind of phase the timer is counting down.
type Mode string

const (
	ModeWork       Mode = "WORK"
	ModeShortBreak Mode = "SHORT_BREAK"
	ModeLongBreak  Mode = "LONG_BREAK"
)

// IsBreak reports whether m is one of the break modes.
func (m Mode) IsBreak() bool {
	return m == ModeShortBreak || m == ModeLongBreak
}

// Status is the run state of the timer.
type Status string

const (
	StatusRunning Status = "RUNNING"
	StatusPaused  Status = "PAUSED"
	StatusStopped Status = "STOPPED"
)

// Resolve maps a mode to its phase length in seconds. Unknown modes fall back
// to the work duration.
func Resolve(mode Mode, s Settings) int {
	switch mode {
	case ModeWork:
		return s.WorkDuration * 60
	case ModeShortBreak:
		return s.ShortBreakDuration * 60
	case ModeLongBreak:
		return s.LongBreakDuration * 60
	default:
		return s.WorkDuration * 60
	}
}
