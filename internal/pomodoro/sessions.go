package pomodoro

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-day format of Session.Date.
const DateLayout = "2006-01-02"

// Session records the end of one timer phase. Duration is in minutes.
type Session struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Duration    int    `json:"duration"`
	IsCompleted bool   `json:"isCompleted"`
}

// SessionSaver persists the full session list.
type SessionSaver interface {
	SaveSessions([]Session) error
}

// SessionLog is append-only.
type SessionLog struct {
	sessions []Session
	saver    SessionSaver
	newID    func() string
}

// NewSessionLog takes ownership of initial. saver may be nil.
func NewSessionLog(initial []Session, saver SessionSaver) *SessionLog {
	return &SessionLog{
		sessions: append([]Session(nil), initial...),
		saver:    saver,
		newID:    uuid.NewString,
	}
}

// Append records a session dated on the local calendar day of at.
func (l *SessionLog) Append(at time.Time, minutes int, completed bool) Session {
	s := Session{
		ID:          l.newID(),
		Date:        at.Format(DateLayout),
		Duration:    minutes,
		IsCompleted: completed,
	}
	l.sessions = append(l.sessions, s)
	if l.saver != nil {
		if err := l.saver.SaveSessions(l.All()); err != nil {
			slog.Error("save sessions", "err", err)
		}
	}
	return s
}

// All returns a copy of every session in insertion order.
func (l *SessionLog) All() []Session {
	return append([]Session(nil), l.sessions...)
}

func (l *SessionLog) Len() int {
	return len(l.sessions)
}

// Totals summarises completed sessions.
func (l *SessionLog) Totals() (completed int, minutes int) {
	for _, s := range l.sessions {
		if s.IsCompleted {
			completed++
			minutes += s.Duration
		}
	}
	return completed, minutes
}

// DayCount is the number of sessions finished on one calendar day.
type DayCount struct {
	Date      time.Time // UTC midnight
	Completed int
	Voided    int
}

// LastDays buckets sessions into the n calendar days ending on ref's day,
// oldest first.
func (l *SessionLog) LastDays(ref time.Time, n int) []DayCount {
	end := dayOf(ref)
	days := make([]DayCount, n)
	index := make(map[string]int, n)
	for i := 0; i < n; i++ {
		d := end.AddDate(0, 0, i-n+1)
		days[i].Date = d
		index[d.Format(DateLayout)] = i
	}
	for _, s := range l.sessions {
		i, ok := index[s.Date]
		if !ok {
			continue
		}
		if s.IsCompleted {
			days[i].Completed++
		} else {
			days[i].Voided++
		}
	}
	return days
}
