package store

import "github.com/sadopc/focusflow/internal/pomodoro"

// LoadSessions returns the stored session history, or nil when there is none.
func (s *Store) LoadSessions() ([]pomodoro.Session, error) {
	var sessions []pomodoro.Session
	ok, err := s.loadDocument(KeySessions, &sessions)
	if err != nil || !ok {
		return nil, err
	}
	return sessions, nil
}

func (s *Store) SaveSessions(sessions []pomodoro.Session) error {
	if sessions == nil {
		sessions = []pomodoro.Session{}
	}
	return s.PutDocument(KeySessions, sessions)
}
