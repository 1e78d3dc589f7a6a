package store

import (
	"log/slog"

	"github.com/sadopc/focusflow/internal/pomodoro"
)

// LoadSettings returns the stored settings. Missing, malformed or invalid
// documents yield the defaults.
func (s *Store) LoadSettings() (pomodoro.Settings, error) {
	settings := pomodoro.DefaultSettings()
	ok, err := s.loadDocument(KeySettings, &settings)
	if err != nil || !ok {
		return pomodoro.DefaultSettings(), err
	}
	if err := settings.Validate(); err != nil {
		slog.Warn("stored settings invalid, using defaults", "err", err)
		return pomodoro.DefaultSettings(), nil
	}
	return settings, nil
}

func (s *Store) SaveSettings(settings pomodoro.Settings) error {
	return s.PutDocument(KeySettings, settings)
}
