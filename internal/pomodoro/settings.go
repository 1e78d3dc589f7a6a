package pomodoro

import "log/slog"

// Settings are the user-editable timer preferences. Durations are minutes.
type Settings struct {
	WorkDuration       int  `json:"workDuration"`
	ShortBreakDuration int  `json:"shortBreakDuration"`
	LongBreakDuration  int  `json:"longBreakDuration"`
	PomodorosPerSet    int  `json:"pomodorosPerSet"`
	SoundOnComplete    bool `json:"soundOnComplete"`
}

func DefaultSettings() Settings {
	return Settings{
		WorkDuration:       25,
		ShortBreakDuration: 5,
		LongBreakDuration:  15,
		PomodorosPerSet:    4,
		SoundOnComplete:    true,
	}
}

// Validate rejects any numeric field below 1.
func (s Settings) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"workDuration", s.WorkDuration},
		{"shortBreakDuration", s.ShortBreakDuration},
		{"longBreakDuration", s.LongBreakDuration},
		{"pomodorosPerSet", s.PomodorosPerSet},
	}
	for _, f := range fields {
		if f.value < 1 {
			return ValidationError{Field: f.name, Reason: "must be at least 1"}
		}
	}
	return nil
}

// SettingsSaver persists the settings document.
type SettingsSaver interface {
	SaveSettings(Settings) error
}

// SettingsStore owns the singleton Settings value.
type SettingsStore struct {
	current Settings
	saver   SettingsSaver
}

// NewSettingsStore wraps initial, replacing it with defaults when it does not
// validate. saver may be nil.
func NewSettingsStore(initial Settings, saver SettingsSaver) *SettingsStore {
	if err := initial.Validate(); err != nil {
		slog.Warn("stored settings rejected, using defaults", "err", err)
		initial = DefaultSettings()
	}
	return &SettingsStore{current: initial, saver: saver}
}

func (s *SettingsStore) Get() Settings {
	return s.current
}

// Update validates and persists next. Invalid input leaves the store untouched.
func (s *SettingsStore) Update(next Settings) error {
	if err := next.Validate(); err != nil {
		return err
	}
	s.current = next
	s.persist()
	return nil
}

// Reset restores the defaults.
func (s *SettingsStore) Reset() Settings {
	s.current = DefaultSettings()
	s.persist()
	return s.current
}

func (s *SettingsStore) persist() {
	if s.saver == nil {
		return
	}
	if err := s.saver.SaveSettings(s.current); err != nil {
		slog.Error("save settings", "err", err)
	}
}
