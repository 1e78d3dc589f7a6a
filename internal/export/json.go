package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/focusflow/internal/pomodoro"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	Count      int           `json:"count"`
	Sessions   []jsonSession `json:"sessions"`
	Tasks      []jsonTask    `json:"tasks"`
}

type jsonSession struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	DurationMinutes int    `json:"duration_minutes"`
	Duration        string `json:"duration"`
	Completed       bool   `json:"completed"`
}

type jsonTask struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Status             string `json:"status"`
	Pomodoros          int    `json:"pomodoros"`
	PomodorosCompleted int    `json:"pomodoros_completed"`
	Priority           int    `json:"priority"`
}

func taskStatus(t pomodoro.Task) string {
	switch {
	case t.Completed:
		return "completed"
	case t.IsToday:
		return "today"
	default:
		return "inventory"
	}
}

// ToJSON writes sessions and tasks. Count is the number of sessions.
func ToJSON(sessions []pomodoro.Session, tasks []pomodoro.Task, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(sessions),
		Sessions:   []jsonSession{},
		Tasks:      []jsonTask{},
	}

	for _, s := range sessions {
		export.Sessions = append(export.Sessions, jsonSession{
			ID:              s.ID,
			Date:            s.Date,
			DurationMinutes: s.Duration,
			Duration:        formatDuration(int64(s.Duration) * 60),
			Completed:       s.IsCompleted,
		})
	}
	for _, t := range tasks {
		export.Tasks = append(export.Tasks, jsonTask{
			ID:                 t.ID,
			Title:              t.Title,
			Status:             taskStatus(t),
			Pomodoros:          t.Pomodoros,
			PomodorosCompleted: t.PomodorosCompleted,
			Priority:           t.Priority,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
