package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sadopc/focusflow/internal/pomodoro"
)

// Formats accepted by FileName and the CLI.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// FileName returns the default export path for format inside dir.
func FileName(dir, format string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("focusflow-export-%s.%s", now.Format("20060102-150405"), format))
}

func ToCSV(sessions []pomodoro.Session, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	// Header
	if err := w.Write([]string{"ID", "Date", "Duration (min)", "Completed"}); err != nil {
		return err
	}

	for _, s := range sessions {
		row := []string{
			s.ID,
			s.Date,
			strconv.Itoa(s.Duration),
			strconv.FormatBool(s.IsCompleted),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
