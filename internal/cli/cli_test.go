package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/focusflow/internal/pomodoro"
	"github.com/sadopc/focusflow/internal/store"
)

// testHome isolates config and home directories and returns a database path
// inside the temp dir.
func testHome(t *testing.T) (home, db string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)

	orig := now
	now = func() time.Time { return time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = orig })

	return home, filepath.Join(home, "focusflow.db")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAddAndList(t *testing.T) {
	_, db := testHome(t)

	out, err := run(t, "--db", db, "add", "Write", "report", "-n", "3", "--today")
	require.NoError(t, err)
	assert.Contains(t, out, `Added "Write report" to today (3 pomodoros)`)

	out, err = run(t, "--db", db, "add", "Read book")
	require.NoError(t, err)
	assert.Contains(t, out, "to inventory")

	out, err = run(t, "--db", db, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Today (1)")
	assert.Contains(t, out, "Inventory (1)")
	assert.Contains(t, out, "Completed (0)")
	assert.Contains(t, out, "Write report")
	assert.Contains(t, out, "0/3")

	today := out[strings.Index(out, "Today"):strings.Index(out, "Inventory")]
	assert.NotContains(t, today, "Read book")
}

func TestAddValidation(t *testing.T) {
	_, db := testHome(t)

	_, err := run(t, "--db", db, "add")
	require.Error(t, err)

	_, err = run(t, "--db", db, "add", "Task", "-n", "0")
	require.Error(t, err)

	_, err = run(t, "--db", db, "add", "   ")
	require.Error(t, err)

	out, err := run(t, "--db", db, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Inventory (0)")
}

func seedSessions(t *testing.T, db string, sessions ...pomodoro.Session) {
	t.Helper()
	s, err := store.New(db)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.SaveSessions(sessions))
}

func TestStats(t *testing.T) {
	_, db := testHome(t)
	seedSessions(t, db,
		pomodoro.Session{ID: "1", Date: "2024-01-02", Duration: 25, IsCompleted: true},
		pomodoro.Session{ID: "2", Date: "2024-01-03", Duration: 50, IsCompleted: true},
		pomodoro.Session{ID: "3", Date: "2024-01-03", Duration: 25, IsCompleted: false},
	)

	out, err := run(t, "--db", db, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Pomodoros completed: 2")
	assert.Contains(t, out, "1h 15m")
	assert.Contains(t, out, "2 days")
	assert.Contains(t, out, "2024-01-03")
	assert.Contains(t, out, "2023-12-28")
	assert.NotContains(t, out, "2023-12-27")
}

func TestExportCSV(t *testing.T) {
	home, db := testHome(t)
	seedSessions(t, db, pomodoro.Session{ID: "1", Date: "2024-01-03", Duration: 25, IsCompleted: true})

	path := filepath.Join(home, "out.csv")
	out, err := run(t, "--db", db, "export", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 sessions")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "ID,Date,Duration (min),Completed"))
	assert.Contains(t, string(data), "1,2024-01-03,25,true")
}

func TestExportJSONDefaultPath(t *testing.T) {
	home, db := testHome(t)

	_, err := run(t, "--db", db, "export", "--format", "json")
	require.NoError(t, err)

	want := filepath.Join(home, "focusflow-export-20240103-120000.json")
	_, err = os.Stat(want)
	require.NoError(t, err)
}

func TestExportUnknownFormat(t *testing.T) {
	_, db := testHome(t)

	_, err := run(t, "--db", db, "export", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestConfigInit(t *testing.T) {
	home, _ := testHome(t)
	path := filepath.Join(home, "cfg", "config.yaml")

	out, err := run(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.FileExists(t, path)

	_, err = run(t, "--config", path, "config", "init")
	require.Error(t, err, "existing file must not be overwritten")

	_, err = run(t, "--config", path, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigShow(t *testing.T) {
	home, db := testHome(t)
	t.Setenv("FOCUSFLOW_SUGGEST_ENDPOINT", "http://localhost:9999/suggest")

	out, err := run(t, "--db", db, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "http://localhost:9999/suggest")
	assert.Contains(t, out, db)
	assert.Contains(t, out, filepath.Join(home, "focusflow"))
}

func TestConfigPath(t *testing.T) {
	testHome(t)

	out, err := run(t, "config", "path", "--config", "/tmp/x.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.yaml\n", out)
}

func TestMissingExplicitConfig(t *testing.T) {
	home, db := testHome(t)

	_, err := run(t, "--config", filepath.Join(home, "nope.yaml"), "--db", db, "list")
	require.Error(t, err)
}

func TestDataPersistsAcrossCommands(t *testing.T) {
	_, db := testHome(t)

	_, err := run(t, "--db", db, "add", "Persisted", "--today")
	require.NoError(t, err)

	s, err := store.New(db)
	require.NoError(t, err)
	defer s.Close()
	tasks, err := s.LoadTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Persisted", tasks[0].Title)
	assert.True(t, tasks[0].IsToday)
	assert.Equal(t, 1, tasks[0].Priority)
}
