package store

import (
	"testing"

	"github.com/sadopc/focusflow/internal/pomodoro"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// putRaw writes a document body verbatim, bypassing JSON encoding.
func putRaw(t *testing.T, s *Store, key, value string) {
	t.Helper()
	_, err := s.db.Exec(`INSERT INTO documents (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		t.Fatalf("put raw: %v", err)
	}
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Should have run migration v1
	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/focusflow.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveTasks([]pomodoro.Task{{ID: "a", Title: "a", Pomodoros: 1, Priority: 1}}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: no re-migration, data kept
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	tasks, err := s2.LoadTasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].ID != "a" {
		t.Fatalf("tasks not persisted: %+v", tasks)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	// Running migrate again should be a no-op
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Documents
// ============================================================

func TestGetDocumentMissing(t *testing.T) {
	s := newTestStore(t)
	data, ok, err := s.GetDocument("nope")
	if err != nil {
		t.Fatal(err)
	}
	if ok || data != nil {
		t.Fatalf("expected missing document, got %q", data)
	}
}

func TestPutDocumentOverwrites(t *testing.T) {
	s := newTestStore(t)
	if err := s.PutDocument("k", []int{1}); err != nil {
		t.Fatal(err)
	}
	if err := s.PutDocument("k", []int{1, 2}); err != nil {
		t.Fatal(err)
	}
	data, ok, err := s.GetDocument("k")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(data) != "[1,2]" {
		t.Fatalf("expected [1,2], got %s", data)
	}

	var count int
	s.db.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&count)
	if count != 1 {
		t.Fatalf("expected 1 row, got %d", count)
	}
}

// ============================================================
// Tasks
// ============================================================

func TestTasksRoundTrip(t *testing.T) {
	s := newTestStore(t)

	tasks, err := s.LoadTasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected no tasks, got %d", len(tasks))
	}

	in := []pomodoro.Task{
		{ID: "a", Title: "Write", IsToday: true, Pomodoros: 3, PomodorosCompleted: 1, Priority: 2},
		{ID: "b", Title: "Read", Completed: true, Pomodoros: 1, PomodorosCompleted: 1, Priority: 1},
	}
	if err := s.SaveTasks(in); err != nil {
		t.Fatal(err)
	}
	out, err := s.LoadTasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0] != in[0] || out[1] != in[1] {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestSaveNilTasksWritesEmptyArray(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveTasks(nil); err != nil {
		t.Fatal(err)
	}
	data, _, _ := s.GetDocument(KeyTasks)
	if string(data) != "[]" {
		t.Fatalf("expected [], got %s", data)
	}
}

func TestLoadTasksMalformed(t *testing.T) {
	s := newTestStore(t)
	putRaw(t, s, KeyTasks, `{"not":"a list"`)

	tasks, err := s.LoadTasks()
	if err != nil {
		t.Fatalf("malformed data should not fail: %v", err)
	}
	if tasks != nil {
		t.Fatalf("expected empty task list, got %+v", tasks)
	}
}

func TestTasksUseBrowserFieldNames(t *testing.T) {
	s := newTestStore(t)
	putRaw(t, s, KeyTasks, `[{"id":"x","title":"Legacy","isToday":true,"completed":false,"pomodoros":2,"pomodorosCompleted":1}]`)

	tasks, err := s.LoadTasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	got := tasks[0]
	if got.ID != "x" || !got.IsToday || got.Pomodoros != 2 || got.PomodorosCompleted != 1 {
		t.Fatalf("unexpected task: %+v", got)
	}
}

// ============================================================
// Sessions
// ============================================================

func TestSessionsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	in := []pomodoro.Session{
		{ID: "1", Date: "2024-01-02", Duration: 25, IsCompleted: true},
		{ID: "2", Date: "2024-01-03", Duration: 25, IsCompleted: false},
	}
	if err := s.SaveSessions(in); err != nil {
		t.Fatal(err)
	}
	out, err := s.LoadSessions()
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0] != in[0] || out[1] != in[1] {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestLoadSessionsMalformed(t *testing.T) {
	s := newTestStore(t)
	putRaw(t, s, KeySessions, `garbage`)
	sessions, err := s.LoadSessions()
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 0 {
		t.Fatalf("expected no sessions, got %d", len(sessions))
	}
}

func TestSessionLogWritesThrough(t *testing.T) {
	s := newTestStore(t)
	log := pomodoro.NewSessionLog(nil, s)
	tm := pomodoro.NewTimer(pomodoro.DefaultSettings(), pomodoro.NewTaskStore(nil, s), log)
	tm.Start()
	if err := tm.Void("phone call"); err != nil {
		t.Fatal(err)
	}

	sessions, err := s.LoadSessions()
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 || sessions[0].IsCompleted {
		t.Fatalf("expected one voided session, got %+v", sessions)
	}
}

// ============================================================
// Settings
// ============================================================

func TestLoadSettingsDefaults(t *testing.T) {
	s := newTestStore(t)
	got, err := s.LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if got != pomodoro.DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	in := pomodoro.Settings{
		WorkDuration:       50,
		ShortBreakDuration: 10,
		LongBreakDuration:  30,
		PomodorosPerSet:    3,
		SoundOnComplete:    false,
	}
	if err := s.SaveSettings(in); err != nil {
		t.Fatal(err)
	}
	out, err := s.LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Fatalf("expected %+v, got %+v", in, out)
	}
}

func TestLoadSettingsInvalidFallsBack(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed", `{"workDuration":`},
		{"zero per set", `{"workDuration":25,"shortBreakDuration":5,"longBreakDuration":15,"pomodorosPerSet":0}`},
		{"negative", `{"workDuration":-1,"shortBreakDuration":5,"longBreakDuration":15,"pomodorosPerSet":4}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			putRaw(t, s, KeySettings, tt.raw)
			got, err := s.LoadSettings()
			if err != nil {
				t.Fatal(err)
			}
			if got != pomodoro.DefaultSettings() {
				t.Fatalf("expected defaults, got %+v", got)
			}
		})
	}
}

func TestLoadSettingsPartialKeepsDefaults(t *testing.T) {
	s := newTestStore(t)
	putRaw(t, s, KeySettings, `{"workDuration":40}`)
	got, err := s.LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	want := pomodoro.DefaultSettings()
	want.WorkDuration = 40
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}
