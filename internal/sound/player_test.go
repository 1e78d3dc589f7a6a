package sound

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/focusflow/internal/pomodoro"
)

type started struct {
	name string
	args []string
}

func newFakePlayer(opts Options, fail error) (*Player, *bytes.Buffer, *[]started) {
	var buf bytes.Buffer
	var calls []started
	p := NewPlayer(opts, &buf)
	p.start = func(name string, args ...string) error {
		calls = append(calls, started{name, args})
		return fail
	}
	return p, &buf, &calls
}

func TestPlayRunsCommand(t *testing.T) {
	p, buf, calls := newFakePlayer(Options{
		Command:   "paplay --volume 40000",
		WorkFile:  "/sounds/work.wav",
		BreakFile: "/sounds/break.wav",
	}, nil)

	require.NoError(t, p.Play(pomodoro.SoundWorkComplete))
	require.NoError(t, p.Play(pomodoro.SoundBreakComplete))

	require.Len(t, *calls, 2)
	assert.Equal(t, started{"paplay", []string{"--volume", "40000", "/sounds/work.wav"}}, (*calls)[0])
	assert.Equal(t, started{"paplay", []string{"--volume", "40000", "/sounds/break.wav"}}, (*calls)[1])
	assert.Zero(t, buf.Len(), "bell should not ring when the command works")
}

func TestPlayCommandFailure(t *testing.T) {
	p, buf, _ := newFakePlayer(Options{Command: "missing-player", WorkFile: "w.wav"}, errors.New("not found"))

	err := p.Play(pomodoro.SoundWorkComplete)
	assert.Error(t, err)
	assert.Zero(t, buf.Len())

	// The timer then asks for the fallback, which always rings.
	require.NoError(t, p.Play(pomodoro.SoundFallback))
	assert.Equal(t, "\a", buf.String())
}

func TestPlayBellWithoutCommand(t *testing.T) {
	p, buf, calls := newFakePlayer(Options{WorkFile: "w.wav"}, nil)
	require.NoError(t, p.Play(pomodoro.SoundWorkComplete))
	assert.Empty(t, *calls)
	assert.Equal(t, "\a", buf.String())
}

func TestPlayBellForUnconfiguredName(t *testing.T) {
	p, buf, calls := newFakePlayer(Options{Command: "afplay", WorkFile: "w.wav"}, nil)
	require.NoError(t, p.Play(pomodoro.SoundBreakComplete))
	assert.Empty(t, *calls)
	assert.Equal(t, "\a", buf.String())
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRingError(t *testing.T) {
	p := NewPlayer(Options{}, brokenWriter{})
	assert.Error(t, p.Play(pomodoro.SoundFallback))
}

func TestTimerUsesPlayer(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlayer(Options{}, &buf)

	tm := pomodoro.NewTimer(pomodoro.DefaultSettings(), pomodoro.NewTaskStore(nil, nil), pomodoro.NewSessionLog(nil, nil), pomodoro.WithPlayer(p))
	tm.Start()
	for i := 0; i < pomodoro.DefaultSettings().WorkDuration*60; i++ {
		tm.Tick()
	}
	assert.Equal(t, pomodoro.ModeShortBreak, tm.State().Mode)
	assert.Equal(t, "\a", buf.String())
}
