package sound

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/sadopc/focusflow/internal/pomodoro"
)

const bell = "\a"

// Player plays completion sounds through an external command, e.g.
// "paplay" or "afplay", with the terminal bell as the fallback.
type Player struct {
	command string
	files   map[string]string

	mu   sync.Mutex
	bell io.Writer

	start func(name string, args ...string) error
}

// Options mirrors the sound section of the config file.
type Options struct {
	Command   string
	WorkFile  string
	BreakFile string
}

// NewPlayer returns a player that writes the bell to w.
func NewPlayer(opts Options, w io.Writer) *Player {
	if w == nil {
		w = os.Stdout
	}
	files := map[string]string{}
	if opts.WorkFile != "" {
		files[pomodoro.SoundWorkComplete] = opts.WorkFile
	}
	if opts.BreakFile != "" {
		files[pomodoro.SoundBreakComplete] = opts.BreakFile
	}
	return &Player{
		command: strings.TrimSpace(opts.Command),
		files:   files,
		bell:    w,
		start:   startDetached,
	}
}

// Play starts the sound for name and returns without waiting for it to
// finish. Names without a configured file ring the bell.
func (p *Player) Play(name string) error {
	file, ok := p.files[name]
	if name == pomodoro.SoundFallback || p.command == "" || !ok {
		return p.ring()
	}

	fields := strings.Fields(p.command)
	args := append(fields[1:], file)
	if err := p.start(fields[0], args...); err != nil {
		return fmt.Errorf("play %s: %w", name, err)
	}
	return nil
}

func (p *Player) ring() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := io.WriteString(p.bell, bell); err != nil {
		return fmt.Errorf("ring bell: %w", err)
	}
	return nil
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			slog.Debug("sound command exited", "cmd", name, "err", err)
		}
	}()
	return nil
}
