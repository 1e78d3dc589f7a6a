package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/focusflow/internal/config"
	"github.com/sadopc/focusflow/internal/pomodoro"
	"github.com/sadopc/focusflow/internal/sound"
	"github.com/sadopc/focusflow/internal/store"
	"github.com/sadopc/focusflow/internal/suggest"
	"github.com/sadopc/focusflow/internal/tui"
)

// now is replaced in tests.
var now = time.Now

type globalFlags struct {
	configPath string
	dbPath     string
}

// Execute runs the root command
func Execute(version string) error {
	root := newRootCmd()
	root.Version = version
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "focusflow",
		Short: "A pomodoro timer with a task queue",
		Long: `focusflow is a terminal pomodoro timer.

Plan today's tasks, focus in timed sessions, take suggested active breaks and
keep a streak going. Run without arguments to open the timer.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&flags.dbPath, "db", "", "database file (overrides db_path)")

	root.AddCommand(
		addCmd(flags),
		listCmd(flags),
		statsCmd(flags),
		exportCmd(flags),
		configCmd(flags),
	)
	return root
}

// core is the loaded application state shared by every command.
type core struct {
	cfg      *config.Config
	store    *store.Store
	tasks    *pomodoro.TaskStore
	sessions *pomodoro.SessionLog
	settings *pomodoro.SettingsStore
	logs     io.Closer
}

// openCore loads configuration, installs logging and opens the database.
func openCore(flags *globalFlags) (*core, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.dbPath != "" {
		cfg.DBPath = flags.dbPath
	}

	logs, err := config.SetupLogging(cfg.Log)
	if err != nil {
		return nil, err
	}

	s, err := store.New(cfg.DBPath)
	if err != nil {
		logs.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	c := &core{cfg: cfg, store: s, logs: logs}
	if err := c.load(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *core) load() error {
	tasks, err := c.store.LoadTasks()
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	sessions, err := c.store.LoadSessions()
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}
	settings, err := c.store.LoadSettings()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	c.tasks = pomodoro.NewTaskStore(tasks, c.store)
	c.sessions = pomodoro.NewSessionLog(sessions, c.store)
	c.settings = pomodoro.NewSettingsStore(settings, c.store)
	return nil
}

func (c *core) Close() error {
	err := c.store.Close()
	c.logs.Close()
	return err
}

func runTUI(flags *globalFlags) error {
	c, err := openCore(flags)
	if err != nil {
		return err
	}
	defer c.Close()

	// The bell goes to stderr so it never interleaves with rendered frames.
	player := sound.NewPlayer(sound.Options{
		Command:   c.cfg.Sound.Command,
		WorkFile:  c.cfg.Sound.WorkFile,
		BreakFile: c.cfg.Sound.BreakFile,
	}, os.Stderr)
	timer := pomodoro.NewTimer(c.settings.Get(), c.tasks, c.sessions, pomodoro.WithPlayer(player))

	app := tui.NewApp(tui.Deps{
		Timer:    timer,
		Tasks:    c.tasks,
		Sessions: c.sessions,
		Settings: c.settings,
		Suggest:  suggest.NewClient(c.cfg.Suggest.Endpoint, c.cfg.Suggest.Timeout),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
