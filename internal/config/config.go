package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const envPrefix = "FOCUSFLOW"

// Config holds process-level configuration. User preferences such as timer
// durations are not here; they live in the persisted settings document.
type Config struct {
	DataDir string        `yaml:"data_dir" mapstructure:"data_dir"`
	DBPath  string        `yaml:"db_path" mapstructure:"db_path"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Suggest SuggestConfig `yaml:"suggest" mapstructure:"suggest"`
	Sound   SoundConfig   `yaml:"sound" mapstructure:"sound"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Output string `yaml:"output" mapstructure:"output"`
	File   string `yaml:"file" mapstructure:"file"`
}

// SuggestConfig points at the break-suggestion service. An empty endpoint
// means suggestions always come from the local list.
type SuggestConfig struct {
	Endpoint string        `yaml:"endpoint" mapstructure:"endpoint"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// SoundConfig configures completion sounds. Without a command only the
// terminal bell is used.
type SoundConfig struct {
	Command   string `yaml:"command" mapstructure:"command"`
	WorkFile  string `yaml:"work_file" mapstructure:"work_file"`
	BreakFile string `yaml:"break_file" mapstructure:"break_file"`
}

// DefaultDataDir returns ~/.config/focusflow
func DefaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".focusflow"
	}
	return filepath.Join(dir, "focusflow")
}

// DefaultPath is where Load looks when no explicit file is given.
func DefaultPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	dataDir := DefaultDataDir()
	return &Config{
		DataDir: dataDir,
		DBPath:  filepath.Join(dataDir, "focusflow.db"),
		Log: LogConfig{
			Level:  "info",
			Output: OutputFile,
			File:   filepath.Join(dataDir, "focusflow.log"),
		},
		Suggest: SuggestConfig{
			Timeout: 8 * time.Second,
		},
	}
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("db_path", "")
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.output", d.Log.Output)
	v.SetDefault("log.file", "")
	v.SetDefault("suggest.endpoint", d.Suggest.Endpoint)
	v.SetDefault("suggest.timeout", d.Suggest.Timeout)
	v.SetDefault("sound.command", "")
	v.SetDefault("sound.work_file", "")
	v.SetDefault("sound.break_file", "")
}

// Load reads path (or DefaultPath when empty) and applies FOCUSFLOW_*
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WithMessagef(err, "read config file %s", path)
		}
	} else if explicit {
		return nil, errors.WithMessagef(err, "config file %s", path)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WithMessagef(err, "decode config %s", path)
	}
	cfg.fill()
	return cfg, nil
}

// fill derives paths that default relative to DataDir.
func (c *Config) fill() {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir()
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "focusflow.db")
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(c.DataDir, "focusflow.log")
	}
	if c.Suggest.Timeout <= 0 {
		c.Suggest.Timeout = 8 * time.Second
	}
}

const fileHeader = `# focusflow configuration
#
# Timer durations and the sound toggle are edited inside the app (Settings
# tab); this file only configures where data lives and external services.
# Every key can be overridden with FOCUSFLOW_<KEY>, e.g. FOCUSFLOW_SUGGEST_ENDPOINT.

`

// WriteDefault writes a commented default configuration to path. Existing
// files are only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.Errorf("config file %s already exists", path)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return errors.Wrap(err, "encode default config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create config directory")
	}
	if err := os.WriteFile(path, append([]byte(fileHeader), data...), 0o644); err != nil {
		return errors.Wrapf(err, "write config file %s", path)
	}
	return nil
}
