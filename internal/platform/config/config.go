package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DataDir  string         `mapstructure:"data_dir"`
	Timezone string         `mapstructure:"timezone"`
	Log      LogConfig      `mapstructure:"log"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Server   ServerConfig   `mapstructure:"server"`
	Location *time.Location `mapstructure:"-"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type RemoteConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SyncConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type ServerConfig struct {
	Addr   string `mapstructure:"addr"`
	DBPath string `mapstructure:"db_path"`
}

// Options carries values that come from the command line. Empty fields do
// not override the file or environment.
type Options struct {
	DataDir    string
	ConfigFile string
	Overrides  map[string]any
}

func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".flowmodoro"
	}
	return filepath.Join(home, ".flowmodoro")
}

// Load resolves configuration from defaults, an optional YAML file,
// FLOWMODORO_* environment variables and command-line overrides, in that
// order of precedence (last wins).
func Load(opts Options) (Config, error) {
	v := viper.New()
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("timezone", "Local")
	v.SetDefault("log.level", "info")
	v.SetDefault("remote.base_url", "http://127.0.0.1:3001/api")
	v.SetDefault("remote.timeout", 5*time.Second)
	v.SetDefault("sync.interval", time.Minute)
	v.SetDefault("server.addr", ":3001")
	v.SetDefault("server.db_path", "")

	v.SetEnvPrefix("FLOWMODORO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.DataDir != "" {
		v.Set("data_dir", opts.DataDir)
	}

	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = filepath.Join(v.GetString("data_dir"), "config.yaml")
	}
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if opts.ConfigFile != "" || !isNotExist(err) {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}
	if opts.DataDir != "" {
		v.Set("data_dir", opts.DataDir)
	}
	for key, value := range opts.Overrides {
		v.Set(key, value)
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	if cfg.Server.DBPath == "" {
		cfg.Server.DBPath = filepath.Join(cfg.DataDir, "server", "flowmodoro.db")
	}
	if cfg.Remote.Timeout <= 0 {
		return Config{}, fmt.Errorf("remote timeout must be positive")
	}
	if cfg.Sync.Interval <= 0 {
		return Config{}, fmt.Errorf("sync interval must be positive")
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return Config{}, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc
	return cfg, nil
}

func (c Config) SessionsPath() string {
	return filepath.Join(c.DataDir, "sessions.v1.json")
}

func (c Config) SettingsPath() string {
	return filepath.Join(c.DataDir, "settings.v1.yaml")
}

func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, "flowmodoro.log")
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}
