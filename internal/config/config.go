package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	LogLevel string       `mapstructure:"log_level"`
	API      APIConfig    `mapstructure:"api"`
	Paths    PathsConfig  `mapstructure:"paths"`
	Server   ServerConfig `mapstructure:"server"`
	Studio   StudioConfig `mapstructure:"studio"`
}

type APIConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Key      string `mapstructure:"key"`
	Timeout  int    `mapstructure:"timeout"`
}

type PathsConfig struct {
	StateDir    string `mapstructure:"state_dir"`
	CatalogPath string `mapstructure:"catalog_path"`
}

type ServerConfig struct {
	ListenAddr      string `mapstructure:"listen_addr"`
	MaxTextBytes    int    `mapstructure:"max_text_bytes"`
	RequestTimeout  int    `mapstructure:"request_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
	Workers         int    `mapstructure:"workers"`
}

type StudioConfig struct {
	Voice        string `mapstructure:"voice"`
	Language     string `mapstructure:"language"`
	HistoryLimit int    `mapstructure:"history_limit"`
	Playback     string `mapstructure:"playback"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		API: APIConfig{
			Endpoint: "",
			Key:      "",
			Timeout:  60,
		},
		Paths: PathsConfig{
			StateDir:    "",
			CatalogPath: "",
		},
		Server: ServerConfig{
			ListenAddr:      ":8080",
			MaxTextBytes:    8192,
			RequestTimeout:  90,
			ShutdownTimeout: 30,
			Workers:         2,
		},
		Studio: StudioConfig{
			Voice:        "zephyr",
			Language:     "en-US",
			HistoryLimit: 50,
			Playback:     PlaybackPortAudio,
		},
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
	fs.String("api-endpoint", defaults.API.Endpoint, "Remote speech API endpoint URL")
	fs.String("api-key", defaults.API.Key, "Remote speech API key")
	fs.Int("api-timeout", defaults.API.Timeout, "Per-call synthesis timeout in seconds (0 disables)")
	fs.String("paths-state-dir", defaults.Paths.StateDir, "Directory for persisted studio state")
	fs.String("paths-catalog-path", defaults.Paths.CatalogPath, "Optional voice/language catalog manifest (JSON)")
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int("server-max-text-bytes", defaults.Server.MaxTextBytes, "Maximum script size in bytes")
	fs.Int("server-request-timeout", defaults.Server.RequestTimeout, "Per-request deadline in seconds")
	fs.Int("server-shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown drain period in seconds")
	fs.Int("server-workers", defaults.Server.Workers, "Max concurrent synthesis requests")
	fs.String("studio-voice", defaults.Studio.Voice, "Default voice persona")
	fs.String("studio-language", defaults.Studio.Language, "Default language code")
	fs.Int("studio-history-limit", defaults.Studio.HistoryLimit, "Archive capacity in entries")
	fs.String("studio-playback", defaults.Studio.Playback, "Playback output (portaudio|none)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := v.BindPFlags(opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}
	registerAliases(v)

	v.SetEnvPrefix("SPEECHIFY")
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	if err := v.BindEnv("api.key", "SPEECHIFY_API_KEY", "SPEECH_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("bind api key env vars: %w", err)
	}
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("speechify")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

// ResolveStateDir returns the configured state directory, defaulting to
// <user config dir>/speechify.
func (c Config) ResolveStateDir() (string, error) {
	if c.Paths.StateDir != "" {
		return c.Paths.StateDir, nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve state dir: %w", err)
	}
	return filepath.Join(base, "speechify"), nil
}

// HistoryPath returns the location of the persisted history snapshot.
func (c Config) HistoryPath() (string, error) {
	dir, err := c.ResolveStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.json"), nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("api.endpoint", c.API.Endpoint)
	v.SetDefault("api.key", c.API.Key)
	v.SetDefault("api.timeout", c.API.Timeout)
	v.SetDefault("paths.state_dir", c.Paths.StateDir)
	v.SetDefault("paths.catalog_path", c.Paths.CatalogPath)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.max_text_bytes", c.Server.MaxTextBytes)
	v.SetDefault("server.request_timeout", c.Server.RequestTimeout)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
	v.SetDefault("server.workers", c.Server.Workers)
	v.SetDefault("studio.voice", c.Studio.Voice)
	v.SetDefault("studio.language", c.Studio.Language)
	v.SetDefault("studio.history_limit", c.Studio.HistoryLimit)
	v.SetDefault("studio.playback", c.Studio.Playback)
}

func registerAliases(v *viper.Viper) {
	v.RegisterAlias("log_level", "log-level")
	v.RegisterAlias("api.endpoint", "api-endpoint")
	v.RegisterAlias("api.key", "api-key")
	v.RegisterAlias("api.timeout", "api-timeout")
	v.RegisterAlias("paths.state_dir", "paths-state-dir")
	v.RegisterAlias("paths.catalog_path", "paths-catalog-path")
	v.RegisterAlias("server.listen_addr", "server-listen-addr")
	v.RegisterAlias("server.max_text_bytes", "server-max-text-bytes")
	v.RegisterAlias("server.request_timeout", "server-request-timeout")
	v.RegisterAlias("server.shutdown_timeout", "server-shutdown-timeout")
	v.RegisterAlias("server.workers", "server-workers")
	v.RegisterAlias("studio.voice", "studio-voice")
	v.RegisterAlias("studio.language", "studio-language")
	v.RegisterAlias("studio.history_limit", "studio-history-limit")
	v.RegisterAlias("studio.playback", "studio-playback")
}
