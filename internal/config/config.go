// ABOUTME: Configuration loading for stillwater
// ABOUTME: Layers defaults, the YAML config file, STILLWATER_* env vars and flags via viper
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/stillwater-audio/stillwater-go/pkg/audio"
	"github.com/stillwater-audio/stillwater-go/pkg/soundscape"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

// Backend names
const (
	BackendOto  = "oto"
	BackendNone = "none"
)

// EnvPrefix is the prefix for environment overrides, e.g. STILLWATER_VOLUME
const EnvPrefix = "STILLWATER"

// Config holds all configuration options for stillwater.
type Config struct {
	Backend      string       `mapstructure:"backend" yaml:"backend"`
	SampleRate   int          `mapstructure:"sample_rate" yaml:"sample_rate"`
	Preset       string       `mapstructure:"preset" yaml:"preset"`
	Volume       float64      `mapstructure:"volume" yaml:"volume"`
	FocusMinutes int          `mapstructure:"focus_minutes" yaml:"focus_minutes"`
	LogFile      string       `mapstructure:"log_file" yaml:"log_file"`
	Debug        bool         `mapstructure:"debug" yaml:"debug"`
	Remote       RemoteConfig `mapstructure:"remote" yaml:"remote"`
}

// RemoteConfig holds the remote-control server options.
type RemoteConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port" yaml:"port"`
	Name    string `mapstructure:"name" yaml:"name"`
	MDNS    bool   `mapstructure:"mdns" yaml:"mdns"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Backend:      BackendOto,
		SampleRate:   audio.DefaultSampleRate,
		Preset:       "rain",
		Volume:       0.5,
		FocusMinutes: 25,
		LogFile:      "stillwater.log",
		Remote: RemoteConfig{
			Port: 8928,
			Name: "Stillwater",
			MDNS: true,
		},
	}
}

// SetDefaults registers every key with its default so env vars and flags
// can override keys that are missing from the file.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("backend", d.Backend)
	v.SetDefault("sample_rate", d.SampleRate)
	v.SetDefault("preset", d.Preset)
	v.SetDefault("volume", d.Volume)
	v.SetDefault("focus_minutes", d.FocusMinutes)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("remote.enabled", d.Remote.Enabled)
	v.SetDefault("remote.port", d.Remote.Port)
	v.SetDefault("remote.name", d.Remote.Name)
	v.SetDefault("remote.mdns", d.Remote.MDNS)
}

// DefaultPath returns ~/.config/stillwater/config.yaml (or the platform's
// equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "stillwater", "config.yaml")
}

// Load reads configuration into v and decodes it. An explicit path must exist;
// without one, a missing default file just means defaults.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !(errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	return Decode(v)
}

// Decode unmarshals and validates the current contents of v
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and names
func (c Config) Validate() error {
	switch c.Backend {
	case BackendOto, BackendNone:
	default:
		return fmt.Errorf("%w: backend %q (want %s or %s)", ErrInvalid, c.Backend, BackendOto, BackendNone)
	}

	if c.SampleRate < 8000 || c.SampleRate > 192000 {
		return fmt.Errorf("%w: sample_rate %d out of range", ErrInvalid, c.SampleRate)
	}

	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("%w: volume %v out of range 0-1", ErrInvalid, c.Volume)
	}

	if c.FocusMinutes <= 0 {
		return fmt.Errorf("%w: focus_minutes must be positive", ErrInvalid)
	}

	if !strings.HasPrefix(c.Preset, soundscape.FilePrefix) {
		if _, ok := soundscape.LookupPreset(c.Preset); !ok {
			return fmt.Errorf("%w: unknown preset %q", ErrInvalid, c.Preset)
		}
	}

	if c.Remote.Port <= 0 || c.Remote.Port > 65535 {
		return fmt.Errorf("%w: remote.port %d out of range", ErrInvalid, c.Remote.Port)
	}

	return nil
}

// Marshal renders the config as YAML
func Marshal(c Config) ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}

// WriteDefault creates a config file with default settings. An existing file
// is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := Marshal(Defaults())
	if err != nil {
		return err
	}

	header := "# Stillwater configuration\n# Presets: rain, wind, forest, night, or file:/path/to/loop.mp3\n\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Watch calls onChange with the re-decoded config whenever the file changes.
// Edits that fail validation are logged and skipped.
func Watch(v *viper.Viper, onChange func(Config, fsnotify.Event)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := Decode(v)
		if err != nil {
			log.Printf("Ignoring config change (%s): %v", e.Name, err)
			return
		}
		log.Printf("Config reloaded: %s", e.Name)
		onChange(cfg, e)
	})
	v.WatchConfig()
}
