// ABOUTME: Application settings loaded from voicepool.yaml, environment and flags
// ABOUTME: Read once at startup with viper; VOICEPOOL_* variables override the file
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Resonate-Protocol/voicepool-go/pkg/voice"
)

// EnvPrefix prefixes environment overrides, e.g. VOICEPOOL_SOURCEPOOLSIZE
const EnvPrefix = "VOICEPOOL"

// Settings is the full application configuration
type Settings struct {
	SourcePoolSize int  `mapstructure:"sourcePoolSize"`
	AutoInitialize bool `mapstructure:"autoInitialize"`

	Backend       string        `mapstructure:"backend"`
	SampleRate    int           `mapstructure:"sampleRate"`
	Channels      int           `mapstructure:"channels"`
	SweepInterval time.Duration `mapstructure:"sweepInterval"`
	TickInterval  time.Duration `mapstructure:"tickInterval"`

	AssetRoot  string `mapstructure:"assetRoot"`
	Manifest   string `mapstructure:"manifest"`
	EventsAddr string `mapstructure:"eventsAddr"`
	Advertise  bool   `mapstructure:"advertise"`

	LogFile  string `mapstructure:"logFile"`
	LogLevel string `mapstructure:"logLevel"`
}

// flagKeys maps command line flag names to setting keys
var flagKeys = map[string]string{
	"pool-size":      "sourcePoolSize",
	"backend":        "backend",
	"sample-rate":    "sampleRate",
	"assets":         "assetRoot",
	"manifest":       "manifest",
	"events-addr":    "eventsAddr",
	"advertise":      "advertise",
	"log-file":       "logFile",
	"log-level":      "logLevel",
	"sweep-interval": "sweepInterval",
}

func setDefaults(v *viper.Viper) {
	def := voice.DefaultConfig()
	v.SetDefault("sourcePoolSize", def.SourcePoolSize)
	v.SetDefault("autoInitialize", def.AutoInitialize)
	v.SetDefault("backend", "oto")
	v.SetDefault("sampleRate", 48000)
	v.SetDefault("channels", 2)
	v.SetDefault("sweepInterval", 10*time.Millisecond)
	v.SetDefault("tickInterval", 20*time.Millisecond)
	v.SetDefault("assetRoot", "assets")
	v.SetDefault("manifest", "")
	v.SetDefault("eventsAddr", "")
	v.SetDefault("advertise", false)
	v.SetDefault("logFile", "voicepool.log")
	v.SetDefault("logLevel", "info")
}

// Load reads settings. An empty path searches for voicepool.yaml in the
// working directory and $HOME/.config/voicepool; a missing file there is not
// an error. Flags present in flags override file and environment values.
func Load(path string, flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("voicepool")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "voicepool"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks value ranges
func (s *Settings) Validate() error {
	if err := s.Pool().Validate(); err != nil {
		return err
	}
	if s.SampleRate <= 0 {
		return fmt.Errorf("sampleRate must be positive, got %d", s.SampleRate)
	}
	if s.Channels != 1 && s.Channels != 2 {
		return fmt.Errorf("channels must be 1 or 2, got %d", s.Channels)
	}
	if _, err := s.Level(); err != nil {
		return err
	}
	return nil
}

// Pool returns the voice pool portion of the settings
func (s *Settings) Pool() voice.Config {
	return voice.Config{
		SourcePoolSize: s.SourcePoolSize,
		AutoInitialize: s.AutoInitialize,
	}
}

// Level parses LogLevel
func (s *Settings) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid logLevel %q: %w", s.LogLevel, err)
	}
	return level, nil
}
