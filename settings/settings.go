package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Settings is the contents of a controller settings file.
type Settings struct {
	// Client is the name of the client the controller runs in. It decides the position adjust
	// applied to the host transform.
	Client     string     `toml:"client" yaml:"client"`
	Tuning     Tuning     `toml:"tuning" yaml:"tuning"`
	Locomotion Locomotion `toml:"locomotion" yaml:"locomotion"`
	Modifiers  Modifiers  `toml:"modifiers" yaml:"modifiers"`
	Logging    struct {
		// Level is a logrus level name.
		Level string `toml:"level" yaml:"level"`
		// Debug lists the debug modes to trace, such as "ground" or "jump".
		Debug []string `toml:"debug" yaml:"debug"`
	} `toml:"logging" yaml:"logging"`
	Sentry struct {
		DSN         string `toml:"dsn" yaml:"dsn"`
		Environment string `toml:"environment" yaml:"environment"`
	} `toml:"sentry" yaml:"sentry"`
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	s := Settings{Client: ClientBevyExplorer, Tuning: DefaultTuning()}
	s.Logging.Level = logrus.InfoLevel.String()
	s.Logging.Debug = []string{}
	s.Sentry.Environment = "development"
	return s
}

// LogLevel parses the configured log level, falling back to info when it is empty.
func (s Settings) LogLevel() (logrus.Level, error) {
	if s.Logging.Level == "" {
		return logrus.InfoLevel, nil
	}
	return logrus.ParseLevel(s.Logging.Level)
}

// SaveDefault will create and save the default settings file. The format is chosen by the file
// extension. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("settings file %s already exists", path)
	}
	data, err := encode(path, DefaultSettings())
	if err != nil {
		return fmt.Errorf("failed encoding default settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed creating settings file: %w", err)
	}
	return nil
}

// Load will load the settings from a TOML or YAML settings file. Values missing from the file keep
// their defaults.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("error reading settings: %w", err)
	}

	s := DefaultSettings()
	switch format(path) {
	case formatTOML:
		err = toml.Unmarshal(data, &s)
	case formatYAML:
		err = yaml.Unmarshal(data, &s)
	default:
		return Settings{}, fmt.Errorf("unsupported settings file extension %q", filepath.Ext(path))
	}
	if err != nil {
		return Settings{}, fmt.Errorf("error decoding settings %s: %w", path, err)
	}
	if _, err := s.LogLevel(); err != nil {
		return Settings{}, fmt.Errorf("error decoding settings %s: %w", path, err)
	}
	return s, nil
}

const (
	formatUnknown = iota
	formatTOML
	formatYAML
)

func format(path string) int {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return formatTOML
	case ".yaml", ".yml":
		return formatYAML
	}
	return formatUnknown
}

func encode(path string, s Settings) ([]byte, error) {
	switch format(path) {
	case formatTOML:
		return toml.Marshal(s)
	case formatYAML:
		return yaml.Marshal(s)
	}
	return nil, fmt.Errorf("unsupported settings file extension %q", filepath.Ext(path))
}
