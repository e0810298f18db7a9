package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const DefaultConfigFileName = "config.toml"

// Config holds the user-tunable settings. Missing fields fall back to
// the defaults when the file is read. An empty DBPath means the
// standard database location; the caller resolves it.
type Config struct {
	DBPath            string `toml:"db_path"`
	WorkMinutes       int    `toml:"work_minutes"`
	ShortBreakMinutes int    `toml:"short_break_minutes"`
	LongBreakMinutes  int    `toml:"long_break_minutes"`
	UTCOffsetHours    int    `toml:"utc_offset_hours"`
}

// Location returns the fixed zone used for day boundaries.
func (c Config) Location() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", c.UTCOffsetHours), c.UTCOffsetHours*3600)
}

// DefaultPath returns the config file under the user config dir,
// typically ~/.config/pomodo/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "pomodo", DefaultConfigFileName), nil
}

// LoadOrCreate reads the config at path, writing the defaults there
// first if no file exists yet.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.WorkMinutes <= 0 {
		cfg.WorkMinutes = defaultConfig().WorkMinutes
	}
	if cfg.ShortBreakMinutes <= 0 {
		cfg.ShortBreakMinutes = defaultConfig().ShortBreakMinutes
	}
	if cfg.LongBreakMinutes <= 0 {
		cfg.LongBreakMinutes = defaultConfig().LongBreakMinutes
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		WorkMinutes:       25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
		UTCOffsetHours:    9,
	}
}
