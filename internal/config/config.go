package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// AppDirName is the per-user directory holding the config, history and preferences
const AppDirName = "NoPrints"

// Config is the resolved runtime configuration
type Config struct {
	History  HistoryConfig  `mapstructure:"history"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	Security SecurityConfig `mapstructure:"security"`
	Prefs    PrefsConfig    `mapstructure:"prefs"`
	Scan     ScanConfig     `mapstructure:"scan"`
	LogLevel string         `mapstructure:"log_level"`
}

type HistoryConfig struct {
	Capacity       int    `mapstructure:"capacity"`
	PersistLimit   int    `mapstructure:"persist_limit"`
	File           string `mapstructure:"file"`
	KeyringService string `mapstructure:"keyring_service"`
	KeyringAccount string `mapstructure:"keyring_account"`
}

type MonitorConfig struct {
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	SweepSchedule string        `mapstructure:"sweep_schedule"`
}

type SecurityConfig struct {
	ExcludedApps []string `mapstructure:"excluded_apps"`
}

type PrefsConfig struct {
	File string `mapstructure:"file"`
}

type ScanConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// Defaults returns the default value of every configuration key
func Defaults() map[string]any {
	return map[string]any{
		"history.capacity":        50,
		"history.persist_limit":   20,
		"history.file":            "",
		"history.keyring_service": "NoPrints",
		"history.keyring_account": "encryption_key",
		"monitor.poll_interval":   "100ms",
		"monitor.sweep_schedule":  "@every 5s",
		"security.excluded_apps":  []string{},
		"prefs.file":              "",
		"log_level":               "info",
		"scan.max_file_size_mb":   10,
	}
}

// Dir returns the per-user application directory
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	return filepath.Join(base, AppDirName), nil
}

// Path returns the default location of noprints.yaml
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "noprints.yaml"), nil
}

// Load resolves the configuration from defaults, noprints.yaml (explicitPath,
// the user config dir or the working directory), NOPRINTS_* environment
// variables and the command's --log-level flag, in increasing precedence.
func Load(cmd *cobra.Command, explicitPath string) (Config, error) {
	var c Config
	v := viper.New()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetConfigName("noprints")
	v.SetConfigType("yaml")
	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	}
	if dir, err := Dir(); err == nil {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicitPath != "" || !errors.As(err, &notFound) {
			return c, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("noprints")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		if f := cmd.Flags().Lookup("log-level"); f != nil {
			if err := v.BindPFlag("log_level", f); err != nil {
				return c, err
			}
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}
	if err := c.resolvePaths(); err != nil {
		return c, err
	}
	return c, c.Validate()
}

func (c *Config) resolvePaths() error {
	if c.History.File != "" && c.Prefs.File != "" {
		return nil
	}
	dir, err := Dir()
	if err != nil {
		return err
	}
	if c.History.File == "" {
		c.History.File = filepath.Join(dir, "history.enc")
	}
	if c.Prefs.File == "" {
		c.Prefs.File = filepath.Join(dir, "prefs.yaml")
	}
	return nil
}

// Validate rejects values the monitor and store cannot run with
func (c Config) Validate() error {
	switch {
	case c.History.Capacity <= 0:
		return fmt.Errorf("history.capacity must be positive, got %d", c.History.Capacity)
	case c.History.PersistLimit <= 0:
		return fmt.Errorf("history.persist_limit must be positive, got %d", c.History.PersistLimit)
	case c.Monitor.PollInterval <= 0:
		return fmt.Errorf("monitor.poll_interval must be positive, got %s", c.Monitor.PollInterval)
	case strings.TrimSpace(c.Monitor.SweepSchedule) == "":
		return errors.New("monitor.sweep_schedule must not be empty")
	case c.Scan.MaxFileSizeMB <= 0:
		return fmt.Errorf("scan.max_file_size_mb must be positive, got %d", c.Scan.MaxFileSizeMB)
	}
	return nil
}

// WriteConfigFile writes values, keyed by dotted path, as nested YAML to path.
// An empty path writes to the default location.
func WriteConfigFile(path string, values map[string]any) (string, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return "", err
		}
		path = p
	}

	data, err := yaml.Marshal(nest(values))
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("could not create config directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// nest turns {"a.b": 1} into {"a": {"b": 1}}
func nest(flat map[string]any) map[string]any {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]any)
	for _, k := range keys {
		parts := strings.Split(k, ".")
		m := out
		for _, p := range parts[:len(parts)-1] {
			child, ok := m[p].(map[string]any)
			if !ok {
				child = make(map[string]any)
				m[p] = child
			}
			m = child
		}
		m[parts[len(parts)-1]] = flat[k]
	}
	return out
}
