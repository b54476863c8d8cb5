// internal/adapters/in/cli/config.go
package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the storefront CLI configuration.
type Config struct {
	APIURL      string        `mapstructure:"api_url"`
	SessionFile string        `mapstructure:"session_file"`
	LogFile     string        `mapstructure:"log_file"`
	ResetDelay  time.Duration `mapstructure:"reset_delay"`
}

const configDir = ".storefront"

// DefaultConfig keeps everything under ~/.storefront.
func DefaultConfig(home string) *Config {
	return &Config{
		APIURL:      "http://localhost:8080",
		SessionFile: filepath.Join(home, configDir, "session.json"),
		LogFile:     filepath.Join(home, configDir, "storefront.log"),
		ResetDelay:  500 * time.Millisecond,
	}
}

// LoadConfig merges ~/.storefront/config.yaml, then ./.storefront/config.yaml,
// then STOREFRONT_API_URL.
func LoadConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	cfg := DefaultConfig(home)

	if err := loadFile(filepath.Join(home, configDir, "config.yaml"), cfg); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if cwd, err := os.Getwd(); err == nil {
		if err := loadFile(filepath.Join(cwd, configDir, "config.yaml"), cfg); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	if v := strings.TrimSpace(os.Getenv("STOREFRONT_API_URL")); v != "" {
		cfg.APIURL = v
	}
	cfg.SessionFile = expandHome(cfg.SessionFile, home)
	cfg.LogFile = expandHome(cfg.LogFile, home)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return v.Unmarshal(cfg)
}

func expandHome(p, home string) string {
	if p == "~" {
		return home
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(home, p[2:])
	}
	return p
}
