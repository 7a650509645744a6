package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/ryanm101/gameswiki/internal/logging"
	"github.com/ryanm101/gameswiki/internal/wiki"
)

const (
	defaultDisplayLimit = 15
	defaultPort         = "8080"
)

// Config holds application configuration.
type Config struct {
	DBPath         string         `yaml:"db_path" json:"db_path" env:"GAMESWIKI_DB"`
	SteamRoot      string         `yaml:"steam_root" json:"steam_root" env:"GAMESWIKI_STEAM_ROOT"`
	ExtraLibraries []string       `yaml:"extra_libraries" json:"extra_libraries,omitempty"`
	DefaultSite    string         `yaml:"default_site" json:"default_site" env:"GAMESWIKI_DEFAULT_SITE"`
	DisplayLimit   int            `yaml:"display_limit" json:"display_limit"`
	History        bool           `yaml:"history" json:"history" env:"GAMESWIKI_HISTORY"`
	WatchLibraries bool           `yaml:"watch_libraries" json:"watch_libraries"`
	BrowserCommand string         `yaml:"browser_command" json:"browser_command,omitempty" env:"GAMESWIKI_BROWSER"`
	Logging        logging.Config `yaml:"logging" json:"logging"`
	Web            WebConfig      `yaml:"web" json:"web"`
}

// WebConfig holds settings for the web panel.
type WebConfig struct {
	Port string `yaml:"port" json:"port" env:"GAMESWIKI_PORT"`
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		DBPath:       defaultDataPath("gameswiki.db"),
		SteamRoot:    DefaultSteamRoot(),
		DefaultSite:  wiki.DefaultSiteID,
		DisplayLimit: defaultDisplayLimit,
		History:      true,
		Logging:      logging.DefaultConfig(),
		Web:          WebConfig{Port: defaultPort},
	}
}

// DefaultSteamRoot returns the Steam installation path on Linux handhelds.
func DefaultSteamRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "Steam")
}

func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".local", "share", "gameswiki", name)
}

// configPaths returns the list of paths to search for config file.
func configPaths() []string {
	paths := []string{
		".gameswiki.yaml",
		".gameswiki.yml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "gameswiki", "config.yaml"),
			filepath.Join(home, ".config", "gameswiki", "config.yml"),
		)
	}

	return paths
}

// Load loads configuration from file or returns defaults.
// Priority: env GAMESWIKI_CONFIG > search paths > defaults; env overrides apply last.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if envPath := os.Getenv("GAMESWIKI_CONFIG"); envPath != "" {
		if err := cfg.loadFromFile(envPath); err != nil {
			return nil, err
		}
		return cfg, cfg.finish()
	}

	for _, path := range configPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := cfg.loadFromFile(path); err != nil {
				return nil, err
			}
			break
		}
	}

	return cfg, cfg.finish()
}

func (c *Config) finish() error {
	if err := c.applyEnvOverrides(); err != nil {
		return err
	}
	c.DBPath = ExpandHome(c.DBPath)
	c.SteamRoot = ExpandHome(c.SteamRoot)
	c.Logging.File = ExpandHome(c.Logging.File)
	for i, p := range c.ExtraLibraries {
		c.ExtraLibraries[i] = ExpandHome(p)
	}
	return nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // config path chosen by user
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	return nil
}

// GetDefaultSite returns the site selected at startup.
// Unknown ids are kept; they resolve to the default site when building URLs.
func (c *Config) GetDefaultSite() string {
	if c.DefaultSite != "" {
		return c.DefaultSite
	}
	return wiki.DefaultSiteID
}

// GetDisplayLimit returns how many games the panel lists.
func (c *Config) GetDisplayLimit() int {
	if c.DisplayLimit > 0 {
		return c.DisplayLimit
	}
	return defaultDisplayLimit
}

// GetPort returns the web panel port.
func (c *Config) GetPort() string {
	if c.Web.Port != "" {
		return c.Web.Port
	}
	return defaultPort
}

// ExampleYAML is written by "config init".
const ExampleYAML = `# GamesWiki configuration
db_path: ~/.local/share/gameswiki/gameswiki.db

# Steam installation; libraryfolders.vdf is read from <steam_root>/steamapps
steam_root: ~/.local/share/Steam
extra_libraries: []

# One of: pcgamingwiki, wikipedia, fandom, ign, metacritic, gamespot, steam, howlongtobeat
default_site: pcgamingwiki

display_limit: 15
history: true
watch_libraries: false

# Overrides the system browser, e.g. "firefox --new-tab"
browser_command: ""

logging:
  level: info   # debug, info, warn, error
  format: text  # text or json

web:
  port: "8080"
`

// WriteExample writes ExampleYAML to path, refusing to overwrite.
func WriteExample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	return os.WriteFile(path, []byte(ExampleYAML), 0o644) //nolint:gosec // config is not secret
}
