// Package config loads and validates the site configuration.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// Config represents the application configuration
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Output  OutputConfig  `yaml:"output"`
	Build   BuildConfig   `yaml:"build"`
	Server  ServerConfig  `yaml:"server"`
}

// SiteConfig holds site-wide presentation settings
type SiteConfig struct {
	Title         string `yaml:"title"`
	BaseURL       string `yaml:"base_url,omitempty"`
	DefaultLayout string `yaml:"default_layout,omitempty"`
}

// ContentConfig locates the source trees
type ContentConfig struct {
	Dir        string `yaml:"dir"`
	LayoutsDir string `yaml:"layouts_dir,omitempty"`
	StaticDir  string `yaml:"static_dir,omitempty"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// BuildConfig holds build-time switches
type BuildConfig struct {
	IncludeDrafts bool `yaml:"include_drafts"`
}

// ServerConfig holds the static server settings
type ServerConfig struct {
	Listen  string `yaml:"listen"`
	Metrics bool   `yaml:"metrics"`
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists; absence is not an error.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Note: .env file couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, serrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied, used when no
// config file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = "My Site"
	}
	if c.Site.DefaultLayout == "" {
		c.Site.DefaultLayout = "single"
	}
	if c.Content.Dir == "" {
		c.Content.Dir = "content"
	}
	if c.Content.LayoutsDir == "" {
		c.Content.LayoutsDir = "layouts"
	}
	if c.Content.StaticDir == "" {
		c.Content.StaticDir = "static"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "public"
	}
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
}

// Validate checks settings that would otherwise fail deep inside a build.
func (c *Config) Validate() error {
	if c.Content.Dir == "" {
		return serrors.ValidationFailed("content.dir", "must not be empty")
	}
	if c.Output.Dir == "" {
		return serrors.ValidationFailed("output.dir", "must not be empty")
	}
	if c.Output.Dir == c.Content.Dir {
		return serrors.ValidationFailed("output.dir", "must differ from content.dir")
	}
	return nil
}
