package internal

import (
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Vault  VaultConfig       `yaml:"vault"`
	Output OutputConfig      `yaml:"output"`
	Site   SiteConfig        `yaml:"site"`
	Pages  []string          `yaml:"pages"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	if err := c.Site.Validate(); err != nil {
		return err
	}
	if len(c.Pages) == 0 {
		return fmt.Errorf("pages: at least one page must be listed")
	}
	for _, p := range c.Pages {
		if !strings.HasSuffix(p, ".md") {
			return fmt.Errorf("pages: %q must end with .md", p)
		}
	}
	return c.SQLite.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds the preview server configuration (serve mode only).
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the preview server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// VaultConfig holds the source Markdown vault location.
type VaultConfig struct {
	Path string `yaml:"path"`
	// AttachmentsDir is the subdirectory tried first when resolving assets.
	AttachmentsDir string `yaml:"attachments_dir"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	if c.AttachmentsDir == "" {
		c.AttachmentsDir = "attachments"
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// OutputConfig holds the generated site destination.
type OutputConfig struct {
	Path string `yaml:"path"`
	// Clean recreates the output directory before generation.
	Clean bool `yaml:"clean"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SiteConfig holds site and feed metadata.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	URL         string `yaml:"url"`
	Logo        string `yaml:"logo"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Title, validation.Required),
		validation.Field(&c.URL, validation.Required, is.URL),
		validation.Field(&c.AuthorEmail, is.Email),
	)
}

// SQLiteConfig holds the serve-mode search index location.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Vault: VaultConfig{
			Path:           "./vault",
			AttachmentsDir: "attachments",
		},
		Output: OutputConfig{
			Path: "./public",
		},
		Site: SiteConfig{
			Title: "Dagaz site",
			URL:   "http://localhost:8080",
		},
		SQLite: SQLiteConfig{
			Path: "./dagaz.db",
		},
	}
}
