package internal

import (
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Scan    ScanConfig        `yaml:"scan"`
	Journal JournalConfig     `yaml:"journal"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Scan.Validate(); err != nil {
		return err
	}
	return c.Journal.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// ScanConfig controls how documents and their asset directories are located.
type ScanConfig struct {
	// MarkdownExtension identifies documents, matched case-insensitively
	// against file names (e.g. ".md").
	MarkdownExtension string `yaml:"markdown_extension"`
	// AssetSuffix is appended to a document path, sans extension, to derive
	// its asset directory (e.g. ".assets": report.md -> report.assets).
	AssetSuffix string `yaml:"asset_suffix"`
}

// Validate validates the scan configuration.
func (c *ScanConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MarkdownExtension, validation.Required,
			validation.By(mustStartWithDot)),
		validation.Field(&c.AssetSuffix, validation.Required,
			validation.By(mustStartWithDot)),
	)
}

func mustStartWithDot(value interface{}) error {
	s, _ := value.(string)
	if !strings.HasPrefix(s, ".") {
		return validation.NewError("validation_dot_prefix", "must start with a dot")
	}
	return nil
}

// JournalConfig holds the optional deletion journal configuration.
//
// Path is the SQLite database file recording every run and deletion.
// An empty path disables journaling entirely.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the journal configuration.
func (c *JournalConfig) Validate() error {
	return nil
}

// Enabled reports whether a journal database is configured.
func (c *JournalConfig) Enabled() bool {
	return c.Path != ""
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Scan: ScanConfig{
			MarkdownExtension: ".md",
			AssetSuffix:       ".assets",
		},
		Journal: JournalConfig{
			Path: "",
		},
	}
}
