// Package config provides configuration loading and management for
// codeontology.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/codeontology/export"
)

// Config represents the complete codeontology configuration
type Config struct {
	Project    ProjectConfig    `yaml:"project"`
	Output     OutputConfig     `yaml:"output"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Classpath  ClasspathConfig  `yaml:"classpath"`
	NATS       NATSConfig       `yaml:"nats"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Watch      WatchConfig      `yaml:"watch"`
	Log        LogConfig        `yaml:"log"`
}

// ProjectConfig names the program being extracted
type ProjectConfig struct {
	// Name is the project entity name (default: the model's project name)
	Name string `yaml:"name"`
	// Model is the path to the resolved program model (JSON)
	Model string `yaml:"model"`
}

// OutputConfig configures where triples go
type OutputConfig struct {
	// Path is the RDF output file ("-" for stdout, empty to disable)
	Path string `yaml:"path"`
	// Format is ntriples or turtle (empty: picked from the path extension)
	Format string `yaml:"format"`
	// BaseIRI prefixes relative entity URIs
	BaseIRI string `yaml:"base_iri"`
	// SQLite is an optional triple store path
	SQLite string `yaml:"sqlite"`
	// FlushThreshold is the pending triple count that triggers a flush (0 disables)
	FlushThreshold int `yaml:"flush_threshold"`
}

// ExtractionConfig configures what is extracted
type ExtractionConfig struct {
	// DeclarationFacts emits comments, positions and source code (default: true)
	DeclarationFacts *bool `yaml:"declaration_facts"`
	// Explore extracts every class found in the classpath archives
	Explore bool `yaml:"explore"`
	// Structure runs the project and dependency pass
	Structure *bool `yaml:"structure"`
	// Include restricts explored classes to matching paths (doublestar over com/example/Foo)
	Include []string `yaml:"include"`
	// Exclude drops explored classes matching any pattern
	Exclude []string `yaml:"exclude"`
}

// ClasspathConfig configures binary introspection
type ClasspathConfig struct {
	// Archives are jar paths or doublestar globs
	Archives []string `yaml:"archives"`
	// CacheSize bounds the parsed class cache
	CacheSize int `yaml:"cache_size"`
}

// NATSConfig configures the NATS connection
type NATSConfig struct {
	// URL is the NATS server URL (empty = do not publish)
	URL string `yaml:"url"`
	// Subject receives entity payloads
	Subject string `yaml:"subject"`
}

// MetricsConfig configures the metrics textfile
type MetricsConfig struct {
	// File receives the Prometheus text exposition after each run
	File string `yaml:"file"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	// Debounce is the quiet period before a change triggers a run
	Debounce time.Duration `yaml:"debounce"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string `yaml:"level"`
}

// LogLevels are the accepted log levels.
var LogLevels = []string{"debug", "info", "warn", "error"}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Path:           "graph.nt",
			BaseIRI:        export.DefaultBaseIRI,
			FlushThreshold: 10000,
		},
		Extraction: ExtractionConfig{
			DeclarationFacts: Bool(true),
			Structure:        Bool(true),
		},
		Classpath: ClasspathConfig{
			CacheSize: 4096,
		},
		NATS: NATSConfig{
			Subject: "graph.ingest.entity",
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Enabled reads an optional flag, falling back to def when unset.
func Enabled(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Output.Path == "" && c.Output.SQLite == "" && c.NATS.URL == "" {
		return fmt.Errorf("one of output.path, output.sqlite or nats.url is required")
	}
	if c.Output.Format != "" {
		if _, err := export.ParseFormat(c.Output.Format); err != nil {
			return fmt.Errorf("output.format: %w", err)
		}
	}
	if c.Output.BaseIRI != "" && !strings.Contains(c.Output.BaseIRI, ":") {
		return fmt.Errorf("output.base_iri must be an absolute IRI, got %q", c.Output.BaseIRI)
	}
	if c.Output.FlushThreshold < 0 {
		return fmt.Errorf("output.flush_threshold must not be negative")
	}
	if c.Classpath.CacheSize <= 0 {
		return fmt.Errorf("classpath.cache_size must be positive")
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if !slices.Contains(LogLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("log.level must be one of %s", strings.Join(LogLevels, ", "))
	}
	for _, group := range []struct {
		key      string
		patterns []string
	}{
		{"classpath.archives", c.Classpath.Archives},
		{"extraction.include", c.Extraction.Include},
		{"extraction.exclude", c.Extraction.Exclude},
	} {
		for _, p := range group.patterns {
			if !doublestar.ValidatePattern(p) {
				return fmt.Errorf("%s: invalid pattern %q", group.key, p)
			}
		}
	}
	return nil
}

// Format resolves the output format from the configured name or the
// output path extension.
func (c *Config) Format() export.Format {
	if c.Output.Format != "" {
		if f, err := export.ParseFormat(c.Output.Format); err == nil {
			return f
		}
	}
	return export.FormatForPath(c.Output.Path)
}

// LoadFromFile loads configuration from a YAML file over the defaults
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := decodeFile(path, config); err != nil {
		return nil, err
	}
	return config, nil
}

// loadLayer reads a YAML file without defaults, so that Merge sees only
// the keys the file sets.
func loadLayer(path string) (*Config, error) {
	config := &Config{}
	if err := decodeFile(path, config); err != nil {
		return nil, err
	}
	return config, nil
}

func decodeFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Project
	if other.Project.Name != "" {
		c.Project.Name = other.Project.Name
	}
	if other.Project.Model != "" {
		c.Project.Model = other.Project.Model
	}

	// Output
	if other.Output.Path != "" {
		c.Output.Path = other.Output.Path
	}
	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
	if other.Output.BaseIRI != "" {
		c.Output.BaseIRI = other.Output.BaseIRI
	}
	if other.Output.SQLite != "" {
		c.Output.SQLite = other.Output.SQLite
	}
	if other.Output.FlushThreshold != 0 {
		c.Output.FlushThreshold = other.Output.FlushThreshold
	}

	// Extraction
	if other.Extraction.DeclarationFacts != nil {
		c.Extraction.DeclarationFacts = other.Extraction.DeclarationFacts
	}
	if other.Extraction.Structure != nil {
		c.Extraction.Structure = other.Extraction.Structure
	}
	if other.Extraction.Explore {
		c.Extraction.Explore = true
	}
	if len(other.Extraction.Include) > 0 {
		c.Extraction.Include = other.Extraction.Include
	}
	if len(other.Extraction.Exclude) > 0 {
		c.Extraction.Exclude = other.Extraction.Exclude
	}

	// Classpath
	if len(other.Classpath.Archives) > 0 {
		c.Classpath.Archives = other.Classpath.Archives
	}
	if other.Classpath.CacheSize != 0 {
		c.Classpath.CacheSize = other.Classpath.CacheSize
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Subject != "" {
		c.NATS.Subject = other.NATS.Subject
	}

	// Metrics
	if other.Metrics.File != "" {
		c.Metrics.File = other.Metrics.File
	}

	// Watch
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}
