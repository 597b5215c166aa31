package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "codeontology.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/codeontology"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
)

// layer is one config file in precedence order.
type layer struct {
	name     string
	path     string
	required bool
}

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger  *slog.Logger
	workDir string
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// WithWorkDir sets the directory the project config search starts from
// (default: the process working directory).
func (l *Loader) WithWorkDir(dir string) *Loader {
	l.workDir = dir
	return l
}

// Load merges, lowest precedence first:
// 1. Default config
// 2. User config (~/.config/codeontology/config.yaml)
// 3. Project config (codeontology.yaml in the work directory or a parent)
// 4. explicit, when not empty; it must exist
//
// Command-line flags are applied by the caller, then Validate.
func (l *Loader) Load(explicit string) (*Config, error) {
	config := DefaultConfig()

	layers := []layer{
		{name: "user", path: l.userConfigPath()},
		{name: "project", path: l.findProjectConfig()},
	}
	if explicit != "" {
		layers = append(layers, layer{name: "explicit", path: explicit, required: true})
	}

	for _, ly := range layers {
		if ly.path == "" {
			l.logger.Debug("No config found", slog.String("layer", ly.name))
			continue
		}
		c, err := loadLayer(ly.path)
		switch {
		case err == nil:
			l.logger.Debug("Loaded config", slog.String("layer", ly.name), slog.String("path", ly.path))
			config.Merge(c)
		case ly.required:
			return nil, err
		case errors.Is(err, fs.ErrNotExist):
			l.logger.Debug("No config found", slog.String("layer", ly.name), slog.String("path", ly.path))
		default:
			l.logger.Warn("Failed to load config",
				slog.String("layer", ly.name),
				slog.String("path", ly.path),
				slog.String("error", err.Error()))
		}
	}

	return config, nil
}

// EnsureUserConfig writes the defaults to the user config file unless it
// exists, and returns its path.
func (l *Loader) EnsureUserConfig() (string, error) {
	path := l.userConfigPath()
	if path == "" {
		return "", errors.New("cannot resolve home directory")
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := DefaultConfig().SaveToFile(path); err != nil {
		return "", err
	}
	l.logger.Info("Created default user config", slog.String("path", path))
	return path, nil
}

func (l *Loader) userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig walks from the work directory up to the filesystem root.
func (l *Loader) findProjectConfig() string {
	dir := l.workDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = cwd
	}
	for {
		path := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
