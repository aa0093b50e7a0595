package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "geolod.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/geolod"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger

	// WorkDir is where the project config search starts (default: cwd)
	WorkDir string
	// HomeDir holds the user config (default: os.UserHomeDir)
	HomeDir string

	sources []string
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config (~/.config/geolod/config.yaml)
// 3. Project config (geolod.yaml in current or parent directories)
// 4. Site files matched by site_files, relative to the project config
func (l *Loader) Load() (*Config, error) {
	return l.load(l.findProjectConfig())
}

// LoadPath is Load with an explicit project config path in place of the
// upward search.
func (l *Loader) LoadPath(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, err
	}
	return l.load(abs)
}

func (l *Loader) load(projectConfigPath string) (*Config, error) {
	l.sources = nil

	// Start with defaults. Each layer is decoded onto the result of the
	// previous one, so a file overrides exactly the keys it sets, zeros
	// included.
	config := DefaultConfig()

	// Load user config. A broken user file is skipped as a whole.
	userConfigPath := l.userConfigPath()
	if userConfigPath != "" {
		userConfig := DefaultConfig()
		if err := decodeFile(userConfigPath, userConfig); err == nil {
			l.logger.Debug("Loaded user config", slog.String("path", userConfigPath))
			config = userConfig
			l.sources = append(l.sources, userConfigPath)
		} else if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("Failed to load user config", slog.String("path", userConfigPath), slog.String("error", err.Error()))
		}
	}

	// Load project config
	baseDir := l.workDir()
	if projectConfigPath != "" {
		if err := decodeFile(projectConfigPath, config); err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded project config", slog.String("path", projectConfigPath))
		l.sources = append(l.sources, projectConfigPath)
		baseDir = filepath.Dir(projectConfigPath)
	} else {
		l.logger.Debug("No project config found")
	}

	// Site files
	files, err := config.LoadSites(baseDir)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		l.logger.Debug("Loaded site file", slog.String("path", f))
	}
	l.sources = append(l.sources, files...)

	// Validate final config
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Sources returns the config and site files read by the last Load.
func (l *Loader) Sources() []string {
	out := make([]string, len(l.sources))
	copy(out, l.sources)
	return out
}

// EnsureUserConfig writes the defaults to the user config file unless it
// already exists, and returns its path.
func (l *Loader) EnsureUserConfig() (string, error) {
	userConfigPath := l.userConfigPath()
	if userConfigPath == "" {
		return "", fmt.Errorf("cannot determine home directory")
	}

	// Check if it already exists
	if _, err := os.Stat(userConfigPath); err == nil {
		return userConfigPath, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	// Create default config
	config := DefaultConfig()
	if err := config.SaveToFile(userConfigPath); err != nil {
		return "", err
	}

	l.logger.Info("Created default user config", slog.String("path", userConfigPath))
	return userConfigPath, nil
}

// userConfigPath returns the path to the user config file
func (l *Loader) userConfigPath() string {
	home := l.HomeDir
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		home = h
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

func (l *Loader) workDir() string {
	if l.WorkDir != "" {
		return l.WorkDir
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// findProjectConfig searches for geolod.yaml in current and parent directories
func (l *Loader) findProjectConfig() string {
	dir, err := filepath.Abs(l.workDir())
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return ""
}
