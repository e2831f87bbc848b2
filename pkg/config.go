package autoversion

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultVersionFile is the version file used when nothing else is configured.
	DefaultVersionFile = "__version__.py"
	// DefaultIdentifier is the name the version is assigned to.
	DefaultIdentifier = "__version__"
	// ProjectConfigFile is looked up from the working directory upwards.
	ProjectConfigFile = ".autoversion.yaml"

	// EnvVersionFile overrides the version file path.
	EnvVersionFile = "VERSION_FILE"
	// EnvIdentifier overrides the assignment identifier.
	EnvIdentifier = "AUTOVERSION_IDENTIFIER"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// Config holds everything the store and the CLI need to know.
type Config struct {
	// VersionFile is the path of the file holding the version assignment.
	VersionFile string `yaml:"version_file"`
	// Identifier is the left hand side of the assignment line.
	Identifier string `yaml:"identifier"`
	// Commit stages and commits the version file after a bump.
	Commit bool `yaml:"commit"`
	// Tag tags the version commit with "v<version>". Implies Commit.
	Tag bool `yaml:"tag"`
}

// DefaultConfig returns a Config with the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		VersionFile: DefaultVersionFile,
		Identifier:  DefaultIdentifier,
	}
}

// LoadFromFile reads a YAML config file. A relative version_file is resolved
// against the directory holding the config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.VersionFile != "" && !filepath.IsAbs(cfg.VersionFile) {
		cfg.VersionFile = filepath.Join(filepath.Dir(path), cfg.VersionFile)
	}
	return &cfg, nil
}

// Merge overlays the non-zero fields of other onto c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.VersionFile != "" {
		c.VersionFile = other.VersionFile
	}
	if other.Identifier != "" {
		c.Identifier = other.Identifier
	}
	if other.Commit {
		c.Commit = true
	}
	if other.Tag {
		c.Tag = true
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.VersionFile == "" {
		return fmt.Errorf("version_file is required")
	}
	if !identifierPattern.MatchString(c.Identifier) {
		return fmt.Errorf("identifier %q is not a valid name", c.Identifier)
	}
	return nil
}

// Loader builds a Config from defaults, the project file and the environment.
type Loader struct {
	logger *slog.Logger
	dir    string
	getenv func(string) string
}

// LoaderOption customises a Loader.
type LoaderOption func(*Loader)

// WithDir sets the directory the project config search starts from.
func WithDir(dir string) LoaderOption {
	return func(l *Loader) { l.dir = dir }
}

// WithGetenv replaces os.Getenv, mostly for tests.
func WithGetenv(getenv func(string) string) LoaderOption {
	return func(l *Loader) { l.getenv = getenv }
}

// NewLoader creates a new configuration loader.
func NewLoader(logger *slog.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{logger: logger, getenv: os.Getenv}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves the configuration with layered precedence:
//  1. Defaults
//  2. explicitPath, or the nearest .autoversion.yaml
//  3. Environment variables
//
// CLI flags are applied on top by the caller, which validates the result.
func (l *Loader) Load(explicitPath string) (*Config, error) {
	cfg := DefaultConfig()

	if explicitPath != "" {
		fileCfg, err := LoadFromFile(explicitPath)
		if err != nil {
			return nil, fmt.Errorf("loading config %s: %w", explicitPath, err)
		}
		l.logger.Debug("Loaded config", slog.String("path", explicitPath))
		cfg.Merge(fileCfg)
	} else if projectPath := l.findProjectConfig(); projectPath != "" {
		if fileCfg, err := LoadFromFile(projectPath); err == nil {
			l.logger.Debug("Loaded project config", slog.String("path", projectPath))
			cfg.Merge(fileCfg)
		} else {
			l.logger.Warn("Failed to load project config", slog.String("path", projectPath), slog.String("error", err.Error()))
		}
	}

	if v := l.getenv(EnvVersionFile); v != "" {
		cfg.VersionFile = v
	}
	if v := l.getenv(EnvIdentifier); v != "" {
		cfg.Identifier = v
	}
	return cfg, nil
}

// findProjectConfig searches for .autoversion.yaml in the start directory and its parents.
func (l *Loader) findProjectConfig() string {
	dir := l.dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = cwd
	}

	for {
		candidate := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
