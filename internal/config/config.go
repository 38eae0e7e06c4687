package config

import (
	"envm/internal/constants"
	"envm/internal/paths"
	"errors"
	"fmt"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

var (
	// ErrMissingConfigFile is returned when the repository config file cannot be read.
	ErrMissingConfigFile = errors.New("cannot find the configuration at " + constants.MarkerDirName)
	// ErrFailedToParseConfig is returned when the config file is malformed or incomplete.
	ErrFailedToParseConfig = errors.New("failed to parse the configuration")
)

// Config holds the naming conventions of a repository.
type Config struct {
	// Local is the filename of the active environment file.
	Local string `toml:"local"`
	// Pattern names stored environments; it holds exactly one "{}" placeholder.
	Pattern string `toml:"pattern"`
	// Template is the filename of the example environment file.
	Template string `toml:"template"`
}

// Default returns the built-in naming conventions.
func Default() Config {
	return Config{
		Local:    constants.DefaultLocal,
		Pattern:  constants.DefaultPattern,
		Template: constants.DefaultTemplate,
	}
}

func (c Config) LocalName() string    { return c.Local }
func (c Config) PatternName() string  { return c.Pattern }
func (c Config) TemplateName() string { return c.Template }

// Validate checks the invariants path derivation relies on.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Local) == "" {
		return fmt.Errorf("'local' must not be empty")
	}
	if strings.TrimSpace(c.Template) == "" {
		return fmt.Errorf("'template' must not be empty")
	}
	if n := strings.Count(c.Pattern, constants.Placeholder); n != 1 {
		return fmt.Errorf("'pattern' must contain the '%s' placeholder exactly once, found %d in '%s'", constants.Placeholder, n, c.Pattern)
	}
	return nil
}

// GitignorePatterns returns the patterns that keep the marker directory, the local file and
// stored environments out of version control while keeping the template tracked.
func (c Config) GitignorePatterns() []string {
	return []string{
		constants.MarkerDirName,
		c.Local,
		strings.Replace(c.Pattern, constants.Placeholder, "*", 1),
		"!" + c.Template,
	}
}

// Load reads and validates the config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrMissingConfigFile, err)
	}
	return Parse(data)
}

// Parse decodes TOML config data. Every field is required.
func Parse(data []byte) (Config, error) {
	var conf Config
	if err := toml.Unmarshal(data, &conf); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrFailedToParseConfig, err)
	}
	if err := conf.Validate(); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrFailedToParseConfig, err)
	}
	return conf, nil
}

// Store writes conf to path as TOML, replacing any existing file.
func Store(path string, conf Config) error {
	data, err := toml.Marshal(conf)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadDefaults returns the conventions used for a new repository: the built-in
// defaults overlaid with the per-user config file, when it exists and is valid.
func LoadDefaults() (Config, error) {
	conf := Default()

	path := paths.GetUserConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return conf, nil
		}
		return conf, err
	}

	// Keys missing from the user file keep their built-in value.
	if err := toml.Unmarshal(data, &conf); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	if err := conf.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return conf, nil
}
