package core

import (
	"fmt"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	uber_config "go.uber.org/config"
	"go.uber.org/fx"
)

const (
	// EnvConfigDir overrides the directory configuration is loaded from.
	EnvConfigDir = "ARENA_EDITOR_CONFIG_DIR"

	_defaultConfigDir = "src/editor/config"
	_metaFile         = "meta.yaml"
)

var ConfigModule = fx.Options(
	fx.Provide(NewConfig),
)

type Config struct {
	provider uber_config.Provider
}

func (c Config) Get(path string) uber_config.Value {
	return c.provider.Get(path)
}

func (c Config) Name() string {
	return "config"
}

// NewConfig loads every file listed in meta.yaml that exists in the config directory, in order, with environment expansion.
func NewConfig() (uber_config.Provider, error) {
	return LoadConfig(getConfigDir())
}

// LoadConfig loads the configuration files of configDir.
func LoadConfig(configDir string) (uber_config.Provider, error) {
	metaProvider, err := uber_config.NewYAML(
		uber_config.File(filepath.Join(configDir, _metaFile)),
		uber_config.Expand(os.LookupEnv),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load meta configuration: %w", err)
	}

	var configFiles []string
	if err := metaProvider.Get("files").Populate(&configFiles); err != nil {
		return nil, fmt.Errorf("failed to read files list from %s: %w", _metaFile, err)
	}

	var options []uber_config.YAMLOption
	for _, file := range configFiles {
		fullPath := filepath.Join(configDir, file)
		if _, err := os.Stat(fullPath); err == nil {
			options = append(options, uber_config.File(fullPath))
		}
	}

	if len(options) == 0 {
		return nil, fmt.Errorf("no configuration files found in %s", configDir)
	}
	options = append(options, uber_config.Expand(os.LookupEnv))

	provider, err := uber_config.NewYAML(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return Config{provider: provider}, nil
}

// PopulateValidated reads key into v and runs its validation rules.
func PopulateValidated(provider uber_config.Provider, key string, v validation.Validatable) error {
	if err := provider.Get(key).Populate(v); err != nil {
		return fmt.Errorf("getting config field %q: %w", key, err)
	}
	if err := v.Validate(); err != nil {
		return fmt.Errorf("invalid config field %q: %w", key, err)
	}
	return nil
}

// getConfigDir returns the path to the configuration directory
func getConfigDir() string {
	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		return configDir
	}

	// Relative to the workspace root, where the binary is expected to run.
	return _defaultConfigDir
}
