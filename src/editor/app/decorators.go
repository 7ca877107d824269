package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/uber/arena-editor/src/editor/internal/core"
	"github.com/uber/arena-editor/src/editor/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
)

// Context describes where the editor runs.
type Context struct {
	Environment        string `yaml:"environment"`
	RuntimeEnvironment string `yaml:"runtimeEnvironment"`
}

const (
	// EnvLocal indicates that the editor is running on a developer machine.
	EnvLocal = "local"

	// EnvDevelopment indicates that the editor is running in a development environment.
	EnvDevelopment = "development"

	_envEditorEnvironment = "ARENA_EDITOR_ENVIRONMENT"

	_configKeyLogging  = "logging"
	_configKeyInfoFile = "serverInfoFilePath"
)

func decorateEnvContext(env Context) Context {
	switch os.Getenv(_envEditorEnvironment) {
	case EnvDevelopment:
		env.Environment, env.RuntimeEnvironment = EnvDevelopment, EnvDevelopment
	default:
		env.Environment, env.RuntimeEnvironment = EnvLocal, EnvLocal
	}
	return env
}

// DecorateConfigParams is the set of dependencies required to decorate the config.Provider.
type DecorateConfigParams struct {
	fx.In

	Env Context
	Cfg config.Provider
	FS  fs.EditorFS
}

// decorateConfigProvider runs the start-up steps that depend on configuration before any component reads it.
func decorateConfigProvider(p DecorateConfigParams) (config.Provider, error) {
	dirs, err := outputDirs(p.Cfg)
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := p.FS.MkdirAll(dir); err != nil {
			return nil, fmt.Errorf("creating output directory %q: %w", dir, err)
		}
	}
	return p.Cfg, nil
}

// outputDirs lists the directories the editor writes into: log files and the server info file.
// Standard streams are skipped and each directory appears once.
func outputDirs(cfg config.Provider) ([]string, error) {
	var logging core.LoggingConfig
	if err := cfg.Get(_configKeyLogging).Populate(&logging); err != nil {
		return nil, fmt.Errorf("loading logging config: %w", err)
	}
	var infoFile string
	if err := cfg.Get(_configKeyInfoFile).Populate(&infoFile); err != nil {
		return nil, fmt.Errorf("loading %s: %w", _configKeyInfoFile, err)
	}

	files := append([]string{}, logging.OutputPaths...)
	if infoFile != "" {
		files = append(files, infoFile)
	}

	seen := make(map[string]struct{})
	var dirs []string
	for _, f := range files {
		if f == "stdout" || f == "stderr" {
			continue
		}
		dir := filepath.Dir(f)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	return dirs, nil
}
