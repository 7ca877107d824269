package main

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/uber/arena-editor/src/editor/app"
	"github.com/uber/arena-editor/src/editor/internal/core"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

const (
	_version = "0.1.0"

	_flagConfigDir = "config-dir"
	_flagEnvFile   = "env-file"

	_envEnvFile = "ARENA_EDITOR_ENV_FILE"
)

func opts() fx.Option {
	return fx.Options(
		app.Module,
	)
}

func command() *cli.Command {
	return &cli.Command{
		Name:    "arena-editor",
		Usage:   "Editor core for Arena projects: documents, diagnostics and the language session",
		Version: _version,
		Action:  run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    _flagConfigDir,
				Usage:   "Directory holding meta.yaml and the configuration files it lists",
				Sources: cli.EnvVars(core.EnvConfigDir),
			},
			&cli.StringFlag{
				Name:    _flagEnvFile,
				Usage:   "Dotenv file loaded before configuration is expanded",
				Value:   ".env",
				Sources: cli.EnvVars(_envEnvFile),
			},
		},
	}
}

// prepareEnv loads the dotenv file and points configuration loading at the selected directory.
func prepareEnv(cmd *cli.Command) error {
	if envFile := cmd.String(_flagEnvFile); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, iofs.ErrNotExist) {
			return fmt.Errorf("loading env file %q: %w", envFile, err)
		}
	}
	if dir := cmd.String(_flagConfigDir); dir != "" {
		if err := os.Setenv(core.EnvConfigDir, dir); err != nil {
			return fmt.Errorf("setting config dir: %w", err)
		}
	}
	return nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	if err := prepareEnv(cmd); err != nil {
		return err
	}
	fx.New(opts()).Run()
	return nil
}

func main() {
	if err := command().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
