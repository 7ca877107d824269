package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/arena-editor/src/editor/internal/core"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
	"go.uber.org/goleak"
)

func TestDependenciesAreSatisfied(t *testing.T) {
	assert.NoError(t, fx.ValidateApp(opts()))
}

func TestPrepareEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("ARENA_EDITOR_TEST_VALUE=from-dotenv\n"), 0o600))

	tests := []struct {
		name          string
		args          []string
		wantConfigDir string
		wantValue     string
		wantErr       bool
	}{
		{
			name:          "flags",
			args:          []string{"arena-editor", "--config-dir", dir, "--env-file", envFile},
			wantConfigDir: dir,
			wantValue:     "from-dotenv",
		},
		{
			name: "missing env file is ignored",
			args: []string{"arena-editor", "--env-file", filepath.Join(dir, "missing.env")},
		},
		{
			name:    "unreadable env file",
			args:    []string{"arena-editor", "--env-file", dir},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(core.EnvConfigDir, "")
			t.Setenv("ARENA_EDITOR_TEST_VALUE", "")
			os.Unsetenv("ARENA_EDITOR_TEST_VALUE")

			var gotErr error
			cmd := command()
			cmd.Action = func(ctx context.Context, cmd *cli.Command) error {
				gotErr = prepareEnv(cmd)
				return nil
			}
			require.NoError(t, cmd.Run(context.Background(), tt.args))

			if tt.wantErr {
				assert.Error(t, gotErr)
				return
			}
			require.NoError(t, gotErr)
			assert.Equal(t, tt.wantConfigDir, os.Getenv(core.EnvConfigDir))
			assert.Equal(t, tt.wantValue, os.Getenv("ARENA_EDITOR_TEST_VALUE"))
		})
	}
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
