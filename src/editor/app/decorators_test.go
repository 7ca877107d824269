package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/arena-editor/src/editor/factory"
	"github.com/uber/arena-editor/src/editor/internal/fs"
	"github.com/uber/arena-editor/src/editor/internal/fs/fsmock"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/mock/gomock"
)

func TestEnv(t *testing.T) {
	tests := []struct {
		name      string
		setEnvVal string
		expectVal string
	}{
		{
			name:      "local",
			expectVal: EnvLocal,
		},
		{
			name:      "development",
			setEnvVal: "development",
			expectVal: EnvDevelopment,
		},
		{
			name:      "unknown value falls back to local",
			setEnvVal: "production",
			expectVal: EnvLocal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(_envEditorEnvironment, tt.setEnvVal)

			fxtest.New(
				t,
				fx.Provide(func() Context {
					return Context{
						Environment:        EnvLocal,
						RuntimeEnvironment: EnvLocal,
					}
				}),
				fx.Decorate(decorateEnvContext),
				fx.Invoke(func(ctx Context) {
					require.Equal(t, tt.expectVal, ctx.Environment, "unexpected environment")
					require.Equal(t, tt.expectVal, ctx.RuntimeEnvironment, "unexpected runtime environment")
				}),
			).RequireStart().RequireStop()
		})
	}
}

func TestDecorateConfigProvider(t *testing.T) {
	t.Run("creates output directories", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fsMock := fsmock.NewMockEditorFS(ctrl)
		fsMock.EXPECT().MkdirAll("/tmp/foo").Return(nil)
		fsMock.EXPECT().MkdirAll("/tmp/info").Return(nil)

		fxtest.New(
			t,
			fx.Provide(func() fs.EditorFS {
				return fsMock
			}),
			fx.Provide(func() config.Provider {
				return factory.Config("logging:\n  outputPaths: [stderr, /tmp/foo/editor.log]\nserverInfoFilePath: /tmp/info/server.json\n")
			}),
			fx.Provide(func() Context {
				return Context{RuntimeEnvironment: EnvDevelopment}
			}),
			fx.Decorate(decorateConfigProvider),
			fx.Invoke(func(cfg config.Provider) {
				assert.Equal(t, "/tmp/info/server.json", cfg.Get(_configKeyInfoFile).String())
			}),
		).RequireStart().RequireStop()
	})

	t.Run("mkdir failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fsMock := fsmock.NewMockEditorFS(ctrl)
		fsMock.EXPECT().MkdirAll("/tmp/foo").Return(errors.New("permission denied"))

		_, err := decorateConfigProvider(DecorateConfigParams{
			Cfg: factory.Config("logging:\n  outputPaths: [/tmp/foo/editor.log]\n"),
			FS:  fsMock,
		})
		assert.ErrorContains(t, err, "permission denied")
	})
}

func TestOutputDirs(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    []string
		wantErr bool
	}{
		{
			name: "deduplicated",
			yaml: "logging:\n  outputPaths: [/tmp/foo/a.log, stdout, /tmp/foo/b.log, /tmp/bar/c.log]\nserverInfoFilePath: /tmp/bar/info.json\n",
			want: []string{"/tmp/foo", "/tmp/bar"},
		},
		{
			name: "standard streams only",
			yaml: "logging:\n  outputPaths: [stdout, stderr]\n",
		},
		{
			name:    "invalid output paths",
			yaml:    "logging:\n  outputPaths: not-a-list\n",
			wantErr: true,
		},
		{
			name:    "invalid info file path",
			yaml:    "serverInfoFilePath: [a, b]\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputDirs(factory.Config(tt.yaml))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
