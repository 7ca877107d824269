package files

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/arena-editor/src/editor/entity"
	"github.com/uber/arena-editor/src/editor/factory"
	"github.com/uber/arena-editor/src/editor/gateway/arena/arenamock"
	localfiles "github.com/uber/arena-editor/src/editor/gateway/local-files"
	"github.com/uber/arena-editor/src/editor/internal/fs"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func newParams(t *testing.T, yaml string) Params {
	ctrl := gomock.NewController(t)
	local, err := localfiles.New(localfiles.Params{
		Config: factory.Config("localFiles:\n  root: " + t.TempDir() + "\n"),
		FS:     fs.New(),
		Logger: zap.NewNop().Sugar(),
	})
	require.NoError(t, err)
	return Params{
		Config: factory.Config(yaml),
		Logger: zap.NewNop().Sugar(),
		Arena:  arenamock.NewMockGateway(ctrl),
		Local:  local,
	}
}

func TestNew(t *testing.T) {
	t.Run("arena source", func(t *testing.T) {
		p := newParams(t, "editor:\n  fileSource: arena\n")
		result, err := New(p)
		require.NoError(t, err)
		assert.Same(t, p.Arena, result.Source)
		assert.Equal(t, NopWatcher(), result.Watcher)
	})

	t.Run("default is arena", func(t *testing.T) {
		p := newParams(t, "editor:\n  maxFileSizeBytes: 10\n")
		result, err := New(p)
		require.NoError(t, err)
		assert.Same(t, p.Arena, result.Source)
	})

	t.Run("local source", func(t *testing.T) {
		p := newParams(t, "editor:\n  fileSource: local\n")
		result, err := New(p)
		require.NoError(t, err)
		assert.Equal(t, p.Local, result.Source)
		assert.Equal(t, p.Local, result.Watcher)
	})

	t.Run("unknown source", func(t *testing.T) {
		_, err := New(newParams(t, "editor:\n  fileSource: s3\n"))
		assert.Error(t, err)
	})
}

func TestNopWatcher(t *testing.T) {
	w := NopWatcher()
	assert.NoError(t, w.Watch("project-1", "a.yaml"))
	w.Unwatch("project-1", "a.yaml")

	called := false
	unsubscribe := w.Subscribe(func(entity.FileChange) { called = true })
	unsubscribe()
	assert.False(t, called)
}
