package httpfx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/arena-editor/src/editor/internal/serverinfofile/serverinfofilemock"
	"go.uber.org/config"
	"go.uber.org/fx/fxtest"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newConfig(t *testing.T, yaml string) config.Provider {
	provider, err := config.NewYAML(config.Source(strings.NewReader(yaml)))
	require.NoError(t, err)
	return provider
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{name: "valid", yaml: "http:\n  address: 127.0.0.1:0\n"},
		{name: "missing address", yaml: "http:\n  shutdownTimeout: 1s\n", wantErr: true},
		{name: "negative timeout", yaml: "http:\n  address: 127.0.0.1:0\n  shutdownTimeout: -1s\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Params{
				Config:    newConfig(t, tt.yaml),
				Lifecycle: fxtest.NewLifecycle(t),
				Logger:    zap.NewNop().Sugar(),
			})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	_, err := New(Params{})
	assert.Error(t, err)
}

func TestRouterMiddleware(t *testing.T) {
	m, err := New(Params{
		Config:    newConfig(t, "http:\n  address: 127.0.0.1:0\n"),
		Lifecycle: fxtest.NewLifecycle(t),
		Logger:    zap.NewNop().Sugar(),
	})
	require.NoError(t, err)

	m.Router().Get("/panic", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	m.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	infoFile := serverinfofilemock.NewMockServerInfoFile(ctrl)
	infoFile.EXPECT().UpdateField(_outputKey, gomock.Any()).Return(nil)

	lc := fxtest.NewLifecycle(t)
	m, err := New(Params{
		Config:         newConfig(t, "http:\n  address: 127.0.0.1:0\n"),
		Lifecycle:      lc,
		Logger:         zap.NewNop().Sugar(),
		ServerInfoFile: infoFile,
	})
	require.NoError(t, err)
	m.Router().Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})
	assert.Nil(t, m.Addr())

	ctx := context.Background()
	require.NoError(t, lc.Start(ctx))

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + m.Addr().String() + "/ping")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))

	require.NoError(t, lc.Stop(ctx))
}
