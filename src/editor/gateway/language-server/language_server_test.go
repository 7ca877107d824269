package languageserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/arena-editor/src/editor/entity"
	"github.com/uber/arena-editor/src/editor/factory"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

const _waitTimeout = 5 * time.Second

type fakeServer struct {
	srv      *httptest.Server
	requests chan *http.Request
}

// newFakeServer starts a websocket endpoint that serves JSON-RPC with the handler built by h.
func newFakeServer(t *testing.T, h func(conn jsonrpc2.Conn, ws *websocket.Conn) jsonrpc2.Handler) *fakeServer {
	f := &fakeServer{requests: make(chan *http.Request, 4)}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests <- r
		ws, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		conn := jsonrpc2.NewConn(NewStream(ws))
		conn.Go(context.Background(), h(conn, ws))
		<-conn.Done()
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeServer) url() string {
	return "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/lsp"
}

func lspServerHandler(conn jsonrpc2.Conn, ws *websocket.Conn) jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		switch req.Method() {
		case protocol.MethodInitialize:
			return reply(ctx, &protocol.InitializeResult{ServerInfo: &protocol.ServerInfo{Name: "arena-ls"}}, nil)
		case protocol.MethodTextDocumentDidOpen:
			var params protocol.DidOpenTextDocumentParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return reply(ctx, nil, err)
			}
			return conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
				URI: params.TextDocument.URI,
				Diagnostics: []protocol.Diagnostic{{
					Severity: protocol.DiagnosticSeverityError,
					Message:  "unknown key",
				}},
			})
		case protocol.MethodTextDocumentHover:
			return reply(ctx, &protocol.Hover{Contents: protocol.MarkupContent{Kind: protocol.Markdown, Value: "**name**"}}, nil)
		case protocol.MethodTextDocumentCompletion:
			// drop the transport without answering
			ws.CloseNow()
			return nil
		}
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
}

func testDialer(url string) Dialer {
	return NewDialer(Config{Enabled: true, URL: url, MaxMessageBytes: 1 << 20}, nil, zap.NewNop().Sugar())
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    Config
		wantErr bool
	}{
		{
			name: "defaults",
			yaml: "languageSession:\n  enabled: true\n  url: ws://localhost:9000/lsp\n",
			want: Config{
				Enabled:         true,
				URL:             "ws://localhost:9000/lsp",
				ReconnectDelay:  5 * time.Second,
				DocumentRoot:    "file:///arena",
				MaxMessageBytes: 4 << 20,
			},
		},
		{
			name: "explicit values",
			yaml: "languageSession:\n  enabled: true\n  url: wss://ls.example.com/session\n  reconnectDelay: 2s\n  documentRoot: file:///srv\n  maxMessageBytes: 1024\n",
			want: Config{
				Enabled:         true,
				URL:             "wss://ls.example.com/session",
				ReconnectDelay:  2 * time.Second,
				DocumentRoot:    "file:///srv",
				MaxMessageBytes: 1024,
			},
		},
		{
			name: "disabled without url",
			yaml: "languageSession:\n  enabled: false\n",
			want: Config{
				ReconnectDelay:  5 * time.Second,
				DocumentRoot:    "file:///arena",
				MaxMessageBytes: 4 << 20,
			},
		},
		{
			name:    "enabled without url",
			yaml:    "languageSession:\n  enabled: true\n",
			wantErr: true,
		},
		{
			name:    "unsupported scheme",
			yaml:    "languageSession:\n  enabled: true\n  url: ftp://localhost/lsp\n",
			wantErr: true,
		},
		{
			name:    "negative delay",
			yaml:    "languageSession:\n  enabled: true\n  url: ws://localhost/lsp\n  reconnectDelay: -1s\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(factory.Config(tt.yaml))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestSessionURL(t *testing.T) {
	scope := entity.SessionScope{Workspace: "team a", ProjectID: "p-1"}

	got, err := SessionURL("ws://localhost:9000/lsp", scope)
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:9000/lsp?project=p-1&workspace=team+a", got)

	got, err = SessionURL("wss://host/lsp?token=abc&project=old", scope)
	require.NoError(t, err)
	assert.Equal(t, "wss://host/lsp?project=p-1&token=abc&workspace=team+a", got)

	_, err = SessionURL("ws://host:bad port/", scope)
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	d, err := New(Params{
		Config: factory.Config("languageSession:\n  enabled: true\n  url: ws://localhost/lsp\n"),
		Logger: zap.NewNop().Sugar(),
	})
	require.NoError(t, err)
	assert.NotNil(t, d)

	_, err = New(Params{
		Config: factory.Config("languageSession:\n  enabled: true\n"),
		Logger: zap.NewNop().Sugar(),
	})
	assert.Error(t, err)
}

func TestDialAndCalls(t *testing.T) {
	server := newFakeServer(t, lspServerHandler)
	scope := factory.Scope()

	pushed := make(chan protocol.PublishDiagnosticsParams, 1)
	clientHandler := func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		if req.Method() == protocol.MethodTextDocumentPublishDiagnostics {
			var params protocol.PublishDiagnosticsParams
			assert.NoError(t, json.Unmarshal(req.Params(), &params))
			pushed <- params
		}
		return reply(ctx, nil, nil)
	}

	ctx := context.Background()
	conn, err := testDialer(server.url()).Dial(ctx, scope, clientHandler)
	require.NoError(t, err)
	defer conn.Close()

	req := <-server.requests
	assert.Equal(t, "/lsp", req.URL.Path)
	assert.Equal(t, scope.Workspace, req.URL.Query().Get("workspace"))
	assert.Equal(t, scope.ProjectID, req.URL.Query().Get("project"))
	assert.NotEmpty(t, req.Header.Get("X-Request-ID"))

	result, err := conn.Initialize(ctx, &protocol.InitializeParams{})
	require.NoError(t, err)
	require.NotNil(t, result.ServerInfo)
	assert.Equal(t, "arena-ls", result.ServerInfo.Name)
	require.NoError(t, conn.Initialized(ctx, &protocol.InitializedParams{}))

	docURI := protocol.DocumentURI("file:///arena/ws-1/project-1/config.arena.yaml")
	require.NoError(t, conn.DidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: docURI, LanguageID: "yaml", Version: 1, Text: "a: 1\n"},
	}))

	select {
	case params := <-pushed:
		assert.Equal(t, docURI, params.URI)
		require.Len(t, params.Diagnostics, 1)
		assert.Equal(t, "unknown key", params.Diagnostics[0].Message)
	case <-time.After(_waitTimeout):
		t.Fatal("diagnostics were not pushed")
	}

	hover, err := conn.Hover(ctx, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "**name**", hover.Contents.Value)

	conn.Close()
	select {
	case <-conn.Done():
	case <-time.After(_waitTimeout):
		t.Fatal("connection did not close")
	}
}

func TestPendingCallFailsWhenServerDrops(t *testing.T) {
	server := newFakeServer(t, lspServerHandler)

	conn, err := testDialer(server.url()).Dial(context.Background(), factory.Scope(), jsonrpc2.MethodNotFoundHandler)
	require.NoError(t, err)
	defer conn.Close()

	errCh := make(chan error, 1)
	go func() {
		_, err := conn.Completion(context.Background(), &protocol.CompletionParams{})
		errCh <- err
	}()

	select {
	case err := <-errCh:
		require.Error(t, err)
		assert.Contains(t, err.Error(), protocol.MethodTextDocumentCompletion)
	case <-time.After(_waitTimeout):
		t.Fatal("pending call did not fail after the transport closed")
	}

	select {
	case <-conn.Done():
		assert.Error(t, conn.Err())
	case <-time.After(_waitTimeout):
		t.Fatal("connection was not marked done")
	}
}

func TestDialFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, err := testDialer(url).Dial(context.Background(), factory.Scope(), jsonrpc2.MethodNotFoundHandler)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dialing language server")

	srv.Close()
	_, err = testDialer(url).Dial(context.Background(), factory.Scope(), jsonrpc2.MethodNotFoundHandler)
	assert.Error(t, err)
}

func TestIsNormalClosure(t *testing.T) {
	assert.True(t, IsNormalClosure(nil))
	assert.True(t, IsNormalClosure(io.EOF))
	assert.True(t, IsNormalClosure(fmt.Errorf("read: %w", net.ErrClosed)))
	assert.True(t, IsNormalClosure(websocket.CloseError{Code: websocket.StatusNormalClosure}))
	assert.True(t, IsNormalClosure(websocket.CloseError{Code: websocket.StatusGoingAway}))
	assert.False(t, IsNormalClosure(websocket.CloseError{Code: websocket.StatusInternalError}))
	assert.False(t, IsNormalClosure(errors.New("connection reset by peer")))
}
