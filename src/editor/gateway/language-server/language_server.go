// Package languageserver dials the remote language analysis service and exposes the LSP calls used by the session manager.
package languageserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofrs/uuid"
	"github.com/uber/arena-editor/src/editor/entity"
	"github.com/uber/arena-editor/src/editor/internal/core"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_configKey = "languageSession"

	_queryWorkspace = "workspace"
	_queryProject   = "project"
	_requestIDKey   = "X-Request-ID"

	_defaultReconnectDelay  = 5 * time.Second
	_defaultMaxMessageBytes = 4 << 20
	_defaultDocumentRoot    = "file:///arena"
)

// Module provides the websocket dialer.
var Module = fx.Provide(New)

// Config is the languageSession configuration section.
type Config struct {
	Enabled         bool          `yaml:"enabled"`
	URL             string        `yaml:"url"`
	ReconnectDelay  time.Duration `yaml:"reconnectDelay"`
	DocumentRoot    string        `yaml:"documentRoot"`
	MaxMessageBytes int64         `yaml:"maxMessageBytes"`
}

// Validate implements validation.Validatable.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.URL, validation.When(c.Enabled, validation.Required, validation.By(websocketURL))),
		validation.Field(&c.ReconnectDelay, validation.Min(time.Duration(0))),
		validation.Field(&c.MaxMessageBytes, validation.Min(int64(0))),
	)
}

func websocketURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return errors.New("must be a valid URL")
	}
	switch u.Scheme {
	case "ws", "wss", "http", "https":
	default:
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("must include a host")
	}
	return nil
}

// LoadConfig reads and validates the languageSession section, filling defaults.
func LoadConfig(provider config.Provider) (Config, error) {
	var cfg Config
	if err := core.PopulateValidated(provider, _configKey, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.ReconnectDelay == 0 {
		cfg.ReconnectDelay = _defaultReconnectDelay
	}
	if cfg.MaxMessageBytes == 0 {
		cfg.MaxMessageBytes = _defaultMaxMessageBytes
	}
	if cfg.DocumentRoot == "" {
		cfg.DocumentRoot = _defaultDocumentRoot
	}
	return cfg, nil
}

// SessionURL appends the workspace and project query parameters to the configured endpoint.
func SessionURL(base string, scope entity.SessionScope) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing language session url: %w", err)
	}
	q := u.Query()
	q.Set(_queryWorkspace, scope.Workspace)
	q.Set(_queryProject, scope.ProjectID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Dialer establishes transports to the language analysis service.
type Dialer interface {
	// Dial opens a transport scoped to one workspace and project.
	// Requests and notifications pushed by the server are passed to handler on the connection's read loop.
	Dial(ctx context.Context, scope entity.SessionScope, handler jsonrpc2.Handler) (Connection, error)
}

// Connection is a live transport to the language analysis service.
type Connection interface {
	Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error)
	Initialized(ctx context.Context, params *protocol.InitializedParams) error
	DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error
	DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error
	DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error
	Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error)
	Completion(ctx context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error)
	Shutdown(ctx context.Context) error
	Exit(ctx context.Context) error

	// Close closes the underlying transport.
	Close() error
	// Done is closed once the transport is closed for any reason.
	Done() <-chan struct{}
	// Err returns the error that closed the transport, valid once Done is closed.
	Err() error
}

// Params are inbound parameters to create the dialer.
type Params struct {
	fx.In

	Config     config.Provider
	Logger     *zap.SugaredLogger
	HTTPClient *http.Client `optional:"true"`
}

type dialer struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// New creates a Dialer from the languageSession configuration.
func New(p Params) (Dialer, error) {
	cfg, err := LoadConfig(p.Config)
	if err != nil {
		return nil, err
	}
	return NewDialer(cfg, p.HTTPClient, p.Logger), nil
}

// NewDialer creates a Dialer for an already loaded configuration. A nil client uses http.DefaultClient.
func NewDialer(cfg Config, client *http.Client, logger *zap.SugaredLogger) Dialer {
	if client == nil {
		client = http.DefaultClient
	}
	return &dialer{
		cfg:        cfg,
		httpClient: client,
		logger:     logger.With("component", "language-server"),
	}
}

func (d *dialer) Dial(ctx context.Context, scope entity.SessionScope, handler jsonrpc2.Handler) (Connection, error) {
	target, err := SessionURL(d.cfg.URL, scope)
	if err != nil {
		return nil, err
	}

	requestID, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("generating request id: %w", err)
	}

	ws, _, err := websocket.Dial(ctx, target, &websocket.DialOptions{
		HTTPClient: d.httpClient,
		HTTPHeader: http.Header{_requestIDKey: []string{requestID.String()}},
	})
	if err != nil {
		return nil, fmt.Errorf("dialing language server: %w", err)
	}
	if d.cfg.MaxMessageBytes > 0 {
		ws.SetReadLimit(d.cfg.MaxMessageBytes)
	}

	d.logger.Infow("language server connected",
		"workspace", scope.Workspace,
		"project", scope.ProjectID,
		"requestID", requestID.String(),
	)

	conn := jsonrpc2.NewConn(NewStream(ws))
	conn.Go(context.Background(), handler)
	return newConnection(conn, d.logger.Desugar()), nil
}

// IsNormalClosure reports whether err is the result of an orderly close by either peer.
func IsNormalClosure(err error) bool {
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return false
}

type wsStream struct {
	ws *websocket.Conn
}

// NewStream frames one JSON-RPC message per websocket message.
func NewStream(ws *websocket.Conn) jsonrpc2.Stream {
	return &wsStream{ws: ws}
}

func (s *wsStream) Read(ctx context.Context) (jsonrpc2.Message, int64, error) {
	_, data, err := s.ws.Read(ctx)
	if err != nil {
		return nil, 0, err
	}
	msg, err := jsonrpc2.DecodeMessage(data)
	return msg, int64(len(data)), err
}

func (s *wsStream) Write(ctx context.Context, msg jsonrpc2.Message) (int64, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return 0, fmt.Errorf("marshaling message: %w", err)
	}
	if err := s.ws.Write(ctx, websocket.MessageText, data); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

func (s *wsStream) Close() error {
	return s.ws.Close(websocket.StatusNormalClosure, "")
}

type connection struct {
	conn   jsonrpc2.Conn
	server protocol.Server
}

func newConnection(conn jsonrpc2.Conn, logger *zap.Logger) *connection {
	return &connection{
		conn:   conn,
		server: protocol.ServerDispatcher(conn, logger),
	}
}

// callContext derives a context that is also cancelled when the transport closes.
// Pending calls are never answered once the read loop exits, so waiting on the caller's context alone could block forever.
func (c *connection) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-c.conn.Done():
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

func (c *connection) wrap(method string, err error) error {
	if err == nil {
		return nil
	}
	select {
	case <-c.conn.Done():
		return fmt.Errorf("%s: language server connection closed: %w", method, err)
	default:
		return fmt.Errorf("%s: %w", method, err)
	}
}

func (c *connection) Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	result, err := c.server.Initialize(ctx, params)
	return result, c.wrap(protocol.MethodInitialize, err)
}

func (c *connection) Initialized(ctx context.Context, params *protocol.InitializedParams) error {
	return c.wrap(protocol.MethodInitialized, c.server.Initialized(ctx, params))
}

func (c *connection) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	return c.wrap(protocol.MethodTextDocumentDidOpen, c.server.DidOpen(ctx, params))
}

func (c *connection) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	return c.wrap(protocol.MethodTextDocumentDidChange, c.server.DidChange(ctx, params))
}

func (c *connection) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	return c.wrap(protocol.MethodTextDocumentDidClose, c.server.DidClose(ctx, params))
}

func (c *connection) Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	result, err := c.server.Hover(ctx, params)
	return result, c.wrap(protocol.MethodTextDocumentHover, err)
}

func (c *connection) Completion(ctx context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	result, err := c.server.Completion(ctx, params)
	return result, c.wrap(protocol.MethodTextDocumentCompletion, err)
}

func (c *connection) Shutdown(ctx context.Context) error {
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	return c.wrap(protocol.MethodShutdown, c.server.Shutdown(ctx))
}

func (c *connection) Exit(ctx context.Context) error {
	return c.wrap(protocol.MethodExit, c.server.Exit(ctx))
}

func (c *connection) Close() error {
	return c.conn.Close()
}

func (c *connection) Done() <-chan struct{} {
	return c.conn.Done()
}

func (c *connection) Err() error {
	return c.conn.Err()
}
