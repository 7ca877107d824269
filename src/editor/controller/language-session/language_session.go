// Package languagesession owns the connection to the remote language analysis service for the mounted editor.
//
// The session is a finite-state machine over entity.ConnectionStatus:
//
//	disconnected -> connecting -> connected
//	connecting|connected -> error          (transport error)
//	connected|error -> disconnected        (transport closed, reconnect scheduled)
//	any -> disconnected                    (Stop or ineligible target, no reconnect)
//
// Every asynchronous step carries the attempt token that was current when it was scheduled.
// Teardown and every fresh connect bump the token, which turns late dial results, transport events and reconnect timers into no-ops.
package languagesession

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/uber-go/tally"
	"github.com/uber/arena-editor/src/editor/controller/diagnostics"
	"github.com/uber/arena-editor/src/editor/controller/documents"
	"github.com/uber/arena-editor/src/editor/entity"
	languageserver "github.com/uber/arena-editor/src/editor/gateway/language-server"
	"github.com/uber/arena-editor/src/editor/internal/clock"
	editorerrors "github.com/uber/arena-editor/src/editor/internal/errors"
	"github.com/uber/arena-editor/src/editor/mapper"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	_nameKey    = "language_session"
	_clientName = "arena-editor"

	_shutdownTimeout = 2 * time.Second
)

// Manager is the language session state machine.
type Manager interface {
	// Start evaluates target and connects, keeps or tears down the session accordingly.
	// It is called at every host lifecycle boundary and whenever the active document, project or surface readiness changes.
	Start(ctx context.Context, target entity.SessionTarget)
	// Reconnect tears down the current transport and connects again immediately if the session is active.
	Reconnect()
	// Stop tears the session down without scheduling a reconnect and waits for background work to finish.
	// It must not be called from a status listener.
	Stop()

	Status() entity.ConnectionStatus
	Scope() entity.SessionScope
	Subscribe(listener func(entity.ConnectionStatus)) (unsubscribe func())

	Hover(ctx context.Context, filePath string, pos entity.Position) (*protocol.Hover, error)
	Completion(ctx context.Context, filePath string, pos entity.Position) (*protocol.CompletionList, error)
}

// Params are inbound parameters to initialize the manager.
type Params struct {
	fx.In

	Config     config.Provider
	Logger     *zap.SugaredLogger
	Stats      tally.Scope
	Clock      clock.Clock
	Dialer     languageserver.Dialer
	Store      documents.Store
	Aggregator diagnostics.Aggregator
	Lifecycle  fx.Lifecycle `optional:"true"`
}

// syncedDoc is the state of a document as last announced to the server.
type syncedDoc struct {
	version int32
	content string
}

type statusListener struct {
	id       int
	listener func(entity.ConnectionStatus)
}

type manager struct {
	mu       sync.Mutex
	status   entity.ConnectionStatus
	target   entity.SessionTarget
	scope    entity.SessionScope
	active   bool
	token    uint64
	conn     languageserver.Connection
	cancel   context.CancelFunc
	timer    clock.Timer
	released <-chan struct{}
	synced   map[string]*syncedDoc

	// sendMu orders outgoing document notifications.
	sendMu sync.Mutex

	listeners      []statusListener
	nextListenerID int
	pending        []entity.ConnectionStatus
	draining       bool

	wg               sync.WaitGroup
	unsubscribeStore func()

	cfg        languageserver.Config
	clock      clock.Clock
	dialer     languageserver.Dialer
	store      documents.Store
	aggregator diagnostics.Aggregator
	logger     *zap.SugaredLogger
	stats      tally.Scope
}

// New returns the session manager, or a disabled manager when the semantic session is turned off.
func New(p Params) (Manager, error) {
	cfg, err := languageserver.LoadConfig(p.Config)
	if err != nil {
		return nil, err
	}
	if !cfg.Enabled {
		p.Logger.Infow("language session disabled", "component", _nameKey)
		return NewDisabled(), nil
	}
	m := newManager(cfg, p)
	if p.Lifecycle != nil {
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				m.Stop()
				m.dispose()
				return nil
			},
		})
	}
	return m, nil
}

// newManager builds an enabled manager for an already loaded configuration.
func newManager(cfg languageserver.Config, p Params) *manager {
	released := make(chan struct{})
	close(released)

	m := &manager{
		status:     entity.StatusDisconnected,
		released:   released,
		synced:     make(map[string]*syncedDoc),
		cfg:        cfg,
		clock:      p.Clock,
		dialer:     p.Dialer,
		store:      p.Store,
		aggregator: p.Aggregator,
		logger:     p.Logger.With("component", _nameKey),
		stats:      p.Stats.SubScope(_nameKey),
	}
	m.unsubscribeStore = p.Store.Subscribe(m.onStoreEvent)
	m.stats.Gauge("status").Update(statusValue(m.status))
	return m
}

func (m *manager) Start(ctx context.Context, target entity.SessionTarget) {
	m.mu.Lock()
	wasActive := m.active
	prevScope := m.scope
	m.target = target

	if !target.Eligible() {
		m.active = false
		m.teardownLocked()
		m.setStatusLocked(entity.StatusDisconnected)
		m.unlockAndFlush()
		if wasActive {
			m.aggregator.ClearSource(entity.SourceLiveSession)
		}
		return
	}

	if wasActive && prevScope == target.Scope {
		connected := m.status == entity.StatusConnected
		token := m.token
		m.mu.Unlock()
		if connected {
			m.openDocument(ctx, token, target.Path)
		}
		return
	}

	m.active = true
	m.scope = target.Scope
	m.connectLocked()
	m.unlockAndFlush()
	if wasActive {
		m.aggregator.ClearSource(entity.SourceLiveSession)
	}
}

func (m *manager) Reconnect() {
	m.mu.Lock()
	if !m.active {
		m.mu.Unlock()
		return
	}
	m.logger.Infow("manual reconnect", "workspace", m.scope.Workspace, "project", m.scope.ProjectID)
	m.connectLocked()
	m.unlockAndFlush()
}

func (m *manager) Stop() {
	m.mu.Lock()
	wasActive := m.active
	m.active = false
	m.teardownLocked()
	m.setStatusLocked(entity.StatusDisconnected)
	m.unlockAndFlush()

	m.wg.Wait()
	if wasActive {
		m.aggregator.ClearSource(entity.SourceLiveSession)
	}
}

func (m *manager) dispose() {
	m.unsubscribeStore()
	m.mu.Lock()
	m.listeners = nil
	m.mu.Unlock()
}

func (m *manager) Status() entity.ConnectionStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *manager) Scope() entity.SessionScope {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scope
}

func (m *manager) Subscribe(listener func(entity.ConnectionStatus)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextListenerID
	m.nextListenerID++
	m.listeners = append(m.listeners, statusListener{id: id, listener: listener})

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, l := range m.listeners {
				if l.id == id {
					m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (m *manager) Hover(ctx context.Context, filePath string, pos entity.Position) (*protocol.Hover, error) {
	conn, params, err := m.positionParams(filePath, pos)
	if err != nil {
		return nil, err
	}
	return conn.Hover(ctx, &protocol.HoverParams{TextDocumentPositionParams: params})
}

func (m *manager) Completion(ctx context.Context, filePath string, pos entity.Position) (*protocol.CompletionList, error) {
	conn, params, err := m.positionParams(filePath, pos)
	if err != nil {
		return nil, err
	}
	return conn.Completion(ctx, &protocol.CompletionParams{TextDocumentPositionParams: params})
}

func (m *manager) positionParams(filePath string, pos entity.Position) (languageserver.Connection, protocol.TextDocumentPositionParams, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != entity.StatusConnected || m.conn == nil {
		return nil, protocol.TextDocumentPositionParams{}, &editorerrors.SessionNotConnectedError{Status: string(m.status)}
	}
	return m.conn, protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: m.uri(filePath)},
		Position:     mapper.PositionToProtocol(pos),
	}, nil
}

func (m *manager) uri(filePath string) uri.URI {
	return mapper.PathToURI(m.cfg.DocumentRoot, m.scope, filePath)
}

// connectLocked tears down what exists and starts a new attempt.
func (m *manager) connectLocked() {
	m.teardownLocked()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	prev := m.released
	released := make(chan struct{})
	m.released = released

	m.setStatusLocked(entity.StatusConnecting)
	m.wg.Add(1)
	go m.dial(ctx, m.token, m.scope, prev, released)
}

// teardownLocked invalidates the current attempt. The transport is closed in the background.
func (m *manager) teardownLocked() {
	m.token++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.synced = make(map[string]*syncedDoc)
	if m.conn != nil {
		conn := m.conn
		m.conn = nil
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.closeConn(conn)
		}()
	}
}

// dial runs one connection attempt. released is closed once this attempt no longer owns a transport.
// The attempt waits for the previous one to release its transport so two transports are never live at once.
func (m *manager) dial(ctx context.Context, token uint64, scope entity.SessionScope, prev <-chan struct{}, released chan struct{}) {
	defer m.wg.Done()

	<-prev
	if ctx.Err() != nil {
		close(released)
		return
	}

	m.stats.Counter("connect_attempts").Inc(1)
	conn, err := m.dialer.Dial(ctx, scope, m.handler(token, scope))
	if err != nil {
		close(released)
		m.connectFailed(token, err)
		return
	}

	if err := m.handshake(ctx, conn, scope); err != nil {
		m.closeConn(conn)
		<-conn.Done()
		close(released)
		m.connectFailed(token, err)
		return
	}

	m.mu.Lock()
	if token != m.token {
		m.mu.Unlock()
		m.closeConn(conn)
		<-conn.Done()
		close(released)
		return
	}
	m.conn = conn
	m.setStatusLocked(entity.StatusConnected)
	path := m.target.Path
	m.wg.Add(1)
	go m.watch(token, conn, released)
	m.unlockAndFlush()

	m.logger.Infow("language session connected", "workspace", scope.Workspace, "project", scope.ProjectID)
	m.openDocument(ctx, token, path)
}

func (m *manager) handshake(ctx context.Context, conn languageserver.Connection, scope entity.SessionScope) error {
	root := uri.File(mapper.DocumentRoot(m.cfg.DocumentRoot, scope))
	_, err := conn.Initialize(ctx, &protocol.InitializeParams{
		ProcessID:  int32(os.Getpid()),
		ClientInfo: &protocol.ClientInfo{Name: _clientName},
		RootURI:    root,
		WorkspaceFolders: []protocol.WorkspaceFolder{{
			URI:  string(root),
			Name: scope.ProjectID,
		}},
	})
	if err != nil {
		return err
	}
	return conn.Initialized(ctx, &protocol.InitializedParams{})
}

func (m *manager) connectFailed(token uint64, err error) {
	m.mu.Lock()
	if token != m.token {
		m.mu.Unlock()
		return
	}
	m.stats.Counter("connect_failures").Inc(1)
	m.logger.Warnw("language session connect failed", "error", err)
	m.setStatusLocked(entity.StatusError)
	m.closedLocked()
	m.unlockAndFlush()
}

// watch waits for the transport to close and drives the close transition unless the attempt was torn down first.
func (m *manager) watch(token uint64, conn languageserver.Connection, released chan struct{}) {
	defer m.wg.Done()

	<-conn.Done()
	close(released)

	m.mu.Lock()
	if token != m.token {
		m.mu.Unlock()
		return
	}
	m.conn = nil
	if err := conn.Err(); !languageserver.IsNormalClosure(err) {
		m.logger.Warnw("language session transport error", "error", err)
		m.setStatusLocked(entity.StatusError)
	}
	m.closedLocked()
	m.unlockAndFlush()
}

// closedLocked is the close transition: it always schedules a reconnect while the session is active.
func (m *manager) closedLocked() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.synced = make(map[string]*syncedDoc)
	m.setStatusLocked(entity.StatusDisconnected)
	if !m.active {
		return
	}

	token := m.token
	m.timer = m.clock.AfterFunc(m.cfg.ReconnectDelay, func() {
		m.reconnectFired(token)
	})
	m.stats.Counter("reconnects_scheduled").Inc(1)
}

func (m *manager) reconnectFired(token uint64) {
	m.mu.Lock()
	if token != m.token || !m.active || !m.target.Eligible() {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	m.connectLocked()
	m.unlockAndFlush()
}

// closeConn stops the server and closes the transport. Every step is best effort.
func (m *manager) closeConn(conn languageserver.Connection) {
	ctx, cancel := context.WithTimeout(context.Background(), _shutdownTimeout)
	defer cancel()

	err := multierr.Combine(
		conn.Shutdown(ctx),
		conn.Exit(ctx),
		conn.Close(),
	)
	if err != nil {
		m.logger.Debugw("language session teardown", "error", err)
	}
}

// openDocument announces filePath to the server once per transport.
func (m *manager) openDocument(ctx context.Context, token uint64, filePath string) {
	doc, ok := m.store.Get(filePath)
	if !ok || doc.Loading || !doc.FileType.SupportsLanguageSession() {
		return
	}

	m.sendMu.Lock()
	defer m.sendMu.Unlock()

	m.mu.Lock()
	if token != m.token || m.conn == nil {
		m.mu.Unlock()
		return
	}
	if _, ok := m.synced[filePath]; ok {
		m.mu.Unlock()
		return
	}
	// content is re-read under sendMu so no change event can slip between the read and the announcement
	doc, ok = m.store.Get(filePath)
	if !ok {
		m.mu.Unlock()
		return
	}
	m.synced[filePath] = &syncedDoc{version: 1, content: doc.Content}
	conn := m.conn
	params := &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        m.uri(filePath),
			LanguageID: protocol.LanguageIdentifier(doc.FileType.LanguageID()),
			Version:    1,
			Text:       doc.Content,
		},
	}
	m.mu.Unlock()

	if err := conn.DidOpen(ctx, params); err != nil {
		m.logger.Warnw("didOpen failed", "path", filePath, "error", err)
	}
}

func (m *manager) onStoreEvent(ev documents.Event) {
	ctx := context.Background()
	switch ev.Kind {
	case documents.EventChanged, documents.EventLoaded:
		m.syncChange(ctx, ev.Path)
	case documents.EventClosed:
		m.syncClose(ctx, []string{ev.Path})
	case documents.EventCleared:
		m.syncClose(ctx, nil)
	case documents.EventActivated:
		if ev.Path == "" {
			return
		}
		m.mu.Lock()
		token, connected := m.token, m.status == entity.StatusConnected
		m.mu.Unlock()
		if connected {
			m.openDocument(ctx, token, ev.Path)
		}
	}
}

func (m *manager) syncChange(ctx context.Context, filePath string) {
	m.sendMu.Lock()
	defer m.sendMu.Unlock()

	m.mu.Lock()
	synced, ok := m.synced[filePath]
	if !ok || m.conn == nil {
		m.mu.Unlock()
		return
	}
	doc, ok := m.store.Get(filePath)
	if !ok || doc.Content == synced.content {
		m.mu.Unlock()
		return
	}
	changes, err := mapper.ContentChanges(synced.content, doc.Content)
	if err != nil {
		// fall back to a full replacement
		changes = []protocol.TextDocumentContentChangeEvent{{Text: doc.Content}}
	}
	synced.version++
	synced.content = doc.Content
	conn := m.conn
	params := &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: m.uri(filePath)},
			Version:                synced.version,
		},
		ContentChanges: changes,
	}
	m.mu.Unlock()

	if err := conn.DidChange(ctx, params); err != nil {
		m.logger.Warnw("didChange failed", "path", filePath, "error", err)
	}
}

// syncClose announces closed documents. A nil paths closes every synced document.
func (m *manager) syncClose(ctx context.Context, paths []string) {
	m.sendMu.Lock()
	defer m.sendMu.Unlock()

	m.mu.Lock()
	if m.conn == nil {
		m.mu.Unlock()
		return
	}
	if paths == nil {
		for p := range m.synced {
			paths = append(paths, p)
		}
	}
	var closed []protocol.DocumentURI
	for _, p := range paths {
		if _, ok := m.synced[p]; ok {
			delete(m.synced, p)
			closed = append(closed, m.uri(p))
		}
	}
	conn := m.conn
	m.mu.Unlock()

	for _, u := range closed {
		if err := conn.DidClose(ctx, &protocol.DidCloseTextDocumentParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: u},
		}); err != nil {
			m.logger.Warnw("didClose failed", "uri", u, "error", err)
		}
	}
}

// handler serves server to client traffic for one attempt. It runs on the transport's read loop and must not block on it.
func (m *manager) handler(token uint64, scope entity.SessionScope) jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		var err error
		switch req.Method() {
		case protocol.MethodTextDocumentPublishDiagnostics:
			m.publishDiagnostics(token, scope, req.Params())
			err = reply(ctx, nil, nil)
		case protocol.MethodWindowLogMessage, protocol.MethodWindowShowMessage:
			var params protocol.LogMessageParams
			if json.Unmarshal(req.Params(), &params) == nil {
				m.logger.Debugw("language server message", "type", params.Type.String(), "message", params.Message)
			}
			err = reply(ctx, nil, nil)
		case protocol.MethodWorkDoneProgressCreate, protocol.MethodProgress, protocol.MethodClientRegisterCapability:
			err = reply(ctx, nil, nil)
		default:
			err = jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
		}
		if err != nil {
			m.logger.Debugw("replying to language server", "method", req.Method(), "error", err)
		}
		return nil
	}
}

func (m *manager) publishDiagnostics(token uint64, scope entity.SessionScope, raw json.RawMessage) {
	var params protocol.PublishDiagnosticsParams
	if err := json.Unmarshal(raw, &params); err != nil {
		m.logger.Warnw("malformed publishDiagnostics", "error", err)
		return
	}

	m.mu.Lock()
	current := token == m.token
	m.mu.Unlock()
	if !current {
		return
	}

	filePath, ok := mapper.URIToPath(m.cfg.DocumentRoot, scope, params.URI)
	if !ok {
		m.logger.Debugw("diagnostics for a document outside the project", "uri", params.URI)
		return
	}
	markers := mapper.ProtocolDiagnosticsToMarkers(filePath, params.Diagnostics)
	m.stats.Counter("markers_received").Inc(int64(len(markers)))
	m.aggregator.Ingest(entity.SourceLiveSession, filePath, markers)
}

func (m *manager) setStatusLocked(status entity.ConnectionStatus) {
	if m.status == status {
		return
	}
	m.status = status
	m.pending = append(m.pending, status)
	m.stats.Gauge("status").Update(statusValue(status))
}

// unlockAndFlush releases mu and delivers pending status changes in order, outside the lock.
// Only one caller delivers at a time. Listeners may call back into the manager.
func (m *manager) unlockAndFlush() {
	if m.draining {
		m.mu.Unlock()
		return
	}
	m.draining = true
	for len(m.pending) > 0 {
		statuses := m.pending
		m.pending = nil
		listeners := make([]statusListener, len(m.listeners))
		copy(listeners, m.listeners)
		m.mu.Unlock()

		for _, s := range statuses {
			for _, l := range listeners {
				m.safeCall(l.listener, s)
			}
		}
		m.mu.Lock()
	}
	m.draining = false
	m.mu.Unlock()
}

func (m *manager) safeCall(listener func(entity.ConnectionStatus), status entity.ConnectionStatus) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Errorw("status listener panicked", "panic", r)
		}
	}()
	listener(status)
}

func statusValue(s entity.ConnectionStatus) float64 {
	switch s {
	case entity.StatusConnecting:
		return 1
	case entity.StatusConnected:
		return 2
	case entity.StatusError:
		return 3
	default:
		return 0
	}
}
