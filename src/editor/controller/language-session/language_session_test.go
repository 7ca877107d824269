package languagesession

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
	"github.com/uber/arena-editor/src/editor/controller/diagnostics"
	"github.com/uber/arena-editor/src/editor/controller/documents"
	"github.com/uber/arena-editor/src/editor/entity"
	"github.com/uber/arena-editor/src/editor/factory"
	languageserver "github.com/uber/arena-editor/src/editor/gateway/language-server"
	"github.com/uber/arena-editor/src/editor/internal/clock"
	"github.com/uber/arena-editor/src/editor/internal/clock/clockmock"
	editorerrors "github.com/uber/arena-editor/src/editor/internal/errors"
	"github.com/uber/arena-editor/src/editor/internal/filetype"
	"github.com/uber/arena-editor/src/editor/mapper"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/fx/fxtest"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const (
	_configPath = "config.arena.yaml"
	_otherPath  = "pipelines/train.arena.yaml"
	_notesPath  = "README.md"

	_waitFor = 5 * time.Second
	_tick    = 5 * time.Millisecond
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeConn struct {
	mu        sync.Mutex
	opened    []protocol.DidOpenTextDocumentParams
	changed   []protocol.DidChangeTextDocumentParams
	closed    []protocol.DidCloseTextDocumentParams
	hovers    []protocol.HoverParams
	shutdowns int

	initErr error
	err     error
	done    chan struct{}
	once    sync.Once
	onClose func()
}

func (c *fakeConn) Initialize(context.Context, *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	if c.initErr != nil {
		return nil, c.initErr
	}
	return &protocol.InitializeResult{ServerInfo: &protocol.ServerInfo{Name: "fake"}}, nil
}

func (c *fakeConn) Initialized(context.Context, *protocol.InitializedParams) error { return nil }

func (c *fakeConn) DidOpen(_ context.Context, params *protocol.DidOpenTextDocumentParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opened = append(c.opened, *params)
	return nil
}

func (c *fakeConn) DidChange(_ context.Context, params *protocol.DidChangeTextDocumentParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.changed = append(c.changed, *params)
	return nil
}

func (c *fakeConn) DidClose(_ context.Context, params *protocol.DidCloseTextDocumentParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = append(c.closed, *params)
	return nil
}

func (c *fakeConn) Hover(_ context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hovers = append(c.hovers, *params)
	return &protocol.Hover{Contents: protocol.MarkupContent{Kind: protocol.PlainText, Value: "field"}}, nil
}

func (c *fakeConn) Completion(context.Context, *protocol.CompletionParams) (*protocol.CompletionList, error) {
	return &protocol.CompletionList{Items: []protocol.CompletionItem{{Label: "name"}}}, nil
}

func (c *fakeConn) Shutdown(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shutdowns++
	return nil
}

func (c *fakeConn) Exit(context.Context) error { return errors.New("exit after shutdown") }

func (c *fakeConn) Close() error {
	c.drop(nil)
	return nil
}

func (c *fakeConn) Done() <-chan struct{} { return c.done }

func (c *fakeConn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// drop closes the transport as if the remote end went away.
func (c *fakeConn) drop(err error) {
	c.once.Do(func() {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		if c.onClose != nil {
			c.onClose()
		}
		close(c.done)
	})
}

func (c *fakeConn) snapshot() ([]protocol.DidOpenTextDocumentParams, []protocol.DidChangeTextDocumentParams, []protocol.DidCloseTextDocumentParams) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]protocol.DidOpenTextDocumentParams(nil), c.opened...),
		append([]protocol.DidChangeTextDocumentParams(nil), c.changed...),
		append([]protocol.DidCloseTextDocumentParams(nil), c.closed...)
}

type fakeDialer struct {
	mu       sync.Mutex
	conns    []*fakeConn
	handlers []jsonrpc2.Handler
	scopes   []entity.SessionScope
	live     int
	maxLive  int
	dialErr  error
	initErr  error
}

func (d *fakeDialer) Dial(_ context.Context, scope entity.SessionScope, handler jsonrpc2.Handler) (languageserver.Connection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.scopes = append(d.scopes, scope)
	if d.dialErr != nil {
		return nil, d.dialErr
	}
	conn := &fakeConn{done: make(chan struct{}), initErr: d.initErr}
	conn.onClose = func() {
		d.mu.Lock()
		d.live--
		d.mu.Unlock()
	}
	d.live++
	if d.live > d.maxLive {
		d.maxLive = d.live
	}
	d.conns = append(d.conns, conn)
	d.handlers = append(d.handlers, handler)
	return conn, nil
}

func (d *fakeDialer) dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.scopes)
}

func (d *fakeDialer) conn(i int) *fakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.conns[i]
}

func (d *fakeDialer) handler(i int) jsonrpc2.Handler {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.handlers[i]
}

type statusRecorder struct {
	mu       sync.Mutex
	statuses []entity.ConnectionStatus
}

func (r *statusRecorder) record(s entity.ConnectionStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, s)
}

func (r *statusRecorder) get() []entity.ConnectionStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.ConnectionStatus(nil), r.statuses...)
}

type harness struct {
	m          *manager
	store      documents.Store
	aggregator diagnostics.Aggregator
	dialer     *fakeDialer
	timers     chan func()
	timer      *clockmock.MockTimer
	statuses   *statusRecorder
	stats      tally.TestScope
}

func newHarness(t *testing.T) *harness {
	ctrl := gomock.NewController(t)
	stats := tally.NewTestScope("testing", make(map[string]string, 0))
	logger := zap.NewNop().Sugar()

	store, err := documents.New(documents.Params{
		Config:     factory.Config("editor:\n  maxFileSizeBytes: 0\n"),
		Logger:     logger,
		Stats:      stats,
		Classifier: filetype.NewClassifier(nil),
	})
	require.NoError(t, err)
	aggregator := diagnostics.New(diagnostics.Params{Logger: logger, Stats: stats})

	h := &harness{
		store:      store,
		aggregator: aggregator,
		dialer:     &fakeDialer{},
		timers:     make(chan func(), 16),
		timer:      clockmock.NewMockTimer(ctrl),
		statuses:   &statusRecorder{},
		stats:      stats,
	}
	h.timer.EXPECT().Stop().Return(true).AnyTimes()

	clk := clockmock.NewMockClock(ctrl)
	clk.EXPECT().AfterFunc(5*time.Second, gomock.Any()).DoAndReturn(func(_ time.Duration, f func()) clock.Timer {
		h.timers <- f
		return h.timer
	}).AnyTimes()

	h.m = newManager(languageserver.Config{
		Enabled:        true,
		URL:            "ws://localhost/lsp",
		ReconnectDelay: 5 * time.Second,
		DocumentRoot:   "file:///arena",
	}, Params{
		Logger:     logger,
		Stats:      stats,
		Clock:      clk,
		Dialer:     h.dialer,
		Store:      store,
		Aggregator: aggregator,
	})
	h.m.Subscribe(h.statuses.record)
	t.Cleanup(h.m.Stop)
	return h
}

func (h *harness) open(t *testing.T, filePath, content string) {
	require.NoError(t, h.store.OpenFile(filePath, filePath, content))
}

func target(filePath string, fileType entity.FileType) entity.SessionTarget {
	return entity.SessionTarget{
		Scope:        factory.Scope(),
		Path:         filePath,
		FileType:     fileType,
		SurfaceReady: true,
	}
}

func (h *harness) waitStatus(t *testing.T, want entity.ConnectionStatus) {
	require.Eventually(t, func() bool {
		seen := h.statuses.get()
		return h.m.Status() == want && len(seen) > 0 && seen[len(seen)-1] == want
	}, _waitFor, _tick, "status never became %s", want)
}

func (h *harness) nextTimer(t *testing.T) func() {
	select {
	case f := <-h.timers:
		return f
	case <-time.After(_waitFor):
		t.Fatal("no reconnect was scheduled")
		return nil
	}
}

func noopReply(context.Context, interface{}, error) error { return nil }

func TestNewDisabled(t *testing.T) {
	m, err := New(Params{
		Config: factory.Config("languageSession:\n  enabled: false\n"),
		Logger: zap.NewNop().Sugar(),
	})
	require.NoError(t, err)

	m.Start(context.Background(), target(_configPath, entity.FileTypeArenaConfig))
	assert.Equal(t, entity.StatusDisconnected, m.Status())
	assert.Equal(t, entity.SessionScope{}, m.Scope())

	_, err = m.Hover(context.Background(), _configPath, entity.Position{})
	assert.ErrorIs(t, err, editorerrors.ErrSessionDisabled)
	_, err = m.Completion(context.Background(), _configPath, entity.Position{})
	assert.ErrorIs(t, err, editorerrors.ErrSessionDisabled)
	m.Subscribe(func(entity.ConnectionStatus) {})()
	m.Reconnect()
	m.Stop()
}

func TestNewInvalidConfig(t *testing.T) {
	_, err := New(Params{
		Config: factory.Config("languageSession:\n  enabled: true\n"),
		Logger: zap.NewNop().Sugar(),
	})
	assert.Error(t, err)
}

func TestNewRegistersLifecycle(t *testing.T) {
	logger := zap.NewNop().Sugar()
	stats := tally.NoopScope
	store, err := documents.New(documents.Params{
		Config: factory.Config("editor:\n  maxFileSizeBytes: 0\n"),
		Logger: logger,
		Stats:  stats,
	})
	require.NoError(t, err)

	lc := fxtest.NewLifecycle(t)
	m, err := New(Params{
		Config:     factory.Config("languageSession:\n  enabled: true\n  url: ws://localhost/lsp\n"),
		Logger:     logger,
		Stats:      stats,
		Clock:      clock.New(),
		Dialer:     &fakeDialer{},
		Store:      store,
		Aggregator: diagnostics.New(diagnostics.Params{Logger: logger, Stats: stats}),
		Lifecycle:  lc,
	})
	require.NoError(t, err)
	require.IsType(t, &manager{}, m)

	lc.RequireStart()
	lc.RequireStop()
	assert.Equal(t, entity.StatusDisconnected, m.Status())
}

func TestIneligibleTargetNeverDials(t *testing.T) {
	h := newHarness(t)
	h.open(t, _notesPath, "# notes")

	tests := []entity.SessionTarget{
		target(_notesPath, entity.FileTypeMarkdown),
		{Scope: entity.SessionScope{Workspace: "ws-1"}, Path: _configPath, FileType: entity.FileTypeArenaConfig, SurfaceReady: true},
		{Scope: factory.Scope(), Path: _configPath, FileType: entity.FileTypeArenaConfig},
	}
	for _, tt := range tests {
		h.m.Start(context.Background(), tt)
	}

	assert.Equal(t, 0, h.dialer.dials())
	assert.Equal(t, entity.StatusDisconnected, h.m.Status())
	assert.Empty(t, h.statuses.get())
}

func TestConnectAndSyncDocuments(t *testing.T) {
	h := newHarness(t)
	h.open(t, _configPath, "name: a\n")

	h.m.Start(context.Background(), target(_configPath, entity.FileTypeArenaConfig))
	h.waitStatus(t, entity.StatusConnected)
	assert.Equal(t, []entity.ConnectionStatus{entity.StatusConnecting, entity.StatusConnected}, h.statuses.get())
	assert.Equal(t, []entity.SessionScope{factory.Scope()}, h.dialer.scopes)
	assert.Equal(t, factory.Scope(), h.m.Scope())

	conn := h.dialer.conn(0)
	wantURI := protocol.DocumentURI("file:///arena/ws-1/project-1/config.arena.yaml")
	require.Eventually(t, func() bool {
		opened, _, _ := conn.snapshot()
		return len(opened) == 1
	}, _waitFor, _tick)
	opened, _, _ := conn.snapshot()
	assert.Equal(t, wantURI, opened[0].TextDocument.URI)
	assert.Equal(t, protocol.LanguageIdentifier("yaml"), opened[0].TextDocument.LanguageID)
	assert.Equal(t, int32(1), opened[0].TextDocument.Version)
	assert.Equal(t, "name: a\n", opened[0].TextDocument.Text)

	require.True(t, h.store.UpdateContent(_configPath, "name: abc\nsteps: []\n"))
	require.True(t, h.store.UpdateContent(_configPath, "name: abc\n"))
	_, changed, _ := conn.snapshot()
	require.Len(t, changed, 2)
	assert.Equal(t, int32(2), changed[0].TextDocument.Version)
	assert.Equal(t, int32(3), changed[1].TextDocument.Version)

	text := "name: a\n"
	for _, c := range changed {
		var err error
		text, err = mapper.ApplyContentChanges(text, c.ContentChanges)
		require.NoError(t, err)
	}
	assert.Equal(t, "name: abc\n", text)

	// saving does not change content, nothing is sent
	require.True(t, h.store.MarkSaved(_configPath))
	_, changed, _ = conn.snapshot()
	assert.Len(t, changed, 2)

	require.True(t, h.store.CloseFile(_configPath))
	_, _, closed := conn.snapshot()
	require.Len(t, closed, 1)
	assert.Equal(t, wantURI, closed[0].TextDocument.URI)

	assert.Equal(t, int64(1), h.stats.Snapshot().Counters()["testing.language_session.connect_attempts+"].Value())
	assert.Equal(t, float64(2), h.stats.Snapshot().Gauges()["testing.language_session.status+"].Value())
}

func TestActivatedDocumentIsOpened(t *testing.T) {
	h := newHarness(t)
	h.open(t, _configPath, "a: 1\n")
	h.open(t, _otherPath, "b: 2\n")
	h.open(t, _notesPath, "# notes\n")
	require.True(t, h.store.SetActiveFile(_configPath))

	h.m.Start(context.Background(), target(_configPath, entity.FileTypeArenaConfig))
	h.waitStatus(t, entity.StatusConnected)
	conn := h.dialer.conn(0)

	require.True(t, h.store.SetActiveFile(_otherPath))
	require.True(t, h.store.SetActiveFile(_notesPath))
	require.Eventually(t, func() bool {
		opened, _, _ := conn.snapshot()
		return len(opened) == 2
	}, _waitFor, _tick)

	// same scope, different document keeps the transport
	h.m.Start(context.Background(), target(_otherPath, entity.FileTypeArenaConfig))
	opened, _, _ := conn.snapshot()
	assert.Len(t, opened, 2)
	assert.Equal(t, 1, h.dialer.dials())

	h.store.ClearProject()
	_, _, closed := conn.snapshot()
	assert.Len(t, closed, 2)
}

func TestPublishDiagnostics(t *testing.T) {
	h := newHarness(t)
	h.open(t, _configPath, "a: 1\n")
	h.m.Start(context.Background(), target(_configPath, entity.FileTypeArenaConfig))
	h.waitStatus(t, entity.StatusConnected)

	publish := func(handler jsonrpc2.Handler, u string, messages ...string) {
		params := protocol.PublishDiagnosticsParams{URI: protocol.DocumentURI(u)}
		for _, msg := range messages {
			params.Diagnostics = append(params.Diagnostics, protocol.Diagnostic{
				Range:    protocol.Range{Start: protocol.Position{Line: 1, Character: 2}, End: protocol.Position{Line: 1, Character: 5}},
				Severity: protocol.DiagnosticSeverityWarning,
				Message:  msg,
			})
		}
		req := factory.JSONRPCNotification(protocol.MethodTextDocumentPublishDiagnostics, params)
		require.NoError(t, handler(context.Background(), noopReply, req))
	}

	handler := h.dialer.handler(0)
	publish(handler, "file:///arena/ws-1/project-1/config.arena.yaml", "unknown key", "deprecated")
	publish(handler, "file:///elsewhere/config.arena.yaml", "ignored")

	markers := h.aggregator.Markers(_configPath)
	require.Len(t, markers, 2)
	assert.Equal(t, entity.SourceLiveSession, markers[0].Source)
	assert.Equal(t, entity.SeverityWarning, markers[0].Severity)
	assert.Equal(t, entity.Range{Start: entity.Position{Line: 1, Character: 2}, End: entity.Position{Line: 1, Character: 5}}, markers[0].Range)
	assert.Len(t, h.aggregator.GroupByFile(), 1)

	// a later push for the same document replaces the earlier one
	publish(handler, "file:///arena/ws-1/project-1/config.arena.yaml")
	assert.Empty(t, h.aggregator.GroupByFile())

	publish(handler, "file:///arena/ws-1/project-1/config.arena.yaml", "again")
	require.Len(t, h.aggregator.Markers(_configPath), 1)

	// deliberate teardown clears live markers and makes the old handler stale
	h.m.Stop()
	assert.Empty(t, h.aggregator.Markers(_configPath))
	publish(handler, "file:///arena/ws-1/project-1/config.arena.yaml", "late")
	assert.Empty(t, h.aggregator.Markers(_configPath))
}

func TestServerRequestsAreAnswered(t *testing.T) {
	h := newHarness(t)
	h.open(t, _configPath, "a: 1\n")
	h.m.Start(context.Background(), target(_configPath, entity.FileTypeArenaConfig))
	h.waitStatus(t, entity.StatusConnected)
	handler := h.dialer.handler(0)

	var replyErr error
	replied := false
	reply := func(_ context.Context, _ interface{}, err error) error {
		replied, replyErr = true, err
		return nil
	}

	require.NoError(t, handler(context.Background(), reply, factory.JSONRPCRequest(protocol.MethodWorkDoneProgressCreate, map[string]string{"token": "t"})))
	assert.True(t, replied)
	assert.NoError(t, replyErr)

	replied = false
	require.NoError(t, handler(context.Background(), reply, factory.JSONRPCRequest("workspace/unknown", nil)))
	assert.True(t, replied)
	assert.Error(t, replyErr)

	require.NoError(t, handler(context.Background(), noopReply, factory.JSONRPCNotification(protocol.MethodWindowLogMessage, &protocol.LogMessageParams{Type: protocol.MessageTypeInfo, Message: "ready"})))
}

func TestTransportErrorSchedulesReconnect(t *testing.T) {
	h := newHarness(t)
	h.open(t, _configPath, "a: 1\n")
	h.m.Start(context.Background(), target(_configPath, entity.FileTypeArenaConfig))
	h.waitStatus(t, entity.StatusConnected)

	h.aggregator.Ingest(entity.SourceLiveSession, _configPath, factory.Markers(_configPath, entity.SourceLiveSession, 1))

	h.dialer.conn(0).drop(errors.New("connection reset by peer"))
	reconnect := h.nextTimer(t)
	h.waitStatus(t, entity.StatusDisconnected)
	assert.Equal(t, []entity.ConnectionStatus{
		entity.StatusConnecting,
		entity.StatusConnected,
		entity.StatusError,
		entity.StatusDisconnected,
	}, h.statuses.get())

	// transient drops keep the last live markers
	assert.Len(t, h.aggregator.Markers(_configPath), 1)

	reconnect()
	h.waitStatus(t, entity.StatusConnected)
	assert.Equal(t, 2, h.dialer.dials())
	require.Eventually(t, func() bool {
		opened, _, _ := h.dialer.conn(1).snapshot()
		return len(opened) == 1
	}, _waitFor, _tick)

	// the timer already fired, firing it again is stale
	reconnect()
	assert.Equal(t, 2, h.dialer.dials())
	assert.Equal(t, int64(1), h.stats.Snapshot().Counters()["testing.language_session.reconnects_scheduled+"].Value())
}

func TestNormalCloseSchedulesReconnectWithoutError(t *testing.T) {
	h := newHarness(t)
	h.open(t, _configPath, "a: 1\n")
	h.m.Start(context.Background(), target(_configPath, entity.FileTypeArenaConfig))
	h.waitStatus(t, entity.StatusConnected)

	h.dialer.conn(0).drop(nil)
	h.nextTimer(t)
	h.waitStatus(t, entity.StatusDisconnected)
	assert.Equal(t, []entity.ConnectionStatus{
		entity.StatusConnecting,
		entity.StatusConnected,
		entity.StatusDisconnected,
	}, h.statuses.get())
}

func TestDialFailureSchedulesReconnect(t *testing.T) {
	h := newHarness(t)
	h.dialer.dialErr = errors.New("connection refused")
	h.open(t, _configPath, "a: 1\n")

	h.m.Start(context.Background(), target(_configPath, entity.FileTypeArenaConfig))
	reconnect := h.nextTimer(t)
	h.waitStatus(t, entity.StatusDisconnected)
	assert.Equal(t, []entity.ConnectionStatus{
		entity.StatusConnecting,
		entity.StatusError,
		entity.StatusDisconnected,
	}, h.statuses.get())
	assert.Equal(t, int64(1), h.stats.Snapshot().Counters()["testing.language_session.connect_failures+"].Value())

	// there is no retry cap
	reconnect()
	h.nextTimer(t)()
	h.nextTimer(t)
	assert.Equal(t, 3, h.dialer.dials())
}

func TestHandshakeFailureClosesTransport(t *testing.T) {
	h := newHarness(t)
	h.dialer.initErr = errors.New("initialize: unsupported client")
	h.open(t, _configPath, "a: 1\n")

	h.m.Start(context.Background(), target(_configPath, entity.FileTypeArenaConfig))
	h.nextTimer(t)
	h.waitStatus(t, entity.StatusDisconnected)

	select {
	case <-h.dialer.conn(0).Done():
	default:
		t.Fatal("transport left open after a failed handshake")
	}
	assert.Contains(t, h.statuses.get(), entity.StatusError)
}

func TestStaleReconnectTimerIsNoop(t *testing.T) {
	h := newHarness(t)
	h.open(t, _configPath, "a: 1\n")
	h.m.Start(context.Background(), target(_configPath, entity.FileTypeArenaConfig))
	h.waitStatus(t, entity.StatusConnected)

	h.dialer.conn(0).drop(errors.New("broken pipe"))
	reconnect := h.nextTimer(t)

	h.m.Stop()
	reconnect()

	assert.Equal(t, 1, h.dialer.dials())
	assert.Equal(t, entity.StatusDisconnected, h.m.Status())
}

func TestManualReconnectInvalidatesTimer(t *testing.T) {
	h := newHarness(t)
	h.open(t, _configPath, "a: 1\n")
	h.m.Start(context.Background(), target(_configPath, entity.FileTypeArenaConfig))
	h.waitStatus(t, entity.StatusConnected)

	h.dialer.conn(0).drop(errors.New("broken pipe"))
	reconnect := h.nextTimer(t)

	h.m.Reconnect()
	h.waitStatus(t, entity.StatusConnected)
	reconnect()
	assert.Equal(t, 2, h.dialer.dials())
}

func TestReconnectWhileInactiveIsNoop(t *testing.T) {
	h := newHarness(t)
	h.m.Reconnect()
	assert.Equal(t, 0, h.dialer.dials())
}

func TestIneligibleTargetTearsDown(t *testing.T) {
	h := newHarness(t)
	h.open(t, _configPath, "a: 1\n")
	h.m.Start(context.Background(), target(_configPath, entity.FileTypeArenaConfig))
	h.waitStatus(t, entity.StatusConnected)
	h.aggregator.Ingest(entity.SourceLiveSession, _configPath, factory.Markers(_configPath, entity.SourceLiveSession, 2))
	h.aggregator.Ingest(entity.SourceBatchValidate, _configPath, factory.Markers(_configPath, entity.SourceBatchValidate, 1))

	h.m.Start(context.Background(), target(_notesPath, entity.FileTypeMarkdown))
	assert.Equal(t, entity.StatusDisconnected, h.m.Status())
	require.Eventually(t, func() bool {
		select {
		case <-h.dialer.conn(0).Done():
			return true
		default:
			return false
		}
	}, _waitFor, _tick)

	markers := h.aggregator.Markers(_configPath)
	require.Len(t, markers, 1)
	assert.Equal(t, entity.SourceBatchValidate, markers[0].Source)

	select {
	case <-h.timers:
		t.Fatal("deliberate teardown scheduled a reconnect")
	default:
	}
}

func TestScopeChangeReconnects(t *testing.T) {
	h := newHarness(t)
	h.open(t, _configPath, "a: 1\n")
	h.m.Start(context.Background(), target(_configPath, entity.FileTypeArenaConfig))
	h.waitStatus(t, entity.StatusConnected)

	other := target(_configPath, entity.FileTypeArenaConfig)
	other.Scope = entity.SessionScope{Workspace: "ws-2", ProjectID: "project-9"}
	h.m.Start(context.Background(), other)

	require.Eventually(t, func() bool { return h.dialer.dials() == 2 && h.m.Status() == entity.StatusConnected }, _waitFor, _tick)
	assert.Equal(t, other.Scope, h.dialer.scopes[1])
	assert.Equal(t, other.Scope, h.m.Scope())
	select {
	case <-h.dialer.conn(0).Done():
	default:
		t.Fatal("previous transport still open")
	}

	require.Eventually(t, func() bool {
		opened, _, _ := h.dialer.conn(1).snapshot()
		return len(opened) == 1
	}, _waitFor, _tick)
	opened, _, _ := h.dialer.conn(1).snapshot()
	assert.Equal(t, protocol.DocumentURI("file:///arena/ws-2/project-9/config.arena.yaml"), opened[0].TextDocument.URI)
}

func TestSingleLiveTransport(t *testing.T) {
	h := newHarness(t)
	h.open(t, _configPath, "a: 1\n")
	h.open(t, _notesPath, "# notes\n")

	other := target(_configPath, entity.FileTypeArenaConfig)
	other.Scope = entity.SessionScope{Workspace: "ws-2", ProjectID: "project-2"}

	for i := 0; i < 40; i++ {
		switch i % 5 {
		case 0:
			h.m.Start(context.Background(), target(_configPath, entity.FileTypeArenaConfig))
		case 1:
			h.m.Start(context.Background(), other)
		case 2:
			h.m.Reconnect()
		case 3:
			h.m.Start(context.Background(), target(_notesPath, entity.FileTypeMarkdown))
		case 4:
			h.m.Start(context.Background(), target(_configPath, entity.FileTypeArenaConfig))
			h.m.Stop()
		}
	}
	h.m.Start(context.Background(), target(_configPath, entity.FileTypeArenaConfig))
	h.waitStatus(t, entity.StatusConnected)
	h.m.Stop()

	h.dialer.mu.Lock()
	defer h.dialer.mu.Unlock()
	assert.Equal(t, 1, h.dialer.maxLive)
	assert.Equal(t, 0, h.dialer.live)
}

func TestLanguageFeatures(t *testing.T) {
	h := newHarness(t)
	h.open(t, _configPath, "a: 1\n")

	_, err := h.m.Hover(context.Background(), _configPath, entity.Position{Line: 0, Character: 1})
	assert.True(t, editorerrors.IsSessionNotConnected(err))
	_, err = h.m.Completion(context.Background(), _configPath, entity.Position{})
	assert.True(t, editorerrors.IsSessionNotConnected(err))

	h.m.Start(context.Background(), target(_configPath, entity.FileTypeArenaConfig))
	h.waitStatus(t, entity.StatusConnected)

	hover, err := h.m.Hover(context.Background(), _configPath, entity.Position{Line: 0, Character: 1})
	require.NoError(t, err)
	assert.Equal(t, "field", hover.Contents.Value)

	conn := h.dialer.conn(0)
	conn.mu.Lock()
	require.Len(t, conn.hovers, 1)
	assert.Equal(t, protocol.DocumentURI("file:///arena/ws-1/project-1/config.arena.yaml"), conn.hovers[0].TextDocument.URI)
	assert.Equal(t, protocol.Position{Line: 0, Character: 1}, conn.hovers[0].Position)
	conn.mu.Unlock()

	list, err := h.m.Completion(context.Background(), _configPath, entity.Position{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "name", list.Items[0].Label)
}

func TestTeardownShutsServerDown(t *testing.T) {
	h := newHarness(t)
	h.open(t, _configPath, "a: 1\n")
	h.m.Start(context.Background(), target(_configPath, entity.FileTypeArenaConfig))
	h.waitStatus(t, entity.StatusConnected)

	h.m.Stop()
	conn := h.dialer.conn(0)
	conn.mu.Lock()
	defer conn.mu.Unlock()
	assert.Equal(t, 1, conn.shutdowns)
}

func TestStatusListenerPanicIsRecovered(t *testing.T) {
	h := newHarness(t)
	h.m.Subscribe(func(entity.ConnectionStatus) { panic("boom") })
	unsubscribe := h.m.Subscribe(func(entity.ConnectionStatus) { t.Fatal("unsubscribed listener called") })
	unsubscribe()
	h.open(t, _configPath, "a: 1\n")

	h.m.Start(context.Background(), target(_configPath, entity.FileTypeArenaConfig))
	h.waitStatus(t, entity.StatusConnected)
	assert.Equal(t, []entity.ConnectionStatus{entity.StatusConnecting, entity.StatusConnected}, h.statuses.get())
}
