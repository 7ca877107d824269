package jsonrpcfx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/gofrs/uuid"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/uber/arena-editor/src/editor/internal/core"
	"github.com/uber/arena-editor/src/editor/internal/serverinfofile"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_configKey = "jsonrpc"
	_outputKey = "jsonrpc-address"
)

// Module is an fx module to handle JSON-RPC requests from presentation clients.
var Module = fx.Provide(New)

// JSONRPCModule represents a module to manage JSON-RPC requests.
type JSONRPCModule interface {
	OnStart(ctx context.Context) error
	OnStop(ctx context.Context) error
	ServeStream(ctx context.Context, conn jsonrpc2.Conn) error
	RegisterConnectionManager(connectionManager ConnectionManager) error
	// Addr returns the bound listener address once started.
	Addr() net.Addr
}

// Router serves as the interface through which handling of requests will be implemented.
type Router interface {
	HandleReq(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error
	UUID() uuid.UUID
}

// ConnectionManager will manage each active connection and its corresponding Router throughout the lifecycle of a connection.
type ConnectionManager interface {
	NewConnection(ctx context.Context, conn *jsonrpc2.Conn) (router Router, err error)
	RemoveConnection(ctx context.Context, id uuid.UUID)
}

// Config is the jsonrpc configuration section.
type Config struct {
	Address string `yaml:"address"`
}

// Validate implements validation.Validatable.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Address, validation.Required),
	)
}

type module struct {
	cfg Config

	connectionMgr  ConnectionManager
	ln             net.Listener
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	logger         *zap.SugaredLogger
	serverInfoFile serverinfofile.ServerInfoFile
}

// Params define values to be used by JsonRpcHandler.
type Params struct {
	fx.In

	Config         config.Provider
	Lifecycle      fx.Lifecycle
	Logger         *zap.SugaredLogger
	ServerInfoFile serverinfofile.ServerInfoFile
}

// New creates a new server to handle JSON-RPC requests on the configured address.
func New(p Params) (JSONRPCModule, error) {
	if p.Lifecycle == nil || p.Config == nil {
		return nil, errors.New("required parameters are missing")
	}

	m := &module{
		logger:         p.Logger,
		serverInfoFile: p.ServerInfoFile,
	}

	if err := core.PopulateValidated(p.Config, _configKey, &m.cfg); err != nil {
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: m.OnStart,
		OnStop:  m.OnStop,
	})

	return m, nil
}

// OnStart binds the listener and then begins handling incoming connections.
func (m *module) OnStart(ctx context.Context) error {
	ln, err := net.Listen("tcp", m.cfg.Address)
	if err != nil {
		return fmt.Errorf("listening on %q: %w", m.cfg.Address, err)
	}
	m.ln = ln

	if m.serverInfoFile != nil {
		if err := m.serverInfoFile.UpdateField(_outputKey, ln.Addr().String()); err != nil {
			ln.Close()
			return err
		}
	}

	serveCtx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.wg.Add(1)
	go m.serve(serveCtx, ln)
	m.logger.Infow("started JSON-RPC inbound", "address", ln.Addr().String())
	return nil
}

// serve accepts connections until the listener is closed. Every connection is served on its own goroutine.
func (m *module) serve(ctx context.Context, ln net.Listener) {
	defer m.wg.Done()
	for {
		nc, err := ln.Accept()
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, net.ErrClosed) {
				m.logger.Errorw("JSON-RPC inbound stopped", "error", err)
			}
			return
		}

		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			stream := jsonrpc2.NewStream(nc)
			if err := m.ServeStream(ctx, jsonrpc2.NewConn(stream)); err != nil && ctx.Err() == nil {
				m.logger.Debugw("connection closed", "error", err)
			}
			stream.Close()
		}()
	}
}

// OnStop closes the listener and waits for the accept loop to exit.
func (m *module) OnStop(ctx context.Context) error {
	if m.ln == nil {
		return nil
	}
	m.cancel()
	err := m.ln.Close()
	m.wg.Wait()
	if err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

func (m *module) Addr() net.Addr {
	if m.ln == nil {
		return nil
	}
	return m.ln.Addr()
}

// ServeStream is called when a new connection is initiated. Requests received via the connection will be routed to the handler, and answered via the connection's replier.
func (m *module) ServeStream(ctx context.Context, conn jsonrpc2.Conn) error {
	if m.connectionMgr == nil {
		m.logger.Errorf("cannot serve connection, no connection manager set")
		return errors.New("cannot serve connection, no connection manager set")
	}

	handler, err := m.connectionMgr.NewConnection(ctx, &conn)
	if err != nil {
		return err
	}
	m.logger.Infow("client connected", zap.Stringer("uuid", handler.UUID()))
	conn.Go(ctx, handler.HandleReq)

	select {
	case <-conn.Done():
	case <-ctx.Done():
		conn.Close()
		<-conn.Done()
	}

	m.connectionMgr.RemoveConnection(context.WithoutCancel(ctx), handler.UUID())
	m.logger.Infow("client disconnected", zap.Stringer("uuid", handler.UUID()))

	return conn.Err()
}

// RegisterConnectionManager sets the connection manager, which keeps track of current active connections and provides a Router implementation.
func (m *module) RegisterConnectionManager(connectionMgr ConnectionManager) error {
	if m.connectionMgr != nil {
		return errors.New("cannot register a duplicate connection manager")
	}
	m.connectionMgr = connectionMgr
	return nil
}
