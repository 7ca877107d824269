package httpfx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/uber/arena-editor/src/editor/internal/core"
	"github.com/uber/arena-editor/src/editor/internal/serverinfofile"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_configKey = "http"
	_outputKey = "http-address"

	_defaultShutdownTimeout = 5 * time.Second
)

// Module is an fx module serving the read-only HTTP routes.
var Module = fx.Provide(New)

// HTTPModule owns the HTTP listener. Handlers mount their routes on Router before the application starts.
type HTTPModule interface {
	Router() chi.Router
	// Addr returns the bound listener address once started.
	Addr() net.Addr
}

// Config is the http configuration section.
type Config struct {
	Address         string        `yaml:"address"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// Validate implements validation.Validatable.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Address, validation.Required),
		validation.Field(&c.ShutdownTimeout, validation.Min(time.Duration(0))),
	)
}

// Params define values to be used by the HTTP module.
type Params struct {
	fx.In

	Config         config.Provider
	Lifecycle      fx.Lifecycle
	Logger         *zap.SugaredLogger
	ServerInfoFile serverinfofile.ServerInfoFile `optional:"true"`
}

type module struct {
	cfg            Config
	router         chi.Router
	logger         *zap.SugaredLogger
	serverInfoFile serverinfofile.ServerInfoFile

	mu     sync.Mutex
	server *http.Server
	ln     net.Listener
	done   chan struct{}
}

// New creates the router and registers the listener with the application lifecycle.
func New(p Params) (HTTPModule, error) {
	if p.Lifecycle == nil || p.Config == nil {
		return nil, errors.New("required parameters are missing")
	}

	m := &module{
		logger:         p.Logger.With("component", "http"),
		serverInfoFile: p.ServerInfoFile,
	}
	if err := core.PopulateValidated(p.Config, _configKey, &m.cfg); err != nil {
		return nil, err
	}
	if m.cfg.ShutdownTimeout == 0 {
		m.cfg.ShutdownTimeout = _defaultShutdownTimeout
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(m.logger))
	r.Use(middleware.Recoverer)
	m.router = r

	p.Lifecycle.Append(fx.Hook{
		OnStart: m.onStart,
		OnStop:  m.onStop,
	})
	return m, nil
}

func (m *module) Router() chi.Router {
	return m.router
}

func (m *module) Addr() net.Addr {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ln == nil {
		return nil
	}
	return m.ln.Addr()
}

func (m *module) onStart(ctx context.Context) error {
	ln, err := net.Listen("tcp", m.cfg.Address)
	if err != nil {
		return fmt.Errorf("listening on %q: %w", m.cfg.Address, err)
	}
	if m.serverInfoFile != nil {
		if err := m.serverInfoFile.UpdateField(_outputKey, ln.Addr().String()); err != nil {
			ln.Close()
			return err
		}
	}

	server := &http.Server{
		Handler:           m.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	done := make(chan struct{})

	m.mu.Lock()
	m.server, m.ln, m.done = server, ln, done
	m.mu.Unlock()

	go func() {
		defer close(done)
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Errorw("http server stopped", "error", err)
		}
	}()
	m.logger.Infow("started HTTP inbound", "address", ln.Addr().String())
	return nil
}

func (m *module) onStop(ctx context.Context) error {
	m.mu.Lock()
	server, done := m.server, m.done
	m.mu.Unlock()
	if server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, m.cfg.ShutdownTimeout)
	defer cancel()
	err := server.Shutdown(shutdownCtx)
	<-done
	return err
}

// requestLogger logs one line per request with the chi request id.
func requestLogger(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Debugw("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"requestID", middleware.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
