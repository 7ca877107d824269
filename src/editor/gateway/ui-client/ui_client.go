// Package uiclient sends outbound notifications to the connected UI clients.
package uiclient

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/uber/arena-editor/src/editor/entity"
	"github.com/uber/arena-editor/src/editor/internal/clock"
	"github.com/uber/arena-editor/src/editor/repository/client"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	_errSendToClient = "sending notification to UI client: %w"

	// MethodSnapshotChanged carries the latest editor snapshot.
	MethodSnapshotChanged = "editor/snapshotChanged"
)

// Module provides the UI client gateway.
var Module = fx.Provide(New)

// Gateway is used to send outbound notifications to UI clients.
// Notify routes by the client UUID carried in the context, Broadcast reaches every registered client.
type Gateway interface {
	// RegisterClient registers a new client. Should be called each time a UI connection is accepted.
	RegisterClient(ctx context.Context, id uuid.UUID, conn *jsonrpc2.Conn) error
	// DeregisterClient removes a client. Should be called each time a UI connection is closed.
	DeregisterClient(ctx context.Context, id uuid.UUID) error

	Notify(ctx context.Context, method string, params interface{}) error
	Broadcast(ctx context.Context, method string, params interface{}) error
	// SnapshotChanged broadcasts the editor snapshot.
	SnapshotChanged(ctx context.Context, snapshot entity.Snapshot) error
}

// Params are inbound parameters to create the gateway.
type Params struct {
	fx.In

	Clients client.Repository
	Clock   clock.Clock
	Logger  *zap.SugaredLogger
}

type gateway struct {
	clients client.Repository
	clock   clock.Clock
	logger  *zap.SugaredLogger
}

// New returns a Gateway for sending UI notifications.
func New(p Params) Gateway {
	return &gateway{
		clients: p.Clients,
		clock:   p.Clock,
		logger:  p.Logger.With("component", "ui-client"),
	}
}

func (g *gateway) RegisterClient(ctx context.Context, id uuid.UUID, conn *jsonrpc2.Conn) error {
	if conn == nil {
		return fmt.Errorf("registering client %s: nil connection", id)
	}
	return g.clients.Set(ctx, &entity.Client{
		UUID:        id,
		Conn:        conn,
		ConnectedAt: g.clock.Now(),
	})
}

func (g *gateway) DeregisterClient(ctx context.Context, id uuid.UUID) error {
	return g.clients.Delete(ctx, id)
}

func (g *gateway) Notify(ctx context.Context, method string, params interface{}) error {
	c, err := g.clients.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf(_errSendToClient, err)
	}
	if err := (*c.Conn).Notify(ctx, method, params); err != nil {
		return fmt.Errorf(_errSendToClient, err)
	}
	return nil
}

func (g *gateway) Broadcast(ctx context.Context, method string, params interface{}) error {
	all, err := g.clients.All(ctx)
	if err != nil {
		return fmt.Errorf(_errSendToClient, err)
	}

	var errs error
	for _, c := range all {
		if err := (*c.Conn).Notify(ctx, method, params); err != nil {
			g.logger.Warnw("broadcast failed", "client", c.UUID.String(), "method", method, "error", err)
			errs = multierr.Append(errs, fmt.Errorf("client %s: %w", c.UUID, err))
		}
	}
	if errs != nil {
		return fmt.Errorf(_errSendToClient, errs)
	}
	return nil
}

func (g *gateway) SnapshotChanged(ctx context.Context, snapshot entity.Snapshot) error {
	return g.Broadcast(ctx, MethodSnapshotChanged, snapshot)
}
