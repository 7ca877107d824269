// Package editorrpc implements the JSON-RPC surface used by UI clients to drive the editor.
package editorrpc

import (
	"context"
	"fmt"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/uber-go/tally"
	"github.com/uber/arena-editor/src/editor/controller/editor"
	"github.com/uber/arena-editor/src/editor/entity"
	uiclient "github.com/uber/arena-editor/src/editor/gateway/ui-client"
	editorerrors "github.com/uber/arena-editor/src/editor/internal/errors"
	"github.com/uber/arena-editor/src/editor/internal/jsonrpcfx"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Handler accepts UI connections and pushes editor snapshots back to them.
type Handler interface {
	jsonrpcfx.ConnectionManager
	// Mounted reports how many connections currently hold the editor surface mounted.
	Mounted() int
}

// Params are inbound parameters to construct the handler.
type Params struct {
	fx.In

	Ctrl      editor.Controller
	UIClient  uiclient.Gateway
	JSONRPC   jsonrpcfx.JSONRPCModule
	Stats     tally.Scope
	Logger    *zap.SugaredLogger
	Lifecycle fx.Lifecycle `optional:"true"`
}

type handler struct {
	ctrl     editor.Controller
	uiclient uiclient.Gateway
	stats    tally.Scope
	logger   *zap.SugaredLogger

	mu      sync.Mutex
	mounted map[uuid.UUID]struct{}
}

// New constructs the handler and registers it with the JSON-RPC inbound.
func New(p Params) (Handler, error) {
	h := &handler{
		ctrl:     p.Ctrl,
		uiclient: p.UIClient,
		stats:    p.Stats.SubScope("json_rpc"),
		logger:   p.Logger.With("component", "editor-rpc"),
		mounted:  make(map[uuid.UUID]struct{}),
	}
	if err := p.JSONRPC.RegisterConnectionManager(h); err != nil {
		return nil, fmt.Errorf("registering connection manager: %w", err)
	}

	unsubscribe := p.Ctrl.Subscribe(h.publish)
	if p.Lifecycle != nil {
		p.Lifecycle.Append(fx.StopHook(unsubscribe))
	}
	return h, nil
}

// NewConnection registers the UI client and returns a router bound to its UUID.
func (h *handler) NewConnection(ctx context.Context, conn *jsonrpc2.Conn) (jsonrpcfx.Router, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("generating client id: %w", err)
	}
	if err := h.uiclient.RegisterClient(ctx, id, conn); err != nil {
		return nil, fmt.Errorf("error while creating new connection: %w", err)
	}
	h.stats.Counter("connections").Inc(1)

	return &jsonRPCRouter{
		ctrl:    h.ctrl,
		handler: h,
		uuid:    id,
		stats:   h.stats,
	}, nil
}

// RemoveConnection cleans up a closed connection. The surface is unmounted once the last mounting client leaves.
func (h *handler) RemoveConnection(ctx context.Context, id uuid.UUID) {
	ctx = context.WithValue(ctx, entity.ClientContextKey, id)
	if err := h.uiclient.DeregisterClient(ctx, id); err != nil {
		if _, ok := editorerrors.NotFoundUUID(err); ok {
			h.logger.Debugw("client already deregistered", zap.Stringer("uuid", id))
		} else {
			h.stats.Counter("deregister_failures").Inc(1)
			h.logger.Warnw("deregistering client", zap.Stringer("uuid", id), "error", err)
		}
	}
	if h.release(id) {
		h.ctrl.Unmount()
	}
}

func (h *handler) Mounted() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.mounted)
}

func (h *handler) hold(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mounted[id] = struct{}{}
}

// release drops the mount held by id and reports whether it was the last one.
func (h *handler) release(id uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.mounted[id]; !ok {
		return false
	}
	delete(h.mounted, id)
	return len(h.mounted) == 0
}

func (h *handler) publish(snapshot entity.Snapshot) {
	if err := h.uiclient.SnapshotChanged(context.Background(), snapshot); err != nil {
		h.stats.Counter("publish_failures").Inc(1)
		h.logger.Debugw("publishing snapshot", "error", err)
	}
}
