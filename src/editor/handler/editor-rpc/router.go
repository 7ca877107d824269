package editorrpc

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/uber-go/tally"
	"github.com/uber/arena-editor/src/editor/controller/editor"
	"github.com/uber/arena-editor/src/editor/entity"
	"go.lsp.dev/jsonrpc2"
)

// Methods accepted from UI clients.
const (
	MethodSetProject         = "editor/setProject"
	MethodClearProject       = "editor/clearProject"
	MethodOpenFile           = "editor/openFile"
	MethodChangeContent      = "editor/changeContent"
	MethodSetActiveFile      = "editor/setActiveFile"
	MethodCloseFile          = "editor/closeFile"
	MethodSave               = "editor/save"
	MethodSaveAll            = "editor/saveAll"
	MethodValidateProject    = "editor/validateProject"
	MethodIngestJobProblems  = "editor/ingestJobProblems"
	MethodRefreshJobProblems = "editor/refreshJobProblems"
	MethodMount              = "editor/mount"
	MethodSurfaceReady       = "editor/surfaceReady"
	MethodUnmount            = "editor/unmount"
	MethodSnapshot           = "editor/snapshot"
	MethodHover              = "editor/hover"
	MethodCompletion         = "editor/completion"
)

type jsonRPCRouter struct {
	ctrl    editor.Controller
	handler *handler
	uuid    uuid.UUID
	stats   tally.Scope
}

// HandleReq handles routing for a single request.
func (r *jsonRPCRouter) HandleReq(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	ctx = context.WithValue(ctx, entity.ClientContextKey, r.uuid)
	if r.stats != nil {
		r.stats.Tagged(map[string]string{"method": req.Method()}).Counter("requests").Inc(1)
	}

	switch req.Method() {
	// Project and document methods.
	case MethodSetProject:
		return r.SetProject(ctx, reply, req)

	case MethodClearProject:
		return r.ClearProject(ctx, reply, req)

	case MethodOpenFile:
		return r.OpenFile(ctx, reply, req)

	case MethodChangeContent:
		return r.ChangeContent(ctx, reply, req)

	case MethodSetActiveFile:
		return r.SetActiveFile(ctx, reply, req)

	case MethodCloseFile:
		return r.CloseFile(ctx, reply, req)

	// Persistence and validation.
	case MethodSave:
		return r.Save(ctx, reply, req)

	case MethodSaveAll:
		return r.SaveAll(ctx, reply, req)

	case MethodValidateProject:
		return r.ValidateProject(ctx, reply, req)

	case MethodIngestJobProblems:
		return r.IngestJobProblems(ctx, reply, req)

	case MethodRefreshJobProblems:
		return r.RefreshJobProblems(ctx, reply, req)

	// Host lifecycle.
	case MethodMount:
		return r.Mount(ctx, reply, req)

	case MethodSurfaceReady:
		return r.SurfaceReady(ctx, reply, req)

	case MethodUnmount:
		return r.Unmount(ctx, reply, req)

	// View and language features.
	case MethodSnapshot:
		return reply(ctx, r.ctrl.Snapshot(), nil)

	case MethodHover:
		return r.Hover(ctx, reply, req)

	case MethodCompletion:
		return r.Completion(ctx, reply, req)

	default:
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
}

func (r *jsonRPCRouter) UUID() uuid.UUID {
	return r.uuid
}
