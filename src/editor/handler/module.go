package handler

import (
	"github.com/uber/arena-editor/src/editor/controller"
	editorrpc "github.com/uber/arena-editor/src/editor/handler/editor-rpc"
	"github.com/uber/arena-editor/src/editor/handler/status"
	"github.com/uber/arena-editor/src/editor/repository/client"
	"go.uber.org/fx"
)

// Module provides the editor inbounds into an Fx application.
var Module = fx.Options(
	controller.Module,
	fx.Provide(client.New),
	fx.Provide(editorrpc.New),
	fx.Provide(status.New),
	fx.Invoke(outputProcessInfo),
	fx.Invoke(func(editorrpc.Handler) {}),
	fx.Invoke(func(*status.Handler) {}),
)
