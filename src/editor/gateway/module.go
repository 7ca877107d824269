package gateway

import (
	"github.com/uber/arena-editor/src/editor/gateway/arena"
	"github.com/uber/arena-editor/src/editor/gateway/files"
	languageserver "github.com/uber/arena-editor/src/editor/gateway/language-server"
	localfiles "github.com/uber/arena-editor/src/editor/gateway/local-files"
	uiclient "github.com/uber/arena-editor/src/editor/gateway/ui-client"
	"go.uber.org/fx"
)

// Module provides the outbound gateways.
var Module = fx.Options(
	arena.Module,
	localfiles.Module,
	files.Module,
	languageserver.Module,
	uiclient.Module,
)
