package controller

import (
	"github.com/uber/arena-editor/src/editor/controller/diagnostics"
	"github.com/uber/arena-editor/src/editor/controller/documents"
	"github.com/uber/arena-editor/src/editor/controller/editor"
	languagesession "github.com/uber/arena-editor/src/editor/controller/language-session"
	"github.com/uber/arena-editor/src/editor/controller/validator"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(documents.New),
	fx.Provide(validator.New),
	fx.Provide(diagnostics.New),
	fx.Provide(languagesession.New),
	editor.Module,
)
