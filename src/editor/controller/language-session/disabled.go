package languagesession

import (
	"context"

	"github.com/uber/arena-editor/src/editor/entity"
	editorerrors "github.com/uber/arena-editor/src/editor/internal/errors"
	"go.lsp.dev/protocol"
)

type disabled struct{}

// NewDisabled returns a Manager for editors running without a semantic session.
// It never dials and always reports disconnected.
func NewDisabled() Manager {
	return disabled{}
}

func (disabled) Start(context.Context, entity.SessionTarget) {}

func (disabled) Reconnect() {}

func (disabled) Stop() {}

func (disabled) Status() entity.ConnectionStatus {
	return entity.StatusDisconnected
}

func (disabled) Scope() entity.SessionScope {
	return entity.SessionScope{}
}

func (disabled) Subscribe(func(entity.ConnectionStatus)) func() {
	return func() {}
}

func (disabled) Hover(context.Context, string, entity.Position) (*protocol.Hover, error) {
	return nil, editorerrors.ErrSessionDisabled
}

func (disabled) Completion(context.Context, string, entity.Position) (*protocol.CompletionList, error) {
	return nil, editorerrors.ErrSessionDisabled
}
