package mapper

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/uber/arena-editor/src/editor/entity"
	"github.com/uber/arena-editor/src/editor/internal/errors"
	"github.com/uber/arena-editor/src/editor/model"
)

// ClientToModel maps a Client entity to its model equivalent.
func ClientToModel(c *entity.Client) *model.Client {
	return &model.Client{
		UUID:        c.UUID,
		Conn:        c.Conn,
		ConnectedAt: c.ConnectedAt,
	}
}

// ModelToClient maps a model Client to its entity equivalent.
func ModelToClient(c *model.Client) *entity.Client {
	return &entity.Client{
		UUID:        c.UUID,
		Conn:        c.Conn,
		ConnectedAt: c.ConnectedAt,
	}
}

// ContextToClientUUID extracts the UI client UUID from a context.
func ContextToClientUUID(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(entity.ClientContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, &errors.NoClientFoundError{}
	}
	return id, nil
}
