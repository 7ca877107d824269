package mapper

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/arena-editor/src/editor/entity"
	"github.com/uber/arena-editor/src/editor/internal/errors"
	"go.lsp.dev/jsonrpc2"
)

func TestClientModelMapping(t *testing.T) {
	conn := jsonrpc2.NewConn(nil)
	c := &entity.Client{
		UUID:        uuid.Must(uuid.NewV4()),
		Conn:        &conn,
		ConnectedAt: time.Unix(1700000000, 0),
	}

	m := ClientToModel(c)
	assert.Equal(t, c.UUID, m.UUID)
	assert.Equal(t, c.Conn, m.Conn)
	assert.Equal(t, c, ModelToClient(m))
}

func TestContextToClientUUID(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	got, err := ContextToClientUUID(context.WithValue(context.Background(), entity.ClientContextKey, id))
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ContextToClientUUID(context.Background())
	var nf *errors.NoClientFoundError
	assert.ErrorAs(t, err, &nf)
}
