// Package model holds the repository layer representations of entities.
package model

import (
	"time"

	"github.com/gofrs/uuid"
	"go.lsp.dev/jsonrpc2"
)

// Client is the repository layer model for a connected UI client.
type Client struct {
	UUID        uuid.UUID
	Conn        *jsonrpc2.Conn
	ConnectedAt time.Time
}
