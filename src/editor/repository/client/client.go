// Package client stores the UI clients connected to the editor service.
package client

import (
	"context"
	"sort"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/uber-go/tally"
	"github.com/uber/arena-editor/src/editor/entity"
	"github.com/uber/arena-editor/src/editor/internal/errors"
	"github.com/uber/arena-editor/src/editor/mapper"
	"github.com/uber/arena-editor/src/editor/model"
)

// Repository is an entity-scoped repository of connected UI clients.
type Repository interface {
	Get(context.Context, uuid.UUID) (*entity.Client, error)
	GetFromContext(ctx context.Context) (*entity.Client, error)
	// All returns every connected client, oldest connection first.
	All(ctx context.Context) ([]*entity.Client, error)
	Set(context.Context, *entity.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

type repository struct {
	mu       sync.Mutex
	memstore map[uuid.UUID]*model.Client
	stats    tally.Scope
}

// New returns an in-memory client repository.
func New(stats tally.Scope) Repository {
	return &repository{
		memstore: make(map[uuid.UUID]*model.Client),
		stats:    stats,
	}
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.memstore[id]
	if !ok {
		return nil, &errors.UUIDNotFoundError{UUID: id}
	}
	return mapper.ModelToClient(c), nil
}

// GetFromContext returns the client whose UUID is carried by ctx.
func (r *repository) GetFromContext(ctx context.Context) (*entity.Client, error) {
	id, err := mapper.ContextToClientUUID(ctx)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *repository) All(ctx context.Context) ([]*entity.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := make([]*entity.Client, 0, len(r.memstore))
	for _, c := range r.memstore {
		found = append(found, mapper.ModelToClient(c))
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].ConnectedAt.Equal(found[j].ConnectedAt) {
			return found[i].UUID.String() < found[j].UUID.String()
		}
		return found[i].ConnectedAt.Before(found[j].ConnectedAt)
	})
	return found, nil
}

func (r *repository) Set(ctx context.Context, c *entity.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c == nil {
		return errors.New("can't save nil client")
	}
	r.memstore[c.UUID] = mapper.ClientToModel(c)
	r.stats.Gauge("connected_clients").Update(float64(len(r.memstore)))
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.memstore[id]; !ok {
		return &errors.UUIDNotFoundError{UUID: id}
	}
	delete(r.memstore, id)
	r.stats.Gauge("connected_clients").Update(float64(len(r.memstore)))
	return nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.memstore), nil
}
