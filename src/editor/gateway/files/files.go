// Package files selects where project file content comes from.
package files

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/uber/arena-editor/src/editor/entity"
	"github.com/uber/arena-editor/src/editor/gateway/arena"
	localfiles "github.com/uber/arena-editor/src/editor/gateway/local-files"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _configKey = "editor.fileSource"

// Kind names a file content provider.
type Kind string

const (
	// KindArena reads and writes through the Arena backend.
	KindArena Kind = "arena"
	// KindLocal reads and writes below the localFiles root.
	KindLocal Kind = "local"
)

// Validate implements validation.Validatable.
func (k Kind) Validate() error {
	return validation.Validate(string(k), validation.In(string(KindArena), string(KindLocal)))
}

// Module provides the selected Source and Watcher.
var Module = fx.Provide(New)

// Source is the file content contract the editor depends on.
type Source interface {
	GetFileContent(ctx context.Context, projectID, filePath string) (string, error)
	SaveFileContent(ctx context.Context, projectID, filePath, content string) error
}

// Watcher reports changes to open files made outside the editor.
type Watcher interface {
	Watch(projectID, filePath string) error
	Unwatch(projectID, filePath string)
	Subscribe(listener func(entity.FileChange)) (unsubscribe func())
}

// Params are inbound parameters to select the file source.
type Params struct {
	fx.In

	Config config.Provider
	Logger *zap.SugaredLogger
	Arena  arena.Gateway
	Local  localfiles.Gateway
}

// Result carries the selected providers.
type Result struct {
	fx.Out

	Source  Source
	Watcher Watcher
}

// New picks the file source named by editor.fileSource, defaulting to the Arena backend.
// Only the local source reports external changes.
func New(p Params) (Result, error) {
	kind := KindArena
	if err := p.Config.Get(_configKey).Populate(&kind); err != nil {
		return Result{}, fmt.Errorf("getting config field %q: %w", _configKey, err)
	}
	if kind == "" {
		kind = KindArena
	}
	if err := kind.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid config field %q: %w", _configKey, err)
	}

	p.Logger.With("component", "files").Infow("file source selected", "source", string(kind))
	if kind == KindLocal {
		return Result{Source: p.Local, Watcher: p.Local}, nil
	}
	return Result{Source: p.Arena, Watcher: NopWatcher()}, nil
}

type nopWatcher struct{}

// NopWatcher never reports changes.
func NopWatcher() Watcher {
	return nopWatcher{}
}

func (nopWatcher) Watch(string, string) error { return nil }

func (nopWatcher) Unwatch(string, string) {}

func (nopWatcher) Subscribe(func(entity.FileChange)) func() { return func() {} }
