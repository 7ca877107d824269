// Package localfiles serves project files from a local directory and watches open files for changes made outside the editor.
package localfiles

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/uber/arena-editor/src/editor/entity"
	"github.com/uber/arena-editor/src/editor/internal/core"
	editorerrors "github.com/uber/arena-editor/src/editor/internal/errors"
	"github.com/uber/arena-editor/src/editor/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _configKey = "localFiles"

// Module provides the local file gateway.
var Module = fx.Provide(New)

// Config is the localFiles configuration section.
type Config struct {
	Root  string `yaml:"root"`
	Watch bool   `yaml:"watch"`
}

// Validate implements validation.Validatable.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.When(c.Watch, validation.Required)),
	)
}

// Gateway reads and writes project files below a local root.
// Files live at <root>/<projectID>/<path>.
type Gateway interface {
	GetFileContent(ctx context.Context, projectID, filePath string) (string, error)
	SaveFileContent(ctx context.Context, projectID, filePath, content string) error

	// Watch starts reporting changes of one project file. Watching is reference counted per file.
	Watch(projectID, filePath string) error
	Unwatch(projectID, filePath string)
	// Subscribe registers a listener for external changes of watched files.
	Subscribe(listener func(entity.FileChange)) (unsubscribe func())
}

// Params are inbound parameters to create the gateway.
type Params struct {
	fx.In

	Config    config.Provider
	FS        fs.EditorFS
	Logger    *zap.SugaredLogger
	Lifecycle fx.Lifecycle `optional:"true"`
}

type watched struct {
	path string
	refs int
}

type gateway struct {
	root   string
	watch  bool
	fs     fs.EditorFS
	logger *zap.SugaredLogger

	mu        sync.Mutex
	watcher   *fsnotify.Watcher
	files     map[string]*watched
	dirs      map[string]int
	listeners map[int]func(entity.FileChange)
	nextID    int
	done      chan struct{}
}

// New creates the gateway and, when watching is enabled, starts the watcher with the application.
func New(p Params) (Gateway, error) {
	var cfg Config
	if err := core.PopulateValidated(p.Config, _configKey, &cfg); err != nil {
		return nil, err
	}

	g := newGateway(cfg, p.FS, p.Logger)
	if p.Lifecycle != nil && cfg.Watch {
		p.Lifecycle.Append(fx.Hook{
			OnStart: func(context.Context) error { return g.Start() },
			OnStop:  func(context.Context) error { return g.Close() },
		})
	}
	return g, nil
}

// newGateway creates a gateway for an already loaded configuration. Watch calls are no-ops until Start.
func newGateway(cfg Config, editorFS fs.EditorFS, logger *zap.SugaredLogger) *gateway {
	root := cfg.Root
	if root == "" {
		root = "."
	}
	return &gateway{
		root:      filepath.Clean(root),
		watch:     cfg.Watch,
		fs:        editorFS,
		logger:    logger.With("component", "local-files"),
		files:     make(map[string]*watched),
		dirs:      make(map[string]int),
		listeners: make(map[int]func(entity.FileChange)),
	}
}

// Start creates the fsnotify watcher and its event loop.
func (g *gateway) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.watcher != nil {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	g.watcher = w
	g.done = make(chan struct{})
	go g.run(w, g.done)
	return nil
}

// Close stops the watcher and waits for its event loop to exit.
func (g *gateway) Close() error {
	g.mu.Lock()
	w, done := g.watcher, g.done
	g.watcher = nil
	g.files = make(map[string]*watched)
	g.dirs = make(map[string]int)
	g.mu.Unlock()

	if w == nil {
		return nil
	}
	err := w.Close()
	<-done
	return err
}

// resolve maps a project file to its absolute location, refusing anything that escapes the project directory.
func (g *gateway) resolve(projectID, filePath string) (string, error) {
	if projectID == "" || strings.ContainsAny(projectID, `/\`) || projectID == "." || projectID == ".." {
		return "", fmt.Errorf("project %q: %w", projectID, editorerrors.ErrInvalidPath)
	}
	if filePath == "" || filepath.IsAbs(filePath) || strings.HasPrefix(filePath, "/") {
		return "", fmt.Errorf("%q: %w", filePath, editorerrors.ErrInvalidPath)
	}
	projectDir := filepath.Join(g.root, projectID)
	full := filepath.Join(projectDir, filepath.FromSlash(filePath))
	rel, err := filepath.Rel(projectDir, full)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q: %w", filePath, editorerrors.ErrInvalidPath)
	}
	return full, nil
}

func (g *gateway) GetFileContent(ctx context.Context, projectID, filePath string) (string, error) {
	full, err := g.resolve(projectID, filePath)
	if err != nil {
		return "", err
	}
	data, err := g.fs.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", filePath, err)
	}
	return string(data), nil
}

func (g *gateway) SaveFileContent(ctx context.Context, projectID, filePath, content string) error {
	full, err := g.resolve(projectID, filePath)
	if err != nil {
		return err
	}
	if err := g.fs.WriteFile(full, []byte(content)); err != nil {
		return fmt.Errorf("writing %s: %w", filePath, err)
	}
	return nil
}

func (g *gateway) Watch(projectID, filePath string) error {
	full, err := g.resolve(projectID, filePath)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.watcher == nil {
		return nil
	}

	if f, ok := g.files[full]; ok {
		f.refs++
		return nil
	}

	// Directories are watched instead of files so that atomic replacements keep reporting.
	dir := filepath.Dir(full)
	if g.dirs[dir] == 0 {
		if err := g.watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", filePath, err)
		}
	}
	g.dirs[dir]++
	g.files[full] = &watched{path: filePath, refs: 1}
	return nil
}

func (g *gateway) Unwatch(projectID, filePath string) {
	full, err := g.resolve(projectID, filePath)
	if err != nil {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	f, ok := g.files[full]
	if !ok || g.watcher == nil {
		return
	}
	if f.refs--; f.refs > 0 {
		return
	}
	delete(g.files, full)

	dir := filepath.Dir(full)
	if g.dirs[dir]--; g.dirs[dir] <= 0 {
		delete(g.dirs, dir)
		if err := g.watcher.Remove(dir); err != nil {
			g.logger.Debugw("removing watch", "dir", dir, "error", err)
		}
	}
}

func (g *gateway) Subscribe(listener func(entity.FileChange)) func() {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.nextID
	g.nextID++
	g.listeners[id] = listener

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			delete(g.listeners, id)
		})
	}
}

func (g *gateway) run(w *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			g.handle(ev)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			g.logger.Warnw("file watcher error", "error", err)
		}
	}
}

func (g *gateway) handle(ev fsnotify.Event) {
	g.mu.Lock()
	f, ok := g.files[filepath.Clean(ev.Name)]
	var filePath string
	if ok {
		filePath = f.path
	}
	listeners := make([]func(entity.FileChange), 0, len(g.listeners))
	for _, l := range g.listeners {
		listeners = append(listeners, l)
	}
	g.mu.Unlock()

	if !ok {
		return
	}

	var change entity.FileChange
	switch {
	case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
		change = entity.FileChange{Path: filePath, Removed: true}
	case ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create):
		data, err := g.fs.ReadFile(ev.Name)
		if err != nil {
			g.logger.Debugw("reading changed file", "path", filePath, "error", err)
			return
		}
		change = entity.FileChange{Path: filePath, Content: string(data)}
	default:
		return
	}

	for _, l := range listeners {
		g.safeCall(l, change)
	}
}

func (g *gateway) safeCall(listener func(entity.FileChange), change entity.FileChange) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Errorw("file change listener panicked", "path", change.Path, "panic", r)
		}
	}()
	listener(change)
}
