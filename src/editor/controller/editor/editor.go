// Package editor composes the document store, validators, diagnostics and the language session into the editor used by the UI surface.
package editor

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/uber-go/tally"
	"github.com/uber/arena-editor/src/editor/controller/diagnostics"
	"github.com/uber/arena-editor/src/editor/controller/documents"
	languagesession "github.com/uber/arena-editor/src/editor/controller/language-session"
	"github.com/uber/arena-editor/src/editor/controller/validator"
	"github.com/uber/arena-editor/src/editor/entity"
	"github.com/uber/arena-editor/src/editor/gateway/arena"
	"github.com/uber/arena-editor/src/editor/gateway/files"
	"github.com/uber/arena-editor/src/editor/internal/clock"
	editorerrors "github.com/uber/arena-editor/src/editor/internal/errors"
	"github.com/uber/arena-editor/src/editor/mapper"
	"go.lsp.dev/protocol"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	_nameKey = "editor"

	_saveAllConcurrency = 4
)

// Module provides the editor controller.
var Module = fx.Provide(New)

// Controller is the single editor abstraction exposed to the UI surface.
// Failures of network round trips are returned as *errors.UserError with display-ready text.
type Controller interface {
	// SetProject switches the editor to a project. Switching to a different project drops every open document and diagnostic.
	SetProject(ctx context.Context, workspace, projectID string) error
	// OpenFile fetches and opens a file, or activates it when already open.
	OpenFile(ctx context.Context, filePath string) error
	// ChangeContent applies an edit and returns the local validation result. It reports false when the path is not open.
	ChangeContent(filePath, content string) (entity.ValidationResult, bool)
	SetActiveFile(ctx context.Context, filePath string) bool
	CloseFile(ctx context.Context, filePath string) bool
	ClearProject(ctx context.Context)

	Save(ctx context.Context, filePath string) error
	// SaveAll saves every dirty document concurrently and returns the combined failures.
	SaveAll(ctx context.Context) error
	ValidateProject(ctx context.Context) error
	IngestJobProblems(jobID string, problems []entity.Problem)
	RefreshJobProblems(ctx context.Context, jobID string) error

	// Mount, SurfaceReady and Unmount are the host lifecycle boundaries driving the language session.
	Mount(ctx context.Context)
	SurfaceReady(ctx context.Context)
	Unmount()

	Hover(ctx context.Context, filePath string, pos entity.Position) (*protocol.Hover, error)
	Completion(ctx context.Context, filePath string, pos entity.Position) (*protocol.CompletionList, error)

	Snapshot() entity.Snapshot
	// Subscribe registers a listener called with a fresh snapshot after every observable change.
	Subscribe(listener func(entity.Snapshot)) (unsubscribe func())
}

// Params are inbound parameters to initialize the controller.
type Params struct {
	fx.In

	Logger     *zap.SugaredLogger
	Stats      tally.Scope
	Clock      clock.Clock
	Store      documents.Store
	Validator  validator.Validator
	Aggregator diagnostics.Aggregator
	Session    languagesession.Manager
	Files      files.Source
	Watcher    files.Watcher
	Arena      arena.Gateway
	Lifecycle  fx.Lifecycle `optional:"true"`
}

type controller struct {
	store      documents.Store
	validator  validator.Validator
	aggregator diagnostics.Aggregator
	session    languagesession.Manager
	files      files.Source
	watcher    files.Watcher
	arena      arena.Gateway
	clock      clock.Clock
	logger     *zap.SugaredLogger
	stats      tally.Scope

	mu           sync.Mutex
	scope        entity.SessionScope
	generation   uint64
	mounted      bool
	surfaceReady bool
	validation   map[string]entity.ValidationResult
	saving       map[string]int
	validating   int
	watched      map[string]string

	// sessionMu keeps session targets in the order they were computed.
	sessionMu sync.Mutex

	subMu     sync.Mutex
	listeners map[int]func(entity.Snapshot)
	nextID    int

	unsubscribe []func()
}

// New creates the editor controller and subscribes it to its collaborators.
func New(p Params) Controller {
	c := &controller{
		store:      p.Store,
		validator:  p.Validator,
		aggregator: p.Aggregator,
		session:    p.Session,
		files:      p.Files,
		watcher:    p.Watcher,
		arena:      p.Arena,
		clock:      p.Clock,
		logger:     p.Logger.With("component", _nameKey),
		stats:      p.Stats.SubScope(_nameKey),
		validation: make(map[string]entity.ValidationResult),
		saving:     make(map[string]int),
		watched:    make(map[string]string),
		listeners:  make(map[int]func(entity.Snapshot)),
	}
	if c.watcher == nil {
		c.watcher = files.NopWatcher()
	}

	c.unsubscribe = []func(){
		c.store.Subscribe(c.onStoreEvent),
		c.aggregator.Subscribe(c.notify),
		c.session.Subscribe(func(entity.ConnectionStatus) { c.notify() }),
		c.watcher.Subscribe(c.onFileChange),
	}

	if p.Lifecycle != nil {
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				c.dispose()
				return nil
			},
		})
	}
	return c
}

func (c *controller) SetProject(ctx context.Context, workspace, projectID string) error {
	scope := entity.SessionScope{Workspace: workspace, ProjectID: projectID}
	if !scope.Complete() {
		return editorerrors.ErrNoProject
	}

	c.mu.Lock()
	if c.scope == scope {
		c.mu.Unlock()
		return nil
	}
	previous := c.scope
	c.scope = scope
	c.resetLocked()
	c.mu.Unlock()

	c.logger.Infow("project selected",
		"workspace", workspace,
		"project", projectID,
		"previousProject", previous.ProjectID,
	)

	c.store.ClearProject()
	c.aggregator.Reset()
	c.syncSession(ctx)
	c.notify()
	return nil
}

func (c *controller) OpenFile(ctx context.Context, filePath string) error {
	scope, generation, err := c.project()
	if err != nil {
		return err
	}
	if filePath == "" || strings.HasPrefix(filePath, "/") {
		return fmt.Errorf("opening %q: %w", filePath, editorerrors.ErrInvalidPath)
	}

	if !c.store.OpenLoading(filePath, path.Base(filePath)) {
		// already open, it only became active
		c.syncSession(ctx)
		return nil
	}

	content, err := c.files.GetFileContent(ctx, scope.ProjectID, filePath)
	if err != nil {
		c.logger.Warnw("fetching file content", "path", filePath, "error", err)
		if c.isCurrent(generation) {
			c.store.CloseFile(filePath)
			c.syncSession(ctx)
		}
		return editorerrors.NewUserError(err, editorerrors.MsgOpenFailed)
	}
	if !c.isCurrent(generation) {
		return nil
	}

	loaded, err := c.store.FinishLoading(filePath, content)
	if err != nil {
		if documents.IsSizeLimit(err) {
			c.stats.Counter("oversize_files").Inc(1)
		}
		c.logger.Warnw("opening file", "path", filePath, "error", err)
		c.store.CloseFile(filePath)
		c.syncSession(ctx)
		return editorerrors.NewUserError(err, editorerrors.MsgOpenFailed)
	}
	if !loaded {
		// closed while the content was in flight
		return nil
	}

	c.revalidate(filePath)
	c.watch(scope.ProjectID, filePath)
	c.syncSession(ctx)
	return nil
}

func (c *controller) ChangeContent(filePath, content string) (entity.ValidationResult, bool) {
	if !c.store.UpdateContent(filePath, content) {
		return entity.ValidationResult{}, false
	}
	result, ok := c.revalidate(filePath)
	return result, ok
}

func (c *controller) SetActiveFile(ctx context.Context, filePath string) bool {
	if !c.store.SetActiveFile(filePath) {
		return false
	}
	c.syncSession(ctx)
	return true
}

func (c *controller) CloseFile(ctx context.Context, filePath string) bool {
	if !c.store.CloseFile(filePath) {
		return false
	}
	c.syncSession(ctx)
	return true
}

func (c *controller) ClearProject(ctx context.Context) {
	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()

	c.store.ClearProject()
	c.aggregator.Reset()
	c.syncSession(ctx)
	c.notify()
}

func (c *controller) Save(ctx context.Context, filePath string) error {
	scope, generation, err := c.project()
	if err != nil {
		return editorerrors.NewUserError(err, editorerrors.MsgSaveFailed)
	}
	doc, ok := c.store.Get(filePath)
	if !ok {
		return editorerrors.NewUserError(&editorerrors.DocumentNotFoundError{Path: filePath}, editorerrors.MsgSaveFailed)
	}
	if doc.Loading {
		return editorerrors.NewUserError(fmt.Errorf("%s is still loading", filePath), editorerrors.MsgSaveFailed)
	}

	c.setSaving(generation, filePath, 1)
	defer c.setSaving(generation, filePath, -1)

	start := c.clock.Now()
	err = c.files.SaveFileContent(ctx, scope.ProjectID, filePath, doc.Content)
	c.stats.Timer("save_latency").Record(c.clock.Now().Sub(start))
	if err != nil {
		c.stats.Counter("save_failures").Inc(1)
		c.logger.Warnw("save failed", "path", filePath, "error", err)
		return editorerrors.NewUserError(err, editorerrors.MsgSaveFailed)
	}
	c.stats.Counter("saves").Inc(1)

	if !c.isCurrent(generation) {
		return nil
	}
	// Edits made while the request was in flight stay dirty.
	c.store.MarkSavedAs(filePath, doc.Content)
	return nil
}

func (c *controller) SaveAll(ctx context.Context) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs error
	)
	g.SetLimit(_saveAllConcurrency)
	for _, p := range c.store.DirtyPaths() {
		filePath := p
		g.Go(func() error {
			if err := c.Save(ctx, filePath); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", filePath, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errs
}

func (c *controller) ValidateProject(ctx context.Context) error {
	scope, generation, err := c.project()
	if err != nil {
		return editorerrors.NewUserError(err, editorerrors.MsgValidateFailed)
	}

	c.setValidating(generation, 1)
	defer c.setValidating(generation, -1)

	result, err := c.arena.Validate(ctx, scope)
	if err != nil {
		c.stats.Counter("validation_failures").Inc(1)
		c.logger.Warnw("project validation failed", "project", scope.ProjectID, "error", err)
		return editorerrors.NewUserError(err, editorerrors.MsgValidateFailed)
	}
	c.stats.Counter("validations").Inc(1)

	if !c.isCurrent(generation) {
		return nil
	}
	c.aggregator.IngestAll(entity.SourceBatchValidate, mapper.BatchValidationToMarkers(result))
	return nil
}

func (c *controller) IngestJobProblems(jobID string, problems []entity.Problem) {
	markers := mapper.ProblemsToMarkers(problems)
	for i := range markers {
		if markers[i].Origin == "" {
			markers[i].Origin = jobID
		}
	}
	c.logger.Debugw("job problems received", "job", jobID, "problems", len(problems), "markers", len(markers))
	c.aggregator.IngestAll(entity.SourceJobRun, markers)
}

func (c *controller) RefreshJobProblems(ctx context.Context, jobID string) error {
	scope, generation, err := c.project()
	if err != nil {
		return editorerrors.NewUserError(err, editorerrors.MsgJobProblemsFailed)
	}
	problems, err := c.arena.JobProblems(ctx, scope.Workspace, jobID)
	if err != nil {
		c.logger.Warnw("loading job problems", "job", jobID, "error", err)
		return editorerrors.NewUserError(err, editorerrors.MsgJobProblemsFailed)
	}
	if !c.isCurrent(generation) {
		return nil
	}
	c.IngestJobProblems(jobID, problems)
	return nil
}

func (c *controller) Mount(ctx context.Context) {
	c.mu.Lock()
	c.mounted = true
	c.mu.Unlock()
	c.syncSession(ctx)
}

func (c *controller) SurfaceReady(ctx context.Context) {
	c.mu.Lock()
	c.surfaceReady = true
	c.mu.Unlock()
	c.syncSession(ctx)
}

func (c *controller) Unmount() {
	c.mu.Lock()
	c.mounted = false
	c.surfaceReady = false
	c.mu.Unlock()

	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	c.session.Stop()
}

func (c *controller) Hover(ctx context.Context, filePath string, pos entity.Position) (*protocol.Hover, error) {
	hover, err := c.session.Hover(ctx, filePath, pos)
	if err != nil {
		return nil, editorerrors.NewUserError(err, editorerrors.MsgLanguageFeatureErr)
	}
	return hover, nil
}

func (c *controller) Completion(ctx context.Context, filePath string, pos entity.Position) (*protocol.CompletionList, error) {
	list, err := c.session.Completion(ctx, filePath, pos)
	if err != nil {
		return nil, editorerrors.NewUserError(err, editorerrors.MsgLanguageFeatureErr)
	}
	return list, nil
}

func (c *controller) Snapshot() entity.Snapshot {
	summary := c.aggregator.Summary()
	snapshot := entity.Snapshot{
		ActiveFile:        c.store.ActivePath(),
		OpenFiles:         c.store.Infos(),
		HasUnsavedChanges: c.store.HasUnsavedChanges(),
		ProblemsCount:     summary.Total(),
		Summary:           summary,
		Groups:            c.aggregator.GroupByFile(),
		ConnectionStatus:  c.session.Status(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot.Workspace = c.scope.Workspace
	snapshot.ProjectID = c.scope.ProjectID
	snapshot.Validating = c.validating > 0
	snapshot.LocalValidation = make(map[string]entity.ValidationResult, len(c.validation))
	for p, r := range c.validation {
		snapshot.LocalValidation[p] = r
	}
	snapshot.Saving = make([]string, 0, len(c.saving))
	for p := range c.saving {
		snapshot.Saving = append(snapshot.Saving, p)
	}
	sort.Strings(snapshot.Saving)
	return snapshot
}

func (c *controller) Subscribe(listener func(entity.Snapshot)) func() {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = listener

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			defer c.subMu.Unlock()
			delete(c.listeners, id)
		})
	}
}

func (c *controller) notify() {
	c.subMu.Lock()
	ids := make([]int, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]func(entity.Snapshot), 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, c.listeners[id])
	}
	c.subMu.Unlock()

	if len(listeners) == 0 {
		return
	}
	snapshot := c.Snapshot()
	for _, l := range listeners {
		c.safeCall(l, snapshot)
	}
}

func (c *controller) safeCall(listener func(entity.Snapshot), snapshot entity.Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Errorw("snapshot listener panicked", "panic", r)
		}
	}()
	listener(snapshot)
}

func (c *controller) onStoreEvent(ev documents.Event) {
	switch ev.Kind {
	case documents.EventClosed:
		c.forget(ev.Path)
	case documents.EventCleared:
		c.forget("")
	}
	c.notify()
}

// forget drops the local state kept for filePath, or for every file when filePath is empty.
func (c *controller) forget(filePath string) {
	c.mu.Lock()
	unwatch := make(map[string]string)
	for p, projectID := range c.watched {
		if filePath == "" || p == filePath {
			unwatch[p] = projectID
			delete(c.watched, p)
		}
	}
	if filePath == "" {
		c.validation = make(map[string]entity.ValidationResult)
	} else {
		delete(c.validation, filePath)
	}
	c.mu.Unlock()

	for p, projectID := range unwatch {
		c.watcher.Unwatch(projectID, p)
	}
}

func (c *controller) onFileChange(change entity.FileChange) {
	if change.Removed {
		c.logger.Infow("open file removed outside the editor", "path", change.Path)
		return
	}
	if c.store.Reload(change.Path, change.Content) {
		c.logger.Infow("reloaded file changed outside the editor", "path", change.Path)
		c.revalidate(change.Path)
	}
}

func (c *controller) revalidate(filePath string) (entity.ValidationResult, bool) {
	doc, ok := c.store.Get(filePath)
	if !ok || doc.Loading {
		return entity.ValidationResult{}, false
	}
	result := c.validator.Validate(doc.Content, doc.FileType)

	c.mu.Lock()
	c.validation[filePath] = result
	c.mu.Unlock()

	c.notify()
	return result, true
}

func (c *controller) watch(projectID, filePath string) {
	c.mu.Lock()
	if _, ok := c.watched[filePath]; ok {
		c.mu.Unlock()
		return
	}
	c.watched[filePath] = projectID
	c.mu.Unlock()

	if err := c.watcher.Watch(projectID, filePath); err != nil {
		c.logger.Warnw("watching file", "path", filePath, "error", err)
	}
}

// syncSession hands the language session a target computed from the active document.
func (c *controller) syncSession(ctx context.Context) {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()

	c.mu.Lock()
	target := entity.SessionTarget{
		Scope:        c.scope,
		SurfaceReady: c.mounted && c.surfaceReady,
	}
	c.mu.Unlock()

	if active := c.store.ActivePath(); active != "" {
		if doc, ok := c.store.Get(active); ok {
			target.Path = active
			target.FileType = doc.FileType
		}
	}
	c.session.Start(ctx, target)
}

func (c *controller) project() (entity.SessionScope, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.scope.Complete() {
		return entity.SessionScope{}, 0, editorerrors.ErrNoProject
	}
	return c.scope, c.generation, nil
}

func (c *controller) isCurrent(generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation == generation
}

// resetLocked starts a new generation. In-flight work of older generations no longer counts towards the snapshot.
func (c *controller) resetLocked() {
	c.generation++
	c.validation = make(map[string]entity.ValidationResult)
	c.saving = make(map[string]int)
	c.validating = 0
}

func (c *controller) setSaving(generation uint64, filePath string, delta int) {
	c.mu.Lock()
	if c.generation != generation {
		c.mu.Unlock()
		return
	}
	if n := c.saving[filePath] + delta; n > 0 {
		c.saving[filePath] = n
	} else {
		delete(c.saving, filePath)
	}
	c.mu.Unlock()
	c.notify()
}

func (c *controller) setValidating(generation uint64, delta int) {
	c.mu.Lock()
	if c.generation != generation {
		c.mu.Unlock()
		return
	}
	if c.validating += delta; c.validating < 0 {
		c.validating = 0
	}
	c.mu.Unlock()
	c.notify()
}

func (c *controller) dispose() {
	for _, unsubscribe := range c.unsubscribe {
		unsubscribe()
	}
	c.subMu.Lock()
	c.listeners = make(map[int]func(entity.Snapshot))
	c.subMu.Unlock()
}
