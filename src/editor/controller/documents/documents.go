// Package documents holds the open-document store: the single source of truth for open files, their content and dirty state.
package documents

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sync"

	"github.com/uber-go/tally"
	"github.com/uber/arena-editor/src/editor/entity"
	"github.com/uber/arena-editor/src/editor/internal/filetype"
	editorerrors "github.com/uber/arena-editor/src/editor/internal/errors"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey        = "documents"
	_maxFileSizeKey = "editor.maxFileSizeBytes"

	_defaultMaxFileSizeBytes = 10 << 20
)

// EventKind names the mutation that produced an Event.
type EventKind string

const (
	// EventOpened is emitted when a new document is appended.
	EventOpened EventKind = "opened"
	// EventChanged is emitted when the content of a document changes.
	EventChanged EventKind = "changed"
	// EventSaved is emitted when the saved content of a document is updated.
	EventSaved EventKind = "saved"
	// EventClosed is emitted when a document is removed.
	EventClosed EventKind = "closed"
	// EventActivated is emitted when the active document changes. Path is empty when no document is active.
	EventActivated EventKind = "activated"
	// EventCleared is emitted once when every document was closed by ClearProject.
	EventCleared EventKind = "cleared"
	// EventLoaded is emitted when a placeholder received its content.
	EventLoaded EventKind = "loaded"
)

// Event describes a committed store mutation.
type Event struct {
	Kind EventKind
	Path string
}

// Listener receives store events in mutation order.
type Listener func(Event)

// Store is the open-document store.
// Mutations that violate a precondition, such as updating a document that is not open, are silent no-ops.
type Store interface {
	// OpenFile appends a document and makes it active. If the path is already open it only becomes active.
	OpenFile(filePath, name, content string) error
	// OpenLoading appends an empty placeholder marked as loading and makes it active. It reports whether a placeholder was created.
	OpenLoading(filePath, name string) bool
	// FinishLoading fills a placeholder. It reports false if the document is no longer open or no longer loading.
	FinishLoading(filePath, content string) (bool, error)
	// Reload replaces the content of a clean document after an external change. It reports whether it applied.
	Reload(filePath, content string) bool
	// UpdateContent replaces the content of an open document. It reports false for unknown, loading or oversized documents.
	UpdateContent(filePath, content string) bool
	MarkSaved(filePath string) bool
	// MarkSavedAs records content as the persisted state without touching the current content.
	MarkSavedAs(filePath, content string) bool
	CloseFile(filePath string) bool
	SetActiveFile(filePath string) bool
	ClearProject()

	Get(filePath string) (entity.Document, bool)
	ActivePath() string
	// Documents returns copies of the open documents in tab order.
	Documents() []entity.Document
	Infos() []entity.DocumentInfo
	HasUnsavedChanges() bool
	DirtyPaths() []string

	// Subscribe registers a listener and returns a function that removes it.
	Subscribe(listener Listener) (unsubscribe func())
	Dispose()
}

// Params are inbound parameters to initialize the store.
type Params struct {
	fx.In

	Config     config.Provider
	Logger     *zap.SugaredLogger
	Stats      tally.Scope
	Classifier filetype.Classifier
	Lifecycle  fx.Lifecycle `optional:"true"`
}

type subscriber struct {
	id       int
	listener Listener
}

type store struct {
	mu         sync.RWMutex
	docs       []*entity.Document
	activePath string

	subMu       sync.Mutex
	subscribers []subscriber
	nextSubID   int

	// pending events are delivered by whichever caller drains first, which keeps delivery ordered and lets listeners mutate the store.
	queueMu  sync.Mutex
	queue    []Event
	draining bool

	classifier       filetype.Classifier
	logger           *zap.SugaredLogger
	stats            tally.Scope
	maxFileSizeBytes int64
}

// New creates the open-document store.
func New(p Params) (Store, error) {
	var maxFileSizeBytes int64
	if err := p.Config.Get(_maxFileSizeKey).Populate(&maxFileSizeBytes); err != nil {
		return nil, fmt.Errorf("unable to get maximum file size from config: %w", err)
	}
	if maxFileSizeBytes < 0 {
		return nil, fmt.Errorf("invalid maximum file size %d", maxFileSizeBytes)
	}
	if maxFileSizeBytes == 0 {
		maxFileSizeBytes = _defaultMaxFileSizeBytes
	}

	classifier := p.Classifier
	if classifier == nil {
		classifier = filetype.NewClassifier(nil)
	}

	s := &store{
		classifier:       classifier,
		logger:           p.Logger.With("component", _nameKey),
		stats:            p.Stats.SubScope(_nameKey),
		maxFileSizeBytes: maxFileSizeBytes,
	}
	if p.Lifecycle != nil {
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				s.Dispose()
				return nil
			},
		})
	}
	s.updateMetrics()
	return s, nil
}

func (s *store) OpenFile(filePath, name, content string) error {
	if filePath == "" {
		return editorerrors.ErrInvalidPath
	}
	if err := s.validateSize(filePath, content); err != nil {
		return err
	}

	var events []Event
	s.mu.Lock()
	if s.indexOf(filePath) < 0 {
		s.docs = append(s.docs, s.newDocument(filePath, name, content, false))
		events = append(events, Event{Kind: EventOpened, Path: filePath})
	}
	if s.activePath != filePath {
		s.activePath = filePath
		events = append(events, Event{Kind: EventActivated, Path: filePath})
	}
	s.mu.Unlock()

	s.commit(events...)
	return nil
}

func (s *store) OpenLoading(filePath, name string) bool {
	if filePath == "" {
		return false
	}

	var (
		events  []Event
		created bool
	)
	s.mu.Lock()
	if s.indexOf(filePath) < 0 {
		s.docs = append(s.docs, s.newDocument(filePath, name, "", true))
		events = append(events, Event{Kind: EventOpened, Path: filePath})
		created = true
	}
	if s.activePath != filePath {
		s.activePath = filePath
		events = append(events, Event{Kind: EventActivated, Path: filePath})
	}
	s.mu.Unlock()

	s.commit(events...)
	return created
}

func (s *store) FinishLoading(filePath, content string) (bool, error) {
	if err := s.validateSize(filePath, content); err != nil {
		return false, err
	}

	s.mu.Lock()
	doc := s.find(filePath)
	if doc == nil || !doc.Loading {
		s.mu.Unlock()
		return false, nil
	}
	doc.Content = content
	doc.SavedContent = content
	doc.Loading = false
	s.mu.Unlock()

	s.commit(Event{Kind: EventLoaded, Path: filePath})
	return true, nil
}

func (s *store) Reload(filePath, content string) bool {
	if s.validateSize(filePath, content) != nil {
		return false
	}

	s.mu.Lock()
	doc := s.find(filePath)
	if doc == nil || doc.Loading || doc.IsDirty() || doc.Content == content {
		s.mu.Unlock()
		return false
	}
	doc.Content = content
	doc.SavedContent = content
	s.mu.Unlock()

	s.commit(Event{Kind: EventChanged, Path: filePath}, Event{Kind: EventSaved, Path: filePath})
	return true
}

func (s *store) UpdateContent(filePath, content string) bool {
	if err := s.validateSize(filePath, content); err != nil {
		s.logger.Warnw("refusing content update", "path", filePath, "error", err)
		return false
	}

	s.mu.Lock()
	doc := s.find(filePath)
	if doc == nil {
		s.mu.Unlock()
		return false
	}
	if doc.Loading {
		// the fetched content would replace the edit
		s.mu.Unlock()
		s.logger.Debugw("ignoring edit of loading document", "path", filePath)
		return false
	}
	if doc.Content == content {
		s.mu.Unlock()
		return true
	}
	doc.Content = content
	s.mu.Unlock()

	s.commit(Event{Kind: EventChanged, Path: filePath})
	return true
}

func (s *store) MarkSaved(filePath string) bool {
	s.mu.Lock()
	doc := s.find(filePath)
	if doc == nil {
		s.mu.Unlock()
		return false
	}
	doc.SavedContent = doc.Content
	s.mu.Unlock()

	s.commit(Event{Kind: EventSaved, Path: filePath})
	return true
}

func (s *store) MarkSavedAs(filePath, content string) bool {
	s.mu.Lock()
	doc := s.find(filePath)
	if doc == nil {
		s.mu.Unlock()
		return false
	}
	doc.SavedContent = content
	s.mu.Unlock()

	s.commit(Event{Kind: EventSaved, Path: filePath})
	return true
}

func (s *store) CloseFile(filePath string) bool {
	s.mu.Lock()
	idx := s.indexOf(filePath)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}

	s.docs = append(s.docs[:idx], s.docs[idx+1:]...)
	events := []Event{{Kind: EventClosed, Path: filePath}}
	if s.activePath == filePath {
		s.activePath = neighbor(s.docs, idx)
		events = append(events, Event{Kind: EventActivated, Path: s.activePath})
	}
	s.mu.Unlock()

	s.commit(events...)
	return true
}

// neighbor picks the tab left of the removed index, else the one that slid into its place.
func neighbor(docs []*entity.Document, removed int) string {
	switch {
	case removed > 0:
		return docs[removed-1].Path
	case len(docs) > 0:
		return docs[0].Path
	default:
		return ""
	}
}

func (s *store) SetActiveFile(filePath string) bool {
	s.mu.Lock()
	if s.indexOf(filePath) < 0 {
		s.mu.Unlock()
		return false
	}
	if s.activePath == filePath {
		s.mu.Unlock()
		return true
	}
	s.activePath = filePath
	s.mu.Unlock()

	s.commit(Event{Kind: EventActivated, Path: filePath})
	return true
}

func (s *store) ClearProject() {
	s.mu.Lock()
	if len(s.docs) == 0 && s.activePath == "" {
		s.mu.Unlock()
		return
	}
	s.docs = nil
	s.activePath = ""
	s.mu.Unlock()

	s.commit(Event{Kind: EventCleared})
}

func (s *store) Get(filePath string) (entity.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := s.find(filePath)
	if doc == nil {
		return entity.Document{}, false
	}
	return *doc, true
}

func (s *store) ActivePath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activePath
}

func (s *store) Documents() []entity.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]entity.Document, 0, len(s.docs))
	for _, d := range s.docs {
		docs = append(docs, *d)
	}
	return docs
}

func (s *store) Infos() []entity.DocumentInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]entity.DocumentInfo, 0, len(s.docs))
	for _, d := range s.docs {
		infos = append(infos, entity.DocumentInfo{
			Path:     d.Path,
			Name:     d.Name,
			FileType: d.FileType,
			Dirty:    d.IsDirty(),
			Loading:  d.Loading,
			Active:   d.Path == s.activePath,
		})
	}
	return infos
}

func (s *store) HasUnsavedChanges() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.docs {
		if d.IsDirty() {
			return true
		}
	}
	return false
}

func (s *store) DirtyPaths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var paths []string
	for _, d := range s.docs {
		if d.IsDirty() {
			paths = append(paths, d.Path)
		}
	}
	return paths
}

func (s *store) Subscribe(listener Listener) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers = append(s.subscribers, subscriber{id: id, listener: listener})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subscribers {
				if sub.id == id {
					s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *store) Dispose() {
	s.subMu.Lock()
	s.subscribers = nil
	s.subMu.Unlock()
}

// commit refreshes metrics and delivers events outside of the document lock.
func (s *store) commit(events ...Event) {
	if len(events) == 0 {
		return
	}
	s.updateMetrics()

	s.queueMu.Lock()
	s.queue = append(s.queue, events...)
	if s.draining {
		s.queueMu.Unlock()
		return
	}
	s.draining = true
	s.queueMu.Unlock()

	for {
		s.queueMu.Lock()
		if len(s.queue) == 0 {
			s.draining = false
			s.queueMu.Unlock()
			return
		}
		ev := s.queue[0]
		s.queue = s.queue[1:]
		s.queueMu.Unlock()

		s.deliver(ev)
	}
}

func (s *store) deliver(ev Event) {
	s.subMu.Lock()
	subs := make([]subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.subMu.Unlock()

	for _, sub := range subs {
		s.safeCall(sub.listener, ev)
	}
}

func (s *store) safeCall(listener Listener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorw("store listener panicked", "event", ev.Kind, "path", ev.Path, "panic", r)
		}
	}()
	listener(ev)
}

func (s *store) newDocument(filePath, name, content string, loading bool) *entity.Document {
	if name == "" {
		name = path.Base(filePath)
	}
	return &entity.Document{
		Path:         filePath,
		Name:         name,
		Content:      content,
		SavedContent: content,
		FileType:     s.classifier.Classify(filePath),
		Loading:      loading,
	}
}

func (s *store) indexOf(filePath string) int {
	for i, d := range s.docs {
		if d.Path == filePath {
			return i
		}
	}
	return -1
}

func (s *store) find(filePath string) *entity.Document {
	if idx := s.indexOf(filePath); idx >= 0 {
		return s.docs[idx]
	}
	return nil
}

func (s *store) validateSize(filePath, content string) error {
	size := int64(len(content))
	if size > s.maxFileSizeBytes {
		return &editorerrors.DocumentSizeLimitError{Path: filePath, Size: size, Limit: s.maxFileSizeBytes}
	}
	return nil
}

func (s *store) updateMetrics() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	openBytes := 0
	dirtyDocs := 0
	for _, d := range s.docs {
		openBytes += len(d.Content)
		if d.IsDirty() {
			dirtyDocs++
		}
	}
	s.stats.Gauge("open_docs").Update(float64(len(s.docs)))
	s.stats.Gauge("open_bytes").Update(float64(openBytes))
	s.stats.Gauge("dirty_docs").Update(float64(dirtyDocs))
}

// IsSizeLimit reports whether err was caused by content exceeding the configured size limit.
func IsSizeLimit(err error) bool {
	var sizeErr *editorerrors.DocumentSizeLimitError
	return errors.As(err, &sizeErr)
}
