// Package diagnostics merges markers from independent producers into the problems list.
package diagnostics

import (
	"context"
	"sort"
	"sync"

	"github.com/uber-go/tally"
	"github.com/uber/arena-editor/src/editor/entity"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _nameKey = "diagnostics"

// Aggregator combines markers per (source, file) pair.
// An ingest replaces what the same source previously reported for the file. Other sources are kept.
type Aggregator interface {
	Ingest(source entity.DiagnosticSource, filePath string, markers []entity.Marker)
	// IngestAll replaces everything source reported. Files missing from markers are cleared for that source.
	IngestAll(source entity.DiagnosticSource, markers []entity.Marker)
	ClearSource(source entity.DiagnosticSource)

	// GroupByFile lists files in first-seen order. Files without markers are omitted.
	GroupByFile() []entity.FileGroup
	Summary() entity.Summary
	WorstSeverity(filePath string) (entity.Severity, bool)
	Markers(filePath string) []entity.Marker

	Subscribe(listener func()) (unsubscribe func())
	Reset()
	Dispose()
}

// Params are inbound parameters to initialize the aggregator.
type Params struct {
	fx.In

	Logger    *zap.SugaredLogger
	Stats     tally.Scope
	Lifecycle fx.Lifecycle `optional:"true"`
}

type sourceMarkers struct {
	source  entity.DiagnosticSource
	markers []entity.Marker
}

type fileEntry struct {
	path    string
	sources []sourceMarkers
}

func (f *fileEntry) count() int {
	n := 0
	for _, s := range f.sources {
		n += len(s.markers)
	}
	return n
}

type aggregator struct {
	mu    sync.RWMutex
	files []*fileEntry

	subMu       sync.Mutex
	subscribers map[int]func()
	nextSubID   int

	logger *zap.SugaredLogger
	stats  tally.Scope
}

// New creates the diagnostics aggregator.
func New(p Params) Aggregator {
	a := &aggregator{
		subscribers: make(map[int]func()),
		logger:      p.Logger.With("component", _nameKey),
		stats:       p.Stats.SubScope(_nameKey),
	}
	if p.Lifecycle != nil {
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				a.Dispose()
				return nil
			},
		})
	}
	a.updateMetrics()
	return a
}

func (a *aggregator) Ingest(source entity.DiagnosticSource, filePath string, markers []entity.Marker) {
	a.stats.Tagged(map[string]string{"source": string(source)}).Counter("ingests").Inc(1)

	a.mu.Lock()
	changed := a.replace(source, filePath, markers)
	a.mu.Unlock()

	if changed {
		a.notify()
	}
}

func (a *aggregator) IngestAll(source entity.DiagnosticSource, markers []entity.Marker) {
	a.stats.Tagged(map[string]string{"source": string(source)}).Counter("ingests").Inc(1)

	var (
		order  []string
		byFile = make(map[string][]entity.Marker)
	)
	for _, m := range markers {
		if _, ok := byFile[m.FilePath]; !ok {
			order = append(order, m.FilePath)
		}
		byFile[m.FilePath] = append(byFile[m.FilePath], m)
	}

	a.mu.Lock()
	changed := false
	for _, f := range a.pathsWithSource(source) {
		if _, ok := byFile[f]; !ok {
			changed = a.replace(source, f, nil) || changed
		}
	}
	for _, f := range order {
		changed = a.replace(source, f, byFile[f]) || changed
	}
	a.mu.Unlock()

	if changed {
		a.notify()
	}
}

func (a *aggregator) ClearSource(source entity.DiagnosticSource) {
	a.mu.Lock()
	changed := false
	for _, f := range a.pathsWithSource(source) {
		changed = a.replace(source, f, nil) || changed
	}
	a.mu.Unlock()

	if changed {
		a.notify()
	}
}

// replace must be called with mu held. It reports whether the stored state changed.
func (a *aggregator) replace(source entity.DiagnosticSource, filePath string, markers []entity.Marker) bool {
	stamped := make([]entity.Marker, 0, len(markers))
	for _, m := range markers {
		m.FilePath = filePath
		m.Source = source
		stamped = append(stamped, m)
	}

	fileIdx := -1
	for i, f := range a.files {
		if f.path == filePath {
			fileIdx = i
			break
		}
	}

	if fileIdx < 0 {
		if len(stamped) == 0 {
			return false
		}
		a.files = append(a.files, &fileEntry{
			path:    filePath,
			sources: []sourceMarkers{{source: source, markers: stamped}},
		})
		return true
	}

	f := a.files[fileIdx]
	srcIdx := -1
	for i, s := range f.sources {
		if s.source == source {
			srcIdx = i
			break
		}
	}

	switch {
	case srcIdx < 0 && len(stamped) == 0:
		return false
	case srcIdx < 0:
		f.sources = append(f.sources, sourceMarkers{source: source, markers: stamped})
	case len(stamped) == 0:
		f.sources = append(f.sources[:srcIdx], f.sources[srcIdx+1:]...)
	default:
		f.sources[srcIdx].markers = stamped
	}

	if f.count() == 0 {
		a.files = append(a.files[:fileIdx], a.files[fileIdx+1:]...)
	}
	return true
}

func (a *aggregator) pathsWithSource(source entity.DiagnosticSource) []string {
	var paths []string
	for _, f := range a.files {
		for _, s := range f.sources {
			if s.source == source {
				paths = append(paths, f.path)
				break
			}
		}
	}
	return paths
}

func (a *aggregator) GroupByFile() []entity.FileGroup {
	a.mu.RLock()
	defer a.mu.RUnlock()

	groups := make([]entity.FileGroup, 0, len(a.files))
	for _, f := range a.files {
		markers := f.markers()
		groups = append(groups, entity.FileGroup{
			FilePath: f.path,
			Markers:  markers,
			Count:    len(markers),
		})
	}
	return groups
}

func (f *fileEntry) markers() []entity.Marker {
	markers := make([]entity.Marker, 0, f.count())
	for _, s := range f.sources {
		markers = append(markers, s.markers...)
	}
	return markers
}

func (a *aggregator) Summary() entity.Summary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.summary()
}

func (a *aggregator) summary() entity.Summary {
	var s entity.Summary
	for _, f := range a.files {
		for _, src := range f.sources {
			for _, m := range src.markers {
				s.Add(m.Severity)
			}
		}
	}
	return s
}

func (a *aggregator) WorstSeverity(filePath string) (entity.Severity, bool) {
	return entity.WorstSeverity(a.Markers(filePath))
}

func (a *aggregator) Markers(filePath string) []entity.Marker {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for _, f := range a.files {
		if f.path == filePath {
			return f.markers()
		}
	}
	return nil
}

func (a *aggregator) Subscribe(listener func()) func() {
	a.subMu.Lock()
	defer a.subMu.Unlock()

	id := a.nextSubID
	a.nextSubID++
	a.subscribers[id] = listener
	return func() {
		a.subMu.Lock()
		defer a.subMu.Unlock()
		delete(a.subscribers, id)
	}
}

func (a *aggregator) Reset() {
	a.mu.Lock()
	changed := len(a.files) > 0
	a.files = nil
	a.mu.Unlock()

	if changed {
		a.notify()
	}
}

func (a *aggregator) Dispose() {
	a.subMu.Lock()
	a.subscribers = make(map[int]func())
	a.subMu.Unlock()

	a.mu.Lock()
	a.files = nil
	a.mu.Unlock()
	a.updateMetrics()
}

func (a *aggregator) notify() {
	a.updateMetrics()

	a.subMu.Lock()
	ids := make([]int, 0, len(a.subscribers))
	for id := range a.subscribers {
		ids = append(ids, id)
	}
	listeners := make([]func(), 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		listeners = append(listeners, a.subscribers[id])
	}
	a.subMu.Unlock()

	for _, l := range listeners {
		a.safeCall(l)
	}
}

func (a *aggregator) safeCall(listener func()) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Errorw("diagnostics listener panicked", "panic", r)
		}
	}()
	listener()
}

func (a *aggregator) updateMetrics() {
	a.mu.RLock()
	s := a.summary()
	files := len(a.files)
	a.mu.RUnlock()

	a.stats.Gauge("errors").Update(float64(s.ErrorCount))
	a.stats.Gauge("warnings").Update(float64(s.WarningCount))
	a.stats.Gauge("infos").Update(float64(s.InfoCount))
	a.stats.Gauge("hints").Update(float64(s.HintCount))
	a.stats.Gauge("files").Update(float64(files))
}
