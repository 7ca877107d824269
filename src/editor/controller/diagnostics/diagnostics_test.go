package diagnostics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
	"github.com/uber/arena-editor/src/editor/entity"
	"github.com/uber/arena-editor/src/editor/factory"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func newAggregator() (Aggregator, tally.TestScope) {
	scope := tally.NewTestScope("testing", make(map[string]string, 0))
	return New(Params{Logger: zap.NewNop().Sugar(), Stats: scope}), scope
}

func messages(markers []entity.Marker) []string {
	var out []string
	for _, m := range markers {
		out = append(out, m.Message)
	}
	return out
}

func groupPaths(groups []entity.FileGroup) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g.FilePath)
	}
	return out
}

func TestReplaceBySource(t *testing.T) {
	a, _ := newAggregator()

	m1 := factory.Marker("a.yaml", entity.SeverityError, entity.SourceLiveSession, "m1")
	m2 := factory.Marker("a.yaml", entity.SeverityWarning, entity.SourceLiveSession, "m2")
	m3 := factory.Marker("a.yaml", entity.SeverityError, entity.SourceBatchValidate, "m3")

	a.Ingest(entity.SourceLiveSession, "a.yaml", []entity.Marker{m1})
	a.Ingest(entity.SourceLiveSession, "a.yaml", []entity.Marker{m2})
	assert.Equal(t, []string{"m2"}, messages(a.Markers("a.yaml")))

	a.Ingest(entity.SourceBatchValidate, "a.yaml", []entity.Marker{m3})
	assert.Equal(t, []string{"m2", "m3"}, messages(a.Markers("a.yaml")))

	groups := a.GroupByFile()
	require.Len(t, groups, 1)
	assert.Equal(t, 2, groups[0].Count)
}

func TestSourceKeepsSlot(t *testing.T) {
	a, _ := newAggregator()

	a.Ingest(entity.SourceBatchValidate, "a.yaml", factory.Markers("a.yaml", entity.SourceBatchValidate, 1))
	a.Ingest(entity.SourceLiveSession, "a.yaml", factory.Markers("a.yaml", entity.SourceLiveSession, 2))
	a.Ingest(entity.SourceBatchValidate, "a.yaml", factory.Markers("a.yaml", entity.SourceBatchValidate, 2))

	assert.Equal(t, []string{
		"batch-validate problem 0",
		"batch-validate problem 1",
		"live-session problem 0",
		"live-session problem 1",
	}, messages(a.Markers("a.yaml")))
}

func TestIngestStampsMarkers(t *testing.T) {
	a, _ := newAggregator()
	a.Ingest(entity.SourceJobRun, "b.yaml", []entity.Marker{{Message: "x", Severity: entity.SeverityHint}})

	markers := a.Markers("b.yaml")
	require.Len(t, markers, 1)
	assert.Equal(t, "b.yaml", markers[0].FilePath)
	assert.Equal(t, entity.SourceJobRun, markers[0].Source)
}

func TestGroupDisappearance(t *testing.T) {
	a, scope := newAggregator()

	a.Ingest(entity.SourceLiveSession, "a.yaml", factory.Markers("a.yaml", entity.SourceLiveSession, 1))
	a.Ingest(entity.SourceBatchValidate, "b.yaml", factory.Markers("b.yaml", entity.SourceBatchValidate, 1))
	a.Ingest(entity.SourceBatchValidate, "a.yaml", factory.Markers("a.yaml", entity.SourceBatchValidate, 1))
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, groupPaths(a.GroupByFile()))

	a.Ingest(entity.SourceLiveSession, "a.yaml", nil)
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, groupPaths(a.GroupByFile()))

	a.Ingest(entity.SourceBatchValidate, "a.yaml", []entity.Marker{})
	assert.Equal(t, []string{"b.yaml"}, groupPaths(a.GroupByFile()))
	_, ok := a.WorstSeverity("a.yaml")
	assert.False(t, ok)
	assert.Nil(t, a.Markers("a.yaml"))

	// A group that reappears goes to the end.
	a.Ingest(entity.SourceJobRun, "a.yaml", factory.Markers("a.yaml", entity.SourceJobRun, 1))
	assert.Equal(t, []string{"b.yaml", "a.yaml"}, groupPaths(a.GroupByFile()))

	assert.Equal(t, float64(2), scope.Snapshot().Gauges()["testing.diagnostics.files+"].Value())
}

func TestIngestAll(t *testing.T) {
	a, _ := newAggregator()

	a.Ingest(entity.SourceLiveSession, "a.yaml", factory.Markers("a.yaml", entity.SourceLiveSession, 1))
	a.IngestAll(entity.SourceBatchValidate, []entity.Marker{
		factory.Marker("c.yaml", entity.SeverityError, "", "c1"),
		factory.Marker("a.yaml", entity.SeverityWarning, "", "a1"),
		factory.Marker("c.yaml", entity.SeverityInfo, "", "c2"),
	})
	assert.Equal(t, []string{"a.yaml", "c.yaml"}, groupPaths(a.GroupByFile()))
	assert.Equal(t, []string{"c1", "c2"}, messages(a.Markers("c.yaml")))

	// A re-run without diagnostics for c.yaml clears its group.
	a.IngestAll(entity.SourceBatchValidate, []entity.Marker{
		factory.Marker("a.yaml", entity.SeverityWarning, "", "a2"),
	})
	assert.Equal(t, []string{"a.yaml"}, groupPaths(a.GroupByFile()))
	assert.Equal(t, []string{"live-session problem 0", "a2"}, messages(a.Markers("a.yaml")))

	a.IngestAll(entity.SourceBatchValidate, nil)
	assert.Equal(t, []string{"live-session problem 0"}, messages(a.Markers("a.yaml")))
}

func TestClearSource(t *testing.T) {
	a, _ := newAggregator()
	a.Ingest(entity.SourceLiveSession, "a.yaml", factory.Markers("a.yaml", entity.SourceLiveSession, 1))
	a.Ingest(entity.SourceLiveSession, "b.yaml", factory.Markers("b.yaml", entity.SourceLiveSession, 1))
	a.Ingest(entity.SourceJobRun, "b.yaml", factory.Markers("b.yaml", entity.SourceJobRun, 1))

	a.ClearSource(entity.SourceLiveSession)
	assert.Equal(t, []string{"b.yaml"}, groupPaths(a.GroupByFile()))
	assert.Equal(t, []string{"job-run problem 0"}, messages(a.Markers("b.yaml")))
}

func TestSummaryAndWorstSeverity(t *testing.T) {
	a, scope := newAggregator()
	a.Ingest(entity.SourceLiveSession, "a.yaml", []entity.Marker{
		{Severity: entity.SeverityHint},
		{Severity: entity.SeverityWarning},
	})
	a.Ingest(entity.SourceBatchValidate, "b.yaml", []entity.Marker{
		{Severity: entity.SeverityError},
		{Severity: entity.SeverityInfo},
	})
	a.Ingest(entity.SourceJobRun, "a.yaml", []entity.Marker{
		{Severity: entity.SeverityInfo},
	})

	assert.Equal(t, entity.Summary{ErrorCount: 1, WarningCount: 1, InfoCount: 2, HintCount: 1}, a.Summary())

	worst, ok := a.WorstSeverity("a.yaml")
	assert.True(t, ok)
	assert.Equal(t, entity.SeverityWarning, worst)
	worst, ok = a.WorstSeverity("b.yaml")
	assert.True(t, ok)
	assert.Equal(t, entity.SeverityError, worst)

	gauges := scope.Snapshot().Gauges()
	assert.Equal(t, float64(1), gauges["testing.diagnostics.errors+"].Value())
	assert.Equal(t, float64(2), gauges["testing.diagnostics.infos+"].Value())
	counters := scope.Snapshot().Counters()
	assert.Equal(t, int64(1), counters["testing.diagnostics.ingests+source=job-run"].Value())
}

func TestSubscribe(t *testing.T) {
	a, _ := newAggregator()
	calls := 0
	unsubscribe := a.Subscribe(func() { calls++ })
	a.Subscribe(func() { panic("listener failure") })

	a.Ingest(entity.SourceLiveSession, "a.yaml", factory.Markers("a.yaml", entity.SourceLiveSession, 1))
	assert.Equal(t, 1, calls)

	// Clearing a pair that holds nothing is not a change.
	a.Ingest(entity.SourceBatchValidate, "z.yaml", nil)
	a.ClearSource(entity.SourceJobRun)
	assert.Equal(t, 1, calls)

	// Listeners may read the aggregator.
	a.Subscribe(func() { a.GroupByFile() })
	a.Reset()
	assert.Equal(t, 2, calls)
	assert.Empty(t, a.GroupByFile())

	unsubscribe()
	a.Ingest(entity.SourceLiveSession, "a.yaml", factory.Markers("a.yaml", entity.SourceLiveSession, 1))
	assert.Equal(t, 2, calls)
}

func TestDispose(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	a := New(Params{Logger: zap.NewNop().Sugar(), Stats: tally.NoopScope, Lifecycle: lc})
	calls := 0
	a.Subscribe(func() { calls++ })
	a.Ingest(entity.SourceLiveSession, "a.yaml", factory.Markers("a.yaml", entity.SourceLiveSession, 1))

	require.NoError(t, lc.Start(context.Background()))
	require.NoError(t, lc.Stop(context.Background()))
	assert.Empty(t, a.GroupByFile())

	a.Ingest(entity.SourceLiveSession, "a.yaml", factory.Markers("a.yaml", entity.SourceLiveSession, 1))
	assert.Equal(t, 1, calls)
}
