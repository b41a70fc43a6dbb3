package dataset

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/munistats/internal/fetch"
	"github.com/sells-group/munistats/internal/runlog"
)

// stubDataset records Sync invocations for engine tests.
type stubDataset struct {
	name    string
	due     bool
	syncErr error
	calls   int
}

func (d *stubDataset) Name() string                         { return d.name }
func (d *stubDataset) File() string                         { return d.name + ".csv" }
func (d *stubDataset) Cadence() Cadence                     { return Weekly }
func (d *stubDataset) ShouldRun(time.Time, *time.Time) bool { return d.due }
func (d *stubDataset) Sync(context.Context, *fetch.Client, string, RunOpts) (*Result, error) {
	d.calls++
	if d.syncErr != nil {
		return nil, d.syncErr
	}
	return &Result{RowsCollected: 5, RowsWritten: 5}, nil
}

func newTestEngine(t *testing.T, datasets ...Dataset) (*Engine, *runlog.Log) {
	t.Helper()
	log, err := runlog.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })

	reg := &Registry{datasets: datasets}
	return NewEngine(testClient(), log, reg, t.TempDir()), log
}

func TestEngine_Run(t *testing.T) {
	due := &stubDataset{name: "due", due: true}
	notDue := &stubDataset{name: "notdue", due: false}
	failing := &stubDataset{name: "failing", due: true, syncErr: eris.New("upstream down")}

	engine, log := newTestEngine(t, due, notDue, failing)

	err := engine.Run(context.Background(), nil, RunOpts{})
	require.NoError(t, err, "one dataset failing does not fail the run")

	assert.Equal(t, 1, due.calls)
	assert.Equal(t, 0, notDue.calls, "datasets not due are skipped")
	assert.Equal(t, 1, failing.calls)

	entries, err := log.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2, "skipped datasets leave no run record")

	byDataset := map[string]runlog.Entry{}
	for _, e := range entries {
		byDataset[e.Dataset] = e
	}
	assert.Equal(t, "complete", byDataset["due"].Status)
	assert.Equal(t, int64(5), byDataset["due"].Rows)
	assert.Equal(t, "failed", byDataset["failing"].Status)
	assert.Contains(t, byDataset["failing"].Error, "upstream down")
}

func TestEngine_Run_Force(t *testing.T) {
	notDue := &stubDataset{name: "notdue", due: false}
	engine, _ := newTestEngine(t, notDue)

	err := engine.Run(context.Background(), nil, RunOpts{Force: true})
	require.NoError(t, err)
	assert.Equal(t, 1, notDue.calls, "force overrides scheduling")
}

func TestEngine_Run_UnknownName(t *testing.T) {
	engine, _ := newTestEngine(t, &stubDataset{name: "known", due: true})

	err := engine.Run(context.Background(), []string{"unknown"}, RunOpts{})
	require.Error(t, err)
}

func TestEngine_Run_Cancelled(t *testing.T) {
	ds := &stubDataset{name: "ds", due: true}
	engine, _ := newTestEngine(t, ds)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := engine.Run(ctx, nil, RunOpts{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, ds.calls)
}
