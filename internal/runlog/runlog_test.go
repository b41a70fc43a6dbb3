package runlog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	log, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log
}

func TestLog_CompleteRun(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	id, err := log.Start(ctx, "profiles")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.NoError(t, log.Complete(ctx, id, 130))

	last, err := log.LastSuccess(ctx, "profiles")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.False(t, last.IsZero())

	entries, err := log.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "profiles", entries[0].Dataset)
	assert.Equal(t, "complete", entries[0].Status)
	assert.Equal(t, int64(130), entries[0].Rows)
	assert.NotNil(t, entries[0].CompletedAt)
}

func TestLog_FailedRun(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	id, err := log.Start(ctx, "realestate")
	require.NoError(t, err)
	require.NoError(t, log.Fail(ctx, id, "upstream down"))

	// a failed run is not a success for scheduling purposes
	last, err := log.LastSuccess(ctx, "realestate")
	require.NoError(t, err)
	assert.Nil(t, last)

	entries, err := log.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "failed", entries[0].Status)
	assert.Equal(t, "upstream down", entries[0].Error)
}

func TestLog_LastSuccess_NeverRun(t *testing.T) {
	log := openTestLog(t)

	last, err := log.LastSuccess(context.Background(), "profiles")
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestLog_LastSuccess_PerDataset(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	id, err := log.Start(ctx, "profiles")
	require.NoError(t, err)
	require.NoError(t, log.Complete(ctx, id, 130))

	last, err := log.LastSuccess(ctx, "realestate")
	require.NoError(t, err)
	assert.Nil(t, last, "success on one dataset does not mark another")
}

func TestLog_Recent_Limit(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	for range 5 {
		id, err := log.Start(ctx, "profiles")
		require.NoError(t, err)
		require.NoError(t, log.Complete(ctx, id, 1))
	}

	entries, err := log.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	ctx := context.Background()

	log, err := Open(path)
	require.NoError(t, err)
	id, err := log.Start(ctx, "profiles")
	require.NoError(t, err)
	require.NoError(t, log.Complete(ctx, id, 130))
	require.NoError(t, log.Close())

	// runs survive process restarts
	log, err = Open(path)
	require.NoError(t, err)
	defer log.Close()

	last, err := log.LastSuccess(ctx, "profiles")
	require.NoError(t, err)
	assert.NotNil(t, last)
}
