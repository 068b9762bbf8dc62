package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/model"
)

func openTestLog(t *testing.T) *RunLog {
	t.Helper()
	log, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	require.NoError(t, log.Migrate(context.Background()))
	return log
}

func TestRunLog_RecordAssignsIDAndTimestamp(t *testing.T) {
	log := openTestLog(t)

	run, err := log.Record(context.Background(), model.SearchRun{
		City:       "Pune",
		Categories: []string{"bakery", "cafe"},
		RadiusKm:   10,
		LeadCount:  7,
		DurationMs: 1250,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())
}

func TestRunLog_RecordAndList(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	for i, city := range []string{"Pune", "Mumbai", "Austin"} {
		_, err := log.Record(ctx, model.SearchRun{
			City:       city,
			Categories: []string{"bakery"},
			RadiusKm:   10,
			LeadCount:  i,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	runs, err := log.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	// Newest first.
	assert.Equal(t, "Austin", runs[0].City)
	assert.Equal(t, "Pune", runs[2].City)
	assert.Equal(t, []string{"bakery"}, runs[0].Categories)
}

func TestRunLog_ListLimit(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := log.Record(ctx, model.SearchRun{
			City:       "Pune",
			Categories: []string{"bakery"},
			RadiusKm:   10,
			CreatedAt:  time.Date(2026, 8, 26, 10, i, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}

	runs, err := log.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestRunLog_ErrorKindRoundTrip(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	_, err := log.Record(ctx, model.SearchRun{
		City:       "Pune",
		Categories: []string{"bakery"},
		RadiusKm:   10,
		ErrorKind:  "quota_exceeded",
	})
	require.NoError(t, err)

	_, err = log.Record(ctx, model.SearchRun{
		City:       "Pune",
		Categories: []string{"bakery"},
		RadiusKm:   10,
		LeadCount:  3,
	})
	require.NoError(t, err)

	runs, err := log.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	kinds := map[string]bool{}
	for _, r := range runs {
		kinds[r.ErrorKind] = true
	}
	assert.True(t, kinds["quota_exceeded"])
	assert.True(t, kinds[""], "successful runs read back with an empty error kind")
}

func TestRunLog_MigrateIdempotent(t *testing.T) {
	log := openTestLog(t)
	assert.NoError(t, log.Migrate(context.Background()))
}
