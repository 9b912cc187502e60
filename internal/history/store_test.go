package history

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-1, DefaultLimit},
		{0, DefaultLimit},
		{1, 1},
		{MaxLimit, MaxLimit},
		{MaxLimit + 1, MaxLimit},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampLimit(tt.in), "ClampLimit(%d)", tt.in)
	}
}

func TestOpen_BadURL(t *testing.T) {
	_, err := Open(context.Background(), "://not a url", Options{})
	assert.Error(t, err)
}

// TestStore_RoundTrip runs against a real database when LABPLOT_TEST_DATABASE_URL is set.
func TestStore_RoundTrip(t *testing.T) {
	url := os.Getenv("LABPLOT_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("LABPLOT_TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := Open(ctx, url, Options{MaxConns: 2})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Migrate(ctx))

	run := Run{
		ID:       uuid.New(),
		Workflow: "mpms",
		Files:    []string{"datafile"},
		Rows:     120,
		Graphs:   1,
		Warnings: []string{"Project file locked. Skipping save."},
		Duration: 1500 * time.Millisecond,
	}
	require.NoError(t, store.Record(ctx, run))

	runs, err := store.Recent(ctx, 10)
	require.NoError(t, err)

	var found *Run
	for i := range runs {
		if runs[i].ID == run.ID {
			found = &runs[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, run.Workflow, found.Workflow)
	assert.Equal(t, run.Files, found.Files)
	assert.Equal(t, run.Warnings, found.Warnings)
	assert.Equal(t, run.Duration, found.Duration)
}
