package runstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"mslscheduler/internal/orchestrator"
	"mslscheduler/internal/report"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	store := New(db)
	require.NoError(t, store.Migrate())
	return db
}

func TestStoreRecordAndFindByID(t *testing.T) {
	db := setupTestDB(t)
	store := New(db)

	cfg := orchestrator.DefaultConfig()
	rep := report.Report{Strategy: "tabu", Feasible: true, ObjectiveValue: 4.5}

	run, err := store.Record(context.Background(), "hash-123", cfg, rep, map[string]string{"0": "schedule"})
	require.NoError(t, err)
	require.NotEqual(t, "", run.ID.String())

	found, err := store.FindByID(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash-123", found.InstanceHash)
	assert.Equal(t, "cp", found.Strategy)
	assert.True(t, found.Feasible)
	require.NotNil(t, found.Schedule)
}

func TestStoreLatestFeasibleByHash(t *testing.T) {
	db := setupTestDB(t)
	store := New(db)
	cfg := orchestrator.DefaultConfig()

	_, err := store.Record(context.Background(), "hash-abc", cfg, report.Report{Strategy: "repair", Feasible: false}, nil)
	require.NoError(t, err)
	cfg.Strategy = orchestrator.StrategyTabu
	_, err = store.Record(context.Background(), "hash-abc", cfg, report.Report{Strategy: "tabu", Feasible: true}, map[string]string{"a": "b"})
	require.NoError(t, err)

	latest, err := store.LatestFeasibleByHash(context.Background(), "hash-abc")
	require.NoError(t, err)
	assert.True(t, latest.Feasible)
	assert.Equal(t, "tabu", latest.Strategy)
}

func TestStoreLatestFeasibleByHashNotFound(t *testing.T) {
	db := setupTestDB(t)
	store := New(db)

	_, err := store.LatestFeasibleByHash(context.Background(), "nonexistent")
	assert.Error(t, err)
}
