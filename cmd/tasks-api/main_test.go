package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tasks-api/internal/config"
	"tasks-api/internal/model"
	"tasks-api/internal/store/memorystore"
	"tasks-api/internal/store/sqlstore"
	"tasks-api/internal/task"
)

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		cfg  config.StoreConfig
		want any
	}{
		{config.StoreConfig{Driver: "memory"}, &memorystore.TaskStore{}},
		{config.StoreConfig{Driver: "memory", File: filepath.Join(dir, "db.json")}, &memorystore.TaskStore{}},
		{config.StoreConfig{Driver: "sqlite", DSN: filepath.Join(dir, "tasks.db")}, &sqlstore.TaskStore{}},
		{config.StoreConfig{Driver: "sqlite", DSN: filepath.Join(dir, "logged.db"), LogSQL: true}, &sqlstore.TaskStore{}},
	}
	for _, c := range cases {
		st, err := openStore(c.cfg, zap.NewNop())
		require.NoError(t, err, "driver=%s", c.cfg.Driver)
		assert.IsType(t, c.want, st)

		now := time.Now().UTC()
		require.NoError(t, st.Insert(context.Background(), model.Task{
			ID: "1", Title: "t", Description: "d", CreatedAt: now, UpdatedAt: now,
		}))
		got, err := st.Select(context.Background(), task.Query{ID: "1"})
		require.NoError(t, err)
		assert.Len(t, got, 1)
		require.NoError(t, st.Close())
	}

	_, err := openStore(config.StoreConfig{Driver: "mongo"}, zap.NewNop())
	assert.Error(t, err)
}
