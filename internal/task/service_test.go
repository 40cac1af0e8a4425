package task_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasks-api/internal/model"
	"tasks-api/internal/store/memorystore"
	"tasks-api/internal/task"
)

func stepClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
}

func newService(t *testing.T) (*task.Service, *memorystore.TaskStore) {
	t.Helper()
	st := memorystore.NewTaskStore()
	clock := stepClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	return task.NewService(st, task.WithClock(clock)), st
}

func strPtr(s string) *string { return &s }

func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	created, err := svc.Create(ctx, "  Buy milk ", "2 liters")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, "2 liters", created.Description)
	assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))
	assert.Nil(t, created.IsCompleted)

	other, err := svc.Create(ctx, "Other", "task")
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, other.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreate_MissingFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	cases := [][2]string{
		{"", "desc"},
		{"title", ""},
		{" ", "\t"},
	}
	for _, c := range cases {
		_, err := svc.Create(ctx, c[0], c[1])
		assert.ErrorIs(t, err, task.ErrMissingFields, "title=%q description=%q", c[0], c[1])
	}

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestList_NeverNil(t *testing.T) {
	svc, _ := newService(t)

	all, err := svc.List(context.Background(), "anything")
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	created, err := svc.Create(ctx, "title", "description")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, strPtr("new title"), nil)
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, "description", updated.Description)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	// blank values count as absent
	updated, err = svc.Update(ctx, created.ID, strPtr(""), strPtr("new description"))
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, "new description", updated.Description)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestUpdate_Errors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	created, err := svc.Create(ctx, "title", "description")
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, nil, nil)
	assert.ErrorIs(t, err, task.ErrNoFieldsToUpdate)

	_, err = svc.Update(ctx, created.ID, strPtr("  "), strPtr(""))
	assert.ErrorIs(t, err, task.ErrNoFieldsToUpdate)

	_, err = svc.Update(ctx, "missing", nil, nil)
	assert.ErrorIs(t, err, task.ErrNoFieldsToUpdate)

	_, err = svc.Update(ctx, "missing", strPtr("x"), nil)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestToggleComplete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	created, err := svc.Create(ctx, "title", "description")
	require.NoError(t, err)

	first, err := svc.ToggleComplete(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, first.IsCompleted)
	assert.True(t, *first.IsCompleted)
	assert.True(t, first.UpdatedAt.After(created.UpdatedAt))
	assert.True(t, first.CreatedAt.Equal(created.CreatedAt))

	second, err := svc.ToggleComplete(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, second.IsCompleted)
	assert.False(t, *second.IsCompleted)

	third, err := svc.ToggleComplete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *first.IsCompleted, *third.IsCompleted)

	_, err = svc.ToggleComplete(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	created, err := svc.Create(ctx, "title", "description")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), model.ErrNotFound)

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGet_EmptyID(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Get(context.Background(), "")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

type brokenRepo struct {
	task.TaskRepository
}

func (brokenRepo) Insert(context.Context, model.Task) error {
	return errors.New("insert failed")
}

func (brokenRepo) Select(context.Context, task.Query) ([]model.Task, error) {
	return nil, errors.New("select failed")
}

func TestStoreErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	svc := task.NewService(brokenRepo{})

	_, err := svc.Create(ctx, "title", "description")
	assert.EqualError(t, err, "insert failed")

	_, err = svc.List(ctx, "")
	assert.EqualError(t, err, "select failed")

	_, err = svc.ToggleComplete(ctx, "id")
	assert.EqualError(t, err, "select failed")
}

func TestQueryMatches(t *testing.T) {
	tk := model.Task{ID: "1", Title: "Buy milk", Description: "Corner Shop"}

	assert.True(t, task.Query{}.Matches(tk))
	assert.True(t, task.Query{ID: "1"}.Matches(tk))
	assert.False(t, task.Query{ID: "2"}.Matches(tk))
	assert.True(t, task.Query{Search: "milk"}.Matches(tk))
	assert.True(t, task.Query{Search: "Shop"}.Matches(tk))
	assert.False(t, task.Query{Search: "shop"}.Matches(tk))
	assert.False(t, task.Query{ID: "1", Search: "bread"}.Matches(tk))
}
