package memorystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"tasks-api/internal/model"
	"tasks-api/internal/task"
)

const collection = "tasks"

// TaskStore keeps tasks in insertion order. When a snapshot path is set,
// every mutation rewrites the file as {"tasks": [...]}; a mutation whose
// snapshot write fails is rolled back and leaves memory unchanged.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[string]model.Task
	order []string
	path  string
}

func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[string]model.Task)}
}

// Open loads the snapshot at path, if any, and persists to it afterwards.
func Open(path string) (*TaskStore, error) {
	s := NewTaskStore()
	s.path = path

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}

	var snap map[string][]model.Task
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	for _, t := range snap[collection] {
		if _, dup := s.tasks[t.ID]; dup {
			continue
		}
		s.tasks[t.ID] = t
		s.order = append(s.order, t.ID)
	}
	return s, nil
}

func (s *TaskStore) Select(_ context.Context, q task.Query) ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if q.ID != "" {
		t, ok := s.tasks[q.ID]
		if !ok || !q.Matches(t) {
			return []model.Task{}, nil
		}
		return []model.Task{t}, nil
	}

	out := make([]model.Task, 0, len(s.order))
	for _, id := range s.order {
		if t := s.tasks[id]; q.Matches(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *TaskStore) Insert(_ context.Context, t model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[t.ID]; exists {
		return fmt.Errorf("insert task %s: duplicate id", t.ID)
	}
	s.tasks[t.ID] = t
	s.order = append(s.order, t.ID)
	if err := s.persist(); err != nil {
		delete(s.tasks, t.ID)
		s.order = s.order[:len(s.order)-1]
		return err
	}
	return nil
}

func (s *TaskStore) Update(_ context.Context, t model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.tasks[t.ID]
	if !ok {
		return model.ErrNotFound
	}
	s.tasks[t.ID] = t
	if err := s.persist(); err != nil {
		s.tasks[t.ID] = prev
		return err
	}
	return nil
}

func (s *TaskStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.tasks[id]
	if !ok {
		return model.ErrNotFound
	}
	prevOrder := slices.Clone(s.order)

	delete(s.tasks, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	if err := s.persist(); err != nil {
		s.tasks[id] = prev
		s.order = prevOrder
		return err
	}
	return nil
}

func (s *TaskStore) Close() error {
	return nil
}

// persist must be called with mu held.
func (s *TaskStore) persist() error {
	if s.path == "" {
		return nil
	}

	list := make([]model.Task, 0, len(s.order))
	for _, id := range s.order {
		list = append(list, s.tasks[id])
	}
	data, err := json.Marshal(map[string][]model.Task{collection: list})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	// the snapshot is replaced atomically
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
