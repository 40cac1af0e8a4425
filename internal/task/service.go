package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tasks-api/internal/ids"
	"tasks-api/internal/metrics"
	"tasks-api/internal/model"
)

type Service struct {
	repo   TaskRepository
	logger *zap.Logger
	now    func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used for created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func NewService(repo TaskRepository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: zap.NewNop(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) List(ctx context.Context, search string) ([]model.Task, error) {
	tasks, err := s.repo.Select(ctx, Query{Search: search})
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func (s *Service) Get(ctx context.Context, id string) (model.Task, error) {
	if id == "" {
		return model.Task{}, model.ErrNotFound
	}
	found, err := s.repo.Select(ctx, Query{ID: id})
	if err != nil {
		return model.Task{}, err
	}
	if len(found) == 0 {
		return model.Task{}, model.ErrNotFound
	}
	return found[0], nil
}

func (s *Service) Create(ctx context.Context, title, description string) (model.Task, error) {
	in, err := validateCreate(title, description)
	if err != nil {
		return model.Task{}, err
	}

	now := s.now()
	t := model.Task{
		ID:          ids.NewID(),
		Title:       in.Title,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
		IsCompleted: nil,
	}
	if err := s.repo.Insert(ctx, t); err != nil {
		return model.Task{}, err
	}

	metrics.TaskMutations.WithLabelValues("create").Inc()
	s.logger.Debug("task created", zap.String("id", t.ID))
	return t, nil
}

// Update replaces the supplied fields only. Validation runs before the
// existence check, so an empty update of an unknown id is ErrNoFieldsToUpdate.
func (s *Service) Update(ctx context.Context, id string, title, description *string) (model.Task, error) {
	in, err := validateUpdate(title, description)
	if err != nil {
		return model.Task{}, err
	}

	t, err := s.Get(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	t.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, t); err != nil {
		return model.Task{}, err
	}

	metrics.TaskMutations.WithLabelValues("update").Inc()
	s.logger.Debug("task updated", zap.String("id", t.ID))
	return t, nil
}

// ToggleComplete flips IsCompleted; a task that was never toggled becomes
// completed.
func (s *Service) ToggleComplete(ctx context.Context, id string) (model.Task, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return model.Task{}, err
	}

	completed := t.IsCompleted == nil || !*t.IsCompleted
	t.IsCompleted = &completed
	t.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, t); err != nil {
		return model.Task{}, err
	}

	metrics.TaskMutations.WithLabelValues("toggle").Inc()
	s.logger.Debug("task toggled", zap.String("id", t.ID), zap.Bool("completed", completed))
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	metrics.TaskMutations.WithLabelValues("delete").Inc()
	s.logger.Debug("task deleted", zap.String("id", id))
	return nil
}
