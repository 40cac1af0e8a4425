package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tasks-api/internal/model"
	"tasks-api/internal/task"
)

// taskRow timestamps are stamped by the task service, not by gorm.
type taskRow struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Title       string    `gorm:"not null"`
	Description string    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime:false"`
	IsCompleted *bool
}

func (taskRow) TableName() string { return "tasks" }

func toRow(t model.Task) taskRow {
	return taskRow{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		IsCompleted: t.IsCompleted,
	}
}

func (r taskRow) toModel() model.Task {
	return model.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
		IsCompleted: r.IsCompleted,
	}
}

type TaskStore struct {
	db *gorm.DB
}

// Open connects with the named driver ("sqlite" or "postgres") and migrates
// the tasks table. Statements are logged at info level to sqlLogger; a nil
// sqlLogger keeps gorm silent.
func Open(driver, dsn string, sqlLogger *zap.Logger) (*TaskStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(sqlLogger),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	return New(db)
}

// New wraps an existing connection.
func New(db *gorm.DB) (*TaskStore, error) {
	if err := db.AutoMigrate(&taskRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tasks table: %w", err)
	}
	return &TaskStore{db: db}, nil
}

func (s *TaskStore) Select(ctx context.Context, q task.Query) ([]model.Task, error) {
	tx := s.db.WithContext(ctx).Model(&taskRow{}).Order("created_at ASC, id ASC")
	if q.ID != "" {
		tx = tx.Where("id = ?", q.ID)
	}
	if q.Search != "" {
		// LIKE is case-insensitive on SQLite; Matches below narrows the result
		pattern := "%" + escapeLike(q.Search) + "%"
		tx = tx.Where(`title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\'`, pattern, pattern)
	}

	var rows []taskRow
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}

	out := make([]model.Task, 0, len(rows))
	for _, r := range rows {
		if t := r.toModel(); q.Matches(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *TaskStore) Insert(ctx context.Context, t model.Task) error {
	row := toRow(t)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert task %s: %w", t.ID, err)
	}
	return nil
}

func (s *TaskStore) Update(ctx context.Context, t model.Task) error {
	row := toRow(t)
	res := s.db.WithContext(ctx).
		Model(&taskRow{}).
		Where("id = ?", t.ID).
		Select("title", "description", "created_at", "updated_at", "is_completed").
		Updates(&row)
	if res.Error != nil {
		return fmt.Errorf("update task %s: %w", t.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&taskRow{})
	if res.Error != nil {
		return fmt.Errorf("delete task %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *TaskStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newGormLogger(zl *zap.Logger) logger.Interface {
	if zl == nil {
		return logger.Default.LogMode(logger.Silent)
	}
	return logger.New(
		zap.NewStdLog(zl.Named("sql")),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
