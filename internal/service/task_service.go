package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"assist_backend/internal/domain"
	"assist_backend/internal/logger"
	"assist_backend/internal/repository"
)

// TaskService enforces per-user ownership on top of a TaskStore.
type TaskService struct {
	tasks  TaskStore
	events EventPublisher
	audit  *AuditService
	now    func() time.Time
}

const maxStatusLen = 64

type TaskOption func(*TaskService)

// WithEvents publishes every committed change to p.
func WithEvents(p EventPublisher) TaskOption {
	return func(s *TaskService) { s.events = p }
}

func WithAudit(a *AuditService) TaskOption {
	return func(s *TaskService) { s.audit = a }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) TaskOption {
	return func(s *TaskService) { s.now = now }
}

func NewTaskService(tasks TaskStore, opts ...TaskOption) *TaskService {
	s := &TaskService{tasks: tasks, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateTaskInput struct {
	Title       string     `json:"title" validate:"required,max=500"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
}

// UpdateTaskInput carries the optional fields of an update; nil means "leave as is".
type UpdateTaskInput struct {
	Status  *string    `json:"status"`
	DueDate *time.Time `json:"dueDate"`
}

// Create stores a new pending task owned by owner.
func (s *TaskService) Create(ctx context.Context, owner domain.Principal, in CreateTaskInput) (*domain.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = trimmedOrNil(in.Description)
	if err := check(in); err != nil {
		return nil, err
	}

	now := s.timestamp()
	t := &domain.Task{
		UserID:      owner.UserID,
		Title:       in.Title,
		Description: in.Description,
		Status:      domain.StatusPending,
		DueDate:     normalizeTime(in.DueDate),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.committed(ctx, domain.EventTaskCreated, domain.AuditActionTaskCreate, t)
	return t, nil
}

// List returns owner's tasks in creation order.
func (s *TaskService) List(ctx context.Context, owner domain.Principal) ([]*domain.Task, error) {
	return s.tasks.ListByUser(ctx, owner.UserID)
}

// Get returns one of owner's tasks.
func (s *TaskService) Get(ctx context.Context, owner domain.Principal, id int64) (*domain.Task, error) {
	return s.owned(ctx, owner, id)
}

// Update applies the provided fields and bumps UpdatedAt. Ownership is checked before the input.
func (s *TaskService) Update(ctx context.Context, owner domain.Principal, id int64, in UpdateTaskInput) (*domain.Task, error) {
	t, err := s.owned(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if in.Status != nil {
		v := strings.TrimSpace(*in.Status)
		switch {
		case v == "":
			return nil, invalid("status", "must not be empty")
		case len(v) > maxStatusLen:
			return nil, invalid("status", "is too long")
		}
		t.Status = v
	}
	if in.DueDate != nil {
		t.DueDate = normalizeTime(in.DueDate)
	}
	// updatedAt is strictly increasing per task.
	next := s.timestamp()
	if !next.After(t.UpdatedAt) {
		next = t.UpdatedAt.Add(time.Microsecond)
	}
	t.UpdatedAt = next

	if err := s.tasks.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.committed(ctx, domain.EventTaskUpdated, domain.AuditActionTaskUpdate, t)
	return t, nil
}

// Delete removes one of owner's tasks permanently.
func (s *TaskService) Delete(ctx context.Context, owner domain.Principal, id int64) error {
	t, err := s.owned(ctx, owner, id)
	if err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, t.ID, owner.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}

	s.committed(ctx, domain.EventTaskDeleted, domain.AuditActionTaskDelete, t)
	return nil
}

// owned loads id and checks that owner holds it: ErrNotFound when absent, ErrForbidden otherwise.
func (s *TaskService) owned(ctx context.Context, owner domain.Principal, id int64) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load task: %w", err)
	}
	if !t.OwnedBy(owner.UserID) {
		logger.WithContext(ctx).Warn("task ownership mismatch", "task_id", id, "user_id", owner.UserID)
		return nil, ErrForbidden
	}
	return t, nil
}

func (s *TaskService) committed(ctx context.Context, event, action string, t *domain.Task) {
	taskMutations.WithLabelValues(action).Inc()
	s.audit.LogTask(ctx, action, t)
	if s.events != nil {
		s.events.Publish(t.UserID, domain.TaskEvent{Type: event, Task: *t})
	}
}

// timestamp is now at the precision PostgreSQL stores.
func (s *TaskService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func normalizeTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC().Truncate(time.Microsecond)
	return &v
}
