package service

import (
	"context"

	"assist_backend/internal/domain"
)

// Store contracts. internal/repository provides the PostgreSQL implementations,
// internal/repository/memory the in-process ones.

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type TaskStore interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id, userID int64) error
}

type BoardStore interface {
	Create(ctx context.Context, b *domain.Board) error
	ListByUser(ctx context.Context, userID int64) ([]*domain.Board, error)
}

type AuditStore interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	GetRecent(ctx context.Context, category string, limit int) ([]*domain.AuditLog, error)
	GetByUserID(ctx context.Context, userID int64, limit int) ([]*domain.AuditLog, error)
}

type StatsStore interface {
	Stats(ctx context.Context) (*domain.Stats, error)
}

// EventPublisher fans committed task changes out to the owner's live connections.
type EventPublisher interface {
	Publish(userID int64, ev domain.TaskEvent)
}
