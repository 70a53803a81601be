// Package memory holds map-backed stores with the same contracts as the
// PostgreSQL repositories. They back unit tests and DEV_MODE runs without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"assist_backend/internal/domain"
	"assist_backend/internal/repository"
)

type UserStore struct {
	mu      sync.RWMutex
	seq     int64
	byID    map[int64]*domain.User
	byEmail map[string]int64
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[int64]*domain.User),
		byEmail: make(map[string]int64),
	}
}

func (s *UserStore) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[u.Email]; taken {
		return repository.ErrDuplicateEmail
	}
	s.seq++
	u.ID = s.seq
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	cp := *u
	s.byID[u.ID] = &cp
	s.byEmail[u.Email] = u.ID
	return nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s.byID[id]
	return &cp, nil
}

func (s *UserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *UserStore) SetRole(_ context.Context, id int64, role domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Role = role
	return nil
}

type TaskStore struct {
	mu    sync.RWMutex
	seq   int64
	tasks map[int64]*domain.Task
}

func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[int64]*domain.Task)}
}

func (s *TaskStore) Create(_ context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	t.ID = s.seq
	s.tasks[t.ID] = copyTask(t)
	return nil
}

func (s *TaskStore) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyTask(t), nil
}

func (s *TaskStore) ListByUser(_ context.Context, userID int64) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]*domain.Task, 0)
	for _, t := range s.tasks {
		if t.UserID == userID {
			res = append(res, copyTask(t))
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (s *TaskStore) Update(_ context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.tasks[t.ID]
	if !ok || cur.UserID != t.UserID {
		return repository.ErrNotFound
	}
	cur.Status = t.Status
	cur.DueDate = copyTime(t.DueDate)
	cur.UpdatedAt = t.UpdatedAt
	return nil
}

func (s *TaskStore) Delete(_ context.Context, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.tasks[id]
	if !ok || cur.UserID != userID {
		return repository.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

type BoardStore struct {
	mu     sync.RWMutex
	seq    int64
	boards []*domain.Board
}

func NewBoardStore() *BoardStore {
	return &BoardStore{}
}

func (s *BoardStore) Create(_ context.Context, b *domain.Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	b.ID = s.seq
	b.CreatedAt = time.Now().UTC()
	cp := *b
	s.boards = append(s.boards, &cp)
	return nil
}

func (s *BoardStore) ListByUser(_ context.Context, userID int64) ([]*domain.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]*domain.Board, 0)
	for _, b := range s.boards {
		if b.UserID == userID {
			cp := *b
			res = append(res, &cp)
		}
	}
	return res, nil
}

type AuditStore struct {
	mu   sync.RWMutex
	seq  int64
	logs []*domain.AuditLog
}

func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

func (s *AuditStore) Create(_ context.Context, log *domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	cp := *log
	cp.ID = s.seq
	cp.CreatedAt = time.Now().UTC()
	s.logs = append(s.logs, &cp)
	return nil
}

func (s *AuditStore) GetRecent(_ context.Context, category string, limit int) ([]*domain.AuditLog, error) {
	return s.filter(limit, func(l *domain.AuditLog) bool {
		return category == "" || l.Category == category
	}), nil
}

func (s *AuditStore) GetByUserID(_ context.Context, userID int64, limit int) ([]*domain.AuditLog, error) {
	return s.filter(limit, func(l *domain.AuditLog) bool { return l.UserID == userID }), nil
}

// filter walks newest first.
func (s *AuditStore) filter(limit int, keep func(*domain.AuditLog) bool) []*domain.AuditLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]*domain.AuditLog, 0)
	for i := len(s.logs) - 1; i >= 0 && len(res) < limit; i-- {
		if keep(s.logs[i]) {
			cp := *s.logs[i]
			res = append(res, &cp)
		}
	}
	return res
}

func copyTask(t *domain.Task) *domain.Task {
	cp := *t
	if t.Description != nil {
		d := *t.Description
		cp.Description = &d
	}
	cp.DueDate = copyTime(t.DueDate)
	return &cp
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// StatsStore derives admin counters from the other memory stores.
type StatsStore struct {
	users  *UserStore
	tasks  *TaskStore
	boards *BoardStore
}

func NewStatsStore(users *UserStore, tasks *TaskStore, boards *BoardStore) *StatsStore {
	return &StatsStore{users: users, tasks: tasks, boards: boards}
}

func (s *StatsStore) Stats(_ context.Context) (*domain.Stats, error) {
	stats := &domain.Stats{TasksByStatus: make(map[string]int64)}
	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)

	s.users.mu.RLock()
	stats.TotalUsers = int64(len(s.users.byID))
	s.users.mu.RUnlock()

	s.boards.mu.RLock()
	stats.TotalBoards = int64(len(s.boards.boards))
	s.boards.mu.RUnlock()

	s.tasks.mu.RLock()
	defer s.tasks.mu.RUnlock()
	for _, t := range s.tasks.tasks {
		stats.TotalTasks++
		stats.TasksByStatus[t.Status]++
		if !t.CreatedAt.Before(today) {
			stats.TasksToday++
		}
		if t.DueDate != nil && t.DueDate.Before(now) && t.Status != domain.StatusDone {
			stats.OverdueTasks++
		}
	}
	return stats, nil
}
