package service

import (
	"context"

	"assist_backend/internal/domain"
	"assist_backend/internal/logger"
)

// AuditService handles audit logging. A nil *AuditService discards everything.
type AuditService struct {
	repo AuditStore
}

func NewAuditService(repo AuditStore) *AuditService {
	return &AuditService{repo: repo}
}

// Log creates a new audit log entry. Storage failures are logged, never returned.
func (s *AuditService) Log(ctx context.Context, userID int64, action, category string, details map[string]interface{}) {
	s.LogWithRequest(ctx, userID, action, category, "", "", details)
}

// LogWithRequest creates an audit log with request info (IP, User-Agent)
func (s *AuditService) LogWithRequest(ctx context.Context, userID int64, action, category, ip, userAgent string, details map[string]interface{}) {
	if s == nil {
		return
	}
	entry := &domain.AuditLog{
		UserID:    userID,
		Action:    action,
		Category:  category,
		Details:   details,
		IP:        ip,
		UserAgent: userAgent,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		logger.WithContext(ctx).Error("failed to create audit log", "error", err, "action", action, "user_id", userID)
	}
}

func (s *AuditService) LogRegister(ctx context.Context, userID int64, ip, userAgent string) {
	s.LogWithRequest(ctx, userID, domain.AuditActionRegister, domain.AuditCategoryAuth, ip, userAgent, nil)
}

func (s *AuditService) LogLogin(ctx context.Context, userID int64, ip, userAgent string) {
	s.LogWithRequest(ctx, userID, domain.AuditActionLogin, domain.AuditCategoryAuth, ip, userAgent, nil)
}

// LogTask records a task mutation with a snapshot of the fields that matter for review.
func (s *AuditService) LogTask(ctx context.Context, action string, t *domain.Task) {
	s.Log(ctx, t.UserID, action, domain.AuditCategoryTask, map[string]interface{}{
		"task_id": t.ID,
		"title":   t.Title,
		"status":  t.Status,
	})
}

func (s *AuditService) LogBoard(ctx context.Context, b *domain.Board) {
	s.Log(ctx, b.UserID, domain.AuditActionBoardCreate, domain.AuditCategoryBoard, map[string]interface{}{
		"board_id": b.ID,
		"name":     b.Name,
	})
}

// Recent returns the newest entries, optionally narrowed to a category.
func (s *AuditService) Recent(ctx context.Context, category string, limit int) ([]*domain.AuditLog, error) {
	return s.repo.GetRecent(ctx, category, clampLimit(limit))
}

// ForUser returns one user's newest entries.
func (s *AuditService) ForUser(ctx context.Context, userID int64, limit int) ([]*domain.AuditLog, error) {
	return s.repo.GetByUserID(ctx, userID, clampLimit(limit))
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return 50
	case limit > 500:
		return 500
	default:
		return limit
	}
}
