package service

import (
	"context"

	"assist_backend/internal/domain"
)

// AdminService provides operator statistics and the audit trail.
type AdminService struct {
	stats StatsStore
	audit *AuditService
}

func NewAdminService(stats StatsStore, audit *AuditService) *AdminService {
	return &AdminService{stats: stats, audit: audit}
}

// GetStats returns installation-wide counters.
func (s *AdminService) GetStats(ctx context.Context) (*domain.Stats, error) {
	return s.stats.Stats(ctx)
}

// AuditTrail returns recent audit entries, for one user when userID > 0.
func (s *AdminService) AuditTrail(ctx context.Context, category string, userID int64, limit int) ([]*domain.AuditLog, error) {
	if userID > 0 {
		return s.audit.ForUser(ctx, userID, limit)
	}
	return s.audit.Recent(ctx, category, limit)
}
