package services

import (
	"context"
	"time"

	"fortunasbet-api/application/ports"
	"fortunasbet-api/domain/core/entities"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuditService writes audit records on behalf of command handlers.
// A failed write is logged and never surfaces to the caller.
type AuditService struct {
	auditRepo ports.AuditRepository
	logger    *zap.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(auditRepo ports.AuditRepository, logger *zap.Logger) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// Record snapshots a mutation. before or after may be nil.
func (s *AuditService) Record(ctx context.Context, entityType, entityID, userID, action string, before, after interface{}) {
	rec, err := entities.NewAuditRecord(uuid.New().String(), entityType, entityID, userID, action, before, after, time.Now())
	if err != nil {
		s.logger.Warn("Failed to build audit record",
			zap.String("entityType", entityType),
			zap.String("entityID", entityID),
			zap.Error(err),
		)
		return
	}

	if err := s.auditRepo.Record(ctx, rec); err != nil {
		s.logger.Warn("Failed to write audit record",
			zap.String("entityType", entityType),
			zap.String("entityID", entityID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}
