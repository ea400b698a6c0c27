package postgres

import (
	"context"
	"fmt"

	"github.com/learnhub/server/internal/model"
	"github.com/learnhub/server/internal/port/outbound"
	"gorm.io/gorm"
)

// auditLogAdapter implements outbound.AuditLogPort.
type auditLogAdapter struct {
	db *gorm.DB
}

// NewAuditLogAdapter creates a new webhook audit log adapter.
func NewAuditLogAdapter(db *gorm.DB) outbound.AuditLogPort {
	return &auditLogAdapter{db: db}
}

func (a *auditLogAdapter) AppendEvent(ctx context.Context, event *model.WebhookAuditEvent) error {
	event.Hints = jsonOrEmpty(event.Hints)
	if err := a.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("append webhook audit event: %w", err)
	}
	return nil
}

// Compile-time check
var _ outbound.AuditLogPort = (*auditLogAdapter)(nil)
