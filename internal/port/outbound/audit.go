package outbound

import (
	"context"

	"github.com/learnhub/server/internal/model"
)

// AuditLogPort appends webhook audit events.
type AuditLogPort interface {
	AppendEvent(ctx context.Context, event *model.WebhookAuditEvent) error
}

// PayloadArchivePort stores raw webhook payloads in object storage.
type PayloadArchivePort interface {
	Archive(ctx context.Context, key string, payload []byte, contentType string) error
}
