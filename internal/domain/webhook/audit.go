package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/learnhub/server/internal/model"
	"github.com/learnhub/server/internal/port/outbound"
	"go.uber.org/zap"
)

// AuditEntry is one delivery to be audit logged.
type AuditEntry struct {
	Provider    string
	EventType   string
	SubjectID   string
	Status      string
	RequestID   string
	Payload     []byte
	ContentType string
	Hints       map[string]any
}

// AuditRecorder appends audit events and archives raw payloads. Both are
// best-effort and never return errors to the caller.
type AuditRecorder struct {
	log     outbound.AuditLogPort
	archive outbound.PayloadArchivePort
	logger  *zap.Logger
	now     func() time.Time
}

// NewAuditRecorder creates an audit recorder. archive may be nil.
func NewAuditRecorder(log outbound.AuditLogPort, archive outbound.PayloadArchivePort, logger *zap.Logger) *AuditRecorder {
	return &AuditRecorder{
		log:     log,
		archive: archive,
		logger:  logger,
		now:     time.Now,
	}
}

// Record appends one audit event.
func (a *AuditRecorder) Record(ctx context.Context, entry *AuditEntry) {
	hints := "{}"
	if len(entry.Hints) > 0 {
		if b, err := json.Marshal(storableValue(entry.Hints)); err == nil {
			hints = string(b)
		}
	}

	event := &model.WebhookAuditEvent{
		ID:        uuid.New(),
		Provider:  storableText(entry.Provider),
		EventType: storableText(entry.EventType),
		SubjectID: storableText(entry.SubjectID),
		Status:    storableText(entry.Status),
		RequestID: storableText(entry.RequestID),
		Payload:   storableText(string(entry.Payload)),
		Hints:     hints,
		CreatedAt: a.now(),
	}

	if err := a.log.AppendEvent(ctx, event); err != nil {
		a.logger.Warn("audit append failed",
			zap.String("event_type", entry.EventType),
			zap.String("subject_id", entry.SubjectID),
			zap.Error(err))
	}

	if a.archive == nil || len(entry.Payload) == 0 {
		return
	}
	key := archiveKey(entry.Provider, event.CreatedAt, event.ID, entry.ContentType)
	if err := a.archive.Archive(ctx, key, entry.Payload, entry.ContentType); err != nil {
		a.logger.Warn("payload archive failed", zap.String("key", key), zap.Error(err))
	}
}

func archiveKey(provider string, at time.Time, id uuid.UUID, contentType string) string {
	ext := "txt"
	if strings.Contains(contentType, "json") {
		ext = "json"
	}
	return fmt.Sprintf("%s/%s/%s.%s", provider, at.UTC().Format("2006/01/02"), id, ext)
}

// storableText makes s acceptable to a Postgres TEXT column: invalid UTF-8
// becomes U+FFFD and NUL bytes are dropped. The archived payload keeps the
// original bytes.
func storableText(s string) string {
	return strings.ReplaceAll(strings.ToValidUTF8(s, "\uFFFD"), "\x00", "")
}

// storableValue applies storableText to every string inside a hints value,
// since JSONB rejects an escaped NUL as well.
func storableValue(v any) any {
	switch t := v.(type) {
	case string:
		return storableText(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[storableText(k)] = storableValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = storableValue(val)
		}
		return out
	default:
		return v
	}
}
