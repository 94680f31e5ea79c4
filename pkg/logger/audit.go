package logger

import (
	"context"
	"log/slog"
	"time"
)

// RecordAccess describes one successful listing of personal records
type RecordAccess struct {
	UserID    string
	Resource  string
	Returned  int
	Total     int64
	Filtered  bool
	IPAddress string
	RequestID string
}

// AuditLogger provides audit logging functionality
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger creates a new audit logger
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{
		logger: logger,
	}
}

// LogRecordAccess logs who listed which resource and how many records they saw
func (al *AuditLogger) LogRecordAccess(ctx context.Context, event RecordAccess) {
	attrs := []slog.Attr{
		slog.String("audit_type", "record_access"),
		slog.String("resource", event.Resource),
		slog.Int("returned", event.Returned),
		slog.Int64("total", event.Total),
		slog.Bool("filtered", event.Filtered),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	if event.UserID != "" {
		attrs = append(attrs, slog.String("user_id", event.UserID))
	} else {
		attrs = append(attrs, slog.String("user_id", "anonymous"))
	}
	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.RequestID != "" {
		attrs = append(attrs, slog.String("request_id", event.RequestID))
	}

	al.logger.LogAttrs(ctx, slog.LevelInfo, "audit", attrs...)
}
