package bootstrap

import "context"

// AuditLog is one operational audit entry (server lifecycle, scheduled job
// runs). Business events go through the outbox, not here.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
