package ports

import (
	"context"
	"time"

	"github.com/guiatnn/portal/internal/core/domain"
)

// TokenRevoker remembers logged-out token ids until they would have expired.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuditSink accepts administrator activity records without blocking.
type AuditSink interface {
	Record(entry domain.AuditEntry)
}

// AuditRepository persists the administrator activity trail.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
}
