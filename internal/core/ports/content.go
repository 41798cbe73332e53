package ports

import (
	"context"
	"time"

	"github.com/guiatnn/portal/internal/core/domain"
	"github.com/guiatnn/portal/internal/security/token"
)

// ListFilter carries paging and search options for content listings.
type ListFilter struct {
	Page   int    // 1-based
	Limit  int    // capped at 100 by the service
	Search string // case-insensitive match on the title/name field
	// PublicOnly hides records that are not visible at Now (ads only).
	PublicOnly bool
	Now        time.Time
}

// Page is one slice of a listing.
type Page[T any] struct {
	Items      []T
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ContentRepository persists one content collection.
type ContentRepository[T any] interface {
	Insert(ctx context.Context, item *T) error
	// FindByID returns domain.ErrNotFound when missing.
	FindByID(ctx context.Context, id string) (*T, error)
	List(ctx context.Context, filter ListFilter) ([]T, int64, error)
	// Replace returns domain.ErrNotFound when missing.
	Replace(ctx context.Context, item *T) error
	// Delete returns domain.ErrNotFound when missing.
	Delete(ctx context.Context, id string) error
}

// ContentService exposes the use cases for one content collection.
type ContentService[T any] interface {
	List(ctx context.Context, filter ListFilter) (*Page[T], error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, actor token.Identity, item *T) (*T, error)
	Update(ctx context.Context, actor token.Identity, id string, item *T) (*T, error)
	Delete(ctx context.Context, actor token.Identity, id string) error
}

// Upload is a presigned slot for one image object.
type Upload struct {
	Key       string
	UploadURL string
	PublicURL string
	ExpiresAt time.Time
}

// ImageStore hands out upload slots and removes stored images.
type ImageStore interface {
	PresignUpload(ctx context.Context, resource domain.Resource, contentType string) (*Upload, error)
	Delete(ctx context.Context, key string) error
}
