package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/guiatnn/portal/internal/core/domain"
	"github.com/guiatnn/portal/internal/core/ports"
	"github.com/guiatnn/portal/internal/security/token"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxPage         = 100000
)

// RecordPtr constrains P to be *T and a domain.Record.
type RecordPtr[T any] interface {
	*T
	domain.Record
}

// ContentService implements the CRUD use cases for one content collection.
type ContentService[T any, P RecordPtr[T]] struct {
	resource domain.Resource
	repo     ports.ContentRepository[T]
	images   ports.ImageStore
	audit    ports.AuditSink
	log      zerolog.Logger
	now      func() time.Time
}

// NewContentService builds the service for resource. images and audit may be nil.
func NewContentService[T any, P RecordPtr[T]](
	resource domain.Resource,
	repo ports.ContentRepository[T],
	images ports.ImageStore,
	audit ports.AuditSink,
	log zerolog.Logger,
) *ContentService[T, P] {
	return &ContentService[T, P]{
		resource: resource,
		repo:     repo,
		images:   images,
		audit:    audit,
		log:      log.With().Str("resource", string(resource)).Logger(),
		now:      time.Now,
	}
}

func (s *ContentService[T, P]) List(ctx context.Context, filter ports.ListFilter) (*ports.Page[T], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Page > maxPage {
		filter.Page = maxPage
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Now.IsZero() {
		filter.Now = s.now().UTC()
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.resource, err)
	}
	if items == nil {
		items = []T{}
	}

	return &ports.Page[T]{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
	}, nil
}

func (s *ContentService[T, P]) Get(ctx context.Context, id string) (*T, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ContentService[T, P]) Create(ctx context.Context, actor token.Identity, item *T) (*T, error) {
	now := s.now().UTC()
	meta := P(item).Metadata()
	meta.ID = uuid.NewString()
	meta.CreatedBy = actor.Name
	meta.CreatedAt = now
	meta.UpdatedAt = now

	if err := s.repo.Insert(ctx, item); err != nil {
		return nil, fmt.Errorf("create %s: %w", s.resource, err)
	}

	s.record(actor, domain.AuditCreate, meta.ID)
	return item, nil
}

// Update replaces the record. Creation metadata is preserved; an image that
// was swapped out is removed from storage.
func (s *ContentService[T, P]) Update(ctx context.Context, actor token.Identity, id string, item *T) (*T, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prev := P(existing)

	meta := P(item).Metadata()
	meta.ID = id
	meta.CreatedBy = prev.Metadata().CreatedBy
	meta.CreatedAt = prev.Metadata().CreatedAt
	meta.UpdatedAt = s.now().UTC()

	if err := s.repo.Replace(ctx, item); err != nil {
		return nil, err
	}

	if old := prev.ImageKey(); old != "" && old != P(item).ImageKey() {
		s.deleteImage(ctx, old)
	}

	s.record(actor, domain.AuditUpdate, id)
	return item, nil
}

func (s *ContentService[T, P]) Delete(ctx context.Context, actor token.Identity, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if key := P(existing).ImageKey(); key != "" {
		s.deleteImage(ctx, key)
	}

	s.record(actor, domain.AuditDelete, id)
	return nil
}

// deleteImage is best effort: the record is already gone.
func (s *ContentService[T, P]) deleteImage(ctx context.Context, key string) {
	if s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to delete image")
	}
}

func (s *ContentService[T, P]) record(actor token.Identity, action, target string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuditEntry{
		ActorID:  actor.ID,
		Actor:    actor.Name,
		Action:   action,
		Resource: string(s.resource),
		TargetID: target,
		At:       s.now().UTC(),
	})
}
