package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/guiatnn/portal/internal/core/domain"
	"github.com/guiatnn/portal/internal/core/ports"
	"github.com/guiatnn/portal/internal/security/token"
)

type stubEventRepo struct {
	byID       map[string]domain.Event
	lastFilter ports.ListFilter
}

func newStubEventRepo() *stubEventRepo {
	return &stubEventRepo{byID: make(map[string]domain.Event)}
}

func (r *stubEventRepo) Insert(_ context.Context, e *domain.Event) error {
	r.byID[e.ID] = *e
	return nil
}

func (r *stubEventRepo) FindByID(_ context.Context, id string) (*domain.Event, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

func (r *stubEventRepo) List(_ context.Context, f ports.ListFilter) ([]domain.Event, int64, error) {
	r.lastFilter = f
	var out []domain.Event
	for _, e := range r.byID {
		if f.Search != "" && !strings.Contains(strings.ToLower(e.Title), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *stubEventRepo) Replace(_ context.Context, e *domain.Event) error {
	if _, ok := r.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	r.byID[e.ID] = *e
	return nil
}

func (r *stubEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubImageStore struct {
	deleted   []string
	deleteErr error
}

func (s *stubImageStore) PresignUpload(_ context.Context, resource domain.Resource, _ string) (*ports.Upload, error) {
	return &ports.Upload{Key: string(resource) + "/k"}, nil
}

func (s *stubImageStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return s.deleteErr
}

func newEventService(repo *stubEventRepo, images ports.ImageStore, audit ports.AuditSink) *ContentService[domain.Event, *domain.Event] {
	svc := NewContentService[domain.Event](domain.ResourceEvents, repo, images, audit, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestContentService_CreateStampsMetadata(t *testing.T) {
	repo := newStubEventRepo()
	audit := &recordingAudit{}
	svc := newEventService(repo, &stubImageStore{}, audit)
	actor := token.Identity{ID: "adm-1", Name: "Maria"}

	ev, err := svc.Create(context.Background(), actor, &domain.Event{Title: "Festa Junina"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ev.ID == "" {
		t.Fatalf("expected id to be assigned")
	}
	if ev.CreatedBy != "Maria" || ev.CreatedAt.IsZero() || !ev.CreatedAt.Equal(ev.UpdatedAt) {
		t.Fatalf("unexpected metadata %+v", ev.Meta)
	}
	if _, ok := repo.byID[ev.ID]; !ok {
		t.Fatalf("event not persisted")
	}
	if got := audit.actions(); len(got) != 1 || got[0] != domain.AuditCreate {
		t.Fatalf("unexpected audit trail %v", got)
	}
	if audit.entries[0].Resource != string(domain.ResourceEvents) || audit.entries[0].TargetID != ev.ID {
		t.Fatalf("unexpected audit entry %+v", audit.entries[0])
	}
}

func TestContentService_UpdatePreservesCreationAndSwapsImage(t *testing.T) {
	repo := newStubEventRepo()
	images := &stubImageStore{}
	svc := newEventService(repo, images, nil)
	creator := token.Identity{ID: "adm-1", Name: "Maria"}
	editor := token.Identity{ID: "adm-2", Name: "Joao"}

	created, _ := svc.Create(context.Background(), creator, &domain.Event{
		Title: "Feira",
		Image: &domain.Image{Key: "eventos/old.jpg"},
	})
	createdAt := created.CreatedAt

	svc.now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }
	updated, err := svc.Update(context.Background(), editor, created.ID, &domain.Event{
		Title: "Feira de Artesanato",
		Image: &domain.Image{Key: "eventos/new.jpg"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID || updated.CreatedBy != "Maria" || !updated.CreatedAt.Equal(createdAt) {
		t.Fatalf("creation metadata not preserved: %+v", updated.Meta)
	}
	if !updated.UpdatedAt.After(createdAt) {
		t.Fatalf("expected updated_at to move forward")
	}
	if len(images.deleted) != 1 || images.deleted[0] != "eventos/old.jpg" {
		t.Fatalf("expected old image to be removed, got %v", images.deleted)
	}

	if _, err := svc.Update(context.Background(), editor, "missing", &domain.Event{Title: "x"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestContentService_DeleteRemovesImage(t *testing.T) {
	repo := newStubEventRepo()
	images := &stubImageStore{deleteErr: errors.New("s3 unavailable")}
	svc := newEventService(repo, images, nil)
	actor := token.Identity{ID: "adm-1", Name: "Maria"}

	ev, _ := svc.Create(context.Background(), actor, &domain.Event{
		Title: "Show",
		Image: &domain.Image{Key: "eventos/show.png"},
	})

	if err := svc.Delete(context.Background(), actor, ev.ID); err != nil {
		t.Fatalf("delete should succeed even when image removal fails: %v", err)
	}
	if _, ok := repo.byID[ev.ID]; ok {
		t.Fatalf("event still stored")
	}
	if len(images.deleted) != 1 || images.deleted[0] != "eventos/show.png" {
		t.Fatalf("expected image removal attempt, got %v", images.deleted)
	}

	if err := svc.Delete(context.Background(), actor, ev.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestContentService_ListNormalizesPaging(t *testing.T) {
	repo := newStubEventRepo()
	svc := newEventService(repo, nil, nil)
	actor := token.Identity{Name: "Maria"}
	for _, title := range []string{"Carnaval", "Festa", "Carnaval Infantil"} {
		if _, err := svc.Create(context.Background(), actor, &domain.Event{Title: title}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	cases := []struct {
		name      string
		in        ports.ListFilter
		wantPage  int
		wantLimit int
	}{
		{"defaults", ports.ListFilter{}, 1, defaultPageSize},
		{"negative page", ports.ListFilter{Page: -3, Limit: 5}, 1, 5},
		{"limit capped", ports.ListFilter{Page: 2, Limit: 1000}, 2, maxPageSize},
		{"page capped", ports.ListFilter{Page: math.MaxInt, Limit: 10}, maxPage, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, err := svc.List(context.Background(), tc.in)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if page.Page != tc.wantPage || page.Limit != tc.wantLimit {
				t.Fatalf("got page=%d limit=%d", page.Page, page.Limit)
			}
			if repo.lastFilter.Now.IsZero() {
				t.Fatalf("expected Now to be filled in")
			}
		})
	}

	page, err := svc.List(context.Background(), ports.ListFilter{Search: "carnaval", Limit: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 2 || page.TotalPages != 2 {
		t.Fatalf("expected 2 matches over 2 pages, got total=%d pages=%d", page.Total, page.TotalPages)
	}
}

func TestContentService_ListEmptyIsNotNil(t *testing.T) {
	svc := newEventService(newStubEventRepo(), nil, nil)

	page, err := svc.List(context.Background(), ports.ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Items == nil {
		t.Fatalf("expected empty slice, got nil")
	}
	if page.TotalPages != 0 {
		t.Fatalf("expected zero pages, got %d", page.TotalPages)
	}
}
