package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/guiatnn/portal/internal/api/middleware"
	"github.com/guiatnn/portal/internal/core/domain"
	"github.com/guiatnn/portal/internal/core/ports"
	"github.com/guiatnn/portal/internal/security/token"
)

type stubAdService struct {
	lastFilter ports.ListFilter
	created    *domain.Ad
	updatedID  string
	deletedID  string
}

func (s *stubAdService) List(_ context.Context, f ports.ListFilter) (*ports.Page[domain.Ad], error) {
	s.lastFilter = f
	return &ports.Page[domain.Ad]{Items: []domain.Ad{{Title: "Promo"}}, Total: 1, Page: 1, Limit: 20, TotalPages: 1}, nil
}

func (s *stubAdService) Get(_ context.Context, id string) (*domain.Ad, error) {
	if id != "ad-1" {
		return nil, domain.ErrNotFound
	}
	return &domain.Ad{Meta: domain.Meta{ID: id}, Title: "Promo"}, nil
}

func (s *stubAdService) Create(_ context.Context, actor token.Identity, item *domain.Ad) (*domain.Ad, error) {
	item.ID = "ad-1"
	item.CreatedBy = actor.Name
	s.created = item
	return item, nil
}

func (s *stubAdService) Update(_ context.Context, _ token.Identity, id string, item *domain.Ad) (*domain.Ad, error) {
	s.updatedID = id
	item.ID = id
	return item, nil
}

func (s *stubAdService) Delete(_ context.Context, _ token.Identity, id string) error {
	s.deletedID = id
	return nil
}

func withParam(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func TestContentHandler_List_AnonymousSeesPublicOnly(t *testing.T) {
	e := newEcho()
	svc := &stubAdService{}
	h := NewAdHandler(svc)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/anuncios?page=2&limit=5&q=promo", nil), rec)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if !svc.lastFilter.PublicOnly {
		t.Fatal("anonymous listing must be restricted to public records")
	}
	if svc.lastFilter.Page != 2 || svc.lastFilter.Limit != 5 || svc.lastFilter.Search != "promo" {
		t.Fatalf("unexpected filter: %+v", svc.lastFilter)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["total"] != float64(1) || resp["total_pages"] != float64(1) {
		t.Fatalf("unexpected page: %+v", resp)
	}
}

func TestContentHandler_List_AdminSeesEverything(t *testing.T) {
	e := newEcho()
	svc := &stubAdService{}
	h := NewAdHandler(svc)

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/anuncios", nil), httptest.NewRecorder())
	middleware.WithClaims(c, adminClaims())
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.lastFilter.PublicOnly {
		t.Fatal("administrators must see inactive ads")
	}
}

func TestContentHandler_List_BadQuery(t *testing.T) {
	e := newEcho()
	h := NewAdHandler(&stubAdService{})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/anuncios?page=-1", nil), httptest.NewRecorder())
	var ve *domain.ValidationError
	if err := h.List(c); !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestContentHandler_Get_NotFound(t *testing.T) {
	e := newEcho()
	h := NewAdHandler(&stubAdService{})

	c := withParam(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/anuncios/x", nil), httptest.NewRecorder()), "x")
	if err := h.Get(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestContentHandler_Create(t *testing.T) {
	e := newEcho()
	svc := &stubAdService{}
	h := NewAdHandler(svc)

	body := `{"title":"Promo","image":{"url":"https://cdn.guiatnn.mx/anuncios/a.png","key":"anuncios/a.png"},"active":true,"starts_at":"2026-11-01T06:00:00-06:00"}`
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/anuncios", body), rec)
	middleware.WithClaims(c, adminClaims())

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.created == nil || svc.created.CreatedBy != "Ana" || !svc.created.Active {
		t.Fatalf("unexpected record: %+v", svc.created)
	}
	if svc.created.StartsAt == nil || svc.created.StartsAt.Location().String() != "UTC" || svc.created.StartsAt.Hour() != 12 {
		t.Fatalf("starts_at not normalised to UTC: %v", svc.created.StartsAt)
	}
}

func TestContentHandler_Create_Invalid(t *testing.T) {
	e := newEcho()
	h := NewAdHandler(&stubAdService{})

	cases := map[string]string{
		"missing image url": `{"title":"Promo"}`,
		"inverted window":   `{"title":"Promo","image":{"url":"https://x.mx/a.png"},"starts_at":"2026-11-02T00:00:00Z","ends_at":"2026-11-01T00:00:00Z"}`,
		"bad link":          `{"title":"Promo","image":{"url":"https://x.mx/a.png"},"link_url":"not a url"}`,
		"unknown field":     `{"title":"Promo","image":{"url":"https://x.mx/a.png"},"clicks":10}`,
	}
	for name, body := range cases {
		c := e.NewContext(jsonRequest(http.MethodPost, "/api/anuncios", body), httptest.NewRecorder())
		middleware.WithClaims(c, adminClaims())

		var ve *domain.ValidationError
		if err := h.Create(c); !errors.As(err, &ve) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestContentHandler_Create_RequiresActor(t *testing.T) {
	e := newEcho()
	h := NewAdHandler(&stubAdService{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/anuncios", `{}`), httptest.NewRecorder())
	if err := h.Create(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestContentHandler_UpdateAndDelete(t *testing.T) {
	e := newEcho()
	svc := &stubAdService{}
	h := NewAdHandler(svc)

	c := withParam(e.NewContext(jsonRequest(http.MethodPut, "/api/anuncios/ad-7", `{"title":"Promo 2","image":{"url":"https://x.mx/b.png"}}`), httptest.NewRecorder()), "ad-7")
	middleware.WithClaims(c, adminClaims())
	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if svc.updatedID != "ad-7" {
		t.Fatalf("updated %q", svc.updatedID)
	}

	rec := httptest.NewRecorder()
	c = withParam(e.NewContext(httptest.NewRequest(http.MethodDelete, "/api/anuncios/ad-7", nil), rec), "ad-7")
	middleware.WithClaims(c, adminClaims())
	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusNoContent || svc.deletedID != "ad-7" {
		t.Fatalf("unexpected delete result %d %q", rec.Code, svc.deletedID)
	}
}
