package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/guiatnn/portal/internal/api/middleware"
	"github.com/guiatnn/portal/internal/core/domain"
	"github.com/guiatnn/portal/internal/core/ports"
	"github.com/guiatnn/portal/internal/security/token"
)

func TestAdminHandler_List_Empty(t *testing.T) {
	e := newEcho()
	h := NewAdminHandler(&stubAdminService{
		listFn: func(ctx context.Context) ([]*domain.Admin, error) { return nil, nil },
	})

	rec := httptest.NewRecorder()
	if err := h.List(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/admins", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Body.String() != "{\"items\":[]}\n" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestAdminHandler_Create_PassesActor(t *testing.T) {
	e := newEcho()
	var gotActor token.Identity
	h := NewAdminHandler(&stubAdminService{
		createFn: func(ctx context.Context, actor token.Identity, in ports.CreateAdminInput) (*domain.Admin, error) {
			gotActor = actor
			return &domain.Admin{ID: "adm-2", Name: in.Name, Email: in.Email, CreatedBy: actor.Name, CreatedAt: time.Now()}, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/admins", `{"name":"Luis","email":"luis@guiatnn.mx","password":"long-enough"}`), rec)
	middleware.WithClaims(c, adminClaims())

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if gotActor.ID != "adm-1" || gotActor.Name != "Ana" {
		t.Fatalf("unexpected actor %+v", gotActor)
	}
}

func TestAdminHandler_Update(t *testing.T) {
	e := newEcho()
	var gotID string
	var gotUpd domain.AdminUpdate
	h := NewAdminHandler(&stubAdminService{
		updateFn: func(ctx context.Context, actor token.Identity, id string, upd domain.AdminUpdate) (*domain.Admin, error) {
			gotID, gotUpd = id, upd
			return &domain.Admin{ID: id, Name: *upd.Name}, nil
		},
	})

	c := withParam(e.NewContext(jsonRequest(http.MethodPut, "/api/admins/adm-2", `{"name":"Luis M."}`), httptest.NewRecorder()), "adm-2")
	middleware.WithClaims(c, adminClaims())
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotID != "adm-2" || gotUpd.Name == nil || *gotUpd.Name != "Luis M." || gotUpd.Password != nil {
		t.Fatalf("unexpected update %q %+v", gotID, gotUpd)
	}

	c = withParam(e.NewContext(jsonRequest(http.MethodPut, "/api/admins/adm-2", `{}`), httptest.NewRecorder()), "adm-2")
	middleware.WithClaims(c, adminClaims())
	var ve *domain.ValidationError
	if err := h.Update(c); !errors.As(err, &ve) {
		t.Fatalf("expected validation error for empty update, got %v", err)
	}
}
