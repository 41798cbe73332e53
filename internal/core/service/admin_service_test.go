package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/guiatnn/portal/internal/core/domain"
	"github.com/guiatnn/portal/internal/core/ports"
	"github.com/guiatnn/portal/internal/security/password"
	"github.com/guiatnn/portal/internal/security/token"
)

func TestAdminService_Setup(t *testing.T) {
	repo := newStubAdminRepo()
	audit := &recordingAudit{}
	svc := NewAdminService(repo, audit, zerolog.Nop())

	admin, err := svc.Setup(context.Background(), ports.CreateAdminInput{
		Name:     "Root",
		Email:    "Root@GuiaTNN.com",
		Password: "first-pass",
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if admin.Email != "root@guiatnn.com" {
		t.Fatalf("expected normalized email, got %q", admin.Email)
	}
	if admin.CreatedBy != setupActor {
		t.Fatalf("expected created_by %q, got %q", setupActor, admin.CreatedBy)
	}
	if ok, _ := password.Verify("first-pass", admin.PasswordHash); !ok {
		t.Fatalf("stored hash does not match password")
	}

	_, err = svc.Setup(context.Background(), ports.CreateAdminInput{Name: "Again", Email: "x@y.com", Password: "p"})
	if !errors.Is(err, domain.ErrSetupCompleted) {
		t.Fatalf("expected ErrSetupCompleted, got %v", err)
	}
}

func TestAdminService_Setup_ConcurrentClaim(t *testing.T) {
	repo := newStubAdminRepo()
	repo.staleCount = true
	svc := NewAdminService(repo, nil, zerolog.Nop())

	if _, err := svc.Setup(context.Background(), ports.CreateAdminInput{Name: "Ana", Email: "ana@guiatnn.mx", Password: "first-pass"}); err != nil {
		t.Fatalf("first setup: %v", err)
	}
	_, err := svc.Setup(context.Background(), ports.CreateAdminInput{Name: "Luis", Email: "luis@guiatnn.mx", Password: "second-pass"})
	if !errors.Is(err, domain.ErrSetupCompleted) {
		t.Fatalf("expected ErrSetupCompleted, got %v", err)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected a single administrator, got %d", len(repo.byID))
	}
}

func TestAdminService_Setup_ReleasesClaimOnFailure(t *testing.T) {
	repo := newStubAdminRepo()
	repo.createErr = errors.New("mongo down")
	svc := NewAdminService(repo, nil, zerolog.Nop())
	in := ports.CreateAdminInput{Name: "Ana", Email: "ana@guiatnn.mx", Password: "first-pass"}

	if _, err := svc.Setup(context.Background(), in); err == nil {
		t.Fatalf("expected setup to fail")
	}
	if repo.setupClaimed {
		t.Fatalf("claim must be released after a failed setup")
	}

	repo.createErr = nil
	if _, err := svc.Setup(context.Background(), in); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestAdminService_Create(t *testing.T) {
	repo := newStubAdminRepo()
	audit := &recordingAudit{}
	svc := NewAdminService(repo, audit, zerolog.Nop())
	actor := token.Identity{ID: "adm-1", Name: "Maria"}

	admin, err := svc.Create(context.Background(), actor, ports.CreateAdminInput{
		Name: "Joao", Email: "joao@guiatnn.com", Password: "pw-joao",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if admin.ID == "" || admin.CreatedBy != "Maria" {
		t.Fatalf("unexpected admin %+v", admin)
	}
	if admin.CreatedAt.IsZero() || !admin.CreatedAt.Equal(admin.UpdatedAt) {
		t.Fatalf("expected timestamps to be stamped")
	}

	_, err = svc.Create(context.Background(), actor, ports.CreateAdminInput{
		Name: "Joao 2", Email: "JOAO@guiatnn.com", Password: "pw",
	})
	if !errors.Is(err, domain.ErrAdminExists) {
		t.Fatalf("expected ErrAdminExists, got %v", err)
	}

	_, err = svc.Create(context.Background(), actor, ports.CreateAdminInput{Name: "x"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	got := audit.actions()
	if len(got) != 1 || got[0] != domain.AuditAdminCreate {
		t.Fatalf("expected one admin.create audit entry, got %v", got)
	}
}

func TestAdminService_Update(t *testing.T) {
	repo := newStubAdminRepo()
	svc := NewAdminService(repo, nil, zerolog.Nop())
	actor := token.Identity{ID: "adm-1", Name: "Maria"}

	a, _ := svc.Create(context.Background(), actor, ports.CreateAdminInput{Name: "A", Email: "a@x.com", Password: "pa"})
	_, _ = svc.Create(context.Background(), actor, ports.CreateAdminInput{Name: "B", Email: "b@x.com", Password: "pb"})

	newName := "Ana"
	newPass := "new-pass"
	updated, err := svc.Update(context.Background(), actor, a.ID, domain.AdminUpdate{Name: &newName, Password: &newPass})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Ana" || updated.Email != "a@x.com" {
		t.Fatalf("unexpected update result %+v", updated)
	}
	if ok, _ := password.Verify("new-pass", updated.PasswordHash); !ok {
		t.Fatalf("password was not rehashed")
	}

	taken := "b@x.com"
	if _, err := svc.Update(context.Background(), actor, a.ID, domain.AdminUpdate{Email: &taken}); !errors.Is(err, domain.ErrAdminExists) {
		t.Fatalf("expected ErrAdminExists, got %v", err)
	}

	if _, err := svc.Update(context.Background(), actor, "missing", domain.AdminUpdate{Name: &newName}); !errors.Is(err, domain.ErrAdminNotFound) {
		t.Fatalf("expected ErrAdminNotFound, got %v", err)
	}

	list, err := svc.List(context.Background())
	if err != nil || len(list) != 2 {
		t.Fatalf("expected 2 admins, got %d (%v)", len(list), err)
	}
}
