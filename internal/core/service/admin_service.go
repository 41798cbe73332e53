package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/guiatnn/portal/internal/core/domain"
	"github.com/guiatnn/portal/internal/core/ports"
	"github.com/guiatnn/portal/internal/security/password"
	"github.com/guiatnn/portal/internal/security/token"
)

// setupActor labels accounts created through the one-time setup.
const setupActor = "setup"

// AdminService manages administrator accounts.
type AdminService struct {
	repo  ports.AdminRepository
	audit ports.AuditSink
	log   zerolog.Logger
	now   func() time.Time
}

func NewAdminService(repo ports.AdminRepository, audit ports.AuditSink, log zerolog.Logger) *AdminService {
	return &AdminService{repo: repo, audit: audit, log: log, now: time.Now}
}

// Setup creates the first administrator. It refuses once any account exists.
func (s *AdminService) Setup(ctx context.Context, in ports.CreateAdminInput) (*domain.Admin, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}
	if n > 0 {
		return nil, domain.ErrSetupCompleted
	}

	if err := s.repo.ClaimSetup(ctx); err != nil {
		if errors.Is(err, domain.ErrSetupCompleted) {
			return nil, err
		}
		return nil, fmt.Errorf("setup: %w", err)
	}

	admin, err := s.create(ctx, token.Identity{Name: setupActor}, in)
	if err != nil {
		if rerr := s.repo.ReleaseSetup(context.WithoutCancel(ctx)); rerr != nil {
			s.log.Error().Err(rerr).Msg("failed to release setup claim")
		}
		return nil, err
	}
	return admin, nil
}

func (s *AdminService) Create(ctx context.Context, actor token.Identity, in ports.CreateAdminInput) (*domain.Admin, error) {
	return s.create(ctx, actor, in)
}

func (s *AdminService) create(ctx context.Context, actor token.Identity, in ports.CreateAdminInput) (*domain.Admin, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, domain.NewValidationError("admin", "name, email and password are required")
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	admin := &domain.Admin{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		CreatedBy:    actor.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.record(actor, domain.AuditAdminCreate, admin.ID)
	s.log.Info().Str("admin_id", admin.ID).Str("created_by", actor.Name).Msg("admin created")
	return admin, nil
}

// Update changes name, email or password. Unset fields are left untouched.
func (s *AdminService) Update(ctx context.Context, actor token.Identity, id string, upd domain.AdminUpdate) (*domain.Admin, error) {
	admin, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		admin.Name = *upd.Name
	}
	if upd.Email != nil {
		admin.Email = normalizeEmail(*upd.Email)
	}
	if upd.Password != nil {
		hash, err := password.Hash(*upd.Password)
		if err != nil {
			return nil, err
		}
		admin.PasswordHash = hash
	}
	admin.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, admin); err != nil {
		return nil, err
	}

	s.record(actor, domain.AuditAdminUpdate, admin.ID)
	return admin, nil
}

func (s *AdminService) List(ctx context.Context) ([]*domain.Admin, error) {
	return s.repo.List(ctx)
}

func (s *AdminService) record(actor token.Identity, action, target string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuditEntry{
		ActorID:  actor.ID,
		Actor:    actor.Name,
		Action:   action,
		Resource: "admins",
		TargetID: target,
		At:       s.now().UTC(),
	})
}
