package ports

import (
	"context"

	"github.com/guiatnn/portal/internal/core/domain"
)

// AdminRepository persists administrator accounts.
type AdminRepository interface {
	// FindByEmail returns domain.ErrAdminNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*domain.Admin, error)
	FindByID(ctx context.Context, id string) (*domain.Admin, error)
	// Create returns domain.ErrAdminExists on a duplicate email.
	Create(ctx context.Context, admin *domain.Admin) error
	Update(ctx context.Context, admin *domain.Admin) error
	List(ctx context.Context) ([]*domain.Admin, error)
	Count(ctx context.Context) (int64, error)
	// ClaimSetup marks first-run setup as taken. Only one caller ever
	// succeeds; the others get domain.ErrSetupCompleted.
	ClaimSetup(ctx context.Context) error
	// ReleaseSetup drops the claim after a setup that failed to create the account.
	ReleaseSetup(ctx context.Context) error
}
