package ports

import (
	"context"

	"github.com/guiatnn/portal/internal/core/domain"
	"github.com/guiatnn/portal/internal/security/token"
)

// Session is the result of a successful login: the signed token plus the two
// encrypted cookie values derived from it.
type Session struct {
	Token      string
	Claims     *token.Claims
	Admin      *domain.Admin
	AuthCookie string
	UserCookie string
}

// AuthService drives the anonymous → authenticated transition and back.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	// Resolve turns the raw auth cookie value into verified claims.
	Resolve(ctx context.Context, authCookie string) (*token.Claims, error)
	Me(ctx context.Context, claims *token.Claims) (*domain.Admin, error)
	Logout(ctx context.Context, authCookie string) error
}

// CreateAdminInput carries the fields for a new administrator account.
type CreateAdminInput struct {
	Name     string
	Email    string
	Password string
}

// AdminService manages administrator accounts.
type AdminService interface {
	// Setup creates the first administrator; domain.ErrSetupCompleted once any exists.
	Setup(ctx context.Context, in CreateAdminInput) (*domain.Admin, error)
	Create(ctx context.Context, actor token.Identity, in CreateAdminInput) (*domain.Admin, error)
	Update(ctx context.Context, actor token.Identity, id string, upd domain.AdminUpdate) (*domain.Admin, error)
	List(ctx context.Context) ([]*domain.Admin, error)
}
