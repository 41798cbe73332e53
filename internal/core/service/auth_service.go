package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/guiatnn/portal/internal/core/domain"
	"github.com/guiatnn/portal/internal/core/ports"
	"github.com/guiatnn/portal/internal/security/cookiecrypt"
	"github.com/guiatnn/portal/internal/security/password"
	"github.com/guiatnn/portal/internal/security/token"
)

// AuthService implements login, session resolution and logout.
type AuthService struct {
	admins  ports.AdminRepository
	tokens  *token.Service
	cipher  cookiecrypt.Cipher
	revoker ports.TokenRevoker
	audit   ports.AuditSink
	log     zerolog.Logger
	now     func() time.Time
}

// NewAuthService wires the session protocol. revoker and audit may be nil.
func NewAuthService(
	admins ports.AdminRepository,
	tokens *token.Service,
	cipher cookiecrypt.Cipher,
	revoker ports.TokenRevoker,
	audit ports.AuditSink,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		admins:  admins,
		tokens:  tokens,
		cipher:  cipher,
		revoker: revoker,
		audit:   audit,
		log:     log,
		now:     time.Now,
	}
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// burnHash spends one bcrypt comparison so unknown emails take as long as
// wrong passwords.
func burnHash(plain string) {
	dummyOnce.Do(func() {
		dummyHash, _ = password.Hash("guiatnn-timing-equalizer")
	})
	_, _ = password.Verify(plain, dummyHash)
}

func (s *AuthService) Login(ctx context.Context, email, pass string) (*ports.Session, error) {
	if email == "" || pass == "" {
		return nil, domain.ErrInvalidCredentials
	}

	admin, err := s.admins.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			burnHash(pass)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	ok, err := password.Verify(pass, admin.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	signed, claims, err := s.tokens.Issue(token.Identity{
		ID:    admin.ID,
		Email: admin.Email,
		Name:  admin.Name,
		Role:  domain.RoleAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	authCookie, err := s.cipher.Encrypt(signed)
	if err != nil {
		return nil, fmt.Errorf("login: encrypt token: %w", err)
	}

	profile, err := json.Marshal(admin.Profile())
	if err != nil {
		return nil, fmt.Errorf("login: encode profile: %w", err)
	}
	userCookie, err := s.cipher.Encrypt(string(profile))
	if err != nil {
		return nil, fmt.Errorf("login: encrypt profile: %w", err)
	}

	s.record(claims.Identity(), domain.AuditLogin)
	s.log.Info().Str("admin_id", admin.ID).Msg("admin logged in")

	return &ports.Session{
		Token:      signed,
		Claims:     claims,
		Admin:      admin,
		AuthCookie: authCookie,
		UserCookie: userCookie,
	}, nil
}

// Resolve decrypts the auth cookie, verifies the token inside it and checks
// it has not been revoked.
func (s *AuthService) Resolve(ctx context.Context, authCookie string) (*token.Claims, error) {
	if authCookie == "" {
		return nil, domain.ErrUnauthenticated
	}

	raw, err := s.cipher.Decrypt(authCookie)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSession, err)
	}

	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSession, err)
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("jti", claims.ID).Msg("revocation check failed, accepting token")
		case revoked:
			return nil, fmt.Errorf("%w: token revoked", domain.ErrInvalidSession)
		}
	}

	return claims, nil
}

// Me loads the administrator behind verified claims.
func (s *AuthService) Me(ctx context.Context, claims *token.Claims) (*domain.Admin, error) {
	if claims == nil {
		return nil, domain.ErrUnauthenticated
	}
	admin, err := s.admins.FindByID(ctx, claims.AdminID)
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// Logout revokes the presented token for the rest of its lifetime. A missing
// or already invalid cookie is not an error.
func (s *AuthService) Logout(ctx context.Context, authCookie string) error {
	claims, err := s.Resolve(ctx, authCookie)
	if err != nil {
		return nil
	}

	s.record(claims.Identity(), domain.AuditLogout)

	if s.revoker == nil {
		return nil
	}
	remaining := claims.Remaining(s.now())
	if remaining <= 0 {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, remaining); err != nil {
		return fmt.Errorf("logout: revoke: %w", err)
	}
	return nil
}

func (s *AuthService) record(actor token.Identity, action string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuditEntry{
		ActorID: actor.ID,
		Actor:   actor.Name,
		Action:  action,
		At:      s.now().UTC(),
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
