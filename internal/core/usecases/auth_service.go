package usecases

import (
	"context"

	"github.com/samirrijal/weatherpro/internal/core/domain"
	"github.com/samirrijal/weatherpro/internal/core/ports"
)

// RegisterInput is a registration request.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// LoginResult carries the issued token and the account it belongs to.
type LoginResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// AuthService issues placeholder accounts and tokens. Credentials are not
// checked and tokens are not signed.
type AuthService struct {
	src ports.DataSource
}

// NewAuthService creates a new AuthService.
func NewAuthService(src ports.DataSource) *AuthService {
	return &AuthService{src: src}
}

// Register returns a freshly created account for in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	created := s.src.Now()
	return domain.User{
		ID:        s.src.NewID(),
		Email:     in.Email,
		Name:      in.Name,
		CreatedAt: &created,
	}, nil
}

// Login accepts any credentials.
func (s *AuthService) Login(ctx context.Context, email, _ string) (LoginResult, error) {
	if err := ctx.Err(); err != nil {
		return LoginResult{}, err
	}
	return LoginResult{
		Token: s.src.NewToken(),
		User: domain.User{
			ID:    s.src.NewID(),
			Email: email,
			Name:  "Mock User",
		},
	}, nil
}

// Logout has nothing to revoke.
func (s *AuthService) Logout(ctx context.Context) error {
	return ctx.Err()
}
