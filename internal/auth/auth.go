package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/frahmantamala/merchant-management/internal"
	"github.com/frahmantamala/merchant-management/internal/company"
	"github.com/frahmantamala/merchant-management/internal/user"
)

// ServiceAPI is the surface the HTTP handler depends on.
type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error)
	Register(ctx context.Context, dto RegisterDTO) (*RegisterResult, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUserWithPermissions(userID int64) (*internal.ContextUser, error)
}

// Repository is the persistence surface the auth service depends on.
type Repository interface {
	GetCredentialsByEmail(email string) (*Credentials, error)
	GetUserWithPermissions(userID int64) (*internal.ContextUser, error)
	GetRoleByName(name string) (*user.Role, error)
	CompanyNameExists(name string) (bool, error)
	CompanyPhoneExists(phone string) (bool, error)
	EmailExists(email string) (bool, error)
	// CreateCompanyAndUser persists both records in one transaction so a
	// failed user insert cannot leave an orphaned company behind.
	CreateCompanyAndUser(c *company.Company, u *user.User) error
}

// AccountCreator creates the merchant account at the external payments provider.
type AccountCreator interface {
	CreateAccount(ctx context.Context, companyName, email, phone string) (accountID string, err error)
}

// TokenGeneratorAPI issues and validates JWT pairs.
type TokenGeneratorAPI interface {
	GenerateAccessToken(userID int64, email string) (string, error)
	GenerateRefreshToken(userID int64, email string) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

// Credentials is what login needs to know about a stored user.
type Credentials struct {
	UserID       int64
	PasswordHash string
	IsActive     bool
	IsDeleted    bool
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RegisterResult is returned after a successful company onboarding.
type RegisterResult struct {
	Company *company.Company `json:"company"`
	User    *user.User       `json:"user"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}
