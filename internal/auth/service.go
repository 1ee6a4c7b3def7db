package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/merchant-management/internal"
	"github.com/frahmantamala/merchant-management/internal/company"
	"github.com/frahmantamala/merchant-management/internal/user"
)

// CustomerRoleName is the fixed role assigned to the first user of a newly
// registered company.
const CustomerRoleName = "customer"

// Service is the main auth service with dependencies
type Service struct {
	repo       Repository
	accounts   AccountCreator
	tokenGen   TokenGeneratorAPI
	tokenStore TokenStore
	bcryptCost int
	refreshTTL time.Duration
	logger     *slog.Logger
}

// NewService creates a new auth service
func NewService(repo Repository, accounts AccountCreator, tokenGen TokenGeneratorAPI, tokenStore TokenStore, bcryptCost int, refreshTTL time.Duration, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		accounts:   accounts,
		tokenGen:   tokenGen,
		tokenStore: tokenStore,
		bcryptCost: bcryptCost,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

// NewJWTTokenGenerator creates a new JWT token generator
func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	creds, err := s.repo.GetCredentialsByEmail(dto.Email)
	if err != nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if creds.IsDeleted || !creds.IsActive {
		return AuthTokens{}, internal.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, creds.UserID, dto.Email)
}

// Register onboards a new company: duplicate checks, external account
// creation, then company + user in one local transaction.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*RegisterResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if exists, err := s.repo.CompanyNameExists(dto.CompanyName); err != nil {
		return nil, internal.NewInternalError("failed to check company name", err)
	} else if exists {
		return nil, internal.ErrDuplicateCompany
	}

	if exists, err := s.repo.CompanyPhoneExists(dto.PhoneNumber); err != nil {
		return nil, internal.NewInternalError("failed to check phone number", err)
	} else if exists {
		return nil, internal.ErrDuplicatePhone
	}

	if exists, err := s.repo.EmailExists(dto.Email); err != nil {
		return nil, internal.NewInternalError("failed to check email", err)
	} else if exists {
		return nil, internal.ErrDuplicateEmail
	}

	customerRole, err := s.repo.GetRoleByName(CustomerRoleName)
	if err != nil {
		s.logger.Error("customer role lookup failed", "error", err)
		return nil, internal.ErrRoleNotFound
	}

	accountID, err := s.accounts.CreateAccount(ctx, dto.CompanyName, dto.Email, dto.PhoneNumber)
	if err != nil {
		s.logger.Error("external account creation failed", "error", err, "company", dto.CompanyName)
		return nil, internal.NewExternalError("payments provider account creation failed", err)
	}

	passwordHash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	newCompany := &company.Company{
		Name:               dto.CompanyName,
		PhoneNumber:        dto.PhoneNumber,
		AirwallexAccountID: accountID,
	}
	newUser := &user.User{
		Email:        dto.Email,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		PasswordHash: passwordHash,
		RoleID:       customerRole.ID,
		IsActive:     true,
	}

	if err := s.repo.CreateCompanyAndUser(newCompany, newUser); err != nil {
		// The external account already exists with no local company behind
		// it. Flag it for reconciliation rather than retrying here.
		s.logger.Error("local registration failed after external account creation",
			"error", err,
			"airwallex_account_id", accountID,
			"company", dto.CompanyName)
		return nil, internal.NewInternalError("registration failed", err)
	}

	s.logger.Info("company registered",
		"company_id", newCompany.ID,
		"user_id", newUser.ID,
		"airwallex_account_id", accountID)

	return &RegisterResult{Company: newCompany, User: newUser}, nil
}

// RefreshTokens validates refresh token and returns new tokens. The presented
// token must still be tracked server-side; it is revoked on use.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGen.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	if _, err := s.tokenStore.Validate(ctx, refreshToken); err != nil {
		if errors.Is(err, ErrTokenNotTracked) {
			return AuthTokens{}, internal.ErrTokenRevoked
		}
		return AuthTokens{}, internal.NewInternalError("refresh token lookup failed", err)
	}

	if err := s.tokenStore.Revoke(ctx, refreshToken); err != nil {
		s.logger.Warn("failed to revoke rotated refresh token", "error", err)
	}

	return s.issueTokens(ctx, claims.UserID, claims.Email)
}

// Logout revokes the refresh token.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if err := s.tokenStore.Revoke(ctx, refreshToken); err != nil {
		s.logger.Warn("failed to revoke refresh token on logout", "error", err)
		return internal.NewInternalError("logout failed", err)
	}
	return nil
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGen.ValidateAccessToken(tokenString)
}

func (s *Service) GetUserWithPermissions(userID int64) (*internal.ContextUser, error) {
	return s.repo.GetUserWithPermissions(userID)
}

func (s *Service) issueTokens(ctx context.Context, userID int64, email string) (AuthTokens, error) {
	accessToken, err := s.tokenGen.GenerateAccessToken(userID, email)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to generate access token", err)
	}

	refreshToken, err := s.tokenGen.GenerateRefreshToken(userID, email)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to generate refresh token", err)
	}

	if err := s.tokenStore.Save(ctx, refreshToken, userID, s.refreshTTL); err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to track refresh token", err)
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// GenerateAccessToken creates a new access token
func (j *JWTTokenGenerator) GenerateAccessToken(userID int64, email string) (string, error) {
	return j.generate(userID, email, j.AccessTokenTTL, j.AccessTokenSecret)
}

// GenerateRefreshToken creates a new refresh token
func (j *JWTTokenGenerator) GenerateRefreshToken(userID int64, email string) (string, error) {
	return j.generate(userID, email, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) generate(userID int64, email string, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   fmt.Sprintf("%d", userID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateAccessToken validates an access JWT and returns its claims.
func (j *JWTTokenGenerator) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, j.AccessTokenSecret)
}

// ValidateRefreshToken validates a refresh JWT and returns its claims.
func (j *JWTTokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) validate(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, internal.ErrInvalidToken
}
