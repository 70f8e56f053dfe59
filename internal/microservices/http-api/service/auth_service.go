package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"commentshub/internal/config"
	"commentshub/internal/microservices/http-api/dto"
	"commentshub/internal/microservices/http-api/models"
	"commentshub/internal/microservices/http-api/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const tokenTypeAccess = "access"

// PasswordHasher is satisfied by auth.Hasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, providedPassword string) error
}

// AccessClaims are carried by every access token.
type AccessClaims struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Obtain(ctx context.Context, username, password string) (*dto.TokenPairResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, error)
	Verify(tokenString string) error
	Revoke(ctx context.Context, refreshToken string) error
	Authenticate(ctx context.Context, tokenString string) (*models.User, error)
	ValidateToken(tokenString string) (*AccessClaims, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	hasher           PasswordHasher
	jwtSecret        []byte
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
	dummyHash        string
	now              func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	hasher PasswordHasher,
	cfg *config.Config,
) AuthService {
	// compared against when the username is unknown so both paths cost a bcrypt round
	dummy, _ := hasher.Hash(uuid.NewString())
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		hasher:           hasher,
		jwtSecret:        []byte(cfg.JWTSecret),
		accessTokenTTL:   cfg.AccessTokenTTL,
		refreshTokenTTL:  cfg.RefreshTokenTTL,
		dummyHash:        dummy,
		now:              time.Now,
	}
}

// Obtain exchanges credentials for a token pair and stamps last_login.
func (s *authService) Obtain(ctx context.Context, username, password string) (*dto.TokenPairResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("find user: %w", err)
		}
		_ = s.hasher.Verify(s.dummyHash, password)
		return nil, ErrInvalidCredentials
	}

	if err := s.hasher.Verify(user.Password, password); err != nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		return nil, fmt.Errorf("stamp last login: %w", err)
	}
	return pair, nil
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued.
func (s *authService) Refresh(ctx context.Context, raw string) (*dto.TokenPairResponse, error) {
	stored, err := s.refreshTokenRepo.FindByHash(ctx, hashRefreshToken(raw))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	if !stored.Usable(s.now()) {
		return nil, ErrInvalidToken
	}

	revoked, err := s.refreshTokenRepo.Revoke(ctx, stored.ID)
	if err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}
	if !revoked {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidToken
	}

	return s.issuePair(ctx, user)
}

func (s *authService) Verify(tokenString string) error {
	_, err := s.ValidateToken(tokenString)
	return err
}

// Revoke disables a refresh token. Unknown tokens are not reported.
func (s *authService) Revoke(ctx context.Context, raw string) error {
	stored, err := s.refreshTokenRepo.FindByHash(ctx, hashRefreshToken(raw))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("find refresh token: %w", err)
	}
	if _, err := s.refreshTokenRepo.Revoke(ctx, stored.ID); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// Authenticate resolves the caller behind an access token.
func (s *authService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *authService) ValidateToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != tokenTypeAccess || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// PurgeExpired drops refresh tokens that can no longer be exchanged.
func (s *authService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.refreshTokenRepo.DeleteExpired(ctx, s.now())
}

func (s *authService) issuePair(ctx context.Context, user *models.User) (*dto.TokenPairResponse, error) {
	access, err := s.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPairResponse{Refresh: refresh, Access: access}, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := AccessClaims{
		UserID:    user.ID,
		Username:  user.Username,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// generateRefreshToken returns an opaque random token; only its digest is stored.
func (s *authService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	raw := hex.EncodeToString(buf)

	refreshToken := &models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: hashRefreshToken(raw),
		ExpiresAt: s.now().Add(s.refreshTokenTTL),
	}
	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return "", fmt.Errorf("store refresh token: %w", err)
	}
	return raw, nil
}

func hashRefreshToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
