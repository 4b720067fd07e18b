package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"pokedex-api/models"
	"pokedex-api/repository"
)

const defaultTokenTTL = 24 * time.Hour

// ErrInvalidCredentials is returned on a failed login attempt. Unknown
// email and wrong password are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrInvalidToken is returned when a bearer token is missing, malformed
// or expired.
var ErrInvalidToken = errors.New("invalid or expired token")

// AuthService issues and validates bearer tokens and manages user
// credentials. Implements the auth collaborator contract: a token maps a
// request to exactly one user.
type AuthService struct {
	userRepo repository.UserRepositoryInterface
	secret   []byte
	tokenTTL time.Duration
}

// NewAuthService creates a new AuthService. The signing secret comes from
// JWT_SECRET; JWT_TTL_HOURS optionally overrides the 24h token lifetime.
func NewAuthService(userRepo repository.UserRepositoryInterface) (*AuthService, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	tokenTTL := defaultTokenTTL
	if raw := os.Getenv("JWT_TTL_HOURS"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours < 1 {
			return nil, fmt.Errorf("JWT_TTL_HOURS must be a positive integer, got %q", raw)
		}
		tokenTTL = time.Duration(hours) * time.Hour
	}

	return &AuthService{
		userRepo: userRepo,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}, nil
}

// Register creates a new account with a bcrypt-hashed password
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email address")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, email, string(hash))
	if err != nil {
		return nil, err
	}

	log.Printf("✓ Registered user %s", user.Email)
	return user, nil
}

// Login checks credentials and issues a signed token on success
func (s *AuthService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	return s.IssueToken(user.ID)
}

// IssueToken signs a short-lived HS256 token for the given user
func (s *AuthService) IssueToken(userID int64) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// VerifyToken validates a bearer token and returns the user id it was
// issued for
func (s *AuthService) VerifyToken(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	return userID, nil
}
