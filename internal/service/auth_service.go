package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"vision_runner/internal/models"
	"vision_runner/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = time.Hour

// Domain errors for auth flows.
var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrMissingField       = errors.New("username, email and password are required")
	ErrEmptyPassword      = errors.New("password is empty")
)

// AuthConfig carries the signing secret and token lifetime.
type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// AuthService handles user auth logic
type AuthService struct {
	users  repository.UserRepo
	secret []byte
	ttl    time.Duration
	rec    *recorder
}

func NewAuthService(users repository.UserRepo, cfg AuthConfig, rec *recorder) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	return &AuthService{users: users, secret: []byte(cfg.Secret), ttl: cfg.TokenTTL, rec: rec}
}

// Register hashes the password and creates a new user.
// A duplicate email surfaces as a store error.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	if username == "" || email == "" || password == "" {
		return models.User{}, ErrMissingField
	}
	hash, err := hashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	u, err := s.users.Create(ctx, username, email, hash)
	if err != nil {
		return models.User{}, err
	}

	s.rec.record(ctx, models.EventUserRegistered, "user registered",
		map[string]any{"userId": u.ID, "username": u.Username})
	return u, nil
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"userId"`
}

// Login validates credentials and returns a JWT for the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", models.User{}, err
	}
	if u == nil {
		// Compare anyway so unknown emails cost the same as wrong passwords.
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return "", models.User{}, ErrInvalidCredentials
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return "", models.User{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(u.ID)
	if err != nil {
		return "", models.User{}, err
	}
	return token, *u, nil
}

// ParseToken parses JWT and returns userID
func (s *AuthService) ParseToken(accessToken string) (int, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return 0, ErrInvalidToken
	}

	return claims.UserID, nil
}

// helper: issue a signed JWT for a user
func (s *AuthService) issueToken(userID int) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("vision-runner-placeholder"), bcrypt.DefaultCost)
	return h
})
