package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/finbook/finbook/internal/config"
	"github.com/finbook/finbook/pkg/user"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

type Service interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (user.User, string, error)
	Login(ctx context.Context, email, password string) (user.User, string, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	Profile(ctx context.Context) (user.User, error)
	UpdateProfile(ctx context.Context, firstName, lastName string) (user.User, error)
	ValidateAccessToken(tokenString string) (string, error)
}

type ServiceImpl struct {
	repo      user.Repo
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewService(repo user.Repo, cfg config.Auth) *ServiceImpl {
	return &ServiceImpl{
		repo:      repo,
		jwtSecret: []byte(cfg.JwtSecret),
		tokenTTL:  time.Duration(cfg.TokenTTLHours) * time.Hour,
	}
}

func (s *ServiceImpl) Register(ctx context.Context, email, password, firstName, lastName string) (user.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return user.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	u, err := s.repo.Create(ctx, email, string(hash), firstName, lastName)
	if err != nil {
		return user.User{}, "", err
	}

	token, err := s.signAccessToken(u.ID)
	if err != nil {
		return user.User{}, "", err
	}
	log.Debugf("registered user %s", u.ID)
	return u, token, nil
}

func (s *ServiceImpl) Login(ctx context.Context, email, password string) (user.User, string, error) {
	u, hash, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, user.ErrUserNotFound) {
		return user.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return user.User{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return user.User{}, "", ErrInvalidCredentials
	}

	token, err := s.signAccessToken(u.ID)
	if err != nil {
		return user.User{}, "", err
	}
	return u, token, nil
}

// RequestPasswordReset stores a random single-use token with a one hour expiry
// and returns it to the caller.
func (s *ServiceImpl) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	token := hex.EncodeToString(b)

	ok, err := s.repo.SetResetToken(ctx, email, token, time.Now().Add(time.Hour))
	if err != nil {
		return "", err
	}
	if !ok {
		return "", user.ErrUserNotFound
	}
	return token, nil
}

func (s *ServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	ok, err := s.repo.ResetPassword(ctx, token, string(hash))
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidResetToken
	}
	return nil
}

func (s *ServiceImpl) Profile(ctx context.Context) (user.User, error) {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetByID(ctx, userID)
}

func (s *ServiceImpl) UpdateProfile(ctx context.Context, firstName, lastName string) (user.User, error) {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.UpdateProfile(ctx, userID, firstName, lastName)
}

// Claims are the custom claims carried by access tokens.
type Claims struct {
	jwt.RegisteredClaims
}

// ValidateAccessToken parses and verifies a bearer token and returns the user
// ID it was issued for.
func (s *ServiceImpl) ValidateAccessToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (s *ServiceImpl) signAccessToken(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			Issuer:    "finbook-api",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
