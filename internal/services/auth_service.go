package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"order-admin/internal/domain"
	"order-admin/internal/repository"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrOperatorExists     = errors.New("operator already exists")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

type LoginThrottle interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

type AuthService struct {
	repo     repository.OperatorRepository
	throttle LoginThrottle
	hashCost int
}

func NewAuthService(r repository.OperatorRepository) *AuthService {
	return &AuthService{repo: r, hashCost: bcrypt.DefaultCost}
}

func (a *AuthService) SetThrottle(t LoginThrottle) {
	a.throttle = t
}

func (a *AuthService) SetHashCost(cost int) {
	a.hashCost = cost
}

// Authenticate checks the credentials. A throttle backend error does not
// block the login; it is logged and the check proceeds.
func (a *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.Operator, error) {
	username = strings.TrimSpace(username)

	if a.throttle != nil {
		ok, err := a.throttle.Allow(ctx, username)
		if err != nil {
			log.WithError(err).Warn("Login throttle unavailable")
		} else if !ok {
			log.WithField("username", username).Warn("Login throttled")
			return nil, ErrTooManyAttempts
		}
	}

	op, err := a.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if a.throttle != nil {
		if err := a.throttle.Reset(ctx, username); err != nil {
			log.WithError(err).Warn("Login throttle reset failed")
		}
	}

	return op, nil
}

func (a *AuthService) CreateOperator(ctx context.Context, username, password string) (*domain.Operator, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("username is required")
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	op := &domain.Operator{Username: username, PasswordHash: string(hash)}
	if err := a.repo.Save(ctx, op); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrOperatorExists
		}
		return nil, err
	}
	return op, nil
}
