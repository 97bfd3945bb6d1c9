package repository

import (
	"context"
	"errors"

	"order-admin/internal/domain"
)

var ErrDuplicateUsername = errors.New("username already taken")

type OperatorRepository interface {
	Save(ctx context.Context, op *domain.Operator) error
	FindByUsername(ctx context.Context, username string) (*domain.Operator, error)
}
