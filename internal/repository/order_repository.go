package repository

import (
	"context"

	"order-admin/internal/domain"
)

type OrderRepository interface {
	FindAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
	Delete(ctx context.Context, id string) error
}
