package infra

import (
	"context"

	"order-admin/internal/infra/sanity"
)

type ContentStoreInterface interface {
	Query(ctx context.Context, query string, params map[string]any, out any) error
	Patch(id string) *sanity.Patch
	Delete(ctx context.Context, id string) error
}

var _ ContentStoreInterface = (*sanity.Client)(nil)
