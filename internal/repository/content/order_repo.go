package content

import (
	"context"

	"order-admin/internal/domain"
	"order-admin/internal/infra"
	"order-admin/internal/repository"
)

// OrderQuery selects every order document and projects the fields the
// dashboard works with.
const OrderQuery = `*[_type == $type]{
  _id,
  orderNumber,
  customerName,
  email,
  city,
  phone,
  orderDate,
  products,
  totalPrice,
  status
}`

const orderType = "order"

type orderRepo struct {
	store infra.ContentStoreInterface
}

func NewOrderRepository(store infra.ContentStoreInterface) repository.OrderRepository {
	return &orderRepo{store: store}
}

func (r *orderRepo) FindAll(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := r.store.Query(ctx, OrderQuery, map[string]any{"type": orderType}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Order{}
	}
	return out, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	return r.store.Patch(id).Set(map[string]any{"status": status}).Commit(ctx)
}

func (r *orderRepo) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, id)
}
