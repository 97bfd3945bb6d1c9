package rabbitmq

import "context"

const (
	RoutingOrderStatusChanged = "order.status_changed"
	RoutingOrderDeleted       = "order.deleted"
)

type PublisherInterface interface {
	Publish(ctx context.Context, routingKey string, data any) error
}

var _ PublisherInterface = (*Publisher)(nil)
