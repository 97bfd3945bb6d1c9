package services

import (
	"context"
	"time"

	"order-admin/internal/domain"
	rabbit "order-admin/internal/infra/rabbitmq"

	log "github.com/sirupsen/logrus"
)

type ChangeKind string

const (
	ChangeLoaded        ChangeKind = "loaded"
	ChangeStatusUpdated ChangeKind = "status_updated"
	ChangeDeleted       ChangeKind = "deleted"
)

// Change describes one applied cache update. Order is the affected entry as
// it was before a delete or after a status update; it is nil for loads and
// for updates that matched no cached order.
type Change struct {
	Kind   ChangeKind
	Ref    string
	Status domain.OrderStatus
	Order  *domain.Order
	Counts map[domain.OrderStatus]int
	At     time.Time
}

type Listener func(Change)

// NewEventForwarder publishes status changes and deletes to the broker.
// Publishing runs in the background so a slow broker never holds up the
// operator.
func NewEventForwarder(pub rabbit.PublisherInterface) Listener {
	return func(c Change) {
		switch c.Kind {
		case ChangeStatusUpdated:
			evt := domain.OrderStatusChangedEvent{
				OrderID:   c.Ref,
				Status:    c.Status,
				ChangedAt: c.At,
			}
			if c.Order != nil {
				evt.OrderNumber = c.Order.OrderNumber
			}
			go publishEvent(pub, rabbit.RoutingOrderStatusChanged, c.Ref, evt)
		case ChangeDeleted:
			evt := domain.OrderDeletedEvent{
				OrderID:   c.Ref,
				DeletedAt: c.At,
			}
			if c.Order != nil {
				evt.OrderNumber = c.Order.OrderNumber
			}
			go publishEvent(pub, rabbit.RoutingOrderDeleted, c.Ref, evt)
		}
	}
}

func publishEvent(pub rabbit.PublisherInterface, routingKey, ref string, evt any) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := pub.Publish(ctx, routingKey, evt); err != nil {
		log.WithFields(log.Fields{"order_id": ref, "routing_key": routingKey}).WithError(err).Error("Failed to publish event")
		return
	}
	log.WithFields(log.Fields{"order_id": ref, "routing_key": routingKey}).Info("Published event")
}
