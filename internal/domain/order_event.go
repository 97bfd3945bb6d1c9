package domain

import "time"

type OrderStatusChangedEvent struct {
	OrderID     string      `json:"orderId"`
	OrderNumber string      `json:"orderNumber,omitempty"`
	Status      OrderStatus `json:"status"`
	ChangedAt   time.Time   `json:"changedAt"`
}

type OrderDeletedEvent struct {
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber,omitempty"`
	DeletedAt   time.Time `json:"deletedAt"`
}
