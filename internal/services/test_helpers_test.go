package services

import (
	"context"
	"sync"

	"order-admin/internal/domain"
)

func CreateMockOrder(id string, status domain.OrderStatus) domain.Order {
	return domain.Order{
		ID:           id,
		OrderNumber:  "ORD-" + id,
		CustomerName: "Customer " + id,
		Email:        id + "@example.com",
		City:         "Karachi",
		OrderDate:    "2025-02-03T10:00:00Z",
		Products: []domain.LineItem{
			{
				Product:  domain.Product{ID: "p-" + id, Name: "Product " + id, Price: 10, Stock: 4},
				Image:    domain.ImageRef("image-" + id),
				Quantity: 2,
				Price:    10,
			},
		},
		TotalPrice: 20,
		Status:     status,
	}
}

type notification struct {
	Kind  NotificationKind
	Title string
	Body  string
}

type recordingNotifier struct {
	mu           sync.Mutex
	answer       bool
	confirmCalls int
	notes        []notification
}

func newRecordingNotifier(answer bool) *recordingNotifier {
	return &recordingNotifier{answer: answer}
}

func (n *recordingNotifier) Confirm(_ context.Context, title, body string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmCalls++
	return n.answer
}

func (n *recordingNotifier) Notify(kind NotificationKind, title, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, notification{Kind: kind, Title: title, Body: body})
}

func (n *recordingNotifier) last() notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notes) == 0 {
		return notification{}
	}
	return n.notes[len(n.notes)-1]
}

func ids(orders []domain.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}

const (
	TestRefA = "A"
	TestRefB = "B"
)
