package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"order-admin/internal/domain"
	"order-admin/internal/metrics"
	"order-admin/internal/repository"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// OrderService keeps a local mirror of the remote order collection. The
// cache is only written by Load, ChangeStatus and Delete, and only after
// the remote store has accepted the change. The lock is never held across a
// remote call, so concurrent mutations race and the last one to finish wins.
type OrderService struct {
	repo repository.OrderRepository

	mu     sync.RWMutex
	orders []domain.Order
	loaded bool

	loads singleflight.Group

	listenersMu sync.RWMutex
	listeners   []Listener

	now func() time.Time
}

func NewOrderService(r repository.OrderRepository) *OrderService {
	return &OrderService{
		repo:   r,
		orders: []domain.Order{},
		now:    time.Now,
	}
}

func (s *OrderService) Subscribe(l Listener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *OrderService) emit(c Change) {
	s.listenersMu.RLock()
	listeners := append([]Listener(nil), s.listeners...)
	s.listenersMu.RUnlock()

	for _, l := range listeners {
		l(c)
	}
}

// Load replaces the whole cache with one fetch of every order. On failure
// the previous cache is kept as is. Concurrent calls share one query, which
// runs detached from any single caller's cancellation; a caller whose context
// ends stops waiting without cutting the fetch short for the others.
func (s *OrderService) Load(ctx context.Context, n Notifier) error {
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.loads.DoChan("load", func() (interface{}, error) {
		return nil, s.fetch(fetchCtx)
	})

	var err error
	select {
	case res := <-ch:
		err = res.Err
	case <-ctx.Done():
		err = ctx.Err()
	}

	if err != nil {
		log.WithError(err).Error("Error fetching orders")
		metrics.RecordMutation("load", "failure")
		n.Notify(NotifyError, titleError, msgLoadFailed)
		return fmt.Errorf("load orders: %w", err)
	}

	metrics.RecordMutation("load", "success")
	return nil
}

func (s *OrderService) fetch(ctx context.Context) error {
	orders, err := s.repo.FindAll(ctx)
	if err != nil {
		return err
	}

	for _, o := range orders {
		if !o.Status.Valid() {
			log.WithFields(log.Fields{
				"order_id":     o.ID,
				"order_number": o.OrderNumber,
				"status":       o.Status,
			}).Warn("Order has an unknown status")
		}
	}

	s.mu.Lock()
	s.orders = orders
	s.loaded = true
	counts := s.countsLocked()
	s.mu.Unlock()

	s.emit(Change{Kind: ChangeLoaded, Counts: counts, At: s.now()})
	log.WithField("orders", len(orders)).Info("Orders loaded")
	return nil
}

func (s *OrderService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Filter returns a fresh slice in cache order. FilterAll returns every order.
func (s *OrderService) Filter(f domain.Filter) []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if f.Matches(o) {
			out = append(out, o)
		}
	}
	return out
}

// Get returns the cached order with the given reference.
func (s *OrderService) Get(ref string) (domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == ref {
			return o, true
		}
	}
	return domain.Order{}, false
}

func (s *OrderService) Counts() map[domain.OrderStatus]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countsLocked()
}

func (s *OrderService) countsLocked() map[domain.OrderStatus]int {
	counts := make(map[domain.OrderStatus]int, len(domain.Statuses))
	for _, o := range s.orders {
		counts[o.Status]++
	}
	return counts
}

// ChangeStatus patches the status field remotely, then updates the matching
// cached order. It asks for no confirmation.
func (s *OrderService) ChangeStatus(ctx context.Context, n Notifier, ref string, status domain.OrderStatus) error {
	logger := log.WithFields(log.Fields{"order_id": ref, "status": status})

	if !status.Valid() {
		logger.Warn("Rejected status change")
		metrics.RecordMutation("change_status", "invalid")
		n.Notify(NotifyError, titleError, msgStatusFailed)
		return fmt.Errorf("change status of %s: %w: %q", ref, domain.ErrInvalidStatus, status)
	}

	logger.Info("Changing order status")
	if err := s.repo.UpdateStatus(ctx, ref, status); err != nil {
		logger.WithError(err).Error("Error updating order status")
		metrics.RecordMutation("change_status", "failure")
		n.Notify(NotifyError, titleError, msgStatusFailed)
		return fmt.Errorf("change status of %s: %w", ref, err)
	}

	var updated *domain.Order
	s.mu.Lock()
	for i := range s.orders {
		if s.orders[i].ID == ref {
			s.orders[i].Status = status
			o := s.orders[i]
			updated = &o
		}
	}
	counts := s.countsLocked()
	s.mu.Unlock()

	if updated == nil {
		logger.Warn("Status changed for an order missing from the cache")
	}

	metrics.RecordMutation("change_status", "success")
	s.emit(Change{Kind: ChangeStatusUpdated, Ref: ref, Status: status, Order: updated, Counts: counts, At: s.now()})
	n.Notify(NotifySuccess, titleSuccess, fmt.Sprintf("Order status updated to %s.", status))
	return nil
}

// Delete asks for confirmation first. A declined confirmation returns nil
// without touching the store or notifying.
func (s *OrderService) Delete(ctx context.Context, n Notifier, ref string) error {
	logger := log.WithField("order_id", ref)

	if !n.Confirm(ctx, ConfirmDeleteTitle, ConfirmDeleteBody) {
		logger.Info("Order delete declined")
		metrics.RecordMutation("delete", "declined")
		return nil
	}

	logger.Info("Deleting order")
	if err := s.repo.Delete(ctx, ref); err != nil {
		logger.WithError(err).Error("Error deleting order")
		metrics.RecordMutation("delete", "failure")
		n.Notify(NotifyError, titleError, msgDeleteFailed)
		return fmt.Errorf("delete %s: %w", ref, err)
	}

	var removed *domain.Order
	s.mu.Lock()
	kept := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if o.ID == ref {
			o := o
			removed = &o
			continue
		}
		kept = append(kept, o)
	}
	s.orders = kept
	counts := s.countsLocked()
	s.mu.Unlock()

	metrics.RecordMutation("delete", "success")
	s.emit(Change{Kind: ChangeDeleted, Ref: ref, Order: removed, Counts: counts, At: s.now()})
	n.Notify(NotifySuccess, titleDeleted, msgDeleted)
	return nil
}
