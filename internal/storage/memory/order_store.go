package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
	repositoryErrors "github.com/nastyazhadan/restaurant-order/shared/errors/repository"
)

type OrderStore struct {
	order map[uuid.UUID]models.Order
	mu    sync.RWMutex
}

func NewOrderStore() *OrderStore {
	return &OrderStore{
		order: make(map[uuid.UUID]models.Order, 1024),
	}
}

func (s *OrderStore) SaveOrder(ctx context.Context, order models.Order) (models.Order, error) {
	const op = "storage.OrderStore.SaveOrder"

	select {
	case <-ctx.Done():
		return models.Order{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.order[order.ID]; found {
		return models.Order{}, fmt.Errorf("%s: %w", op, repositoryErrors.ErrOrderAlreadyExists)
	}

	order.Items = append([]models.OrderItem(nil), order.Items...)
	order.ItemsPersisted = true
	s.order[order.ID] = order

	return order, nil
}

func (s *OrderStore) GetOrder(ctx context.Context, id uuid.UUID) (models.Order, error) {
	const op = "storage.OrderStore.GetOrder"

	select {
	case <-ctx.Done():
		return models.Order{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.RLock()
	result, found := s.order[id]
	s.mu.RUnlock()

	if !found {
		return models.Order{}, fmt.Errorf("%s: %w", op, repositoryErrors.ErrOrderNotFound)
	}

	return result, nil
}

func (s *OrderStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.order)
}
