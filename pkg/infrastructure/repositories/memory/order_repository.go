package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vsinha/lineplan/pkg/domain/entities"
	"github.com/vsinha/lineplan/pkg/domain/repositories"
)

// OrderRepository provides in-memory order storage
type OrderRepository struct {
	mutex     sync.RWMutex
	orders    []entities.Order
	ordersMap map[entities.OrderID]int
}

// NewOrderRepository creates a new in-memory order repository
func NewOrderRepository(expectedOrders int) *OrderRepository {
	return &OrderRepository{
		orders:    make([]entities.Order, 0, expectedOrders),
		ordersMap: make(map[entities.OrderID]int, expectedOrders),
	}
}

// Verify interface compliance
var _ repositories.OrderRepository = (*OrderRepository)(nil)

// LoadOrders loads orders into the repository
func (r *OrderRepository) LoadOrders(orders []entities.Order) error {
	for _, order := range orders {
		if err := r.AddOrder(order); err != nil {
			return err
		}
	}
	return nil
}

// AddOrder adds an order to the repository
func (r *OrderRepository) AddOrder(order entities.Order) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.ordersMap[order.ID]; exists {
		return fmt.Errorf("%w: order %s", entities.ErrDuplicateKey, order.ID)
	}
	r.ordersMap[order.ID] = len(r.orders)
	r.orders = append(r.orders, order)
	return nil
}

// GetOrder returns a copy of the order
func (r *OrderRepository) GetOrder(id entities.OrderID) (*entities.Order, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	index, exists := r.ordersMap[id]
	if !exists {
		return nil, fmt.Errorf("order %s: %w", id, entities.ErrNotFound)
	}
	order := r.orders[index]
	return &order, nil
}

// GetOrdersByStatus returns copies of all orders in the given status, by due date
func (r *OrderRepository) GetOrdersByStatus(status entities.OrderStatus) ([]*entities.Order, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var orders []*entities.Order
	for i := range r.orders {
		if r.orders[i].Status == status {
			order := r.orders[i]
			orders = append(orders, &order)
		}
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].DueAt.Before(orders[j].DueAt)
	})
	return orders, nil
}

// UpdateOrderStatus sets the status of an order
func (r *OrderRepository) UpdateOrderStatus(id entities.OrderID, status entities.OrderStatus) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	index, exists := r.ordersMap[id]
	if !exists {
		return fmt.Errorf("order %s: %w", id, entities.ErrNotFound)
	}
	r.orders[index].Status = status
	return nil
}
